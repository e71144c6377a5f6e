package services

import (
	"strconv"

	"github.com/Suvintm/suvineditography/models"
	"github.com/Suvintm/suvineditography/repository"
	"github.com/Suvintm/suvineditography/utils"
	"github.com/google/uuid"
)

// GatewayClient creates remote orders with the payment gateway
type GatewayClient interface {
	CreateOrder(amountPaise int64, receipt string, notes map[string]interface{}) (string, error)
}

// OrderService handles the order creation side of the purchase flow. It
// never touches the ledger; crediting belongs to the reconciliation engine.
type OrderService struct {
	orders  repository.OrderRepository
	gateway GatewayClient
}

// NewOrderService creates an OrderService
func NewOrderService(orders repository.OrderRepository, gateway GatewayClient) *OrderService {
	return &OrderService{orders: orders, gateway: gateway}
}

// CreateOrder registers a remote order with the gateway and persists the
// local record in status created. On a gateway failure nothing is
// persisted, so no orphaned order row exists that could never be paid.
func (s *OrderService) CreateOrder(userID uint, amountPaise, credits int64, packName string) (*models.PaymentOrder, error) {
	if userID == 0 {
		return nil, NewValidationError("user is required")
	}
	if amountPaise <= 0 {
		return nil, NewValidationError("amount must be greater than zero")
	}
	if credits <= 0 {
		return nil, NewValidationError("credits must be greater than zero")
	}
	if packName == "" {
		return nil, NewValidationError("pack name is required")
	}

	receipt := "rcpt_" + uuid.New().String()[:13]

	// The notes ride along with the gateway order and come back inside
	// webhook events; they are what lets the webhook path settle an order
	// whose local record was never written.
	notes := map[string]interface{}{
		"user_id":   strconv.FormatUint(uint64(userID), 10),
		"credits":   strconv.FormatInt(credits, 10),
		"pack_name": packName,
	}

	orderID, err := s.gateway.CreateOrder(amountPaise, receipt, notes)
	if err != nil {
		utils.LogError("Failed to create gateway order for user ID: %d: %v", userID, err)
		return nil, &GatewayError{Err: err}
	}
	utils.LogInfo("Created gateway order %s for user ID: %d", orderID, userID)

	order := &models.PaymentOrder{
		UserID:           userID,
		RazorpayOrderID:  orderID,
		AmountPaise:      amountPaise,
		CreditsPurchased: credits,
		PackName:         packName,
		Status:           models.OrderStatusCreated,
	}
	if err := s.orders.Create(order); err != nil {
		utils.LogError("Failed to persist order %s for user ID: %d: %v", orderID, userID, err)
		return nil, err
	}

	return order, nil
}
