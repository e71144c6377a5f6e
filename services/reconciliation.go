package services

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/Suvintm/suvineditography/models"
	"github.com/Suvintm/suvineditography/repository"
	"github.com/Suvintm/suvineditography/utils"
)

// Gateway event types that settle an order
const (
	EventPaymentCaptured = "payment.captured"
	EventPaymentFailed   = "payment.failed"
)

// SignatureVerifier checks both payment signature schemes
type SignatureVerifier interface {
	VerifyCheckout(orderID, paymentID, signature string) bool
	VerifyWebhook(rawBody []byte, signature string) bool
}

// ReconciliationEngine resolves the two settlement channels, the client's
// verify call and the gateway webhook, into a single crediting. Both paths
// end in the same conditional transition on the order store; whichever
// arrives first wins it and credits the ledger, the other observes
// applied=false and mutates nothing.
type ReconciliationEngine struct {
	orders   repository.OrderRepository
	ledger   repository.LedgerRepository
	verifier SignatureVerifier
}

// NewReconciliationEngine creates a ReconciliationEngine
func NewReconciliationEngine(orders repository.OrderRepository, ledger repository.LedgerRepository, verifier SignatureVerifier) *ReconciliationEngine {
	return &ReconciliationEngine{orders: orders, ledger: ledger, verifier: verifier}
}

// ConfirmResult reports the outcome of a settlement attempt
type ConfirmResult struct {
	Order      *models.PaymentOrder
	Credited   bool
	NewBalance int64
}

// Confirm is the client-confirmation settlement path. A losing race against
// the webhook is not an error: the order is already settled and the call
// succeeds as a no-op.
func (e *ReconciliationEngine) Confirm(orderID, paymentID, signature string, creditsClaimed int64) (*ConfirmResult, error) {
	if orderID == "" || paymentID == "" || signature == "" {
		return nil, NewValidationError("order id, payment id and signature are required")
	}

	order, err := e.orders.FindByRazorpayOrderID(orderID)
	if err != nil {
		return nil, err
	}

	if !e.verifier.VerifyCheckout(orderID, paymentID, signature) {
		utils.LogError("Checkout signature verification failed for order %s", orderID)
		return nil, ErrInvalidSignature
	}

	applied, order, err := e.orders.TryTransition(orderID, models.OrderStatusCreated, models.OrderStatusPaid, paymentID, signature)
	if err != nil {
		return nil, err
	}
	if !applied {
		utils.LogInfo("Order %s already settled (status %s), confirm is a no-op", orderID, order.Status)
		return &ConfirmResult{Order: order}, nil
	}

	// The stored order decides how many credits are granted. The caller's
	// claim is accepted on the wire for compatibility but never trusted.
	if creditsClaimed != 0 && creditsClaimed != order.CreditsPurchased {
		utils.LogError("Credits claim mismatch on order %s: claimed %d, stored %d", orderID, creditsClaimed, order.CreditsPurchased)
	}

	newBalance, err := e.ledger.Credit(order.UserID, order.CreditsPurchased, "Credit pack purchase: "+order.PackName, "PAY-"+paymentID)
	if err != nil {
		return nil, err
	}
	utils.LogInfo("Credited %d credits to user ID: %d for order %s", order.CreditsPurchased, order.UserID, orderID)

	return &ConfirmResult{Order: order, Credited: true, NewBalance: newBalance}, nil
}

// webhookEvent mirrors the slice of the gateway payload this engine consumes
type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string            `json:"id"`
				OrderID string            `json:"order_id"`
				Amount  int64             `json:"amount"`
				Notes   map[string]string `json:"notes"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// WebhookResult reports how a webhook delivery was handled
type WebhookResult struct {
	Event      string
	Processed  bool
	Credited   bool
	NewBalance int64
	Order      *models.PaymentOrder
}

// HandleWebhook is the server-to-server settlement path. The signature is
// checked over the raw body bytes before anything is parsed. Event types
// other than payment.captured and payment.failed are acknowledged and
// ignored.
func (e *ReconciliationEngine) HandleWebhook(rawBody []byte, signature string) (*WebhookResult, error) {
	if !e.verifier.VerifyWebhook(rawBody, signature) {
		utils.LogError("Webhook signature verification failed")
		return nil, ErrInvalidSignature
	}

	var event webhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return nil, NewValidationError("malformed webhook payload")
	}

	switch event.Event {
	case EventPaymentCaptured:
		return e.settleCaptured(&event, signature)
	case EventPaymentFailed:
		return e.markFailed(&event, signature)
	default:
		utils.LogDebug("Ignoring webhook event type %s", event.Event)
		return &WebhookResult{Event: event.Event}, nil
	}
}

func (e *ReconciliationEngine) settleCaptured(event *webhookEvent, signature string) (*WebhookResult, error) {
	entity := event.Payload.Payment.Entity
	if entity.OrderID == "" {
		return nil, NewValidationError("webhook event missing order id")
	}

	applied, order, err := e.orders.TryTransition(entity.OrderID, models.OrderStatusCreated, models.OrderStatusPaid, entity.ID, signature)
	if errors.Is(err, repository.ErrOrderNotFound) {
		// The client-side creation step never completed; settle from the
		// metadata embedded in the event.
		return e.settleUnknownOrder(event, signature)
	}
	if err != nil {
		return nil, err
	}

	result := &WebhookResult{Event: event.Event, Processed: true, Order: order}
	if !applied {
		utils.LogInfo("Order %s already settled (status %s), webhook is a no-op", entity.OrderID, order.Status)
		return result, nil
	}

	newBalance, err := e.ledger.Credit(order.UserID, order.CreditsPurchased, "Credit pack purchase: "+order.PackName, "PAY-"+entity.ID)
	if err != nil {
		return nil, err
	}
	utils.LogInfo("Webhook credited %d credits to user ID: %d for order %s", order.CreditsPurchased, order.UserID, entity.OrderID)

	result.Credited = true
	result.NewBalance = newBalance
	return result, nil
}

func (e *ReconciliationEngine) settleUnknownOrder(event *webhookEvent, signature string) (*WebhookResult, error) {
	entity := event.Payload.Payment.Entity

	userID, err := strconv.ParseUint(entity.Notes["user_id"], 10, 64)
	if err != nil || userID == 0 {
		return nil, NewValidationError("webhook event has no user attribution for unknown order " + entity.OrderID)
	}
	credits, err := strconv.ParseInt(entity.Notes["credits"], 10, 64)
	if err != nil || credits <= 0 {
		return nil, NewValidationError("webhook event has no credit amount for unknown order " + entity.OrderID)
	}

	now := time.Now()
	order := &models.PaymentOrder{
		UserID:            uint(userID),
		RazorpayOrderID:   entity.OrderID,
		RazorpayPaymentID: entity.ID,
		RazorpaySignature: signature,
		AmountPaise:       entity.Amount,
		CreditsPurchased:  credits,
		PackName:          entity.Notes["pack_name"],
		Status:            models.OrderStatusPaid,
		SettledAt:         &now,
	}

	inserted, err := e.orders.CreateSettled(order)
	if err != nil {
		return nil, err
	}

	result := &WebhookResult{Event: event.Event, Processed: true, Order: order}
	if !inserted {
		// A concurrent delivery of the same event won the insert; treat
		// exactly like a lost transition race.
		utils.LogInfo("Order %s inserted concurrently, duplicate webhook is a no-op", entity.OrderID)
		return result, nil
	}

	newBalance, err := e.ledger.Credit(order.UserID, credits, "Credit pack purchase: "+order.PackName, "PAY-"+entity.ID)
	if err != nil {
		return nil, err
	}
	utils.LogInfo("Webhook materialized paid order %s and credited %d credits to user ID: %d", entity.OrderID, credits, order.UserID)

	result.Credited = true
	result.NewBalance = newBalance
	return result, nil
}

func (e *ReconciliationEngine) markFailed(event *webhookEvent, signature string) (*WebhookResult, error) {
	entity := event.Payload.Payment.Entity
	if entity.OrderID == "" {
		return nil, NewValidationError("webhook event missing order id")
	}

	applied, order, err := e.orders.TryTransition(entity.OrderID, models.OrderStatusCreated, models.OrderStatusFailed, entity.ID, signature)
	if errors.Is(err, repository.ErrOrderNotFound) {
		// Nothing to fail; acknowledge so the gateway stops retrying.
		return &WebhookResult{Event: event.Event}, nil
	}
	if err != nil {
		return nil, err
	}
	if applied {
		utils.LogInfo("Order %s marked failed from webhook", entity.OrderID)
	}
	return &WebhookResult{Event: event.Event, Processed: applied, Order: order}, nil
}
