package repository

import (
	"errors"
	"time"

	"github.com/Suvintm/suvineditography/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrOrderNotFound is returned when no payment order exists for an order id
var ErrOrderNotFound = errors.New("payment order not found")

// OrderRepository persists payment orders. TryTransition and CreateSettled
// are the two primitives the reconciliation engine relies on; both must be
// single indivisible storage operations so the client-verify path and the
// webhook path can race safely.
type OrderRepository interface {
	Create(order *models.PaymentOrder) error
	FindByRazorpayOrderID(orderID string) (*models.PaymentOrder, error)
	FindByID(id uint) (*models.PaymentOrder, error)

	// TryTransition atomically moves the order from fromStatus to toStatus,
	// recording the gateway payment id and signature. It reports applied=true
	// only if the order was in fromStatus at the moment of the write. A
	// missing order yields ErrOrderNotFound.
	TryTransition(orderID, fromStatus, toStatus, paymentRef, signatureRef string) (bool, *models.PaymentOrder, error)

	// CreateSettled inserts an already-paid order if no order with its
	// razorpay order id exists yet. It reports inserted=false when a
	// concurrent delivery won the insert.
	CreateSettled(order *models.PaymentOrder) (bool, error)
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository returns a Postgres-backed OrderRepository
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *models.PaymentOrder) error {
	return r.db.Create(order).Error
}

func (r *orderRepository) FindByRazorpayOrderID(orderID string) (*models.PaymentOrder, error) {
	var order models.PaymentOrder
	if err := r.db.Where("razorpay_order_id = ?", orderID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByID(id uint) (*models.PaymentOrder, error) {
	var order models.PaymentOrder
	if err := r.db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) TryTransition(orderID, fromStatus, toStatus, paymentRef, signatureRef string) (bool, *models.PaymentOrder, error) {
	now := time.Now()

	// One conditional UPDATE guarded by the current status. Never a read
	// followed by a write: RowsAffected decides who won the race.
	res := r.db.Model(&models.PaymentOrder{}).
		Where("razorpay_order_id = ? AND status = ?", orderID, fromStatus).
		Updates(map[string]interface{}{
			"status":              toStatus,
			"razorpay_payment_id": paymentRef,
			"razorpay_signature":  signatureRef,
			"settled_at":          &now,
		})
	if res.Error != nil {
		return false, nil, res.Error
	}

	order, err := r.FindByRazorpayOrderID(orderID)
	if err != nil {
		return false, nil, err
	}
	return res.RowsAffected == 1, order, nil
}

func (r *orderRepository) CreateSettled(order *models.PaymentOrder) (bool, error) {
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "razorpay_order_id"}},
		DoNothing: true,
	}).Create(order)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
