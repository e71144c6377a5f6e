package inmemory

import (
	"sync"
	"time"

	"github.com/Suvintm/suvineditography/models"
	"github.com/Suvintm/suvineditography/repository"
)

// OrderRepository is a mutex-guarded in-memory implementation of
// repository.OrderRepository. The mutex gives the same all-or-nothing
// semantics the SQL implementation gets from conditional updates.
type OrderRepository struct {
	mu     sync.Mutex
	nextID uint
	orders map[string]*models.PaymentOrder
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		nextID: 1,
		orders: make(map[string]*models.PaymentOrder),
	}
}

func (r *OrderRepository) Create(order *models.PaymentOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order.ID = r.nextID
	r.nextID++
	order.CreatedAt = time.Now()
	copied := *order
	r.orders[order.RazorpayOrderID] = &copied
	return nil
}

func (r *OrderRepository) FindByRazorpayOrderID(orderID string) (*models.PaymentOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (r *OrderRepository) FindByID(id uint) (*models.PaymentOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, order := range r.orders {
		if order.ID == id {
			copied := *order
			return &copied, nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

func (r *OrderRepository) TryTransition(orderID, fromStatus, toStatus, paymentRef, signatureRef string) (bool, *models.PaymentOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return false, nil, repository.ErrOrderNotFound
	}
	if order.Status != fromStatus {
		copied := *order
		return false, &copied, nil
	}

	now := time.Now()
	order.Status = toStatus
	order.RazorpayPaymentID = paymentRef
	order.RazorpaySignature = signatureRef
	order.SettledAt = &now
	copied := *order
	return true, &copied, nil
}

func (r *OrderRepository) CreateSettled(order *models.PaymentOrder) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[order.RazorpayOrderID]; exists {
		return false, nil
	}

	order.ID = r.nextID
	r.nextID++
	order.CreatedAt = time.Now()
	copied := *order
	r.orders[order.RazorpayOrderID] = &copied
	return true, nil
}
