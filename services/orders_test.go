package services

import (
	"errors"
	"testing"

	"github.com/Suvintm/suvineditography/models"
	"github.com/Suvintm/suvineditography/repository"
	"github.com/Suvintm/suvineditography/repository/inmemory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGateway struct {
	orderID   string
	err       error
	calls     int
	lastNotes map[string]interface{}
}

func (g *stubGateway) CreateOrder(amountPaise int64, receipt string, notes map[string]interface{}) (string, error) {
	g.calls++
	g.lastNotes = notes
	if g.err != nil {
		return "", g.err
	}
	return g.orderID, nil
}

func TestCreateOrderPersistsCreatedOrder(t *testing.T) {
	orders := inmemory.NewOrderRepository()
	gw := &stubGateway{orderID: "order_new"}
	svc := NewOrderService(orders, gw)

	order, err := svc.CreateOrder(5, 39900, 50, "Creator")
	require.NoError(t, err)

	assert.Equal(t, "order_new", order.RazorpayOrderID)
	assert.Equal(t, uint(5), order.UserID)
	assert.Equal(t, int64(39900), order.AmountPaise)
	assert.Equal(t, int64(50), order.CreditsPurchased)
	assert.Equal(t, "Creator", order.PackName)
	assert.Equal(t, models.OrderStatusCreated, order.Status)

	stored, err := orders.FindByRazorpayOrderID("order_new")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCreated, stored.Status)
}

func TestCreateOrderAttachesSettlementNotes(t *testing.T) {
	orders := inmemory.NewOrderRepository()
	gw := &stubGateway{orderID: "order_notes"}
	svc := NewOrderService(orders, gw)

	_, err := svc.CreateOrder(42, 9900, 10, "Starter")
	require.NoError(t, err)

	// The notes are what lets a webhook settle an order the local store
	// never saw, so they must carry the full attribution.
	assert.Equal(t, "42", gw.lastNotes["user_id"])
	assert.Equal(t, "10", gw.lastNotes["credits"])
	assert.Equal(t, "Starter", gw.lastNotes["pack_name"])
}

func TestCreateOrderValidatesInput(t *testing.T) {
	orders := inmemory.NewOrderRepository()
	gw := &stubGateway{orderID: "order_x"}
	svc := NewOrderService(orders, gw)

	var validationErr *ValidationError

	_, err := svc.CreateOrder(0, 9900, 10, "Starter")
	assert.ErrorAs(t, err, &validationErr)
	_, err = svc.CreateOrder(5, 0, 10, "Starter")
	assert.ErrorAs(t, err, &validationErr)
	_, err = svc.CreateOrder(5, -100, 10, "Starter")
	assert.ErrorAs(t, err, &validationErr)
	_, err = svc.CreateOrder(5, 9900, 0, "Starter")
	assert.ErrorAs(t, err, &validationErr)
	_, err = svc.CreateOrder(5, 9900, 10, "")
	assert.ErrorAs(t, err, &validationErr)

	// Validation failures never reach the gateway.
	assert.Equal(t, 0, gw.calls)
}

func TestCreateOrderGatewayFailurePersistsNothing(t *testing.T) {
	orders := inmemory.NewOrderRepository()
	gw := &stubGateway{err: errors.New("gateway unreachable")}
	svc := NewOrderService(orders, gw)

	_, err := svc.CreateOrder(5, 39900, 50, "Creator")

	var gatewayErr *GatewayError
	assert.ErrorAs(t, err, &gatewayErr)

	_, err = orders.FindByRazorpayOrderID("order_new")
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
}
