package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"testing"

	"github.com/Suvintm/suvineditography/gateway"
	"github.com/Suvintm/suvineditography/models"
	"github.com/Suvintm/suvineditography/repository"
	"github.com/Suvintm/suvineditography/repository/inmemory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testCheckoutSecret = "test-checkout-secret"
	testWebhookSecret  = "test-webhook-secret"
)

func signWith(secret string, material []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(material)
	return hex.EncodeToString(h.Sum(nil))
}

func checkoutSignature(orderID, paymentID string) string {
	return signWith(testCheckoutSecret, []byte(orderID+"|"+paymentID))
}

func capturedWebhookBody(orderID, paymentID string, amountPaise int64, notes string) []byte {
	return []byte(fmt.Sprintf(
		`{"event":"payment.captured","payload":{"payment":{"entity":{"id":%q,"order_id":%q,"amount":%d,"notes":{%s}}}}}`,
		paymentID, orderID, amountPaise, notes))
}

func newTestEngine() (*ReconciliationEngine, *inmemory.OrderRepository, *inmemory.LedgerRepository) {
	orders := inmemory.NewOrderRepository()
	ledger := inmemory.NewLedgerRepository()
	verifier := gateway.NewSignatureVerifier(testCheckoutSecret, testWebhookSecret)
	return NewReconciliationEngine(orders, ledger, verifier), orders, ledger
}

func seedOrder(t *testing.T, orders *inmemory.OrderRepository, orderID string, userID uint, credits int64) {
	t.Helper()
	err := orders.Create(&models.PaymentOrder{
		UserID:           userID,
		RazorpayOrderID:  orderID,
		AmountPaise:      50000,
		CreditsPurchased: credits,
		PackName:         "Creator",
		Status:           models.OrderStatusCreated,
	})
	require.NoError(t, err)
}

func TestConfirmCreditsExactlyOnce(t *testing.T) {
	engine, orders, ledger := newTestEngine()
	seedOrder(t, orders, "order_1", 7, 50)

	sig := checkoutSignature("order_1", "pay_1")

	result, err := engine.Confirm("order_1", "pay_1", sig, 50)
	require.NoError(t, err)
	assert.True(t, result.Credited)
	assert.Equal(t, int64(50), result.NewBalance)
	assert.Equal(t, models.OrderStatusPaid, result.Order.Status)
	assert.Equal(t, "pay_1", result.Order.RazorpayPaymentID)

	// A second identical confirm is a success no-op.
	result, err = engine.Confirm("order_1", "pay_1", sig, 50)
	require.NoError(t, err)
	assert.False(t, result.Credited)

	balance, _ := ledger.Balance(7)
	assert.Equal(t, int64(50), balance)
}

func TestConfirmRepeatedCallsCreditOnce(t *testing.T) {
	engine, orders, ledger := newTestEngine()
	seedOrder(t, orders, "order_n", 3, 25)

	sig := checkoutSignature("order_n", "pay_n")
	for i := 0; i < 10; i++ {
		_, err := engine.Confirm("order_n", "pay_n", sig, 25)
		require.NoError(t, err)
	}

	balance, _ := ledger.Balance(3)
	assert.Equal(t, int64(25), balance)
}

func TestConfirmRejectsTamperedSignature(t *testing.T) {
	engine, orders, ledger := newTestEngine()
	seedOrder(t, orders, "order_2", 7, 50)

	// Signature computed over a different payment id.
	sig := checkoutSignature("order_2", "pay_original")

	_, err := engine.Confirm("order_2", "pay_tampered", sig, 50)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	// No state change: the order is still created and nothing was credited.
	order, findErr := orders.FindByRazorpayOrderID("order_2")
	require.NoError(t, findErr)
	assert.Equal(t, models.OrderStatusCreated, order.Status)

	balance, _ := ledger.Balance(7)
	assert.Equal(t, int64(0), balance)
}

func TestConfirmUnknownOrder(t *testing.T) {
	engine, _, _ := newTestEngine()

	sig := checkoutSignature("order_missing", "pay_1")
	_, err := engine.Confirm("order_missing", "pay_1", sig, 50)
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
}

func TestConfirmValidatesInput(t *testing.T) {
	engine, _, _ := newTestEngine()

	var validationErr *ValidationError
	_, err := engine.Confirm("", "pay_1", "sig", 0)
	assert.ErrorAs(t, err, &validationErr)
	_, err = engine.Confirm("order_1", "", "sig", 0)
	assert.ErrorAs(t, err, &validationErr)
	_, err = engine.Confirm("order_1", "pay_1", "", 0)
	assert.ErrorAs(t, err, &validationErr)
}

func TestConfirmCreditsStoredAmountNotClaim(t *testing.T) {
	engine, orders, ledger := newTestEngine()
	seedOrder(t, orders, "order_3", 9, 50)

	sig := checkoutSignature("order_3", "pay_3")

	// The caller claims 5000 credits; only the stored 50 are granted.
	result, err := engine.Confirm("order_3", "pay_3", sig, 5000)
	require.NoError(t, err)
	assert.True(t, result.Credited)
	assert.Equal(t, int64(50), result.NewBalance)

	balance, _ := ledger.Balance(9)
	assert.Equal(t, int64(50), balance)
}

func TestWebhookSettlesKnownOrder(t *testing.T) {
	engine, orders, ledger := newTestEngine()
	seedOrder(t, orders, "order_4", 11, 50)

	body := capturedWebhookBody("order_4", "pay_4", 50000, `"user_id":"11","credits":"50","pack_name":"Creator"`)
	sig := signWith(testWebhookSecret, body)

	result, err := engine.HandleWebhook(body, sig)
	require.NoError(t, err)
	assert.True(t, result.Processed)
	assert.True(t, result.Credited)
	assert.Equal(t, int64(50), result.NewBalance)

	// A confirm arriving after the webhook is a no-op.
	confirmSig := checkoutSignature("order_4", "pay_4")
	confirmResult, err := engine.Confirm("order_4", "pay_4", confirmSig, 50)
	require.NoError(t, err)
	assert.False(t, confirmResult.Credited)

	balance, _ := ledger.Balance(11)
	assert.Equal(t, int64(50), balance)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	engine, orders, ledger := newTestEngine()
	seedOrder(t, orders, "order_5", 13, 50)

	body := capturedWebhookBody("order_5", "pay_5", 50000, `"user_id":"13","credits":"50"`)
	sig := signWith(testWebhookSecret, body)

	// Flip one byte of the body after signing.
	mutated := make([]byte, len(body))
	copy(mutated, body)
	mutated[len(mutated)/2] ^= 0x01

	_, err := engine.HandleWebhook(mutated, sig)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	order, _ := orders.FindByRazorpayOrderID("order_5")
	assert.Equal(t, models.OrderStatusCreated, order.Status)
	balance, _ := ledger.Balance(13)
	assert.Equal(t, int64(0), balance)
}

func TestWebhookIgnoresOtherEventTypes(t *testing.T) {
	engine, orders, ledger := newTestEngine()
	seedOrder(t, orders, "order_6", 17, 50)

	body := []byte(`{"event":"payment.authorized","payload":{"payment":{"entity":{"id":"pay_6","order_id":"order_6"}}}}`)
	sig := signWith(testWebhookSecret, body)

	result, err := engine.HandleWebhook(body, sig)
	require.NoError(t, err)
	assert.False(t, result.Processed)
	assert.False(t, result.Credited)

	order, _ := orders.FindByRazorpayOrderID("order_6")
	assert.Equal(t, models.OrderStatusCreated, order.Status)
	balance, _ := ledger.Balance(17)
	assert.Equal(t, int64(0), balance)
}

func TestWebhookMaterializesUnknownOrder(t *testing.T) {
	engine, orders, ledger := newTestEngine()

	body := capturedWebhookBody("order_ghost", "pay_7", 39900, `"user_id":"21","credits":"50","pack_name":"Creator"`)
	sig := signWith(testWebhookSecret, body)

	result, err := engine.HandleWebhook(body, sig)
	require.NoError(t, err)
	assert.True(t, result.Credited)
	assert.Equal(t, int64(50), result.NewBalance)

	order, err := orders.FindByRazorpayOrderID("order_ghost")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, order.Status)
	assert.Equal(t, uint(21), order.UserID)
	assert.Equal(t, int64(39900), order.AmountPaise)
	assert.Equal(t, "Creator", order.PackName)
	require.NotNil(t, order.SettledAt)

	// Redelivery of the same event must not credit again.
	result, err = engine.HandleWebhook(body, sig)
	require.NoError(t, err)
	assert.False(t, result.Credited)

	balance, _ := ledger.Balance(21)
	assert.Equal(t, int64(50), balance)
}

func TestWebhookUnknownOrderWithoutNotes(t *testing.T) {
	engine, orders, _ := newTestEngine()

	body := capturedWebhookBody("order_anon", "pay_8", 9900, ``)
	sig := signWith(testWebhookSecret, body)

	var validationErr *ValidationError
	_, err := engine.HandleWebhook(body, sig)
	assert.ErrorAs(t, err, &validationErr)

	_, err = orders.FindByRazorpayOrderID("order_anon")
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
}

func TestWebhookFailedEventIsTerminal(t *testing.T) {
	engine, orders, ledger := newTestEngine()
	seedOrder(t, orders, "order_9", 23, 50)

	body := []byte(`{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_9","order_id":"order_9"}}}}`)
	sig := signWith(testWebhookSecret, body)

	result, err := engine.HandleWebhook(body, sig)
	require.NoError(t, err)
	assert.True(t, result.Processed)
	assert.False(t, result.Credited)

	order, _ := orders.FindByRazorpayOrderID("order_9")
	assert.Equal(t, models.OrderStatusFailed, order.Status)

	// failed is terminal: a later confirm cannot resurrect the order.
	confirmSig := checkoutSignature("order_9", "pay_9")
	confirmResult, err := engine.Confirm("order_9", "pay_9", confirmSig, 50)
	require.NoError(t, err)
	assert.False(t, confirmResult.Credited)
	assert.Equal(t, models.OrderStatusFailed, confirmResult.Order.Status)

	balance, _ := ledger.Balance(23)
	assert.Equal(t, int64(0), balance)
}

func TestWebhookFailedEventForUnknownOrderIsAcked(t *testing.T) {
	engine, _, _ := newTestEngine()

	body := []byte(`{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_x","order_id":"order_unknown"}}}}`)
	sig := signWith(testWebhookSecret, body)

	result, err := engine.HandleWebhook(body, sig)
	require.NoError(t, err)
	assert.False(t, result.Processed)
}

func TestConcurrentConfirmAndWebhookCreditOnce(t *testing.T) {
	engine, orders, ledger := newTestEngine()
	seedOrder(t, orders, "order_race", 31, 50)

	confirmSig := checkoutSignature("order_race", "pay_race")
	body := capturedWebhookBody("order_race", "pay_race", 50000, `"user_id":"31","credits":"50","pack_name":"Creator"`)
	webhookSig := signWith(testWebhookSecret, body)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := engine.Confirm("order_race", "pay_race", confirmSig, 50)
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := engine.HandleWebhook(body, webhookSig)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	balance, _ := ledger.Balance(31)
	assert.Equal(t, int64(50), balance)

	order, _ := orders.FindByRazorpayOrderID("order_race")
	assert.Equal(t, models.OrderStatusPaid, order.Status)
}

func TestConcurrentUnknownOrderWebhooksCreditOnce(t *testing.T) {
	engine, orders, ledger := newTestEngine()

	body := capturedWebhookBody("order_dup", "pay_dup", 50000, `"user_id":"37","credits":"50","pack_name":"Creator"`)
	sig := signWith(testWebhookSecret, body)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.HandleWebhook(body, sig)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	balance, _ := ledger.Balance(37)
	assert.Equal(t, int64(50), balance)

	order, err := orders.FindByRazorpayOrderID("order_dup")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, order.Status)
}
