package gateway

import (
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// RazorpayClient wraps outbound order creation against Razorpay. The key
// pair is handed in at construction; nothing here touches the environment.
type RazorpayClient struct {
	client *razorpay.Client
}

// NewRazorpayClient creates a gateway client with explicit credentials
func NewRazorpayClient(key, secret string) *RazorpayClient {
	return &RazorpayClient{client: razorpay.NewClient(key, secret)}
}

// CreateOrder registers a remote order for the given amount in paise and
// returns the gateway-assigned order id. The notes travel with the order
// and come back embedded in webhook events, which is what lets the webhook
// path reconstruct an order it has never seen.
func (c *RazorpayClient) CreateOrder(amountPaise int64, receipt string, notes map[string]interface{}) (string, error) {
	orderData := map[string]interface{}{
		"amount":          amountPaise,
		"currency":        "INR",
		"receipt":         receipt,
		"payment_capture": 1,
		"notes":           notes,
	}

	rzOrder, err := c.client.Order.Create(orderData, nil)
	if err != nil {
		return "", err
	}

	orderID, ok := rzOrder["id"].(string)
	if !ok || orderID == "" {
		return "", fmt.Errorf("gateway returned malformed order response: %v", rzOrder)
	}
	return orderID, nil
}
