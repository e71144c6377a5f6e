package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignatureVerifier checks the two HMAC-SHA256 signature schemes Razorpay
// uses: the checkout callback signs "{orderId}|{paymentId}" with the key
// secret, and webhooks sign the exact raw request body with the webhook
// secret. Verification never errors; anything that does not match, including
// a missing or malformed signature, is simply false.
type SignatureVerifier struct {
	checkoutSecret []byte
	webhookSecret  []byte
}

// NewSignatureVerifier creates a verifier with explicit shared secrets
func NewSignatureVerifier(checkoutSecret, webhookSecret string) *SignatureVerifier {
	return &SignatureVerifier{
		checkoutSecret: []byte(checkoutSecret),
		webhookSecret:  []byte(webhookSecret),
	}
}

// VerifyCheckout verifies the client-confirmation signature for an order and
// payment id pair
func (v *SignatureVerifier) VerifyCheckout(orderID, paymentID, signature string) bool {
	if orderID == "" || paymentID == "" || signature == "" {
		return false
	}
	expected := digest(v.checkoutSecret, []byte(orderID+"|"+paymentID))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyWebhook verifies the gateway signature header over the raw webhook
// body. The body must be the exact bytes received on the wire; a
// re-serialized JSON document will not produce the same digest.
func (v *SignatureVerifier) VerifyWebhook(rawBody []byte, signature string) bool {
	if len(rawBody) == 0 || signature == "" {
		return false
	}
	expected := digest(v.webhookSecret, rawBody)
	return hmac.Equal([]byte(expected), []byte(signature))
}

func digest(secret, material []byte) string {
	h := hmac.New(sha256.New, secret)
	h.Write(material)
	return hex.EncodeToString(h.Sum(nil))
}
