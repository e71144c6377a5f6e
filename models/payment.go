package models

import (
	"time"

	"gorm.io/gorm"
)

// PaymentOrder records one checkout attempt against the payment gateway.
// The gateway-assigned order id is the idempotency key for the whole flow:
// both settlement paths (client verify and webhook) key on it.
type PaymentOrder struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	UserID            uint           `json:"user_id" gorm:"index;not null"`
	RazorpayOrderID   string         `json:"razorpay_order_id" gorm:"uniqueIndex;not null"`
	RazorpayPaymentID string         `json:"razorpay_payment_id"`
	RazorpaySignature string         `json:"-"`
	AmountPaise       int64          `json:"amount_paise" gorm:"not null"`
	CreditsPurchased  int64          `json:"credits_purchased" gorm:"not null"`
	PackName          string         `json:"pack_name"`
	Status            string         `json:"status" gorm:"not null;default:created"`
	SettledAt         *time.Time     `json:"settled_at"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// Order status constants. Transitions are monotonic: created -> paid or
// created -> failed; both are terminal.
const (
	OrderStatusCreated = "created"
	OrderStatusPaid    = "paid"
	OrderStatusFailed  = "failed"
)
