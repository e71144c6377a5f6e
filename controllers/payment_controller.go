package controllers

import (
	"errors"
	"fmt"

	"github.com/Suvintm/suvineditography/models"
	"github.com/Suvintm/suvineditography/repository"
	"github.com/Suvintm/suvineditography/services"
	"github.com/Suvintm/suvineditography/utils"
	"github.com/gin-gonic/gin"
)

// PaymentController exposes the credit purchase flow: order creation, the
// client-side confirmation callback and the gateway webhook
type PaymentController struct {
	orders      *services.OrderService
	recon       *services.ReconciliationEngine
	razorpayKey string
}

// NewPaymentController creates a PaymentController. The Razorpay key id is
// only needed to render the checkout widget on the client.
func NewPaymentController(orders *services.OrderService, recon *services.ReconciliationEngine, razorpayKey string) *PaymentController {
	return &PaymentController{orders: orders, recon: recon, razorpayKey: razorpayKey}
}

// respondServiceError maps the service error taxonomy onto HTTP statuses
func respondServiceError(c *gin.Context, err error, message string) {
	var validationErr *services.ValidationError
	var gatewayErr *services.GatewayError

	switch {
	case errors.As(err, &validationErr):
		utils.BadRequest(c, validationErr.Message, nil)
	case errors.As(err, &gatewayErr):
		utils.BadGateway(c, "Failed to create payment order", gatewayErr.Error())
	case errors.Is(err, services.ErrInvalidSignature):
		utils.BadRequest(c, "Payment verification failed", nil)
	case errors.Is(err, repository.ErrOrderNotFound):
		utils.NotFound(c, "Payment order not found")
	case errors.Is(err, repository.ErrInsufficientBalance):
		utils.Forbidden(c, "No credits remaining")
	default:
		utils.InternalServerError(c, message, err.Error())
	}
}

// POST /orders
func (pc *PaymentController) CreateOrder(c *gin.Context) {
	utils.LogInfo("CreateOrder called")
	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
		return
	}
	user, ok := userVal.(models.User)
	if !ok {
		utils.LogError("Invalid user type in context")
		utils.BadRequest(c, "Invalid user in context", nil)
		return
	}

	var req struct {
		AmountPaise int64  `json:"amount_paise" binding:"required"`
		Credits     int64  `json:"credits" binding:"required"`
		PackName    string `json:"pack_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid create order request for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "amount_paise, credits and pack_name are required", err.Error())
		return
	}

	order, err := pc.orders.CreateOrder(user.ID, req.AmountPaise, req.Credits, req.PackName)
	if err != nil {
		respondServiceError(c, err, "Failed to create order")
		return
	}
	utils.LogInfo("Created payment order %s for user ID: %d", order.RazorpayOrderID, user.ID)

	utils.Created(c, "Payment order created successfully", gin.H{
		"order": gin.H{
			"id":                order.ID,
			"razorpay_order_id": order.RazorpayOrderID,
			"amount_paise":      order.AmountPaise,
			"credits":           order.CreditsPurchased,
			"pack_name":         order.PackName,
			"status":            order.Status,
		},
		"key": pc.razorpayKey,
		"user": gin.H{
			"name":  user.Name,
			"email": user.Email,
		},
	})
}

// POST /orders/confirm
func (pc *PaymentController) ConfirmPayment(c *gin.Context) {
	utils.LogInfo("ConfirmPayment called")
	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
		return
	}
	user, ok := userVal.(models.User)
	if !ok {
		utils.LogError("Invalid user type in context")
		utils.BadRequest(c, "Invalid user in context", nil)
		return
	}

	var req struct {
		RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
		RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
		RazorpaySignature string `json:"razorpay_signature" binding:"required"`
		Credits           int64  `json:"credits"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid confirm request for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Missing payment info", err.Error())
		return
	}

	result, err := pc.recon.Confirm(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature, req.Credits)
	if err != nil {
		respondServiceError(c, err, "Payment verification failed")
		return
	}

	data := gin.H{
		"order_id": result.Order.RazorpayOrderID,
		"status":   result.Order.Status,
		"credited": result.Credited,
	}
	message := "Payment already processed"
	if result.Credited {
		data["balance"] = result.NewBalance
		message = fmt.Sprintf("%d credits added successfully", result.Order.CreditsPurchased)
	}
	utils.Success(c, message, data)
}

// POST /webhook
//
// The raw body is read before any binding so the signature check runs over
// the exact bytes the gateway signed. A bad signature is permanent and gets
// a 400 so the gateway stops retrying; store failures get a 500 so it
// retries.
func (pc *PaymentController) Webhook(c *gin.Context) {
	utils.LogInfo("Webhook called")

	body, err := c.GetRawData()
	if err != nil {
		utils.LogError("Failed to read webhook body: %v", err)
		utils.BadRequest(c, "Unable to read request body", nil)
		return
	}
	signature := c.GetHeader("X-Razorpay-Signature")

	result, err := pc.recon.HandleWebhook(body, signature)
	if err != nil {
		var validationErr *services.ValidationError
		switch {
		case errors.Is(err, services.ErrInvalidSignature):
			utils.BadRequest(c, "Invalid signature", nil)
		case errors.As(err, &validationErr):
			utils.BadRequest(c, validationErr.Message, nil)
		default:
			utils.LogError("Webhook processing failed: %v", err)
			utils.InternalServerError(c, "Webhook processing failed", nil)
		}
		return
	}

	utils.Success(c, "ok", gin.H{
		"event":     result.Event,
		"processed": result.Processed,
	})
}
