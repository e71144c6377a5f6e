package controllers

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/Suvintm/suvineditography/models"
	"github.com/Suvintm/suvineditography/repository"
	"github.com/Suvintm/suvineditography/utils"
	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
)

// ReceiptController serves downloadable receipts for settled orders
type ReceiptController struct {
	orders repository.OrderRepository
}

// NewReceiptController creates a ReceiptController
func NewReceiptController(orders repository.OrderRepository) *ReceiptController {
	return &ReceiptController{orders: orders}
}

// GET /orders/:id/receipt
func (rc *ReceiptController) DownloadReceipt(c *gin.Context) {
	utils.LogInfo("DownloadReceipt called")
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

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequest(c, "Invalid order id", nil)
		return
	}

	order, err := rc.orders.FindByID(uint(orderID))
	if err != nil || order.UserID != user.ID {
		utils.LogError("Order %d not found for user ID: %d", orderID, user.ID)
		utils.NotFound(c, "Order not found")
		return
	}

	if order.Status != models.OrderStatusPaid {
		utils.BadRequest(c, "Receipt is only available for paid orders", nil)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "SuvinEditography - Payment Receipt")
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 11)
	rows := [][2]string{
		{"Receipt for", user.Name},
		{"Email", user.Email},
		{"Order ID", order.RazorpayOrderID},
		{"Payment ID", order.RazorpayPaymentID},
		{"Pack", order.PackName},
		{"Credits", strconv.FormatInt(order.CreditsPurchased, 10)},
		{"Amount", fmt.Sprintf("INR %.2f", float64(order.AmountPaise)/100)},
		{"Status", order.Status},
	}
	if order.SettledAt != nil {
		rows = append(rows, [2]string{"Settled at", order.SettledAt.Format("2006-01-02 15:04:05")})
	}
	for _, row := range rows {
		pdf.CellFormat(40, 8, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 8, row[1], "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.LogError("Failed to generate receipt PDF for order %d: %v", order.ID, err)
		utils.InternalServerError(c, "Failed to generate receipt", err.Error())
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%s.pdf", order.RazorpayOrderID))
	c.Data(200, "application/pdf", buf.Bytes())
}
