package controllers

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Suvintm/suvineditography/models"
	"github.com/Suvintm/suvineditography/utils"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// AdminController handles admin login and the payment order back office
type AdminController struct {
	db *gorm.DB
}

// NewAdminController creates an AdminController
func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{db: db}
}

// POST /admin/login
func (ac *AdminController) Login(c *gin.Context) {
	utils.LogInfo("Admin Login called")

	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid admin login request: %v", err)
		utils.BadRequest(c, "Email and password are required", err.Error())
		return
	}

	var admin models.Admin
	if err := ac.db.Where("email = ?", req.Email).First(&admin).Error; err != nil {
		utils.LogError("Admin login failed, not found: %s", req.Email)
		utils.Unauthorized(c, "Invalid credentials")
		return
	}

	if !utils.CheckPassword(req.Password, admin.Password) {
		utils.LogError("Admin login failed, wrong password: %d", admin.ID)
		utils.Unauthorized(c, "Invalid credentials")
		return
	}

	if !admin.IsActive {
		utils.Forbidden(c, "Admin account is inactive")
		return
	}

	ac.db.Model(&admin).Update("last_login", time.Now())

	token, err := utils.GenerateAdminToken(&admin)
	if err != nil {
		utils.LogError("Failed to generate admin token: %v", err)
		utils.InternalServerError(c, "Failed to generate token", nil)
		return
	}
	utils.LogInfo("Admin logged in successfully: %d", admin.ID)

	utils.Success(c, "Admin logged in successfully", gin.H{
		"token": token,
		"admin": gin.H{
			"id":    admin.ID,
			"email": admin.Email,
		},
	})
}

// GET /admin/orders
func (ac *AdminController) ListOrders(c *gin.Context) {
	utils.LogInfo("Admin ListOrders called")

	pagination := utils.NewPagination(c)
	status := c.Query("status")

	query := ac.db.Model(&models.PaymentOrder{})
	if status != "" {
		if status != models.OrderStatusCreated && status != models.OrderStatusPaid && status != models.OrderStatusFailed {
			utils.BadRequest(c, "Invalid status filter", "Status must be created, paid or failed")
			return
		}
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count orders: %v", err)
		utils.InternalServerError(c, "Failed to count orders", err.Error())
		return
	}

	var orders []models.PaymentOrder
	if err := query.Order("created_at DESC").
		Limit(pagination.Limit).Offset(pagination.Offset).
		Find(&orders).Error; err != nil {
		utils.LogError("Failed to fetch orders: %v", err)
		utils.InternalServerError(c, "Failed to fetch orders", err.Error())
		return
	}

	utils.SuccessWithPagination(c, "Payment orders retrieved successfully", gin.H{
		"orders": orders,
	}, total, pagination.Page, pagination.Limit)
}

// GET /admin/orders/export
//
// Downloads payment orders for a period as an Excel sheet
func (ac *AdminController) ExportOrdersExcel(c *gin.Context) {
	utils.LogInfo("ExportOrdersExcel called")

	period := c.DefaultQuery("period", "day")

	now := time.Now()
	var startDate, endDate time.Time
	switch period {
	case "day":
		startDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		endDate = startDate.Add(24 * time.Hour)
	case "week":
		endDate = now.Add(24 * time.Hour)
		startDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -6)
	case "month":
		endDate = now.Add(24 * time.Hour)
		startDate = now.AddDate(0, 0, -30).Truncate(24 * time.Hour)
	default:
		utils.LogError("Invalid period specified: %s", period)
		utils.BadRequest(c, "Invalid period", "Period must be day, week, or month")
		return
	}

	var orders []models.PaymentOrder
	if err := ac.db.Where("created_at >= ? AND created_at < ?", startDate, endDate).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		utils.LogError("Failed to fetch orders for export: %v", err)
		utils.InternalServerError(c, "Failed to fetch orders", err.Error())
		return
	}
	utils.LogDebug("Retrieved %d orders for Excel export", len(orders))

	var summary struct {
		TotalOrders  int
		PaidOrders   int
		TotalCredits int64
		RevenuePaise int64
	}
	for _, order := range orders {
		summary.TotalOrders++
		if order.Status == models.OrderStatusPaid {
			summary.PaidOrders++
			summary.TotalCredits += order.CreditsPurchased
			summary.RevenuePaise += order.AmountPaise
		}
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Payment Orders")
	if err != nil {
		utils.LogError("Failed to create Excel sheet: %v", err)
		utils.InternalServerError(c, "Failed to create Excel sheet", err.Error())
		return
	}

	title := sheet.AddRow()
	title.AddCell().Value = fmt.Sprintf("Payment orders report (%s) - %s", period, now.Format("2006-01-02"))

	summaryRow := sheet.AddRow()
	summaryRow.AddCell().Value = fmt.Sprintf("Orders: %d", summary.TotalOrders)
	summaryRow.AddCell().Value = fmt.Sprintf("Paid: %d", summary.PaidOrders)
	summaryRow.AddCell().Value = fmt.Sprintf("Credits sold: %d", summary.TotalCredits)
	summaryRow.AddCell().Value = fmt.Sprintf("Revenue: INR %.2f", float64(summary.RevenuePaise)/100)
	sheet.AddRow()

	header := sheet.AddRow()
	for _, col := range []string{"Order ID", "User ID", "Pack", "Credits", "Amount (INR)", "Status", "Payment ID", "Created At", "Settled At"} {
		header.AddCell().Value = col
	}

	for _, order := range orders {
		row := sheet.AddRow()
		row.AddCell().Value = order.RazorpayOrderID
		row.AddCell().Value = strconv.FormatUint(uint64(order.UserID), 10)
		row.AddCell().Value = order.PackName
		row.AddCell().Value = strconv.FormatInt(order.CreditsPurchased, 10)
		row.AddCell().Value = fmt.Sprintf("%.2f", float64(order.AmountPaise)/100)
		row.AddCell().Value = order.Status
		row.AddCell().Value = order.RazorpayPaymentID
		row.AddCell().Value = order.CreatedAt.Format("2006-01-02 15:04:05")
		if order.SettledAt != nil {
			row.AddCell().Value = order.SettledAt.Format("2006-01-02 15:04:05")
		} else {
			row.AddCell().Value = "-"
		}
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=payment-orders-%s.xlsx", now.Format("2006-01-02")))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := file.Write(c.Writer); err != nil {
		utils.LogError("Failed to write Excel file: %v", err)
	}
}

// EnsureSampleAdmin seeds an initial admin account from the environment so
// a fresh deployment has a way into the back office
func EnsureSampleAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Admin{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		utils.LogInfo("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	admin := models.Admin{
		Email:    email,
		Password: hashed,
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	utils.LogInfo("Seeded admin account %s", email)
	return nil
}
