package routes

import (
	"github.com/Suvintm/suvineditography/controllers"
	"github.com/Suvintm/suvineditography/middleware"
	"github.com/Suvintm/suvineditography/utils"
	"github.com/gin-gonic/gin"
)

// Controllers bundles everything SetupRouter wires up
type Controllers struct {
	Auth     *controllers.AuthController
	Payments *controllers.PaymentController
	Receipts *controllers.ReceiptController
	Credits  *controllers.CreditController
	Packs    *controllers.PackController
	Admin    *controllers.AdminController
}

// SetupRouter initializes and returns the Gin router with all routes
func SetupRouter(ctrl Controllers) *gin.Engine {
	router := gin.New()

	router.Use(utils.LoggerMiddleware())
	router.Use(utils.CORSMiddleware())
	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.SecurityHeadersMiddleware())

	// Public routes. The webhook stays outside auth: it is authenticated by
	// its signature header, and its raw body must reach the handler
	// untouched.
	router.POST("/webhook", ctrl.Payments.Webhook)

	auth := router.Group("/auth")
	{
		auth.POST("/register", ctrl.Auth.Register)
		auth.POST("/login", ctrl.Auth.Login)
	}

	router.GET("/packs", ctrl.Packs.ListPacks)

	// Authenticated user routes
	user := router.Group("/")
	user.Use(middleware.AuthMiddleware())
	{
		user.POST("/orders", ctrl.Payments.CreateOrder)
		user.POST("/orders/confirm", ctrl.Payments.ConfirmPayment)
		user.GET("/orders/:id/receipt", ctrl.Receipts.DownloadReceipt)

		user.GET("/credits/balance", ctrl.Credits.GetBalance)
		user.GET("/credits/transactions", ctrl.Credits.GetTransactions)
		user.POST("/credits/spend", ctrl.Credits.Spend)
	}

	// Admin routes
	admin := router.Group("/admin")
	{
		admin.POST("/login", ctrl.Admin.Login)

		protected := admin.Group("/")
		protected.Use(middleware.AdminAuthMiddleware())
		{
			protected.GET("/orders", ctrl.Admin.ListOrders)
			protected.GET("/orders/export", ctrl.Admin.ExportOrdersExcel)

			protected.POST("/packs", ctrl.Packs.CreatePack)
			protected.PUT("/packs/:id", ctrl.Packs.UpdatePack)
			protected.DELETE("/packs/:id", ctrl.Packs.DeletePack)
		}
	}

	return router
}
