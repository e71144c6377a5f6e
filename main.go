package main

import (
	"log"

	"github.com/Suvintm/suvineditography/config"
	"github.com/Suvintm/suvineditography/controllers"
	"github.com/Suvintm/suvineditography/gateway"
	"github.com/Suvintm/suvineditography/repository"
	"github.com/Suvintm/suvineditography/routes"
	"github.com/Suvintm/suvineditography/services"
	"github.com/Suvintm/suvineditography/utils"
)

func main() {
	if err := utils.InitLogger(); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		utils.LogError("Error loading config: %v", err)
		log.Fatal("Error loading config:", err)
	}

	if err := config.InitDB(cfg); err != nil {
		utils.LogError("Failed to initialize database: %v", err)
		log.Fatal("Failed to initialize database:", err)
	}

	if err := controllers.EnsureSampleAdmin(config.DB); err != nil {
		utils.LogError("Failed to seed admin: %v", err)
		log.Fatal("Failed to seed admin:", err)
	}
	if err := controllers.EnsureDefaultPacks(config.DB); err != nil {
		utils.LogError("Failed to seed credit packs: %v", err)
		log.Fatal("Failed to seed credit packs:", err)
	}

	orderRepo := repository.NewOrderRepository(config.DB)
	ledgerRepo := repository.NewLedgerRepository(config.DB)

	gatewayClient := gateway.NewRazorpayClient(cfg.RazorpayKey, cfg.RazorpaySecret)
	verifier := gateway.NewSignatureVerifier(cfg.RazorpaySecret, cfg.RazorpayWebhookSecret)

	orderService := services.NewOrderService(orderRepo, gatewayClient)
	reconEngine := services.NewReconciliationEngine(orderRepo, ledgerRepo, verifier)

	router := routes.SetupRouter(routes.Controllers{
		Auth:     controllers.NewAuthController(config.DB),
		Payments: controllers.NewPaymentController(orderService, reconEngine, cfg.RazorpayKey),
		Receipts: controllers.NewReceiptController(orderRepo),
		Credits:  controllers.NewCreditController(ledgerRepo),
		Packs:    controllers.NewPackController(config.DB),
		Admin:    controllers.NewAdminController(config.DB),
	})

	utils.LogInfo("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		utils.LogError("Error starting server: %v", err)
		log.Fatal("Error starting server:", err)
	}
}
