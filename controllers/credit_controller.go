package controllers

import (
	"errors"
	"fmt"

	"github.com/Suvintm/suvineditography/models"
	"github.com/Suvintm/suvineditography/repository"
	"github.com/Suvintm/suvineditography/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreditController exposes the user's credit balance, transaction history
// and the spend endpoint paid tools call to consume credits
type CreditController struct {
	ledger repository.LedgerRepository
}

// NewCreditController creates a CreditController
func NewCreditController(ledger repository.LedgerRepository) *CreditController {
	return &CreditController{ledger: ledger}
}

// GET /credits/balance
func (cc *CreditController) GetBalance(c *gin.Context) {
	utils.LogInfo("GetBalance called")
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

	balance, err := cc.ledger.Balance(user.ID)
	if err != nil {
		utils.LogError("Failed to get balance for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to get credit balance", err.Error())
		return
	}

	utils.Success(c, "User credit fetched successfully", gin.H{
		"name":   user.Name,
		"email":  user.Email,
		"credit": balance,
	})
}

// GET /credits/transactions
func (cc *CreditController) GetTransactions(c *gin.Context) {
	utils.LogInfo("GetTransactions called")
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

	pagination := utils.NewPagination(c)
	transactions, total, err := cc.ledger.Transactions(user.ID, pagination.Limit, pagination.Offset)
	if err != nil {
		utils.LogError("Failed to get transactions for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to get transactions", err.Error())
		return
	}

	formatted := make([]gin.H, len(transactions))
	for i, txn := range transactions {
		formatted[i] = gin.H{
			"id":          txn.ID,
			"amount":      txn.Amount,
			"type":        txn.Type,
			"description": txn.Description,
			"reference":   txn.Reference,
			"created_at":  txn.CreatedAt.Format("2006-01-02 15:04:05"),
		}
	}

	utils.SuccessWithPagination(c, "Credit transactions retrieved successfully", gin.H{
		"transactions": formatted,
	}, total, pagination.Page, pagination.Limit)
}

// POST /credits/spend
//
// Called by paid tools to consume credits. The guarded decrement in the
// ledger is what keeps a balance from going negative under concurrent
// spends.
func (cc *CreditController) Spend(c *gin.Context) {
	utils.LogInfo("Spend called")
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
		Amount      int64  `json:"amount" binding:"required,min=1"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid spend request for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Amount is required and must be positive", err.Error())
		return
	}

	description := req.Description
	if description == "" {
		description = "Premium tool usage"
	}
	reference := "SPEND-" + uuid.New().String()[:8]

	newBalance, err := cc.ledger.Debit(user.ID, req.Amount, description, reference)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientBalance) {
			utils.LogError("Insufficient balance for user ID: %d", user.ID)
			utils.Forbidden(c, "No credits remaining")
			return
		}
		utils.LogError("Failed to debit credits for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to spend credits", err.Error())
		return
	}
	utils.LogInfo("Debited %d credits from user ID: %d", req.Amount, user.ID)

	utils.Success(c, fmt.Sprintf("%d credits spent", req.Amount), gin.H{
		"credit":    newBalance,
		"reference": reference,
	})
}
