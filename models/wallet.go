package models

import (
	"time"

	"gorm.io/gorm"
)

// CreditWallet holds a user's credit balance. The balance is mutated only
// through the ledger repository's atomic increment/decrement, never by
// loading and saving the row from application code.
type CreditWallet struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `json:"user_id" gorm:"uniqueIndex"`
	Balance   int64          `json:"balance" gorm:"default:0"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// CreditTransaction is an append-only audit entry for a wallet mutation
type CreditTransaction struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	WalletID    uint           `json:"wallet_id" gorm:"index"`
	Wallet      CreditWallet   `json:"-" gorm:"foreignKey:WalletID"`
	Amount      int64          `json:"amount"`
	Type        string         `json:"type"` // credit, debit
	Description string         `json:"description"`
	Reference   string         `json:"reference"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TransactionType constants
const (
	TransactionTypeCredit = "credit"
	TransactionTypeDebit  = "debit"
)
