package repository

import (
	"errors"
	"fmt"

	"github.com/Suvintm/suvineditography/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInsufficientBalance is returned when a debit would take a wallet negative
var ErrInsufficientBalance = errors.New("insufficient credit balance")

// LedgerRepository holds per-user credit balances. Credit and Debit are
// atomic increments executed in the store; the balance is never
// read-modified-written from application code. Idempotence of crediting is
// the caller's job (the reconciliation engine credits only on a winning
// transition).
type LedgerRepository interface {
	Credit(userID uint, amount int64, description, reference string) (int64, error)
	Debit(userID uint, amount int64, description, reference string) (int64, error)
	Balance(userID uint) (int64, error)
	Transactions(userID uint, limit, offset int) ([]models.CreditTransaction, int64, error)
}

type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository returns a Postgres-backed LedgerRepository
func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

// ensureWallet lazily creates the wallet row; ON CONFLICT DO NOTHING keeps
// concurrent first-credit calls from failing on the unique user index.
func (r *ledgerRepository) ensureWallet(userID uint) (*models.CreditWallet, error) {
	wallet := models.CreditWallet{UserID: userID}
	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&wallet).Error; err != nil {
		return nil, err
	}

	var existing models.CreditWallet
	if err := r.db.Where("user_id = ?", userID).First(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

func (r *ledgerRepository) Credit(userID uint, amount int64, description, reference string) (int64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("credit amount cannot be negative")
	}

	wallet, err := r.ensureWallet(userID)
	if err != nil {
		return 0, err
	}

	if err := r.db.Model(&models.CreditWallet{}).
		Where("user_id = ?", userID).
		Update("balance", gorm.Expr("balance + ?", amount)).Error; err != nil {
		return 0, err
	}

	txn := models.CreditTransaction{
		WalletID:    wallet.ID,
		Amount:      amount,
		Type:        models.TransactionTypeCredit,
		Description: description,
		Reference:   reference,
	}
	if err := r.db.Create(&txn).Error; err != nil {
		return 0, err
	}

	return r.Balance(userID)
}

func (r *ledgerRepository) Debit(userID uint, amount int64, description, reference string) (int64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("debit amount cannot be negative")
	}

	wallet, err := r.ensureWallet(userID)
	if err != nil {
		return 0, err
	}

	// The balance guard is part of the UPDATE itself; zero rows affected
	// means the wallet could not cover the debit.
	res := r.db.Model(&models.CreditWallet{}).
		Where("user_id = ? AND balance >= ?", userID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrInsufficientBalance
	}

	txn := models.CreditTransaction{
		WalletID:    wallet.ID,
		Amount:      amount,
		Type:        models.TransactionTypeDebit,
		Description: description,
		Reference:   reference,
	}
	if err := r.db.Create(&txn).Error; err != nil {
		return 0, err
	}

	return r.Balance(userID)
}

func (r *ledgerRepository) Balance(userID uint) (int64, error) {
	var wallet models.CreditWallet
	if err := r.db.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return wallet.Balance, nil
}

func (r *ledgerRepository) Transactions(userID uint, limit, offset int) ([]models.CreditTransaction, int64, error) {
	wallet, err := r.ensureWallet(userID)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.Model(&models.CreditTransaction{}).
		Where("wallet_id = ?", wallet.ID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var transactions []models.CreditTransaction
	if err := r.db.Where("wallet_id = ?", wallet.ID).
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&transactions).Error; err != nil {
		return nil, 0, err
	}
	return transactions, total, nil
}
