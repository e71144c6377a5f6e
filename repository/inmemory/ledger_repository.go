package inmemory

import (
	"fmt"
	"sync"
	"time"

	"github.com/Suvintm/suvineditography/models"
	"github.com/Suvintm/suvineditography/repository"
)

// LedgerRepository is a mutex-guarded in-memory implementation of
// repository.LedgerRepository
type LedgerRepository struct {
	mu           sync.Mutex
	nextID       uint
	balances     map[uint]int64
	transactions map[uint][]models.CreditTransaction
}

func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{
		nextID:       1,
		balances:     make(map[uint]int64),
		transactions: make(map[uint][]models.CreditTransaction),
	}
}

func (r *LedgerRepository) Credit(userID uint, amount int64, description, reference string) (int64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("credit amount cannot be negative")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.balances[userID] += amount
	r.record(userID, amount, models.TransactionTypeCredit, description, reference)
	return r.balances[userID], nil
}

func (r *LedgerRepository) Debit(userID uint, amount int64, description, reference string) (int64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("debit amount cannot be negative")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.balances[userID] < amount {
		return 0, repository.ErrInsufficientBalance
	}
	r.balances[userID] -= amount
	r.record(userID, amount, models.TransactionTypeDebit, description, reference)
	return r.balances[userID], nil
}

func (r *LedgerRepository) Balance(userID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.balances[userID], nil
}

func (r *LedgerRepository) Transactions(userID uint, limit, offset int) ([]models.CreditTransaction, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := r.transactions[userID]
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	out := make([]models.CreditTransaction, end-offset)
	copy(out, all[offset:end])
	return out, total, nil
}

func (r *LedgerRepository) record(userID uint, amount int64, txnType, description, reference string) {
	txn := models.CreditTransaction{
		ID:          r.nextID,
		WalletID:    userID,
		Amount:      amount,
		Type:        txnType,
		Description: description,
		Reference:   reference,
		CreatedAt:   time.Now(),
	}
	r.nextID++
	r.transactions[userID] = append(r.transactions[userID], txn)
}
