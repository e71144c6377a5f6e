package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Suvintm/suvineditography/models"
	"github.com/Suvintm/suvineditography/repository/inmemory"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCreditTestRouter(ledger *inmemory.LedgerRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cc := NewCreditController(ledger)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user", models.User{Model: gorm.Model{ID: 8}, Name: "Ravi", Email: "ravi@example.com"})
		c.Next()
	})
	router.GET("/credits/balance", cc.GetBalance)
	router.GET("/credits/transactions", cc.GetTransactions)
	router.POST("/credits/spend", cc.Spend)
	return router
}

func TestGetBalance(t *testing.T) {
	ledger := inmemory.NewLedgerRepository()
	_, err := ledger.Credit(8, 120, "Credit pack purchase: Creator", "PAY-abc")
	require.NoError(t, err)
	router := newCreditTestRouter(ledger)

	req := httptest.NewRequest(http.MethodGet, "/credits/balance", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(120), data["credit"])
	assert.Equal(t, "ravi@example.com", data["email"])
}

func TestSpendDebitsBalance(t *testing.T) {
	ledger := inmemory.NewLedgerRepository()
	_, err := ledger.Credit(8, 50, "Credit pack purchase: Creator", "PAY-abc")
	require.NoError(t, err)
	router := newCreditTestRouter(ledger)

	body, _ := json.Marshal(gin.H{"amount": 20, "description": "Background removal"})
	req := httptest.NewRequest(http.MethodPost, "/credits/spend", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(30), data["credit"])

	balance, _ := ledger.Balance(8)
	assert.Equal(t, int64(30), balance)
}

func TestSpendRejectsOverdraft(t *testing.T) {
	ledger := inmemory.NewLedgerRepository()
	_, err := ledger.Credit(8, 10, "Credit pack purchase: Starter", "PAY-abc")
	require.NoError(t, err)
	router := newCreditTestRouter(ledger)

	body, _ := json.Marshal(gin.H{"amount": 11})
	req := httptest.NewRequest(http.MethodPost, "/credits/spend", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)

	// The failed spend must not touch the balance.
	balance, _ := ledger.Balance(8)
	assert.Equal(t, int64(10), balance)
}

func TestSpendValidatesAmount(t *testing.T) {
	ledger := inmemory.NewLedgerRepository()
	router := newCreditTestRouter(ledger)

	for _, payload := range []gin.H{{}, {"amount": 0}, {"amount": -5}} {
		body, _ := json.Marshal(payload)
		req := httptest.NewRequest(http.MethodPost, "/credits/spend", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestGetTransactionsHistory(t *testing.T) {
	ledger := inmemory.NewLedgerRepository()
	_, err := ledger.Credit(8, 50, "Credit pack purchase: Creator", "PAY-1")
	require.NoError(t, err)
	_, err = ledger.Debit(8, 5, "Premium tool usage", "SPEND-1")
	require.NoError(t, err)
	router := newCreditTestRouter(ledger)

	req := httptest.NewRequest(http.MethodGet, "/credits/transactions", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	txns := data["transactions"].([]interface{})
	require.Len(t, txns, 2)

	first := txns[0].(map[string]interface{})
	assert.Equal(t, models.TransactionTypeCredit, first["type"])
	assert.Equal(t, float64(50), first["amount"])
	second := txns[1].(map[string]interface{})
	assert.Equal(t, models.TransactionTypeDebit, second["type"])
}
