package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fernbank/ledger-service/internal/models"
	"github.com/gin-gonic/gin"
)

// ---- mock implementations ----

type mockTransferCommander struct {
	transferFn func(ctx context.Context, fromID, toID int64, amount models.Money, description string) (*models.Transaction, error)
	singleFn   func(ctx context.Context, accountID int64, amount models.Money, description string) (*models.Transaction, error)
}

func (m *mockTransferCommander) Transfer(ctx context.Context, fromID, toID int64, amount models.Money, description string) (*models.Transaction, error) {
	if m.transferFn != nil {
		return m.transferFn(ctx, fromID, toID, amount, description)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockTransferCommander) Deposit(ctx context.Context, accountID int64, amount models.Money, description string) (*models.Transaction, error) {
	if m.singleFn != nil {
		return m.singleFn(ctx, accountID, amount, description)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockTransferCommander) Withdraw(ctx context.Context, accountID int64, amount models.Money, description string) (*models.Transaction, error) {
	if m.singleFn != nil {
		return m.singleFn(ctx, accountID, amount, description)
	}
	return nil, fmt.Errorf("not configured")
}

// ---- helpers ----

func newTransferTestRouter(cmds TransferCommander) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewTransferHandler(cmds)
	r.POST("/v1/transfers", h.CreateTransfer)
	r.POST("/v1/accounts/:accountId/deposits", h.CreateDeposit)
	r.POST("/v1/accounts/:accountId/withdrawals", h.CreateWithdrawal)
	return r
}

func doRequest(router *gin.Engine, method, url string, body interface{}) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, nil)
	if body != nil {
		b, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, url, strings.NewReader(string(b)))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

var testEntry = &models.Transaction{
	ID:     "4f9c2d8e-0000-0000-0000-000000000001",
	Type:   models.TypeTransfer,
	Amount: 300,
	Status: models.StatusCompleted, CreatedAt: time.Now(),
}

func transferBody() map[string]interface{} {
	return map[string]interface{}{"fromAccountId": 1, "toAccountId": 2, "amount": 300, "description": "rent"}
}

// ---- tests ----

func TestCreateTransfer(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		transferErr    error
		expectedStatus int
	}{
		{
			name:           "success",
			body:           transferBody(),
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "insufficient funds",
			body:           transferBody(),
			transferErr:    models.ErrInsufficientFunds,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "account not active",
			body:           transferBody(),
			transferErr:    models.ErrAccountNotActive,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "version conflict is retryable by the caller",
			body:           transferBody(),
			transferErr:    models.ErrVersionConflict,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "currency mismatch",
			body:           transferBody(),
			transferErr:    models.ErrCurrencyMismatch,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "same account",
			body:           transferBody(),
			transferErr:    models.ErrSameAccount,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "account not found",
			body:           transferBody(),
			transferErr:    models.ErrAccountNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "storage failure",
			body:           transferBody(),
			transferErr:    fmt.Errorf("ledger storage unavailable"),
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "bad request - missing fields",
			body:           map[string]interface{}{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - zero amount",
			body:           map[string]interface{}{"fromAccountId": 1, "toAccountId": 2, "amount": 0},
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := &mockTransferCommander{
				transferFn: func(ctx context.Context, fromID, toID int64, amount models.Money, description string) (*models.Transaction, error) {
					if tt.transferErr != nil {
						return nil, tt.transferErr
					}
					return testEntry, nil
				},
			}
			w := doRequest(newTransferTestRouter(cmds), http.MethodPost, "/v1/transfers", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestCreateDepositAndWithdrawal(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		body           interface{}
		singleErr      error
		expectedStatus int
	}{
		{
			name:           "deposit success",
			url:            "/v1/accounts/1/deposits",
			body:           map[string]interface{}{"amount": 250},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "withdrawal success",
			url:            "/v1/accounts/1/withdrawals",
			body:           map[string]interface{}{"amount": 100},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "withdrawal insufficient funds",
			url:            "/v1/accounts/1/withdrawals",
			body:           map[string]interface{}{"amount": 1500},
			singleErr:      models.ErrInsufficientFunds,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "invalid account id",
			url:            "/v1/accounts/abc/deposits",
			body:           map[string]interface{}{"amount": 100},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "negative amount",
			url:            "/v1/accounts/1/deposits",
			body:           map[string]interface{}{"amount": -5},
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := &mockTransferCommander{
				singleFn: func(ctx context.Context, accountID int64, amount models.Money, description string) (*models.Transaction, error) {
					if tt.singleErr != nil {
						return nil, tt.singleErr
					}
					return testEntry, nil
				},
			}
			w := doRequest(newTransferTestRouter(cmds), http.MethodPost, tt.url, tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}
