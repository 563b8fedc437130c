package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fernbank/ledger-service/internal/middleware"
	"github.com/fernbank/ledger-service/internal/models"
	"github.com/fernbank/ledger-service/internal/query"
	"github.com/gin-gonic/gin"
)

// TransactionQuerier defines the ledger read operations used by TransactionHandler.
type TransactionQuerier interface {
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
	ListByAccount(ctx context.Context, accountID int64) ([]models.Transaction, error)
	Search(ctx context.Context, f query.Filter) ([]models.Transaction, error)
}

type TransactionHandler struct {
	queries TransactionQuerier
}

func NewTransactionHandler(queries TransactionQuerier) *TransactionHandler {
	return &TransactionHandler{queries: queries}
}

type ListTransactionsResponse struct {
	Transactions []models.Transaction `json:"transactions"`
}

func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	entry, err := h.queries.GetTransaction(c.Request.Context(), c.Param("transactionId"))
	if err != nil {
		if errors.Is(err, models.ErrTransactionNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "Transaction not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to get transaction")
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *TransactionHandler) ListAccountTransactions(c *gin.Context) {
	accountID, err := strconv.ParseInt(c.Param("accountId"), 10, 64)
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid account id")
		return
	}

	entries, err := h.queries.ListByAccount(c.Request.Context(), accountID)
	if err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, ListTransactionsResponse{Transactions: entries})
}

// SearchTransactions filters the ledger by type, amount range and date
// range, all optional.
func (h *TransactionHandler) SearchTransactions(c *gin.Context) {
	var f query.Filter

	if t := c.Query("type"); t != "" {
		txType := models.TransactionType(t)
		if !txType.Valid() {
			middleware.RespondWithError(c, http.StatusBadRequest, "Invalid transaction type")
			return
		}
		f.Type = txType
	}
	if v, ok, err := parseAmount(c.Query("minAmount")); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid minAmount")
		return
	} else if ok {
		f.MinAmount = &v
	}
	if v, ok, err := parseAmount(c.Query("maxAmount")); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid maxAmount")
		return
	} else if ok {
		f.MaxAmount = &v
	}
	if ts, ok, err := parseTime(c.Query("from")); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid from timestamp")
		return
	} else if ok {
		f.From = &ts
	}
	if ts, ok, err := parseTime(c.Query("to")); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid to timestamp")
		return
	} else if ok {
		f.To = &ts
	}

	entries, err := h.queries.Search(c.Request.Context(), f)
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to search transactions")
		return
	}
	c.JSON(http.StatusOK, ListTransactionsResponse{Transactions: entries})
}

func parseAmount(raw string) (models.Money, bool, error) {
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return models.Money(v), true, nil
}

func parseTime(raw string) (time.Time, bool, error) {
	if raw == "" {
		return time.Time{}, false, nil
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false, err
	}
	return ts, true, nil
}
