package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/fernbank/ledger-service/internal/middleware"
	"github.com/fernbank/ledger-service/internal/models"
	"github.com/gin-gonic/gin"
)

// TransferCommander defines the fund-movement operations used by TransferHandler.
type TransferCommander interface {
	Transfer(ctx context.Context, fromID, toID int64, amount models.Money, description string) (*models.Transaction, error)
	Deposit(ctx context.Context, accountID int64, amount models.Money, description string) (*models.Transaction, error)
	Withdraw(ctx context.Context, accountID int64, amount models.Money, description string) (*models.Transaction, error)
}

type TransferHandler struct {
	commands TransferCommander
}

func NewTransferHandler(commands TransferCommander) *TransferHandler {
	return &TransferHandler{commands: commands}
}

// TransferRequest carries amounts in minor currency units.
type TransferRequest struct {
	FromAccountID int64  `json:"fromAccountId" validate:"required"`
	ToAccountID   int64  `json:"toAccountId" validate:"required"`
	Amount        int64  `json:"amount" validate:"required,gt=0"`
	Description   string `json:"description"`
}

type AmountRequest struct {
	Amount      int64  `json:"amount" validate:"required,gt=0"`
	Description string `json:"description"`
}

func (h *TransferHandler) CreateTransfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	entry, err := h.commands.Transfer(c.Request.Context(), req.FromAccountID, req.ToAccountID, models.Money(req.Amount), req.Description)
	if err != nil {
		respondMovementError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *TransferHandler) CreateDeposit(c *gin.Context) {
	h.single(c, h.commands.Deposit)
}

func (h *TransferHandler) CreateWithdrawal(c *gin.Context) {
	h.single(c, h.commands.Withdraw)
}

func (h *TransferHandler) single(c *gin.Context, op func(context.Context, int64, models.Money, string) (*models.Transaction, error)) {
	accountID, err := strconv.ParseInt(c.Param("accountId"), 10, 64)
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid account id")
		return
	}

	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	entry, err := op(c.Request.Context(), accountID, models.Money(req.Amount), req.Description)
	if err != nil {
		respondMovementError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// respondMovementError maps domain outcomes onto HTTP statuses. A
// version conflict is 409: the caller may retry, the coordinator never
// does.
func respondMovementError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrAccountNotFound):
		middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
	case errors.Is(err, models.ErrInvalidAmount),
		errors.Is(err, models.ErrSameAccount),
		errors.Is(err, models.ErrCurrencyMismatch):
		middleware.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrInsufficientFunds),
		errors.Is(err, models.ErrAccountNotActive):
		middleware.RespondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrVersionConflict):
		middleware.RespondWithError(c, http.StatusConflict, "Concurrent update, please retry")
	default:
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to process transaction")
	}
}
