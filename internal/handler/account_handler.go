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

// AccountCommander defines the write-side operations used by AccountHandler.
type AccountCommander interface {
	CreateAccount(ctx context.Context, clientID int64, currency string) (*models.Account, error)
	SetStatus(ctx context.Context, accountID int64, status models.AccountStatus) (*models.Account, error)
}

// AccountQuerier defines the read-side operations used by AccountHandler.
type AccountQuerier interface {
	GetAccount(ctx context.Context, id int64) (*models.Account, error)
	ListByStatus(ctx context.Context, status models.AccountStatus) ([]models.Account, error)
}

type AccountHandler struct {
	commands AccountCommander
	queries  AccountQuerier
}

func NewAccountHandler(commands AccountCommander, queries AccountQuerier) *AccountHandler {
	return &AccountHandler{commands: commands, queries: queries}
}

type CreateAccountRequest struct {
	ClientID int64  `json:"clientId" validate:"required"`
	Currency string `json:"currency" validate:"required,len=3"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE BLOCKED CLOSED"`
}

func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	account, err := h.commands.CreateAccount(c.Request.Context(), req.ClientID, req.Currency)
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to create account")
		return
	}
	c.JSON(http.StatusCreated, account)
}

func (h *AccountHandler) GetAccount(c *gin.Context) {
	accountID, err := strconv.ParseInt(c.Param("accountId"), 10, 64)
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid account id")
		return
	}

	account, err := h.queries.GetAccount(c.Request.Context(), accountID)
	if err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to get account")
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *AccountHandler) ListAccounts(c *gin.Context) {
	status := models.AccountStatus(c.DefaultQuery("status", string(models.AccountActive)))

	accounts, err := h.queries.ListByStatus(c.Request.Context(), status)
	if err != nil {
		if errors.Is(err, models.ErrInvalidStatus) {
			middleware.RespondWithError(c, http.StatusBadRequest, "Invalid account status")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

func (h *AccountHandler) UpdateStatus(c *gin.Context) {
	accountID, err := strconv.ParseInt(c.Param("accountId"), 10, 64)
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid account id")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	account, err := h.commands.SetStatus(c.Request.Context(), accountID, models.AccountStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, models.ErrAccountNotFound):
			middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
		case errors.Is(err, models.ErrInvalidStatus):
			middleware.RespondWithError(c, http.StatusBadRequest, "Invalid account status")
		case errors.Is(err, models.ErrVersionConflict):
			middleware.RespondWithError(c, http.StatusConflict, "Concurrent update, please retry")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to update account status")
		}
		return
	}
	c.JSON(http.StatusOK, account)
}
