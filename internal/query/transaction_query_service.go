package query

import (
	"context"
	"time"

	"github.com/fernbank/ledger-service/internal/models"
	"github.com/fernbank/ledger-service/internal/repository"
)

// Filter narrows a ledger search. Zero-valued fields are ignored.
type Filter struct {
	Type      models.TransactionType
	MinAmount *models.Money
	MaxAmount *models.Money
	From      *time.Time
	To        *time.Time
}

// TransactionQueryService serves ledger reads. All operations are pure
// reads with no side effects.
type TransactionQueryService struct {
	ledger   repository.TransactionLedger
	accounts repository.AccountStore
}

func NewTransactionQueryService(ledger repository.TransactionLedger, accounts repository.AccountStore) *TransactionQueryService {
	return &TransactionQueryService{ledger: ledger, accounts: accounts}
}

func (s *TransactionQueryService) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	return s.ledger.GetByID(ctx, id)
}

// ListByAccount returns the account's fund movements, oldest first.
func (s *TransactionQueryService) ListByAccount(ctx context.Context, accountID int64) ([]models.Transaction, error) {
	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		return nil, err
	}
	return s.ledger.ListByAccount(ctx, accountID)
}

// Search fetches the narrowest stored slice for the filter, then
// applies the remaining criteria in memory.
func (s *TransactionQueryService) Search(ctx context.Context, f Filter) ([]models.Transaction, error) {
	var (
		entries []models.Transaction
		err     error
	)
	switch {
	case f.From != nil && f.To != nil:
		entries, err = s.ledger.ListByCreatedBetween(ctx, *f.From, *f.To)
	case f.MinAmount != nil && f.MaxAmount != nil:
		entries, err = s.ledger.ListByAmountRange(ctx, *f.MinAmount, *f.MaxAmount)
	case f.Type != "":
		entries, err = s.ledger.ListByType(ctx, f.Type)
	default:
		entries, err = s.ledger.List(ctx)
	}
	if err != nil {
		return nil, err
	}

	var result []models.Transaction
	for _, e := range entries {
		if f.Type != "" && e.Type != f.Type {
			continue
		}
		if f.MinAmount != nil && e.Amount < *f.MinAmount {
			continue
		}
		if f.MaxAmount != nil && e.Amount > *f.MaxAmount {
			continue
		}
		if f.From != nil && e.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && e.CreatedAt.After(*f.To) {
			continue
		}
		result = append(result, e)
	}
	return result, nil
}
