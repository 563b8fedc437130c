package query

import (
	"context"

	"github.com/fernbank/ledger-service/internal/models"
	"github.com/fernbank/ledger-service/internal/redisclient"
	"github.com/fernbank/ledger-service/internal/repository"
)

// AccountQueryService serves account reads, consulting the Redis view
// cache before the write store. cache may be nil.
type AccountQueryService struct {
	accounts repository.AccountStore
	cache    *redisclient.ViewCache[models.Account]
}

func NewAccountQueryService(accounts repository.AccountStore, cache *redisclient.ViewCache[models.Account]) *AccountQueryService {
	return &AccountQueryService{accounts: accounts, cache: cache}
}

func (s *AccountQueryService) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	key := accountKey(id)
	if s.cache != nil {
		if view, ok := s.cache.Get(ctx, key); ok {
			return view, nil
		}
	}

	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, key, account)
	}
	return account, nil
}

func (s *AccountQueryService) ListByStatus(ctx context.Context, status models.AccountStatus) ([]models.Account, error) {
	if !status.Valid() {
		return nil, models.ErrInvalidStatus
	}
	return s.accounts.ListByStatus(ctx, status)
}
