package command

import (
	"context"
	"log"
	"time"

	"github.com/fernbank/ledger-service/internal/events"
	"github.com/fernbank/ledger-service/internal/models"
	"github.com/fernbank/ledger-service/internal/repository"
	"github.com/fernbank/ledger-service/internal/utils"
)

// AccountService opens accounts and routes administrative status
// changes through the coordinator. Balance mutation is not offered
// here; that is the coordinator's job.
type AccountService struct {
	accounts    repository.AccountStore
	coordinator *TransferCoordinator
	publisher   EventPublisher
}

func NewAccountService(accounts repository.AccountStore, coordinator *TransferCoordinator, publisher EventPublisher) *AccountService {
	return &AccountService{accounts: accounts, coordinator: coordinator, publisher: publisher}
}

// SetStatus delegates to the coordinator so the change takes the same
// per-account lock and version check as fund movements.
func (s *AccountService) SetStatus(ctx context.Context, accountID int64, status models.AccountStatus) (*models.Account, error) {
	return s.coordinator.SetStatus(ctx, accountID, status)
}

func (s *AccountService) CreateAccount(ctx context.Context, clientID int64, currency string) (*models.Account, error) {
	now := time.Now().UTC()
	account := &models.Account{
		Number:    utils.GenerateAccountNumber(),
		ClientID:  clientID,
		Balance:   0,
		Currency:  currency,
		Status:    models.AccountActive,
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.AccountEventsStream, events.AccountCreated, events.AccountCreatedEvent{
			AccountID: account.ID,
			Number:    account.Number,
			ClientID:  account.ClientID,
			Currency:  account.Currency,
		}); err != nil {
			log.Printf("Failed to publish account.created event: %v", err)
		}
	}
	return account, nil
}
