package command

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/fernbank/ledger-service/internal/events"
	"github.com/fernbank/ledger-service/internal/models"
	"github.com/fernbank/ledger-service/internal/repository"
	"github.com/google/uuid"
)

// EventPublisher is the write-side event sink. Publishing is
// best-effort: a failed publish never fails a committed operation.
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// TransferCoordinator executes transfers, deposits and withdrawals as
// atomic units: the balance changes and the ledger entry commit
// together or not at all.
//
// Two layers guard concurrent mutation. A process-wide map of
// per-account mutexes, always acquired in ascending account-id order,
// serializes coordinator operations touching the same accounts. The
// store's version token remains the commit arbiter, so a writer outside
// this process still surfaces as ErrVersionConflict rather than a lost
// update.
type TransferCoordinator struct {
	accounts  repository.AccountStore
	ledger    repository.TransactionLedger
	publisher EventPublisher

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewTransferCoordinator creates a coordinator. publisher may be nil.
func NewTransferCoordinator(accounts repository.AccountStore, ledger repository.TransactionLedger, publisher EventPublisher) *TransferCoordinator {
	return &TransferCoordinator{
		accounts:  accounts,
		ledger:    ledger,
		publisher: publisher,
		locks:     make(map[int64]*sync.Mutex),
	}
}

func (s *TransferCoordinator) lockFor(accountID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.locks[accountID]; !ok {
		s.locks[accountID] = &sync.Mutex{}
	}
	return s.locks[accountID]
}

// lockPair acquires both account locks in ascending-id order. The same
// order is applied on every code path, so two transfers touching the
// same pair in opposite directions cannot deadlock.
func (s *TransferCoordinator) lockPair(a, b int64) func() {
	if b < a {
		a, b = b, a
	}
	first, second := s.lockFor(a), s.lockFor(b)
	first.Lock()
	second.Lock()
	return func() {
		second.Unlock()
		first.Unlock()
	}
}

// Transfer moves amount from one account to another. No partial
// transfer is ever observable: on any failure both persisted balances
// equal their pre-call values and no ledger entry exists.
func (s *TransferCoordinator) Transfer(ctx context.Context, fromID, toID int64, amount models.Money, description string) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, models.ErrInvalidAmount
	}
	if fromID == toID {
		return nil, models.ErrSameAccount
	}

	unlock := s.lockPair(fromID, toID)
	defer unlock()

	from, err := s.accounts.GetByID(ctx, fromID)
	if err != nil {
		return nil, err
	}
	to, err := s.accounts.GetByID(ctx, toID)
	if err != nil {
		return nil, err
	}

	if from.Status != models.AccountActive || to.Status != models.AccountActive {
		return nil, models.ErrAccountNotActive
	}
	if from.Currency != to.Currency {
		return nil, models.ErrCurrencyMismatch
	}
	if from.Balance < amount {
		return nil, models.ErrInsufficientFunds
	}

	from.Balance -= amount
	to.Balance += amount

	// Persist in ascending-id order, mirroring the lock order. The
	// deltas undo each save if a later step fails.
	first, second := from, to
	firstDelta, secondDelta := amount, -amount
	if to.ID < from.ID {
		first, second = to, from
		firstDelta, secondDelta = -amount, amount
	}
	if err := s.accounts.Save(ctx, first); err != nil {
		return nil, err
	}
	if err := s.accounts.Save(ctx, second); err != nil {
		s.undo(ctx, first, firstDelta)
		return nil, err
	}

	entry := &models.Transaction{
		ID:              uuid.NewString(),
		DebitAccountID:  &from.ID,
		CreditAccountID: &to.ID,
		Type:            models.TypeTransfer,
		Amount:          amount,
		Description:     description,
		Status:          models.StatusCompleted,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.ledger.Append(ctx, entry); err != nil {
		s.undo(ctx, second, secondDelta)
		s.undo(ctx, first, firstDelta)
		return nil, err
	}

	s.publishEntry(ctx, entry)
	s.publishBalance(ctx, from, -amount)
	s.publishBalance(ctx, to, amount)
	return entry, nil
}

// Deposit credits amount to a single account.
func (s *TransferCoordinator) Deposit(ctx context.Context, accountID int64, amount models.Money, description string) (*models.Transaction, error) {
	return s.single(ctx, accountID, amount, description, models.TypeDeposit)
}

// Withdraw debits amount from a single account, subject to the same
// sufficient-funds rule as transfers.
func (s *TransferCoordinator) Withdraw(ctx context.Context, accountID int64, amount models.Money, description string) (*models.Transaction, error) {
	return s.single(ctx, accountID, amount, description, models.TypeWithdrawal)
}

func (s *TransferCoordinator) single(ctx context.Context, accountID int64, amount models.Money, description string, txType models.TransactionType) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, models.ErrInvalidAmount
	}

	lock := s.lockFor(accountID)
	lock.Lock()
	defer lock.Unlock()

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.Status != models.AccountActive {
		return nil, models.ErrAccountNotActive
	}

	var change models.Money
	entry := &models.Transaction{
		ID:          uuid.NewString(),
		Type:        txType,
		Amount:      amount,
		Description: description,
		Status:      models.StatusCompleted,
		CreatedAt:   time.Now().UTC(),
	}
	switch txType {
	case models.TypeDeposit:
		change = amount
		entry.CreditAccountID = &account.ID
	case models.TypeWithdrawal:
		if account.Balance < amount {
			return nil, models.ErrInsufficientFunds
		}
		change = -amount
		entry.DebitAccountID = &account.ID
	default:
		return nil, models.ErrInvalidAmount
	}

	account.Balance += change
	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, err
	}
	if err := s.ledger.Append(ctx, entry); err != nil {
		s.undo(ctx, account, -change)
		return nil, err
	}

	s.publishEntry(ctx, entry)
	s.publishBalance(ctx, account, change)
	return entry, nil
}

// SetStatus applies an administrative status change through the same
// per-account lock and version check as fund movements.
func (s *TransferCoordinator) SetStatus(ctx context.Context, accountID int64, status models.AccountStatus) (*models.Account, error) {
	if !status.Valid() {
		return nil, models.ErrInvalidStatus
	}

	lock := s.lockFor(accountID)
	lock.Lock()
	defer lock.Unlock()

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.Status == status {
		return account, nil
	}
	account.Status = status
	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.AccountEventsStream, events.AccountStatusChanged, events.AccountStatusChangedEvent{
			AccountID: account.ID,
			Status:    string(account.Status),
		}); err != nil {
			log.Printf("Failed to publish account.status_changed event: %v", err)
		}
	}
	return account, nil
}

// undo restores a previously saved balance. The account carries the
// version from its own successful save and the per-account lock is
// still held, so the compensating save cannot race another coordinator
// writer.
func (s *TransferCoordinator) undo(ctx context.Context, account *models.Account, delta models.Money) {
	account.Balance += delta
	if err := s.accounts.Save(ctx, account); err != nil {
		log.Printf("Failed to roll back balance for account %d: %v", account.ID, err)
	}
}

func (s *TransferCoordinator) publishEntry(ctx context.Context, entry *models.Transaction) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.TransactionEventsStream, events.TransactionCompleted, events.TransactionCompletedEvent{
		TransactionID:   entry.ID,
		DebitAccountID:  entry.DebitAccountID,
		CreditAccountID: entry.CreditAccountID,
		Type:            string(entry.Type),
		Amount:          int64(entry.Amount),
	}); err != nil {
		log.Printf("Failed to publish transaction.completed event: %v", err)
	}
}

func (s *TransferCoordinator) publishBalance(ctx context.Context, account *models.Account, change models.Money) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.AccountEventsStream, events.BalanceUpdated, events.BalanceUpdatedEvent{
		AccountID:  account.ID,
		NewBalance: int64(account.Balance),
		Change:     int64(change),
	}); err != nil {
		log.Printf("Failed to publish balance.updated event: %v", err)
	}
}
