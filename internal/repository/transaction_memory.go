package repository

import (
	"context"
	"sync"
	"time"

	"github.com/fernbank/ledger-service/internal/models"
)

// MemoryTransactionLedger is a thread-safe in-memory TransactionLedger.
type MemoryTransactionLedger struct {
	mu      sync.Mutex
	entries []models.Transaction
}

func NewMemoryTransactionLedger() *MemoryTransactionLedger {
	return &MemoryTransactionLedger{}
}

func (m *MemoryTransactionLedger) Append(ctx context.Context, entry *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, *entry)
	return nil
}

func (m *MemoryTransactionLedger) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.entries {
		if e.ID == id {
			e := e
			return &e, nil
		}
	}
	return nil, models.ErrTransactionNotFound
}

func (m *MemoryTransactionLedger) List(ctx context.Context) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]models.Transaction, len(m.entries))
	copy(copied, m.entries)
	return copied, nil
}

func (m *MemoryTransactionLedger) ListByAccount(ctx context.Context, accountID int64) ([]models.Transaction, error) {
	return m.filter(func(e models.Transaction) bool {
		return (e.DebitAccountID != nil && *e.DebitAccountID == accountID) ||
			(e.CreditAccountID != nil && *e.CreditAccountID == accountID)
	})
}

func (m *MemoryTransactionLedger) ListByType(ctx context.Context, txType models.TransactionType) ([]models.Transaction, error) {
	return m.filter(func(e models.Transaction) bool { return e.Type == txType })
}

func (m *MemoryTransactionLedger) ListByAmountRange(ctx context.Context, min, max models.Money) ([]models.Transaction, error) {
	return m.filter(func(e models.Transaction) bool {
		return e.Amount >= min && e.Amount <= max
	})
}

func (m *MemoryTransactionLedger) ListByCreatedBetween(ctx context.Context, from, to time.Time) ([]models.Transaction, error) {
	return m.filter(func(e models.Transaction) bool {
		return !e.CreatedAt.Before(from) && !e.CreatedAt.After(to)
	})
}

func (m *MemoryTransactionLedger) filter(keep func(models.Transaction) bool) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []models.Transaction
	for _, e := range m.entries {
		if keep(e) {
			result = append(result, e)
		}
	}
	return result, nil
}

var _ TransactionLedger = (*MemoryTransactionLedger)(nil)
