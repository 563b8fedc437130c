package repository

import (
	"context"
	"sync"
	"time"

	"github.com/fernbank/ledger-service/internal/models"
)

// MemoryAccountStore is an in-memory AccountStore with the same
// optimistic-versioning contract as the PostgreSQL store. Used in tests
// and local runs without a database.
type MemoryAccountStore struct {
	mu       sync.Mutex
	accounts map[int64]models.Account
	nextID   int64
}

func NewMemoryAccountStore() *MemoryAccountStore {
	return &MemoryAccountStore{accounts: make(map[int64]models.Account), nextID: 1}
}

func (m *MemoryAccountStore) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[id]
	if !ok {
		return nil, models.ErrAccountNotFound
	}
	return &a, nil
}

func (m *MemoryAccountStore) GetByNumber(ctx context.Context, number string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.accounts {
		if a.Number == number {
			a := a
			return &a, nil
		}
	}
	return nil, models.ErrAccountNotFound
}

func (m *MemoryAccountStore) Create(ctx context.Context, account *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	account.ID = m.nextID
	m.nextID++
	m.accounts[account.ID] = *account
	return nil
}

func (m *MemoryAccountStore) Save(ctx context.Context, account *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.accounts[account.ID]
	if !ok {
		return models.ErrAccountNotFound
	}
	if stored.Version != account.Version {
		return models.ErrVersionConflict
	}
	account.Version++
	account.UpdatedAt = time.Now().UTC()
	m.accounts[account.ID] = *account
	return nil
}

func (m *MemoryAccountStore) ListByStatus(ctx context.Context, status models.AccountStatus) ([]models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var accounts []models.Account
	for _, a := range m.accounts {
		if a.Status == status {
			accounts = append(accounts, a)
		}
	}
	return accounts, nil
}

var _ AccountStore = (*MemoryAccountStore)(nil)
