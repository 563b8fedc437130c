package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/fernbank/ledger-service/internal/models"
)

func newAccount(balance models.Money) *models.Account {
	return &models.Account{
		Number:   "40123456",
		ClientID: 7,
		Balance:  balance,
		Currency: "GBP",
		Status:   models.AccountActive,
	}
}

func TestMemoryAccountStoreGetByID(t *testing.T) {
	store := NewMemoryAccountStore()
	a := newAccount(100)
	if err := store.Create(context.Background(), a); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := store.GetByID(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Balance != 100 || got.Number != "40123456" {
		t.Errorf("unexpected account: %+v", got)
	}

	if _, err := store.GetByID(context.Background(), 999); !errors.Is(err, models.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestMemoryAccountStoreOptimisticConflict(t *testing.T) {
	store := NewMemoryAccountStore()
	a := newAccount(100)
	if err := store.Create(context.Background(), a); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Two readers load the same version.
	first, _ := store.GetByID(context.Background(), a.ID)
	second, _ := store.GetByID(context.Background(), a.ID)

	first.Balance = 50
	if err := store.Save(context.Background(), first); err != nil {
		t.Fatalf("first save failed: %v", err)
	}

	// The second writer still holds the stale version and must lose.
	second.Balance = 80
	if err := store.Save(context.Background(), second); !errors.Is(err, models.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}

	stored, _ := store.GetByID(context.Background(), a.ID)
	if stored.Balance != 50 {
		t.Errorf("losing writer modified the balance: %d", stored.Balance)
	}
}

func TestMemoryAccountStoreSaveBumpsVersion(t *testing.T) {
	store := NewMemoryAccountStore()
	a := newAccount(100)
	if err := store.Create(context.Background(), a); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, _ := store.GetByID(context.Background(), a.ID)
	v := got.Version
	if err := store.Save(context.Background(), got); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if got.Version != v+1 {
		t.Errorf("expected version %d, got %d", v+1, got.Version)
	}

	// A second save with the carried-forward version succeeds.
	if err := store.Save(context.Background(), got); err != nil {
		t.Errorf("follow-up save failed: %v", err)
	}
}

func TestMemoryAccountStoreGetByNumber(t *testing.T) {
	store := NewMemoryAccountStore()
	a := newAccount(0)
	if err := store.Create(context.Background(), a); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := store.GetByNumber(context.Background(), "40123456")
	if err != nil {
		t.Fatalf("get by number failed: %v", err)
	}
	if got.ID != a.ID {
		t.Errorf("expected account %d, got %d", a.ID, got.ID)
	}

	if _, err := store.GetByNumber(context.Background(), "49999999"); !errors.Is(err, models.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}
