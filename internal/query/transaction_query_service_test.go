package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fernbank/ledger-service/internal/models"
	"github.com/fernbank/ledger-service/internal/repository"
)

func ptrInt64(v int64) *int64 { return &v }

func ptrMoney(v models.Money) *models.Money { return &v }

func ptrTime(v time.Time) *time.Time { return &v }

func seedLedger(t *testing.T) (*TransactionQueryService, int64) {
	t.Helper()
	accounts := repository.NewMemoryAccountStore()
	ledger := repository.NewMemoryTransactionLedger()

	acc := &models.Account{Number: "40000001", ClientID: 1, Balance: 1000, Currency: "GBP", Status: models.AccountActive}
	if err := accounts.Create(context.Background(), acc); err != nil {
		t.Fatalf("seed account: %v", err)
	}

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	entries := []models.Transaction{
		{ID: "t-1", CreditAccountID: ptrInt64(acc.ID), Type: models.TypeDeposit, Amount: 500, Status: models.StatusCompleted, CreatedAt: base},
		{ID: "t-2", DebitAccountID: ptrInt64(acc.ID), Type: models.TypeWithdrawal, Amount: 200, Status: models.StatusCompleted, CreatedAt: base.Add(time.Hour)},
		{ID: "t-3", DebitAccountID: ptrInt64(acc.ID), CreditAccountID: ptrInt64(acc.ID + 1), Type: models.TypeTransfer, Amount: 50, Status: models.StatusCompleted, CreatedAt: base.Add(2 * time.Hour)},
	}
	for i := range entries {
		if err := ledger.Append(context.Background(), &entries[i]); err != nil {
			t.Fatalf("seed ledger: %v", err)
		}
	}
	return NewTransactionQueryService(ledger, accounts), acc.ID
}

func TestGetTransaction(t *testing.T) {
	svc, _ := seedLedger(t)

	got, err := svc.GetTransaction(context.Background(), "t-2")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Type != models.TypeWithdrawal || got.Amount != 200 {
		t.Errorf("unexpected entry: %+v", got)
	}

	if _, err := svc.GetTransaction(context.Background(), "missing"); !errors.Is(err, models.ErrTransactionNotFound) {
		t.Errorf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestListByAccount(t *testing.T) {
	svc, accountID := seedLedger(t)

	entries, err := svc.ListByAccount(context.Background(), accountID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
}

func TestListByAccountUnknownAccount(t *testing.T) {
	svc, _ := seedLedger(t)

	if _, err := svc.ListByAccount(context.Background(), 999); !errors.Is(err, models.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestSearch(t *testing.T) {
	svc, _ := seedLedger(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		filter  Filter
		wantIDs []string
	}{
		{
			name:    "no filter returns everything",
			filter:  Filter{},
			wantIDs: []string{"t-1", "t-2", "t-3"},
		},
		{
			name:    "by type",
			filter:  Filter{Type: models.TypeDeposit},
			wantIDs: []string{"t-1"},
		},
		{
			name:    "amount range",
			filter:  Filter{MinAmount: ptrMoney(100), MaxAmount: ptrMoney(300)},
			wantIDs: []string{"t-2"},
		},
		{
			name:    "minimum amount only",
			filter:  Filter{MinAmount: ptrMoney(100)},
			wantIDs: []string{"t-1", "t-2"},
		},
		{
			name:    "time window",
			filter:  Filter{From: ptrTime(base.Add(30 * time.Minute)), To: ptrTime(base.Add(90 * time.Minute))},
			wantIDs: []string{"t-2"},
		},
		{
			name:    "type and minimum amount combined",
			filter:  Filter{Type: models.TypeTransfer, MinAmount: ptrMoney(100)},
			wantIDs: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Search(context.Background(), tt.filter)
			if err != nil {
				t.Fatalf("search failed: %v", err)
			}
			ids := make([]string, 0, len(got))
			for _, e := range got {
				ids = append(ids, e.ID)
			}
			if len(ids) != len(tt.wantIDs) {
				t.Fatalf("expected %v, got %v", tt.wantIDs, ids)
			}
			for i := range ids {
				if ids[i] != tt.wantIDs[i] {
					t.Fatalf("expected %v, got %v", tt.wantIDs, ids)
				}
			}
		})
	}
}
