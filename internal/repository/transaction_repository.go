package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fernbank/ledger-service/internal/models"
)

// TransactionLedger is the append-only record of completed fund
// movements. Entries are never updated or deleted; queries are pure
// reads.
type TransactionLedger interface {
	Append(ctx context.Context, entry *models.Transaction) error
	GetByID(ctx context.Context, id string) (*models.Transaction, error)
	List(ctx context.Context) ([]models.Transaction, error)
	ListByAccount(ctx context.Context, accountID int64) ([]models.Transaction, error)
	ListByType(ctx context.Context, txType models.TransactionType) ([]models.Transaction, error)
	ListByAmountRange(ctx context.Context, min, max models.Money) ([]models.Transaction, error)
	ListByCreatedBetween(ctx context.Context, from, to time.Time) ([]models.Transaction, error)
}

type PostgresTransactionLedger struct {
	db *sql.DB
}

func NewPostgresTransactionLedger(db *sql.DB) *PostgresTransactionLedger {
	return &PostgresTransactionLedger{db: db}
}

const transactionColumns = `id, debit_account_id, credit_account_id, type, amount, description, status, created_at`

func (r *PostgresTransactionLedger) Append(ctx context.Context, entry *models.Transaction) error {
	query := `
		INSERT INTO transactions (id, debit_account_id, credit_account_id, type, amount, description, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, nullID(entry.DebitAccountID), nullID(entry.CreditAccountID),
		string(entry.Type), int64(entry.Amount), entry.Description,
		string(entry.Status), entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}
	return nil
}

func (r *PostgresTransactionLedger) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	entries, err := r.query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, models.ErrTransactionNotFound
	}
	return &entries[0], nil
}

func (r *PostgresTransactionLedger) List(ctx context.Context) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions ORDER BY created_at`
	return r.query(ctx, query)
}

func (r *PostgresTransactionLedger) ListByAccount(ctx context.Context, accountID int64) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE debit_account_id = $1 OR credit_account_id = $1
		ORDER BY created_at
	`
	return r.query(ctx, query, accountID)
}

func (r *PostgresTransactionLedger) ListByType(ctx context.Context, txType models.TransactionType) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE type = $1 ORDER BY created_at`
	return r.query(ctx, query, string(txType))
}

func (r *PostgresTransactionLedger) ListByAmountRange(ctx context.Context, min, max models.Money) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE amount >= $1 AND amount <= $2
		ORDER BY created_at
	`
	return r.query(ctx, query, int64(min), int64(max))
}

func (r *PostgresTransactionLedger) ListByCreatedBetween(ctx context.Context, from, to time.Time) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE created_at >= $1 AND created_at <= $2
		ORDER BY created_at
	`
	return r.query(ctx, query, from, to)
}

func (r *PostgresTransactionLedger) query(ctx context.Context, query string, args ...any) ([]models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var entries []models.Transaction
	for rows.Next() {
		var t models.Transaction
		var debit, credit sql.NullInt64
		var txType, status string
		var amount int64
		if err := rows.Scan(&t.ID, &debit, &credit, &txType, &amount, &t.Description, &status, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if debit.Valid {
			t.DebitAccountID = &debit.Int64
		}
		if credit.Valid {
			t.CreditAccountID = &credit.Int64
		}
		t.Type = models.TransactionType(txType)
		t.Status = models.TransactionStatus(status)
		t.Amount = models.Money(amount)
		entries = append(entries, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}
	return entries, nil
}

func nullID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

var _ TransactionLedger = (*PostgresTransactionLedger)(nil)
