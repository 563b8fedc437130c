package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fernbank/ledger-service/internal/models"
)

// AccountStore is versioned read/write access to accounts. There is
// deliberately no direct balance-mutation method: balances change only
// through Save, and Save only succeeds when the caller's version token
// still matches the stored row.
type AccountStore interface {
	GetByID(ctx context.Context, id int64) (*models.Account, error)
	GetByNumber(ctx context.Context, number string) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) error
	Save(ctx context.Context, account *models.Account) error
	ListByStatus(ctx context.Context, status models.AccountStatus) ([]models.Account, error)
}

// PostgresAccountStore operates against the PostgreSQL write store
// (source of truth).
type PostgresAccountStore struct {
	db *sql.DB
}

func NewPostgresAccountStore(db *sql.DB) *PostgresAccountStore {
	return &PostgresAccountStore{db: db}
}

func (r *PostgresAccountStore) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	query := `
		SELECT id, account_number, client_id, balance, currency, status, version, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresAccountStore) GetByNumber(ctx context.Context, number string) (*models.Account, error) {
	query := `
		SELECT id, account_number, client_id, balance, currency, status, version, created_at, updated_at
		FROM accounts
		WHERE account_number = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, number))
}

func (r *PostgresAccountStore) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (account_number, client_id, balance, currency, status, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		account.Number, account.ClientID, int64(account.Balance), account.Currency,
		string(account.Status), account.Version, account.CreatedAt, account.UpdatedAt,
	).Scan(&account.ID)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// Save persists the account using its version token. A row update that
// matches id but not version means another writer committed first.
func (r *PostgresAccountStore) Save(ctx context.Context, account *models.Account) error {
	query := `
		UPDATE accounts
		SET balance = $3, status = $4, version = version + 1, updated_at = $5
		WHERE id = $1 AND version = $2
	`
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx, query,
		account.ID, account.Version, int64(account.Balance), string(account.Status), now,
	)
	if err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return models.ErrVersionConflict
	}
	account.Version++
	account.UpdatedAt = now
	return nil
}

func (r *PostgresAccountStore) ListByStatus(ctx context.Context, status models.AccountStatus) ([]models.Account, error) {
	query := `
		SELECT id, account_number, client_id, balance, currency, status, version, created_at, updated_at
		FROM accounts
		WHERE status = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		var balance int64
		var st string
		if err := rows.Scan(&a.ID, &a.Number, &a.ClientID, &balance, &a.Currency, &st, &a.Version, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		a.Balance = models.Money(balance)
		a.Status = models.AccountStatus(st)
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read accounts: %w", err)
	}
	return accounts, nil
}

func (r *PostgresAccountStore) scanOne(row *sql.Row) (*models.Account, error) {
	var a models.Account
	var balance int64
	var st string
	err := row.Scan(&a.ID, &a.Number, &a.ClientID, &balance, &a.Currency, &st, &a.Version, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	a.Balance = models.Money(balance)
	a.Status = models.AccountStatus(st)
	return &a, nil
}

var _ AccountStore = (*PostgresAccountStore)(nil)
