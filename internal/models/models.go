package models

import "time"

// Money is a monetary amount in minor currency units (pence, cents).
// All balances and transaction amounts use this representation; the
// service never handles floating-point money.
type Money int64

type AccountStatus string

const (
	AccountActive  AccountStatus = "ACTIVE"
	AccountBlocked AccountStatus = "BLOCKED"
	AccountClosed  AccountStatus = "CLOSED"
)

// Valid reports whether s is one of the known account statuses.
func (s AccountStatus) Valid() bool {
	switch s {
	case AccountActive, AccountBlocked, AccountClosed:
		return true
	}
	return false
}

type TransactionType string

const (
	TypeTransfer   TransactionType = "TRANSFER"
	TypeDeposit    TransactionType = "DEPOSIT"
	TypeWithdrawal TransactionType = "WITHDRAWAL"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TypeTransfer, TypeDeposit, TypeWithdrawal:
		return true
	}
	return false
}

type TransactionStatus string

const (
	StatusCompleted TransactionStatus = "COMPLETED"
	StatusFailed    TransactionStatus = "FAILED"
)

// Account is the write model for a customer account. Balance is only
// ever changed through the transfer coordinator; Version is the
// optimistic-concurrency token checked by AccountStore.Save.
type Account struct {
	ID        int64         `json:"id"`
	Number    string        `json:"accountNumber"`
	ClientID  int64         `json:"clientId"`
	Balance   Money         `json:"balance"`
	Currency  string        `json:"currency"`
	Status    AccountStatus `json:"status"`
	Version   int64         `json:"-"`
	CreatedAt time.Time     `json:"createdTimestamp"`
	UpdatedAt time.Time     `json:"updatedTimestamp"`
}

// Transaction is an immutable ledger entry describing a completed fund
// movement. Exactly one of DebitAccountID/CreditAccountID is nil for
// deposits and withdrawals; both are set for transfers.
type Transaction struct {
	ID              string            `json:"id"`
	DebitAccountID  *int64            `json:"debitAccountId,omitempty"`
	CreditAccountID *int64            `json:"creditAccountId,omitempty"`
	Type            TransactionType   `json:"type"`
	Amount          Money             `json:"amount"`
	Description     string            `json:"description,omitempty"`
	Status          TransactionStatus `json:"status"`
	CreatedAt       time.Time         `json:"createdTimestamp"`
}

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdTimestamp"`
}
