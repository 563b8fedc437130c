package events

import "time"

// Event types
const (
	TransactionCompleted = "transaction.completed"
	BalanceUpdated       = "balance.updated"
	AccountCreated       = "account.created"
	AccountStatusChanged = "account.status_changed"
)

// Stream names
const (
	TransactionEventsStream = "transaction.events"
	AccountEventsStream     = "account.events"
)

// Event is the envelope written to the stream.
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

type TransactionCompletedEvent struct {
	TransactionID   string `json:"transactionId"`
	DebitAccountID  *int64 `json:"debitAccountId,omitempty"`
	CreditAccountID *int64 `json:"creditAccountId,omitempty"`
	Type            string `json:"type"`
	Amount          int64  `json:"amount"`
}

type BalanceUpdatedEvent struct {
	AccountID  int64 `json:"accountId"`
	NewBalance int64 `json:"newBalance"`
	Change     int64 `json:"change"`
}

type AccountCreatedEvent struct {
	AccountID int64  `json:"accountId"`
	Number    string `json:"accountNumber"`
	ClientID  int64  `json:"clientId"`
	Currency  string `json:"currency"`
}

type AccountStatusChangedEvent struct {
	AccountID int64  `json:"accountId"`
	Status    string `json:"status"`
}
