package models

import "errors"

// Domain outcomes. Call sites dispatch with errors.Is so every outcome
// is handled explicitly instead of matching on error strings.
var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrUserNotFound        = errors.New("user not found")

	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrSameAccount       = errors.New("debit and credit accounts must differ")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAccountNotActive  = errors.New("account is not active")
	ErrCurrencyMismatch  = errors.New("account currencies do not match")
	ErrInvalidStatus     = errors.New("invalid account status")

	// ErrVersionConflict means another writer committed first. The
	// operation was not applied; the caller may retry.
	ErrVersionConflict = errors.New("account version conflict")
)
