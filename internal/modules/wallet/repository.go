package wallet

import (
	"context"
	"errors"
)

var (
	ErrNotFound          = errors.New("wallet transaction not found")
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
	ErrInvalidAmount     = errors.New("amount must be greater than 0")
	ErrSelfTransfer      = errors.New("cannot transfer to own wallet")
	ErrNotPending        = errors.New("transaction is not pending")
	ErrInvalidRequest    = errors.New("invalid wallet request")
)

// Repository is the wallet ledger.
type Repository interface {
	// Apply books completed entries atomically. A debit that would take a
	// wallet below zero aborts the whole batch with ErrInsufficientFunds.
	Apply(ctx context.Context, txs ...*Transaction) error
	// Record stores a PENDING entry without touching the balance.
	Record(ctx context.Context, tx *Transaction) error
	// Settle moves a PENDING entry to status, booking it if COMPLETED.
	Settle(ctx context.Context, id string, status Status) (*Transaction, error)
	GetByID(ctx context.Context, id string) (*Transaction, error)
	Balance(ctx context.Context, userID string) (float64, error)
	ListByUser(ctx context.Context, userID string) ([]*Transaction, error)
}
