package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserRepository defines the interface for credential storage
type UserRepository interface {
	// Create stores a new user. Returns ErrAlreadyExists when the username is taken.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID. Returns ErrNotFound when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByUsername retrieves a user by exact username. Returns ErrNotFound when absent.
	GetByUsername(ctx context.Context, username string) (*User, error)
}

// LedgerRepository defines read access to holdings and history, and the transactional boundary for trades
type LedgerRepository interface {
	// WithinTx runs fn inside a single database transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error

	// GetCash returns the user's cash balance
	GetCash(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)

	// GetHolding retrieves one holding. Returns ErrNotFound when the user holds none.
	GetHolding(ctx context.Context, userID uuid.UUID, symbol string) (*Holding, error)

	// ListHoldings retrieves all holdings of a user ordered by symbol
	ListHoldings(ctx context.Context, userID uuid.UUID) ([]*Holding, error)

	// ListTransactions retrieves the user's history ordered by execution time
	ListTransactions(ctx context.Context, userID uuid.UUID) ([]*Transaction, error)

	// ListSymbols retrieves every symbol currently held by any user
	ListSymbols(ctx context.Context) ([]string, error)
}

// LedgerTx is the write side of the ledger, only reachable through LedgerRepository.WithinTx
type LedgerTx interface {
	// LockCash reads the user's cash and locks the account row until the transaction ends
	LockCash(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)

	// SetCash overwrites the user's cash balance
	SetCash(ctx context.Context, userID uuid.UUID, cash decimal.Decimal) error

	// GetHolding retrieves one holding. Returns ErrNotFound when the user holds none.
	GetHolding(ctx context.Context, userID uuid.UUID, symbol string) (*Holding, error)

	// UpsertHolding inserts or replaces the (user, symbol) holding
	UpsertHolding(ctx context.Context, holding *Holding) error

	// DeleteHolding removes the (user, symbol) holding
	DeleteHolding(ctx context.Context, userID uuid.UUID, symbol string) error

	// AppendTransaction records a trade
	AppendTransaction(ctx context.Context, tx *Transaction) error
}
