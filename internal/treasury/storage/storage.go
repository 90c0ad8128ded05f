// Package storage defines persistence contracts for treasury state.
package storage

import (
	"context"
	"errors"

	"github.com/guildforge/treasury/internal/treasury/domain"
)

// ErrNotFound indicates a requested treasury record is missing.
var ErrNotFound = errors.New("record not found")

// Settlement bundles every row touched when one public operation commits.
// Stores must apply it atomically: either all rows change or none do.
type Settlement struct {
	Treasury domain.Treasury
	// Transaction is inserted when its ID is zero and updated otherwise.
	Transaction domain.Transaction
	Budget      *domain.Budget
	Allowance   *domain.Allowance
}

// Store persists treasuries, transactions, budgets and allowances.
type Store interface {
	// CreateTreasury inserts a treasury and returns its assigned id.
	// Ids are monotonic and never reused.
	CreateTreasury(ctx context.Context, treasury domain.Treasury) (uint64, error)
	GetTreasury(ctx context.Context, id uint64) (domain.Treasury, error)
	// UpdateTreasury persists balances, counters, pause flag and the
	// high-value threshold of an existing treasury.
	UpdateTreasury(ctx context.Context, treasury domain.Treasury) error

	// CreateTransaction inserts a transaction and returns its assigned id.
	// Transaction ids share one counter across all treasuries.
	CreateTransaction(ctx context.Context, tx domain.Transaction) (uint64, error)
	GetTransaction(ctx context.Context, id uint64) (domain.Transaction, error)
	// UpdateTransaction persists status and approvals. Approvals are
	// append-only; rows already present are left in place.
	UpdateTransaction(ctx context.Context, tx domain.Transaction) error
	// ListTreasuryTransactions returns the most recent limit transactions
	// for a treasury in insertion order, oldest first.
	ListTreasuryTransactions(ctx context.Context, treasuryID uint64, limit int) ([]domain.Transaction, error)

	GetBudget(ctx context.Context, treasuryID uint64, category string) (domain.Budget, error)
	PutBudget(ctx context.Context, budget domain.Budget) error

	GetAllowance(ctx context.Context, treasuryID uint64, admin, token string) (domain.Allowance, error)
	PutAllowance(ctx context.Context, allowance domain.Allowance) error

	// RecordDeposit atomically applies the credited treasury and its
	// synthetic executed deposit transaction, returning the transaction id.
	RecordDeposit(ctx context.Context, treasury domain.Treasury, tx domain.Transaction) (uint64, error)
	// Settle atomically applies an execution: debited treasury, settled
	// transaction, charged budget and debited allowance. It returns the
	// transaction id (freshly assigned for synthetic settlements).
	Settle(ctx context.Context, settlement Settlement) (uint64, error)
}
