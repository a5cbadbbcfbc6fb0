package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/demobank/internal/domain"
)

// AccountStore defines durable storage of accounts.
// Methods taking a Tx read and write inside that unit of work; a nil Tx reads committed state.
type AccountStore interface {
	Create(ctx context.Context, tx Tx, account *domain.Account) error
	GetAccount(ctx context.Context, tx Tx, id string) (*domain.Account, error)
	// ListAccountsForOwner returns the owner's accounts in creation order.
	ListAccountsForOwner(ctx context.Context, ownerID string) ([]*domain.Account, error)
	// AdjustBalance adds delta to balance and available balance if the stored version
	// equals expectedVersion. It fails with ErrStaleVersion, ErrAccountNotFound or
	// ErrWouldViolateNonNegative without side effects.
	AdjustBalance(ctx context.Context, tx Tx, id string, delta decimal.Decimal, expectedVersion int64) (*domain.Account, error)
	UpdateStatus(ctx context.Context, tx Tx, id string, status domain.AccountStatus) (*domain.Account, error)
}

// Ledger defines the append-only store of transactions.
type Ledger interface {
	// Append stores entry and returns it with its id, timestamp and sequence assigned.
	Append(ctx context.Context, tx Tx, entry *domain.Transaction) (*domain.Transaction, error)
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	// ListForAccount returns one page of the account's entries, newest first.
	ListForAccount(ctx context.Context, accountID string, filter domain.TransactionFilter, page domain.Page) (*domain.TransactionPage, error)
	// ListForAccounts pages through the entries of several accounts merged, newest first.
	ListForAccounts(ctx context.Context, accountIDs []string, filter domain.TransactionFilter, page domain.Page) (*domain.TransactionPage, error)
	// MarkStatus moves a Pending entry to a terminal status.
	MarkStatus(ctx context.Context, tx Tx, id string, status domain.TransactionStatus) (*domain.Transaction, error)
	// SumByType totals Completed entries of the given types on the accounts within [from, to).
	SumByType(ctx context.Context, accountIDs []string, types []domain.TransactionType, from, to time.Time) (decimal.Decimal, error)
	// FindUnpairedTransfers returns transfer ids whose entries are not a mirrored
	// withdrawal/deposit pair of equal amounts.
	FindUnpairedTransfers(ctx context.Context) ([]string, error)
}

// Tx represents one atomic unit of work.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TxManager handles unit of work lifecycle.
type TxManager interface {
	Begin(ctx context.Context) (Tx, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier repeats an operation while it fails with a retryable error.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Notifier delivers user notifications. Delivery is best effort and never reports failure.
type Notifier interface {
	Notify(ctx context.Context, ownerID, title, message string)
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Delete releases a key whose request failed so that it can be retried.
	Delete(ctx context.Context, key string) error
}
