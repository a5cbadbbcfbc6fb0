package usecase

import (
	"context"
	"fmt"

	"github.com/iho/demobank/internal/domain"
	"github.com/iho/demobank/internal/infrastructure/metrics"
)

// TransactionUseCase handles ledger entry queries and status changes.
type TransactionUseCase struct {
	txManager TxManager
	ledger    Ledger
	accounts  AccountStore
	metrics   *metrics.Metrics
}

// NewTransactionUseCase creates a new TransactionUseCase. m may be nil.
func NewTransactionUseCase(txManager TxManager, ledger Ledger, accounts AccountStore, m *metrics.Metrics) *TransactionUseCase {
	return &TransactionUseCase{
		txManager: txManager,
		ledger:    ledger,
		accounts:  accounts,
		metrics:   m,
	}
}

// ListTransactionsInput represents input for listing an account's entries.
type ListTransactionsInput struct {
	AccountID string
	Filter    domain.TransactionFilter
	Page      domain.Page
}

// ListForAccount lists an account's entries newest first.
func (uc *TransactionUseCase) ListForAccount(ctx context.Context, input ListTransactionsInput) (*domain.TransactionPage, error) {
	if err := validateDateRange(input.Filter); err != nil {
		return nil, err
	}

	if _, err := uc.accounts.GetAccount(ctx, nil, input.AccountID); err != nil {
		return nil, err
	}

	return uc.ledger.ListForAccount(ctx, input.AccountID, input.Filter, domain.NormalizePage(input.Page))
}

// ListOwnerTransactionsInput represents input for listing entries across an owner's accounts.
// AccountID optionally narrows the listing to one of the owner's accounts.
type ListOwnerTransactionsInput struct {
	OwnerID   string
	AccountID string
	Filter    domain.TransactionFilter
	Page      domain.Page
}

// ListForOwner lists the entries of all the owner's accounts merged, newest first.
// Pending entries or the most recent ones are the same call with a status filter or page 1.
func (uc *TransactionUseCase) ListForOwner(ctx context.Context, input ListOwnerTransactionsInput) (*domain.TransactionPage, error) {
	if input.OwnerID == "" {
		return nil, domain.ErrOwnerRequired
	}

	if err := validateDateRange(input.Filter); err != nil {
		return nil, err
	}

	accounts, err := uc.accounts.ListAccountsForOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(accounts))
	for _, acc := range accounts {
		if input.AccountID == "" || acc.ID == input.AccountID {
			ids = append(ids, acc.ID)
		}
	}

	// An account that exists under another owner is reported as missing.
	if input.AccountID != "" && len(ids) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, input.AccountID)
	}

	return uc.ledger.ListForAccounts(ctx, ids, input.Filter, domain.NormalizePage(input.Page))
}

func validateDateRange(f domain.TransactionFilter) error {
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return fmt.Errorf("%w: end date before start date", domain.ErrInvalidRequest)
	}
	return nil
}

// GetTransaction retrieves an entry by ID.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return uc.ledger.GetByID(ctx, id)
}

// MarkStatus moves a Pending entry to Completed, Failed or Cancelled.
func (uc *TransactionUseCase) MarkStatus(ctx context.Context, id string, status domain.TransactionStatus) (*domain.Transaction, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidTransactionStatus, status)
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	entry, err := uc.ledger.MarkStatus(ctx, tx, id, status)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionStatusChanges.WithLabelValues(string(status)).Inc()
	}

	return entry, nil
}
