package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/demobank/internal/domain"
	"github.com/iho/demobank/internal/infrastructure/postgres/generated"
	"github.com/iho/demobank/internal/usecase"
)

// AccountRepository implements usecase.AccountStore.
type AccountRepository struct {
	db  generated.DBTX
	now func() time.Time
}

// NewAccountRepository creates a new AccountRepository. db is usually a *pgxpool.Pool.
func NewAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Create inserts a new account.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Tx, account *domain.Account) error {
	q, err := queriesFor(r.db, tx)
	if err != nil {
		return err
	}

	status := account.Status
	if status == "" {
		status = domain.AccountStatusActive
	}

	err = q.CreateAccount(ctx, generated.CreateAccountParams{
		ID:               account.ID,
		OwnerID:          account.OwnerID,
		Name:             account.Name,
		Number:           account.Number,
		Type:             string(account.Type),
		Status:           string(status),
		Currency:         account.Currency,
		Balance:          decimalToNumeric(account.Balance),
		AvailableBalance: decimalToNumeric(account.AvailableBalance),
		Version:          account.Version,
		CreatedAt:        timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt:        timeToPgTimestamptz(account.UpdatedAt),
	})
	if err != nil {
		return storageError("create account", err)
	}

	return nil
}

// GetAccount retrieves an account by ID, inside tx when one is given.
func (r *AccountRepository) GetAccount(ctx context.Context, tx usecase.Tx, id string) (*domain.Account, error) {
	q, err := queriesFor(r.db, tx)
	if err != nil {
		return nil, err
	}

	row, err := q.GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, storageError("get account", err)
	}

	return rowToAccount(row), nil
}

// ListAccountsForOwner lists an owner's accounts in creation order.
func (r *AccountRepository) ListAccountsForOwner(ctx context.Context, ownerID string) ([]*domain.Account, error) {
	rows, err := generated.New(r.db).ListAccountsByOwner(ctx, ownerID)
	if err != nil {
		return nil, storageError("list accounts", err)
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

// AdjustBalance applies delta with a conditional update on version and the
// non-negative rule. When no row is updated a state lookup names the reason.
func (r *AccountRepository) AdjustBalance(
	ctx context.Context,
	tx usecase.Tx,
	id string,
	delta decimal.Decimal,
	expectedVersion int64,
) (*domain.Account, error) {
	q, err := queriesFor(r.db, tx)
	if err != nil {
		return nil, err
	}

	row, err := q.AdjustAccountBalance(ctx, generated.AdjustAccountBalanceParams{
		ID:        id,
		Delta:     decimalToNumeric(delta),
		Version:   expectedVersion,
		UpdatedAt: timeToPgTimestamptz(r.now()),
	})
	if err == nil {
		return rowToAccount(row), nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, storageError("adjust balance", err)
	}

	state, err := q.GetAccountBalanceState(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, storageError("adjust balance", err)
	}

	if state.Version != expectedVersion {
		return nil, fmt.Errorf("%w: account %s at version %d, expected %d",
			domain.ErrStaleVersion, id, state.Version, expectedVersion)
	}

	return nil, fmt.Errorf("%w: account %s", domain.ErrWouldViolateNonNegative, id)
}

// UpdateStatus changes the account status and advances its version.
func (r *AccountRepository) UpdateStatus(
	ctx context.Context,
	tx usecase.Tx,
	id string,
	status domain.AccountStatus,
) (*domain.Account, error) {
	q, err := queriesFor(r.db, tx)
	if err != nil {
		return nil, err
	}

	row, err := q.UpdateAccountStatus(ctx, generated.UpdateAccountStatusParams{
		ID:        id,
		Status:    string(status),
		UpdatedAt: timeToPgTimestamptz(r.now()),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, storageError("update account status", err)
	}

	return rowToAccount(row), nil
}
