package memory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/demobank/internal/domain"
	"github.com/iho/demobank/internal/usecase"
)

// AccountStore implements usecase.AccountStore.
type AccountStore struct {
	store *Store
}

// Create stages a new account.
func (r *AccountStore) Create(ctx context.Context, tx usecase.Tx, account *domain.Account) error {
	return r.store.within(ctx, tx, func(t *Tx) error {
		if t.account(account.ID) != nil {
			return fmt.Errorf("memory: account %s already exists", account.ID)
		}

		acc := account.Clone()
		if acc.Status == "" {
			acc.Status = domain.AccountStatusActive
		}
		t.accounts[acc.ID] = acc
		t.newAccounts = append(t.newAccounts, acc.ID)
		return nil
	})
}

// GetAccount returns the account as seen by tx, or the committed account when tx is nil.
func (r *AccountStore) GetAccount(ctx context.Context, tx usecase.Tx, id string) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if tx != nil {
		t, err := r.store.own(tx)
		if err != nil {
			return nil, err
		}
		acc := t.account(id)
		if acc == nil {
			return nil, domain.ErrAccountNotFound
		}
		return acc.Clone(), nil
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	acc, ok := r.store.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return acc.Clone(), nil
}

// ListAccountsForOwner returns committed accounts in creation order.
func (r *AccountStore) ListAccountsForOwner(ctx context.Context, ownerID string) ([]*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	ids := r.store.ownerAccounts[ownerID]
	accounts := make([]*domain.Account, 0, len(ids))
	for _, id := range ids {
		accounts = append(accounts, r.store.accounts[id].Clone())
	}
	return accounts, nil
}

// AdjustBalance applies delta when the account version matches expectedVersion.
func (r *AccountStore) AdjustBalance(
	ctx context.Context,
	tx usecase.Tx,
	id string,
	delta decimal.Decimal,
	expectedVersion int64,
) (*domain.Account, error) {
	var updated *domain.Account

	err := r.store.within(ctx, tx, func(t *Tx) error {
		acc := t.account(id)
		if acc == nil {
			return domain.ErrAccountNotFound
		}

		if acc.Version != expectedVersion {
			return fmt.Errorf("%w: account %s at version %d, expected %d",
				domain.ErrStaleVersion, id, acc.Version, expectedVersion)
		}

		if !acc.CanApply(delta) {
			return fmt.Errorf("%w: account %s", domain.ErrWouldViolateNonNegative, id)
		}

		next := acc.Apply(delta, r.store.now())
		t.accounts[id] = next
		updated = next.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// UpdateStatus changes the account status and advances its version.
func (r *AccountStore) UpdateStatus(ctx context.Context, tx usecase.Tx, id string, status domain.AccountStatus) (*domain.Account, error) {
	var updated *domain.Account

	err := r.store.within(ctx, tx, func(t *Tx) error {
		acc := t.account(id)
		if acc == nil {
			return domain.ErrAccountNotFound
		}

		next := acc.Clone()
		next.Status = status
		next.Version++
		next.UpdatedAt = r.store.now()
		t.accounts[id] = next
		updated = next.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}
