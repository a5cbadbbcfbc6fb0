package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/demobank/internal/domain"
	"github.com/iho/demobank/internal/usecase"
)

// Ledger implements usecase.Ledger.
type Ledger struct {
	store *Store
}

// Append stages entry with a fresh id, timestamp and sequence number.
func (l *Ledger) Append(ctx context.Context, tx usecase.Tx, entry *domain.Transaction) (*domain.Transaction, error) {
	var stored *domain.Transaction

	err := l.store.within(ctx, tx, func(t *Tx) error {
		e := entry.Clone()
		e.ID = l.store.idGen.Generate()
		e.Timestamp = l.store.now()
		t.seq++
		e.Seq = t.seq
		if e.Category == "" {
			e.Category = domain.DefaultCategory
		}

		t.entries[e.ID] = e
		t.newEntries = append(t.newEntries, e.ID)
		stored = e.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return stored, nil
}

// GetByID returns a committed entry.
func (l *Ledger) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.store.mu.RLock()
	defer l.store.mu.RUnlock()

	e, ok := l.store.entries[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return e.Clone(), nil
}

// ListForAccount returns one page of committed entries, newest first.
func (l *Ledger) ListForAccount(
	ctx context.Context,
	accountID string,
	filter domain.TransactionFilter,
	page domain.Page,
) (*domain.TransactionPage, error) {
	return l.ListForAccounts(ctx, []string{accountID}, filter, page)
}

// ListForAccounts returns one page of the committed entries of all accountIDs, newest first.
func (l *Ledger) ListForAccounts(
	ctx context.Context,
	accountIDs []string,
	filter domain.TransactionFilter,
	page domain.Page,
) (*domain.TransactionPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page = domain.NormalizePage(page)

	seen := make(map[string]bool, len(accountIDs))
	matched := make([]*domain.Transaction, 0)

	l.store.mu.RLock()
	for _, accountID := range accountIDs {
		if seen[accountID] {
			continue
		}
		seen[accountID] = true

		for _, id := range l.store.accountEntries[accountID] {
			e := l.store.entries[id]
			if filter.Matches(e) {
				matched = append(matched, e)
			}
		}
	}
	l.store.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Timestamp.Equal(matched[j].Timestamp) {
			return matched[i].Timestamp.After(matched[j].Timestamp)
		}
		return matched[i].Seq > matched[j].Seq
	})

	result := &domain.TransactionPage{
		Items: []*domain.Transaction{},
		Total: int64(len(matched)),
		Page:  page.Number,
		Size:  page.Size,
	}

	start := page.Offset()
	if start >= len(matched) {
		return result, nil
	}
	end := min(start+page.Size, len(matched))

	for _, e := range matched[start:end] {
		result.Items = append(result.Items, e.Clone())
	}
	return result, nil
}

// MarkStatus moves a Pending entry to a terminal status.
func (l *Ledger) MarkStatus(ctx context.Context, tx usecase.Tx, id string, status domain.TransactionStatus) (*domain.Transaction, error) {
	var updated *domain.Transaction

	err := l.store.within(ctx, tx, func(t *Tx) error {
		e := t.entry(id)
		if e == nil {
			return domain.ErrTransactionNotFound
		}

		if !e.Status.CanTransitionTo(status) {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, e.Status, status)
		}

		next := e.Clone()
		next.Status = status
		t.entries[id] = next
		updated = next.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// SumByType totals committed Completed entries of the given types within [from, to).
func (l *Ledger) SumByType(
	ctx context.Context,
	accountIDs []string,
	types []domain.TransactionType,
	from, to time.Time,
) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}

	wanted := make(map[domain.TransactionType]bool, len(types))
	for _, typ := range types {
		wanted[typ] = true
	}

	l.store.mu.RLock()
	defer l.store.mu.RUnlock()

	total := decimal.Zero
	for _, accountID := range accountIDs {
		for _, id := range l.store.accountEntries[accountID] {
			e := l.store.entries[id]
			if e.Status != domain.TransactionStatusCompleted || !wanted[e.Type] {
				continue
			}
			if e.Timestamp.Before(from) || !e.Timestamp.Before(to) {
				continue
			}
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

// FindUnpairedTransfers returns, sorted, the transfer ids whose entries are not
// one withdrawal and one deposit of equal amounts on mirrored accounts.
func (l *Ledger) FindUnpairedTransfers(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.store.mu.RLock()
	groups := make(map[string][]*domain.Transaction)
	for _, e := range l.store.entries {
		if e.TransferID == "" {
			continue
		}
		groups[e.TransferID] = append(groups[e.TransferID], e)
	}
	l.store.mu.RUnlock()

	unpaired := []string{}
	for transferID, entries := range groups {
		if !isMirroredPair(entries) {
			unpaired = append(unpaired, transferID)
		}
	}
	sort.Strings(unpaired)
	return unpaired, nil
}

func isMirroredPair(entries []*domain.Transaction) bool {
	if len(entries) != 2 {
		return false
	}

	withdrawal, deposit := entries[0], entries[1]
	if withdrawal.Type == domain.TransactionTypeDeposit {
		withdrawal, deposit = deposit, withdrawal
	}

	if withdrawal.Type != domain.TransactionTypeWithdrawal || deposit.Type != domain.TransactionTypeDeposit {
		return false
	}
	if !withdrawal.Amount.Equal(deposit.Amount) {
		return false
	}
	if withdrawal.RelatedAccountID == nil || deposit.RelatedAccountID == nil {
		return false
	}
	return *withdrawal.RelatedAccountID == deposit.AccountID &&
		*deposit.RelatedAccountID == withdrawal.AccountID &&
		withdrawal.AccountID != deposit.AccountID
}
