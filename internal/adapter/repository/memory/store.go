// Package memory implements a single-process, non-durable account store and ledger.
//
// One unit of work runs at a time. Writes made inside a unit are staged on the Tx and
// become visible to other readers only when the unit commits.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/iho/demobank/internal/domain"
	"github.com/iho/demobank/internal/usecase"
)

var (
	// ErrTxDone is returned when a finished unit of work is used.
	ErrTxDone = errors.New("memory: unit of work already finished")
	// ErrForeignTx is returned when a Tx from another store or backend is passed in.
	ErrForeignTx = errors.New("memory: transaction does not belong to this store")
)

// Store holds accounts and ledger entries in memory.
type Store struct {
	mu sync.RWMutex
	// writer admits one unit of work at a time.
	writer chan struct{}

	accounts      map[string]*domain.Account
	accountOrder  []string
	ownerAccounts map[string][]string

	entries        map[string]*domain.Transaction
	accountEntries map[string][]string
	seq            int64

	idGen usecase.IDGenerator
	now   func() time.Time
}

// New creates an empty Store. idGen assigns ledger entry ids.
func New(idGen usecase.IDGenerator) *Store {
	return &Store{
		writer:         make(chan struct{}, 1),
		accounts:       make(map[string]*domain.Account),
		ownerAccounts:  make(map[string][]string),
		entries:        make(map[string]*domain.Transaction),
		accountEntries: make(map[string][]string),
		idGen:          idGen,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// Accounts returns the store's AccountStore view.
func (s *Store) Accounts() *AccountStore {
	return &AccountStore{store: s}
}

// Ledger returns the store's Ledger view.
func (s *Store) Ledger() *Ledger {
	return &Ledger{store: s}
}

// TxManager returns the store's unit of work manager.
func (s *Store) TxManager() *TxManager {
	return &TxManager{store: s}
}

// TxManager implements usecase.TxManager.
type TxManager struct {
	store *Store
}

// Begin waits until no other unit of work is running or ctx is done.
func (m *TxManager) Begin(ctx context.Context) (usecase.Tx, error) {
	return m.store.begin(ctx)
}

// Tx is a unit of work with staged writes.
type Tx struct {
	store *Store

	accounts    map[string]*domain.Account
	newAccounts []string

	entries    map[string]*domain.Transaction
	newEntries []string
	seq        int64

	done bool
}

func (s *Store) begin(ctx context.Context) (*Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	select {
	case s.writer <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	s.mu.RLock()
	seq := s.seq
	s.mu.RUnlock()

	return &Tx{
		store:    s,
		accounts: make(map[string]*domain.Account),
		entries:  make(map[string]*domain.Transaction),
		seq:      seq,
	}, nil
}

// Commit applies the staged writes. If ctx is already done the writes are discarded.
func (t *Tx) Commit(ctx context.Context) error {
	if t.done {
		return ErrTxDone
	}
	defer t.finish()

	if err := ctx.Err(); err != nil {
		return err
	}

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range t.newAccounts {
		acc := t.accounts[id]
		s.accountOrder = append(s.accountOrder, id)
		s.ownerAccounts[acc.OwnerID] = append(s.ownerAccounts[acc.OwnerID], id)
	}
	for id, acc := range t.accounts {
		s.accounts[id] = acc
	}

	for _, id := range t.newEntries {
		entry := t.entries[id]
		s.accountEntries[entry.AccountID] = append(s.accountEntries[entry.AccountID], id)
	}
	for id, entry := range t.entries {
		s.entries[id] = entry
	}
	s.seq = t.seq

	return nil
}

// Rollback discards the staged writes. Rolling back a finished unit is a no-op.
func (t *Tx) Rollback(_ context.Context) error {
	if t.done {
		return nil
	}
	t.finish()
	return nil
}

func (t *Tx) finish() {
	t.done = true
	t.accounts = nil
	t.entries = nil
	<-t.store.writer
}

// account returns the staged or committed account, or nil.
func (t *Tx) account(id string) *domain.Account {
	if acc, ok := t.accounts[id]; ok {
		return acc
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	return t.store.accounts[id]
}

// entry returns the staged or committed entry, or nil.
func (t *Tx) entry(id string) *domain.Transaction {
	if e, ok := t.entries[id]; ok {
		return e
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	return t.store.entries[id]
}

// within runs fn inside tx, or inside a fresh unit of work when tx is nil.
func (s *Store) within(ctx context.Context, tx usecase.Tx, fn func(*Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if tx != nil {
		t, err := s.own(tx)
		if err != nil {
			return err
		}
		return fn(t)
	}

	t, err := s.begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(t); err != nil {
		_ = t.Rollback(ctx)
		return err
	}
	return t.Commit(ctx)
}

func (s *Store) own(tx usecase.Tx) (*Tx, error) {
	t, ok := tx.(*Tx)
	if !ok || t.store != s {
		return nil, ErrForeignTx
	}
	if t.done {
		return nil, ErrTxDone
	}
	return t, nil
}
