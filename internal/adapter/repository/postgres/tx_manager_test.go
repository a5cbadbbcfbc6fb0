package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/iho/demobank/internal/domain"
)

func TestTxManagerBeginCommit(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectBegin()
	pool.ExpectCommit()

	tx, err := newTxManagerWithPool(pool).Begin(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tx.Commit(context.Background()); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	assertExpectations(t, pool)
}

func TestTxManagerBeginUnavailable(t *testing.T) {
	pool := newMockPool(t)
	cause := errors.New("connection refused")
	pool.ExpectBegin().WillReturnError(cause)

	_, err := newTxManagerWithPool(pool).Begin(context.Background())
	if !errors.Is(err, domain.ErrStorageUnavailable) || !errors.Is(err, cause) {
		t.Fatalf("expected storage unavailable wrapping cause, got %v", err)
	}
}

func TestTxManagerBeginCancelled(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectBegin().WillReturnError(context.Canceled)

	_, err := newTxManagerWithPool(pool).Begin(context.Background())
	if !errors.Is(err, context.Canceled) || errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected bare cancellation, got %v", err)
	}
}

func TestTxCommitSerializationFailure(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectBegin()
	pool.ExpectCommit().WillReturnError(&pgconn.PgError{Code: "40001"})

	tx, err := newTxManagerWithPool(pool).Begin(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := tx.Commit(context.Background()); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	assertExpectations(t, pool)
}

func TestTxRollback(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{name: "rolled back", err: nil},
		{name: "already closed", err: pgx.ErrTxClosed},
		{name: "connection lost", err: errors.New("conn closed"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := newMockPool(t)
			pool.ExpectBegin()
			if tt.err != nil {
				pool.ExpectRollback().WillReturnError(tt.err)
			} else {
				pool.ExpectRollback()
			}

			tx, err := newTxManagerWithPool(pool).Begin(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			err = tx.Rollback(context.Background())
			if tt.wantErr != (err != nil) {
				t.Fatalf("Rollback() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, domain.ErrStorageUnavailable) {
				t.Fatalf("expected storage unavailable, got %v", err)
			}
			assertExpectations(t, pool)
		})
	}
}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	pool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func assertExpectations(t *testing.T, pool pgxmock.PgxPoolIface) {
	t.Helper()
	if err := pool.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations were not met: %v", err)
	}
}
