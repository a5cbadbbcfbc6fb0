package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/iho/demobank/internal/domain"
	"github.com/iho/demobank/internal/infrastructure/postgres/generated"
	"github.com/iho/demobank/internal/usecase"
)

// ErrForeignTx is returned when a Tx from another backend is passed in.
var ErrForeignTx = errors.New("postgres: transaction does not belong to this backend")

const nonNegativeConstraint = "accounts_non_negative"

// queriesFor binds queries to tx, or to db when tx is nil.
func queriesFor(db generated.DBTX, tx usecase.Tx) (*generated.Queries, error) {
	if tx == nil {
		return generated.New(db), nil
	}
	t, ok := tx.(*Tx)
	if !ok {
		return nil, ErrForeignTx
	}
	return generated.New(t.PgxTx()), nil
}

// storageError maps driver failures onto domain errors.
// Context errors pass through so callers can tell cancellation from outages.
func storageError(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01":
			return fmt.Errorf("%w: %s: %w", domain.ErrConflict, op, err)
		case "23514":
			if pgErr.ConstraintName == nonNegativeConstraint {
				return fmt.Errorf("%w: %s: %w", domain.ErrWouldViolateNonNegative, op, err)
			}
		}
	}

	return fmt.Errorf("%w: %s: %w", domain.ErrStorageUnavailable, op, err)
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:               row.ID,
		OwnerID:          row.OwnerID,
		Name:             row.Name,
		Number:           row.Number,
		Type:             domain.AccountType(row.Type),
		Status:           domain.AccountStatus(row.Status),
		Currency:         row.Currency,
		Balance:          numericToDecimal(row.Balance),
		AvailableBalance: numericToDecimal(row.AvailableBalance),
		Version:          row.Version,
		CreatedAt:        row.CreatedAt.Time.UTC(),
		UpdatedAt:        row.UpdatedAt.Time.UTC(),
	}
}

func rowToTransaction(row generated.Transaction) *domain.Transaction {
	t := &domain.Transaction{
		ID:          row.ID,
		AccountID:   row.AccountID,
		Type:        domain.TransactionType(row.Type),
		Amount:      numericToDecimal(row.Amount),
		Status:      domain.TransactionStatus(row.Status),
		Description: row.Description,
		Category:    row.Category,
		Timestamp:   row.CreatedAt.Time.UTC(),
		Seq:         row.Seq,
	}
	if row.RelatedAccountID.Valid {
		related := row.RelatedAccountID.String
		t.RelatedAccountID = &related
	}
	if row.TransferID.Valid {
		t.TransferID = row.TransferID.String
	}
	return t
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}

	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func optionalTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return timeToPgTimestamptz(*t)
}

func optionalText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func textOrNull(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}
