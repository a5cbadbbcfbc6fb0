package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/iho/demobank/internal/domain"
	"github.com/iho/demobank/internal/infrastructure/postgres/generated"
	"github.com/iho/demobank/internal/usecase"
)

// TransactionRepository implements usecase.Ledger on the transactions table.
type TransactionRepository struct {
	db    generated.DBTX
	idGen usecase.IDGenerator
	now   func() time.Time
}

// NewTransactionRepository creates a new TransactionRepository. idGen assigns entry ids.
func NewTransactionRepository(db generated.DBTX, idGen usecase.IDGenerator) *TransactionRepository {
	return &TransactionRepository{
		db:    db,
		idGen: idGen,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Append inserts entry with a fresh id and timestamp.
func (r *TransactionRepository) Append(ctx context.Context, tx usecase.Tx, entry *domain.Transaction) (*domain.Transaction, error) {
	q, err := queriesFor(r.db, tx)
	if err != nil {
		return nil, err
	}

	e := entry.Clone()
	e.ID = r.idGen.Generate()
	// Postgres keeps microseconds.
	e.Timestamp = r.now().Truncate(time.Microsecond)
	if e.Category == "" {
		e.Category = domain.DefaultCategory
	}

	seq, err := q.CreateTransaction(ctx, generated.CreateTransactionParams{
		ID:               e.ID,
		AccountID:        e.AccountID,
		RelatedAccountID: optionalText(e.RelatedAccountID),
		TransferID:       textOrNull(e.TransferID),
		Type:             string(e.Type),
		Amount:           decimalToNumeric(e.Amount),
		Status:           string(e.Status),
		Description:      e.Description,
		Category:         e.Category,
		CreatedAt:        timeToPgTimestamptz(e.Timestamp),
	})
	if err != nil {
		return nil, storageError("append transaction", err)
	}
	e.Seq = seq

	return e, nil
}

// GetByID retrieves a ledger entry by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	row, err := generated.New(r.db).GetTransactionByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, storageError("get transaction", err)
	}

	return rowToTransaction(row), nil
}

// ListForAccount returns one page of an account's entries, newest first.
func (r *TransactionRepository) ListForAccount(
	ctx context.Context,
	accountID string,
	filter domain.TransactionFilter,
	page domain.Page,
) (*domain.TransactionPage, error) {
	return r.ListForAccounts(ctx, []string{accountID}, filter, page)
}

// ListForAccounts returns one page of the entries of all accountIDs, newest first.
func (r *TransactionRepository) ListForAccounts(
	ctx context.Context,
	accountIDs []string,
	filter domain.TransactionFilter,
	page domain.Page,
) (*domain.TransactionPage, error) {
	page = domain.NormalizePage(page)
	if len(accountIDs) == 0 {
		return &domain.TransactionPage{Items: []*domain.Transaction{}, Page: page.Number, Size: page.Size}, nil
	}
	q := generated.New(r.db)

	var typ, status pgtype.Text
	if filter.Type != nil {
		typ = pgtype.Text{String: string(*filter.Type), Valid: true}
	}
	if filter.Status != nil {
		status = pgtype.Text{String: string(*filter.Status), Valid: true}
	}
	from := optionalTimestamptz(filter.From)
	to := optionalTimestamptz(filter.To)

	total, err := q.CountTransactionsByAccounts(ctx, generated.CountTransactionsByAccountsParams{
		AccountIds: accountIDs,
		Type:       typ,
		Status:     status,
		FromTime:   from,
		ToTime:     to,
	})
	if err != nil {
		return nil, storageError("count transactions", err)
	}

	result := &domain.TransactionPage{
		Items: []*domain.Transaction{},
		Total: total,
		Page:  page.Number,
		Size:  page.Size,
	}
	if int64(page.Offset()) >= total {
		return result, nil
	}

	rows, err := q.ListTransactionsByAccounts(ctx, generated.ListTransactionsByAccountsParams{
		AccountIds: accountIDs,
		Type:       typ,
		Status:     status,
		FromTime:   from,
		ToTime:     to,
		Limit:      int32(page.Size),
		Offset:     int32(page.Offset()),
	})
	if err != nil {
		return nil, storageError("list transactions", err)
	}

	for _, row := range rows {
		result.Items = append(result.Items, rowToTransaction(row))
	}

	return result, nil
}

// MarkStatus moves a Pending entry to a terminal status.
func (r *TransactionRepository) MarkStatus(
	ctx context.Context,
	tx usecase.Tx,
	id string,
	status domain.TransactionStatus,
) (*domain.Transaction, error) {
	if !status.IsTerminal() {
		return nil, fmt.Errorf("%w: -> %s", domain.ErrInvalidTransition, status)
	}

	q, err := queriesFor(r.db, tx)
	if err != nil {
		return nil, err
	}

	row, err := q.MarkTransactionStatus(ctx, generated.MarkTransactionStatusParams{
		ID:     id,
		Status: string(status),
	})
	if err == nil {
		return rowToTransaction(row), nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, storageError("mark transaction", err)
	}

	current, err := q.GetTransactionStatus(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, storageError("mark transaction", err)
	}

	return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, current, status)
}

// SumByType totals Completed entries of the given types within [from, to).
func (r *TransactionRepository) SumByType(
	ctx context.Context,
	accountIDs []string,
	types []domain.TransactionType,
	from, to time.Time,
) (decimal.Decimal, error) {
	if len(accountIDs) == 0 || len(types) == 0 {
		return decimal.Zero, nil
	}

	typeNames := make([]string, 0, len(types))
	for _, t := range types {
		typeNames = append(typeNames, string(t))
	}

	total, err := generated.New(r.db).SumTransactionsByType(ctx, generated.SumTransactionsByTypeParams{
		AccountIds: accountIDs,
		Types:      typeNames,
		FromTime:   timeToPgTimestamptz(from),
		ToTime:     timeToPgTimestamptz(to),
	})
	if err != nil {
		return decimal.Zero, storageError("sum transactions", err)
	}

	return numericToDecimal(total), nil
}

// FindUnpairedTransfers returns the transfer ids whose entries do not form a mirrored pair.
func (r *TransactionRepository) FindUnpairedTransfers(ctx context.Context) ([]string, error) {
	ids, err := generated.New(r.db).FindUnpairedTransfers(ctx)
	if err != nil {
		return nil, storageError("find unpaired transfers", err)
	}

	return ids, nil
}
