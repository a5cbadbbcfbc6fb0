package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/demobank/internal/domain"
	"github.com/iho/demobank/internal/infrastructure/metrics"
)

// TransferUseCase moves funds between two accounts as one atomic unit of work.
type TransferUseCase struct {
	txManager TxManager
	accounts  AccountStore
	ledger    Ledger
	idGen     IDGenerator
	retrier   Retrier
	notifier  Notifier
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	timeout   time.Duration
}

// TransferOption configures a TransferUseCase.
type TransferOption func(*TransferUseCase)

// WithTransferTimeout bounds each transfer, retries included.
func WithTransferTimeout(d time.Duration) TransferOption {
	return func(uc *TransferUseCase) {
		if d > 0 {
			uc.timeout = d
		}
	}
}

// WithTransferMetrics records transfer metrics.
func WithTransferMetrics(m *metrics.Metrics) TransferOption {
	return func(uc *TransferUseCase) { uc.metrics = m }
}

// WithTransferLogger sets the logger.
func WithTransferLogger(logger zerolog.Logger) TransferOption {
	return func(uc *TransferUseCase) { uc.logger = logger }
}

// NewTransferUseCase creates a new TransferUseCase.
// A nil retrier runs each transfer once; a nil notifier disables notifications.
func NewTransferUseCase(
	txManager TxManager,
	accounts AccountStore,
	ledger Ledger,
	idGen IDGenerator,
	retrier Retrier,
	notifier Notifier,
	opts ...TransferOption,
) *TransferUseCase {
	uc := &TransferUseCase{
		txManager: txManager,
		accounts:  accounts,
		ledger:    ledger,
		idGen:     idGen,
		retrier:   retrier,
		notifier:  notifier,
		logger:    zerolog.Nop(),
		timeout:   DefaultTransferTimeout,
	}
	for _, opt := range opts {
		opt(uc)
	}
	if uc.retrier == nil {
		uc.retrier = onceRetrier{}
	}
	return uc
}

// TransferInput represents input for a transfer.
type TransferInput struct {
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
	Description   string
}

// Transfer debits the source account, credits the destination account and appends
// the mirrored withdrawal and deposit entries. Either all four writes commit or none.
func (uc *TransferUseCase) Transfer(ctx context.Context, input TransferInput) (*domain.TransferResult, error) {
	start := time.Now()

	result, err := uc.transfer(ctx, input)
	if err != nil {
		uc.recordFailure(input, err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransfersCompleted.Inc()
		uc.metrics.TransferDuration.Observe(time.Since(start).Seconds())
		uc.metrics.TransferAmount.Observe(input.Amount.InexactFloat64())
	}

	uc.logger.Info().
		Str("transfer_id", result.TransferID).
		Str("from_account_id", input.FromAccountID).
		Str("to_account_id", input.ToAccountID).
		Str("amount", input.Amount.StringFixed(domain.AmountScale)).
		Dur("duration", time.Since(start)).
		Msg("transfer completed")

	uc.notify(ctx, result, input.Amount)

	return result, nil
}

func (uc *TransferUseCase) transfer(ctx context.Context, input TransferInput) (*domain.TransferResult, error) {
	// 0. Validate inputs before starting the unit of work
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	var (
		result   *domain.TransferResult
		attempts int
	)

	err := uc.retrier.Retry(txCtx, func() error {
		attempts++
		if attempts > 1 && uc.metrics != nil {
			uc.metrics.TransferRetries.Inc()
		}

		var err error
		result, err = uc.attempt(txCtx, input)
		return err
	})
	if err != nil {
		return nil, classifyTransferError(ctx, txCtx, err)
	}

	return result, nil
}

// attempt runs one unit of work. Any error rolls it back.
func (uc *TransferUseCase) attempt(ctx context.Context, input TransferInput) (result *domain.TransferResult, err error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err != nil {
			uc.rollback(ctx, tx)
		}
	}()

	// 1. Read both accounts with their current versions
	from, err := uc.accounts.GetAccount(ctx, tx, input.FromAccountID)
	if err != nil {
		return nil, err
	}

	to, err := uc.accounts.GetAccount(ctx, tx, input.ToAccountID)
	if err != nil {
		return nil, err
	}

	// 2. Validate against the freshly read state
	if err := domain.ValidateTransfer(from, to, input.Amount); err != nil {
		return nil, err
	}

	// 3. Apply both balance changes
	fromAfter, toAfter, err := uc.applyBalances(ctx, tx, from, to, input.Amount)
	if err != nil {
		return nil, err
	}

	// 4. Append the mirrored entries
	transferID := uc.idGen.Generate()
	outDesc, inDesc := domain.TransferDescriptions(from, to, input.Description)

	withdrawal, err := uc.ledger.Append(ctx, tx, &domain.Transaction{
		AccountID:        from.ID,
		RelatedAccountID: &to.ID,
		TransferID:       transferID,
		Type:             domain.TransactionTypeWithdrawal,
		Amount:           input.Amount,
		Status:           domain.TransactionStatusPending,
		Description:      outDesc,
		Category:         TransferCategory,
	})
	if err != nil {
		return nil, err
	}

	deposit, err := uc.ledger.Append(ctx, tx, &domain.Transaction{
		AccountID:        to.ID,
		RelatedAccountID: &from.ID,
		TransferID:       transferID,
		Type:             domain.TransactionTypeDeposit,
		Amount:           input.Amount,
		Status:           domain.TransactionStatusPending,
		Description:      inDesc,
		Category:         TransferCategory,
	})
	if err != nil {
		return nil, err
	}

	// 5. Complete both entries
	withdrawal, err = uc.ledger.MarkStatus(ctx, tx, withdrawal.ID, domain.TransactionStatusCompleted)
	if err != nil {
		return nil, err
	}

	deposit, err = uc.ledger.MarkStatus(ctx, tx, deposit.ID, domain.TransactionStatusCompleted)
	if err != nil {
		return nil, err
	}

	// 6. Commit
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &domain.TransferResult{
		TransferID:  transferID,
		FromAccount: fromAfter,
		ToAccount:   toAfter,
		Entries:     []*domain.Transaction{withdrawal, deposit},
	}, nil
}

// applyBalances debits from and credits to. Rows are written in account id order
// so concurrent transfers over the same pair lock them in the same order.
func (uc *TransferUseCase) applyBalances(
	ctx context.Context,
	tx Tx,
	from, to *domain.Account,
	amount decimal.Decimal,
) (*domain.Account, *domain.Account, error) {
	type change struct {
		account *domain.Account
		delta   decimal.Decimal
	}

	changes := []change{
		{account: from, delta: amount.Neg()},
		{account: to, delta: amount},
	}
	sort.Slice(changes, func(i, j int) bool {
		return changes[i].account.ID < changes[j].account.ID
	})

	updated := make(map[string]*domain.Account, len(changes))
	for _, c := range changes {
		acc, err := uc.accounts.AdjustBalance(ctx, tx, c.account.ID, c.delta, c.account.Version)
		if err != nil {
			return nil, nil, err
		}
		updated[acc.ID] = acc
	}

	return updated[from.ID], updated[to.ID], nil
}

func (uc *TransferUseCase) rollback(ctx context.Context, tx Tx) {
	// The unit may have failed because ctx expired; rollback still has to reach storage.
	rbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rollbackTimeout)
	defer cancel()

	if err := tx.Rollback(rbCtx); err != nil {
		uc.logger.Error().Err(err).Msg("transfer rollback failed")
	}
}

func (uc *TransferUseCase) notify(ctx context.Context, result *domain.TransferResult, amount decimal.Decimal) {
	if uc.notifier == nil {
		return
	}

	from, to := result.FromAccount, result.ToAccount
	formatted := amount.StringFixed(domain.AmountScale)

	uc.notifier.Notify(ctx, from.OwnerID, domain.TitleTransferCompleted,
		fmt.Sprintf("Your transfer of $%s from %s to %s has been completed.", formatted, from.Name, to.Name))

	if to.OwnerID != from.OwnerID {
		uc.notifier.Notify(ctx, to.OwnerID, domain.TitleFundsReceived,
			fmt.Sprintf("You received $%s in %s.", formatted, to.Name))
	}
}

func (uc *TransferUseCase) recordFailure(input TransferInput, err error) {
	code := domain.ErrorCode(err)
	if uc.metrics != nil {
		uc.metrics.TransferErrors.WithLabelValues(code).Inc()
	}

	event := uc.logger.Info()
	if errors.Is(err, domain.ErrStorageUnavailable) {
		event = uc.logger.Error()
	} else if errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrTimeout) {
		event = uc.logger.Warn()
	}

	event.Err(err).
		Str("code", code).
		Str("from_account_id", input.FromAccountID).
		Str("to_account_id", input.ToAccountID).
		Str("amount", input.Amount.String()).
		Msg("transfer rejected")
}

// classifyTransferError maps an attempt error onto the transfer error taxonomy.
func classifyTransferError(ctx, txCtx context.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrAmountTooPrecise),
		errors.Is(err, domain.ErrInvalidDescription),
		errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrAccountNotActive),
		errors.Is(err, domain.ErrSameAccount),
		errors.Is(err, domain.ErrInsufficientFunds):
		return err
	case errors.Is(err, domain.ErrWouldViolateNonNegative):
		return fmt.Errorf("%w: %w", domain.ErrInsufficientFunds, err)
	case errors.Is(err, domain.ErrStaleVersion), errors.Is(err, domain.ErrConflict):
		return domain.ErrConflict
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		return fmt.Errorf("transfer aborted: %w", context.Canceled)
	case errors.Is(err, context.DeadlineExceeded) || txCtx.Err() != nil:
		return domain.ErrTimeout
	case errors.Is(err, domain.ErrStorageUnavailable):
		return err
	default:
		return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}
}

type onceRetrier struct{}

func (onceRetrier) Retry(_ context.Context, operation func() error) error {
	return operation()
}
