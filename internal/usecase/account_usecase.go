package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/demobank/internal/domain"
	"github.com/iho/demobank/internal/infrastructure/metrics"
)

// AccountUseCase handles account opening, lookup and profile changes.
type AccountUseCase struct {
	txManager TxManager
	accounts  AccountStore
	ledger    Ledger
	idGen     IDGenerator
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewAccountUseCase creates a new AccountUseCase. m may be nil.
func NewAccountUseCase(txManager TxManager, accounts AccountStore, ledger Ledger, idGen IDGenerator, m *metrics.Metrics) *AccountUseCase {
	return &AccountUseCase{
		txManager: txManager,
		accounts:  accounts,
		ledger:    ledger,
		idGen:     idGen,
		metrics:   m,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// OpenAccountInput represents input for opening an account.
type OpenAccountInput struct {
	OwnerID        string
	Name           string
	Type           domain.AccountType
	Currency       string
	InitialBalance decimal.Decimal
}

// OpenAccount creates a new Active account with its initial balance.
func (uc *AccountUseCase) OpenAccount(ctx context.Context, input OpenAccountInput) (*domain.Account, error) {
	if strings.TrimSpace(input.OwnerID) == "" {
		return nil, domain.ErrOwnerRequired
	}

	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}

	if !input.Type.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAccountType, input.Type)
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	if err := domain.ValidateCurrency(currency); err != nil {
		return nil, err
	}

	if err := domain.ValidateOpeningBalance(input.InitialBalance); err != nil {
		return nil, err
	}

	if input.InitialBalance.IsNegative() && input.Type != domain.AccountTypeCredit {
		return nil, domain.ErrNegativeOpeningBalance
	}

	now := uc.now()
	id := uc.idGen.Generate()
	account := &domain.Account{
		ID:               id,
		OwnerID:          input.OwnerID,
		Name:             strings.TrimSpace(input.Name),
		Number:           accountNumber(id),
		Type:             input.Type,
		Status:           domain.AccountStatusActive,
		Currency:         currency,
		Balance:          input.InitialBalance,
		AvailableBalance: input.InitialBalance,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.accounts.Create(ctx, tx, account); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountsOpened.Inc()
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accounts.GetAccount(ctx, nil, id)
}

// ListAccountsForOwner lists the owner's accounts in creation order.
func (uc *AccountUseCase) ListAccountsForOwner(ctx context.Context, ownerID string) ([]*domain.Account, error) {
	return uc.accounts.ListAccountsForOwner(ctx, ownerID)
}

// UpdateStatus activates, deactivates or freezes an account.
func (uc *AccountUseCase) UpdateStatus(ctx context.Context, id string, status domain.AccountStatus) (*domain.Account, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAccountStatus, status)
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	account, err := uc.accounts.UpdateStatus(ctx, tx, id, status)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountStatusChanges.WithLabelValues(string(status)).Inc()
	}

	return account, nil
}

// MonthlyFigure is an amount for the current month with its change against the previous month.
type MonthlyFigure struct {
	Amount decimal.Decimal
	// ChangePercent is zero when the previous month amount is zero.
	ChangePercent decimal.Decimal
}

// AccountSummary aggregates an owner's accounts for the dashboard.
type AccountSummary struct {
	OwnerID      string
	Accounts     []*domain.Account
	TotalBalance decimal.Decimal
	Income       MonthlyFigure
	Expenses     MonthlyFigure
	PeriodStart  time.Time
	PeriodEnd    time.Time
}

// Summary computes the owner's total balance and this month's income and expenses.
// Income counts Deposit entries; expenses count Withdrawal, Payment and Fee entries.
func (uc *AccountUseCase) Summary(ctx context.Context, ownerID string) (*AccountSummary, error) {
	accounts, err := uc.accounts.ListAccountsForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	ids := make([]string, 0, len(accounts))
	for _, acc := range accounts {
		total = total.Add(acc.Balance)
		ids = append(ids, acc.ID)
	}

	now := uc.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	nextMonth := monthStart.AddDate(0, 1, 0)
	prevMonth := monthStart.AddDate(0, -1, 0)

	summary := &AccountSummary{
		OwnerID:      ownerID,
		Accounts:     accounts,
		TotalBalance: total,
		PeriodStart:  monthStart,
		PeriodEnd:    nextMonth,
	}

	if len(ids) == 0 {
		return summary, nil
	}

	income, err := uc.monthlyFigure(ctx, ids, []domain.TransactionType{domain.TransactionTypeDeposit}, prevMonth, monthStart, nextMonth)
	if err != nil {
		return nil, err
	}

	expenses, err := uc.monthlyFigure(ctx, ids, domain.ExpenseTypes, prevMonth, monthStart, nextMonth)
	if err != nil {
		return nil, err
	}

	summary.Income = income
	summary.Expenses = expenses

	return summary, nil
}

func (uc *AccountUseCase) monthlyFigure(
	ctx context.Context,
	ids []string,
	types []domain.TransactionType,
	prevStart, start, end time.Time,
) (MonthlyFigure, error) {
	current, err := uc.ledger.SumByType(ctx, ids, types, start, end)
	if err != nil {
		return MonthlyFigure{}, err
	}

	previous, err := uc.ledger.SumByType(ctx, ids, types, prevStart, start)
	if err != nil {
		return MonthlyFigure{}, err
	}

	return MonthlyFigure{Amount: current, ChangePercent: percentChange(previous, current)}, nil
}

func percentChange(previous, current decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(2)
}

// accountNumber derives a ten character account number from the account id.
func accountNumber(id string) string {
	if len(id) <= 10 {
		return strings.ToUpper(id)
	}
	return strings.ToUpper(id[len(id)-10:])
}
