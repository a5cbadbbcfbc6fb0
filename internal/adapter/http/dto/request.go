package dto

import (
	"bytes"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/demobank/internal/domain"
	"github.com/iho/demobank/internal/usecase"
)

// Amount is a money value sent either as a JSON string ("12.34") or a JSON number (12.34).
type Amount string

// UnmarshalJSON accepts quoted and bare numbers.
func (a *Amount) UnmarshalJSON(data []byte) error {
	*a = Amount(bytes.Trim(data, `"`))
	return nil
}

// Decimal parses the amount.
func (a Amount) Decimal() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(string(a))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidAmount, string(a))
	}
	if err := domain.ValidateMagnitude(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// CreateTransferRequest represents a request to create a transfer.
type CreateTransferRequest struct {
	FromAccountID string `json:"from_account_id"`
	ToAccountID   string `json:"to_account_id"`
	Amount        Amount `json:"amount"`
	Description   string `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransferRequest) ToUseCaseInput() (usecase.TransferInput, error) {
	amount, err := r.Amount.Decimal()
	if err != nil {
		return usecase.TransferInput{}, err
	}

	return usecase.TransferInput{
		FromAccountID: r.FromAccountID,
		ToAccountID:   r.ToAccountID,
		Amount:        amount,
		Description:   r.Description,
	}, nil
}

// OpenAccountRequest represents a request to open an account.
type OpenAccountRequest struct {
	OwnerID        string `json:"owner_id"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	Currency       string `json:"currency,omitempty"`
	InitialBalance Amount `json:"initial_balance,omitempty"`
}

// ToUseCaseInput converts to use case input. An absent initial balance is zero.
func (r *OpenAccountRequest) ToUseCaseInput() (usecase.OpenAccountInput, error) {
	balance := decimal.Zero
	if r.InitialBalance != "" {
		d, err := r.InitialBalance.Decimal()
		if err != nil {
			return usecase.OpenAccountInput{}, err
		}
		balance = d
	}

	return usecase.OpenAccountInput{
		OwnerID:        r.OwnerID,
		Name:           r.Name,
		Type:           domain.AccountType(r.Type),
		Currency:       r.Currency,
		InitialBalance: balance,
	}, nil
}

// UpdateStatusRequest changes an account or transaction status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// AccountStatus validates the status as an account status.
func (r *UpdateStatusRequest) AccountStatus() (domain.AccountStatus, error) {
	status := domain.AccountStatus(r.Status)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidAccountStatus, r.Status)
	}
	return status, nil
}

// TransactionStatus validates the status as a transaction status.
func (r *UpdateStatusRequest) TransactionStatus() (domain.TransactionStatus, error) {
	status := domain.TransactionStatus(r.Status)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidTransactionStatus, r.Status)
	}
	return status, nil
}

// ParseTransactionQuery reads type, status, from, to, page and limit.
// Dates are RFC 3339 timestamps or YYYY-MM-DD days; a day in "to" covers the whole day.
func ParseTransactionQuery(q url.Values) (domain.TransactionFilter, domain.Page, error) {
	var filter domain.TransactionFilter

	if v := q.Get("type"); v != "" {
		typ := domain.TransactionType(v)
		if !typ.IsValid() {
			return filter, domain.Page{}, fmt.Errorf("%w: %q", domain.ErrInvalidTransactionType, v)
		}
		filter.Type = &typ
	}

	if v := q.Get("status"); v != "" {
		status := domain.TransactionStatus(v)
		if !status.IsValid() {
			return filter, domain.Page{}, fmt.Errorf("%w: %q", domain.ErrInvalidTransactionStatus, v)
		}
		filter.Status = &status
	}

	if v := q.Get("from"); v != "" {
		from, _, err := parseTime(v)
		if err != nil {
			return filter, domain.Page{}, err
		}
		filter.From = &from
	}

	if v := q.Get("to"); v != "" {
		to, isDay, err := parseTime(v)
		if err != nil {
			return filter, domain.Page{}, err
		}
		if isDay {
			to = to.Add(24*time.Hour - time.Nanosecond)
		}
		filter.To = &to
	}

	page := domain.Page{}
	var err error
	if page.Number, err = parseOptionalInt(q, "page"); err != nil {
		return filter, domain.Page{}, err
	}
	if page.Size, err = parseOptionalInt(q, "limit"); err != nil {
		return filter, domain.Page{}, err
	}

	return filter, page, nil
}

func parseTime(v string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), false, nil
	}
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, fmt.Errorf("%w: invalid date %q", domain.ErrInvalidRequest, v)
}

func parseOptionalInt(q url.Values, key string) (int, error) {
	v := q.Get(key)
	if v == "" {
		return 0, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidRequest, key)
	}
	return i, nil
}
