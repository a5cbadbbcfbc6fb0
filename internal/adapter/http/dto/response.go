package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/demobank/internal/domain"
	"github.com/iho/demobank/internal/usecase"
)

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID               string    `json:"id"`
	OwnerID          string    `json:"owner_id"`
	Name             string    `json:"name"`
	Number           string    `json:"number"`
	Type             string    `json:"type"`
	Status           string    `json:"status"`
	Currency         string    `json:"currency"`
	Balance          string    `json:"balance"`
	AvailableBalance string    `json:"available_balance"`
	Version          int64     `json:"version"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// AccountFromDomain converts domain account to response. The number is masked.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:               a.ID,
		OwnerID:          a.OwnerID,
		Name:             a.Name,
		Number:           a.MaskedNumber(),
		Type:             string(a.Type),
		Status:           string(a.Status),
		Currency:         a.Currency,
		Balance:          money(a.Balance),
		AvailableBalance: money(a.AvailableBalance),
		Version:          a.Version,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// TransactionResponse represents a ledger entry in API responses.
type TransactionResponse struct {
	ID               string    `json:"id"`
	AccountID        string    `json:"account_id"`
	RelatedAccountID *string   `json:"related_account_id,omitempty"`
	TransferID       string    `json:"transfer_id,omitempty"`
	Type             string    `json:"type"`
	Amount           string    `json:"amount"`
	Status           string    `json:"status"`
	Description      string    `json:"description"`
	Category         string    `json:"category"`
	Timestamp        time.Time `json:"timestamp"`
}

// TransactionFromDomain converts a ledger entry to response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:               t.ID,
		AccountID:        t.AccountID,
		RelatedAccountID: t.RelatedAccountID,
		TransferID:       t.TransferID,
		Type:             string(t.Type),
		Amount:           money(t.Amount),
		Status:           string(t.Status),
		Description:      t.Description,
		Category:         t.Category,
		Timestamp:        t.Timestamp,
	}
}

// TransactionsFromDomain converts ledger entries to responses.
func TransactionsFromDomain(entries []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(entries))
	for i, e := range entries {
		result[i] = TransactionFromDomain(e)
	}
	return result
}

// TransactionPageResponse is one page of an account's ledger.
type TransactionPageResponse struct {
	Items      []*TransactionResponse `json:"items"`
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	TotalPages int                    `json:"total_pages"`
}

// TransactionPageFromDomain converts a ledger page to response.
func TransactionPageFromDomain(p *domain.TransactionPage) *TransactionPageResponse {
	return &TransactionPageResponse{
		Items:      TransactionsFromDomain(p.Items),
		Total:      p.Total,
		Page:       p.Page,
		Limit:      p.Size,
		TotalPages: p.TotalPages(),
	}
}

// TransferAccountResponse is one side of a committed transfer.
type TransferAccountResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	NewBalance       string `json:"new_balance"`
	AvailableBalance string `json:"available_balance"`
}

func transferAccount(a *domain.Account) TransferAccountResponse {
	return TransferAccountResponse{
		ID:               a.ID,
		Name:             a.Name,
		NewBalance:       money(a.Balance),
		AvailableBalance: money(a.AvailableBalance),
	}
}

// TransferResponse represents a committed transfer.
type TransferResponse struct {
	TransferID     string                  `json:"transfer_id"`
	Amount         string                  `json:"amount"`
	FromAccount    TransferAccountResponse `json:"from_account"`
	ToAccount      TransferAccountResponse `json:"to_account"`
	TransactionIDs []string                `json:"transaction_ids"`
	Transactions   []*TransactionResponse  `json:"transactions"`
}

// TransferFromDomain converts a transfer result to response.
func TransferFromDomain(r *domain.TransferResult) *TransferResponse {
	ids := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		ids[i] = e.ID
	}

	return &TransferResponse{
		TransferID:     r.TransferID,
		Amount:         money(r.Withdrawal().Amount),
		FromAccount:    transferAccount(r.FromAccount),
		ToAccount:      transferAccount(r.ToAccount),
		TransactionIDs: ids,
		Transactions:   TransactionsFromDomain(r.Entries),
	}
}

// MonthlyFigureResponse is a month total with its change against the previous month.
type MonthlyFigureResponse struct {
	Amount        string `json:"amount"`
	ChangePercent string `json:"change_percent"`
}

// SummaryResponse is the dashboard summary for an owner.
type SummaryResponse struct {
	OwnerID      string                `json:"owner_id"`
	TotalBalance string                `json:"total_balance"`
	Income       MonthlyFigureResponse `json:"income"`
	Expenses     MonthlyFigureResponse `json:"expenses"`
	PeriodStart  time.Time             `json:"period_start"`
	PeriodEnd    time.Time             `json:"period_end"`
	Accounts     []*AccountResponse    `json:"accounts"`
}

// SummaryFromUseCase converts an account summary to response.
func SummaryFromUseCase(s *usecase.AccountSummary) *SummaryResponse {
	return &SummaryResponse{
		OwnerID:      s.OwnerID,
		TotalBalance: money(s.TotalBalance),
		Income: MonthlyFigureResponse{
			Amount:        money(s.Income.Amount),
			ChangePercent: s.Income.ChangePercent.StringFixed(1),
		},
		Expenses: MonthlyFigureResponse{
			Amount:        money(s.Expenses.Amount),
			ChangePercent: s.Expenses.ChangePercent.StringFixed(1),
		},
		PeriodStart: s.PeriodStart,
		PeriodEnd:   s.PeriodEnd,
		Accounts:    AccountsFromDomain(s.Accounts),
	}
}

// ConsistencyResponse reports the ledger pairing check.
type ConsistencyResponse struct {
	Consistent        bool      `json:"consistent"`
	UnpairedTransfers []string  `json:"unpaired_transfers"`
	CheckedAt         time.Time `json:"checked_at"`
}

// ConsistencyFromUseCase converts a consistency report to response.
func ConsistencyFromUseCase(r *usecase.ConsistencyReport) *ConsistencyResponse {
	return &ConsistencyResponse{
		Consistent:        r.Consistent,
		UnpairedTransfers: r.UnpairedTransfers,
		CheckedAt:         r.CheckedAt,
	}
}

// HealthResponse is returned by the health endpoints.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
