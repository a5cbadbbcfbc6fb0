package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/demobank/internal/adapter/http/dto"
	"github.com/iho/demobank/internal/domain"
	"github.com/iho/demobank/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	OpenAccount(ctx context.Context, input usecase.OpenAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	ListAccountsForOwner(ctx context.Context, ownerID string) ([]*domain.Account, error)
	UpdateStatus(ctx context.Context, id string, status domain.AccountStatus) (*domain.Account, error)
	Summary(ctx context.Context, ownerID string) (*usecase.AccountSummary, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Create opens a new account.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.OpenAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, r, err)
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	account, err := h.accountUC.OpenAccount(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account by ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	account, err := loadOwnedAccount(r, h.accountUC, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List lists an owner's accounts in creation order.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	owner, err := resolveOwner(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	accounts, err := h.accountUC.ListAccountsForOwner(r.Context(), owner)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountsFromDomain(accounts))
}

// UpdateStatus changes an account's status.
func (h *AccountHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, r, err)
		return
	}

	status, err := req.AccountStatus()
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	account, err := h.accountUC.UpdateStatus(r.Context(), chi.URLParam(r, "id"), status)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// Summary returns the owner's balance total and this month's income and expenses.
func (h *AccountHandler) Summary(w http.ResponseWriter, r *http.Request) {
	owner, err := resolveOwner(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	summary, err := h.accountUC.Summary(r.Context(), owner)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SummaryFromUseCase(summary))
}

// loadOwnedAccount fetches an account the caller may see.
func loadOwnedAccount(r *http.Request, accounts AccountGetter, id string) (*domain.Account, error) {
	account, err := accounts.GetAccount(r.Context(), id)
	if err != nil {
		return nil, err
	}

	if err := authorizeOwner(r.Context(), account.OwnerID); err != nil {
		return nil, err
	}

	return account, nil
}
