package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/iho/demobank/internal/adapter/http/dto"
	"github.com/iho/demobank/internal/domain"
	"github.com/iho/demobank/internal/usecase"
)

// TransactionService defines the behavior needed by TransactionHandler.
type TransactionService interface {
	ListForAccount(ctx context.Context, input usecase.ListTransactionsInput) (*domain.TransactionPage, error)
	ListForOwner(ctx context.Context, input usecase.ListOwnerTransactionsInput) (*domain.TransactionPage, error)
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, error)
	MarkStatus(ctx context.Context, id string, status domain.TransactionStatus) (*domain.Transaction, error)
}

// TransactionHandler handles ledger entry HTTP requests.
type TransactionHandler struct {
	transactionUC TransactionService
	accounts      AccountGetter
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionUC TransactionService, accounts AccountGetter) *TransactionHandler {
	return &TransactionHandler{transactionUC: transactionUC, accounts: accounts}
}

// ListByAccount lists an account's entries newest first.
func (h *TransactionHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	account, err := loadOwnedAccount(r, h.accounts, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	filter, page, err := dto.ParseTransactionQuery(r.URL.Query())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	result, err := h.transactionUC.ListForAccount(r.Context(), usecase.ListTransactionsInput{
		AccountID: account.ID,
		Filter:    filter,
		Page:      page,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionPageFromDomain(result))
}

// List lists entries across the owner's accounts, optionally narrowed by account_id.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	owner, err := resolveOwner(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	filter, page, err := dto.ParseTransactionQuery(r.URL.Query())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	result, err := h.transactionUC.ListForOwner(r.Context(), usecase.ListOwnerTransactionsInput{
		OwnerID:   owner,
		AccountID: strings.TrimSpace(r.URL.Query().Get("account_id")),
		Filter:    filter,
		Page:      page,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionPageFromDomain(result))
}

// Get retrieves a single entry.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.transactionUC.GetTransaction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	if _, err := loadOwnedAccount(r, h.accounts, entry.AccountID); err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(entry))
}

// UpdateStatus settles a Pending entry.
func (h *TransactionHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, r, err)
		return
	}

	status, err := req.TransactionStatus()
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	entry, err := h.transactionUC.MarkStatus(r.Context(), chi.URLParam(r, "id"), status)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(entry))
}
