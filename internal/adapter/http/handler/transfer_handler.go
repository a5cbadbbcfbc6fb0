package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/iho/demobank/internal/adapter/http/dto"
	"github.com/iho/demobank/internal/domain"
	"github.com/iho/demobank/internal/usecase"
)

// TransferService defines the behavior needed by TransferHandler.
type TransferService interface {
	Transfer(ctx context.Context, input usecase.TransferInput) (*domain.TransferResult, error)
}

// AccountGetter looks up accounts for ownership checks.
type AccountGetter interface {
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
}

// TransferHandler handles transfer-related HTTP requests.
type TransferHandler struct {
	transferUC TransferService
	accounts   AccountGetter
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferUC TransferService, accounts AccountGetter) *TransferHandler {
	return &TransferHandler{transferUC: transferUC, accounts: accounts}
}

// Create moves money between two accounts.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransferRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, r, err)
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	if err := h.authorizeSource(r.Context(), input.FromAccountID); err != nil {
		writeDomainError(w, r, err)
		return
	}

	result, err := h.transferUC.Transfer(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransferFromDomain(result))
}

// authorizeSource checks that a customer owns the source account. A missing
// account is left for the transfer itself to report.
func (h *TransferHandler) authorizeSource(ctx context.Context, accountID string) error {
	p, ok := domain.PrincipalFromContext(ctx)
	if !ok || p.Role == domain.RoleAdmin {
		return nil
	}

	account, err := h.accounts.GetAccount(ctx, accountID)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	return authorizeOwner(ctx, account.OwnerID)
}
