package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/iho/demobank/internal/adapter/http/dto"
	"github.com/iho/demobank/internal/domain"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// StatusClientClosedRequest is reported when the caller goes away mid-request.
const StatusClientClosedRequest = 499

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   http.StatusText(status),
		Code:    code,
		Message: message,
	})
}

// writeDomainError maps err to a status and code. Internal errors are logged and
// their details withheld from the client.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapDomainError(err)
	message := err.Error()

	if status >= http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		if status == http.StatusInternalServerError {
			message = "internal error"
		}
	}

	writeError(w, status, domain.ErrorCode(err), message)
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest
	case errors.Is(err, domain.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}

	switch domain.ErrorCode(err) {
	case domain.CodeInvalidAmount, domain.CodeSameAccount, domain.CodeInvalidRequest:
		return http.StatusBadRequest
	case domain.CodeAccountNotFound, domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeAccountNotActive, domain.CodeInsufficientFunds:
		return http.StatusUnprocessableEntity
	case domain.CodeConflict, domain.CodeInvalidTransition:
		return http.StatusConflict
	case domain.CodeStorageUnavailable:
		return http.StatusServiceUnavailable
	case domain.CodeForbidden:
		return http.StatusForbidden
	case domain.CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed body: %s", domain.ErrInvalidRequest, err.Error())
	}
	return nil
}

// authorizeOwner checks that the caller may act on ownerID's accounts.
// Requests without a principal run with authentication disabled and are allowed.
func authorizeOwner(ctx context.Context, ownerID string) error {
	p, ok := domain.PrincipalFromContext(ctx)
	if !ok || p.CanAccess(ownerID) {
		return nil
	}
	return domain.ErrForbidden
}

// resolveOwner picks the owner a listing is for: the owner_id query parameter,
// defaulting to the caller.
func resolveOwner(r *http.Request) (string, error) {
	owner := strings.TrimSpace(r.URL.Query().Get("owner_id"))
	p, ok := domain.PrincipalFromContext(r.Context())
	if owner == "" && ok {
		owner = p.ID
	}
	if owner == "" {
		return "", domain.ErrOwnerRequired
	}
	if err := authorizeOwner(r.Context(), owner); err != nil {
		return "", err
	}
	return owner, nil
}
