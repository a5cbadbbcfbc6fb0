package domain

import (
	"errors"
)

var (
	// Account errors
	ErrAccountNotFound         = errors.New("account not found")
	ErrAccountNotActive        = errors.New("account is not active")
	ErrStaleVersion            = errors.New("account version is stale")
	ErrWouldViolateNonNegative = errors.New("balance would become negative")
	ErrInvalidAccountType      = errors.New("invalid account type")
	ErrInvalidAccountStatus    = errors.New("invalid account status")
	ErrNegativeOpeningBalance  = errors.New("opening balance cannot be negative")

	// Transfer errors
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrSameAccount       = errors.New("cannot transfer to same account")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrConflict          = errors.New("concurrent modification, retry the transfer")
	ErrTimeout           = errors.New("operation timed out")

	// Ledger errors
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidTransition   = errors.New("invalid transaction status transition")

	// Infrastructure errors
	ErrStorageUnavailable = errors.New("storage unavailable")

	// Authorization errors
	ErrForbidden    = errors.New("caller does not own the account")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Error codes reported to API clients.
const (
	CodeInvalidAmount      = "INVALID_AMOUNT"
	CodeAccountNotFound    = "ACCOUNT_NOT_FOUND"
	CodeAccountNotActive   = "ACCOUNT_NOT_ACTIVE"
	CodeSameAccount        = "SAME_ACCOUNT"
	CodeInsufficientFunds  = "INSUFFICIENT_FUNDS"
	CodeConflict           = "CONFLICT"
	CodeTimeout            = "TIMEOUT"
	CodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	CodeNotFound           = "NOT_FOUND"
	CodeInvalidTransition  = "INVALID_TRANSITION"
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeForbidden          = "FORBIDDEN"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInternal           = "INTERNAL"
)

// ErrorCode maps an error to a stable client-facing code.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrAmountTooLarge), errors.Is(err, ErrAmountTooPrecise):
		return CodeInvalidAmount
	case errors.Is(err, ErrAccountNotFound):
		return CodeAccountNotFound
	case errors.Is(err, ErrAccountNotActive):
		return CodeAccountNotActive
	case errors.Is(err, ErrSameAccount):
		return CodeSameAccount
	case errors.Is(err, ErrInsufficientFunds), errors.Is(err, ErrWouldViolateNonNegative):
		return CodeInsufficientFunds
	case errors.Is(err, ErrConflict), errors.Is(err, ErrStaleVersion):
		return CodeConflict
	case errors.Is(err, ErrTimeout):
		return CodeTimeout
	case errors.Is(err, ErrStorageUnavailable):
		return CodeStorageUnavailable
	case errors.Is(err, ErrTransactionNotFound):
		return CodeNotFound
	case errors.Is(err, ErrInvalidTransition):
		return CodeInvalidTransition
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrExpiredToken):
		return CodeUnauthorized
	case errors.Is(err, ErrInvalidDescription), errors.Is(err, ErrInvalidCurrency),
		errors.Is(err, ErrInvalidAccountName), errors.Is(err, ErrInvalidAccountType),
		errors.Is(err, ErrInvalidAccountStatus), errors.Is(err, ErrNegativeOpeningBalance),
		errors.Is(err, ErrInvalidTransactionType), errors.Is(err, ErrInvalidTransactionStatus),
		errors.Is(err, ErrOwnerRequired), errors.Is(err, ErrInvalidRequest):
		return CodeInvalidRequest
	default:
		return CodeInternal
	}
}
