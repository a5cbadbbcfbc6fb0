package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidAccountName       = errors.New("invalid account name")
	ErrOwnerRequired            = errors.New("owner is required")
	ErrInvalidRequest           = errors.New("invalid request")
	ErrInvalidCurrency          = errors.New("invalid currency code")
	ErrAmountTooLarge           = errors.New("amount exceeds maximum allowed")
	ErrAmountTooPrecise         = errors.New("amount has more than two decimal places")
	ErrInvalidDescription       = errors.New("invalid description")
	ErrInvalidTransactionType   = errors.New("invalid transaction type")
	ErrInvalidTransactionStatus = errors.New("invalid transaction status")
)

// Validation constants
const (
	MaxAccountNameLength = 255
	MaxDescriptionLength = 255
	MaxTransferAmount    = "1000000000000" // 1 trillion
	AmountScale          = 2
	DefaultCurrency      = "USD"

	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Valid currency codes (ISO 4217)
var validCurrencies = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "JPY": true,
	"CNY": true, "AUD": true, "CAD": true, "CHF": true,
	"SEK": true, "NZD": true, "KRW": true, "SGD": true,
	"NOK": true, "MXN": true, "INR": true, "BRL": true,
	"ZAR": true, "TRY": true, "HKD": true, "TZS": true,
}

var maxTransferAmount = decimal.RequireFromString(MaxTransferAmount)

// Bounds on the decimal representation, checked before any arithmetic.
// Comparing or truncating rescales the coefficient by the exponent, so
// "1e2147483647" would otherwise build a billion-digit integer.
const (
	maxAmountIntegerDigits = len(MaxTransferAmount)
	minAmountExponent      = -18
)

// ValidateMagnitude rejects values whose integer part is longer than the maximum
// amount or whose exponent is far below cent precision. It only inspects the
// coefficient length and exponent, so it is cheap for any parsed decimal.
func ValidateMagnitude(amount decimal.Decimal) error {
	if amount.IsZero() {
		return nil
	}

	exp := int64(amount.Exponent())
	if exp < minAmountExponent {
		return fmt.Errorf("%w: exponent %d", ErrAmountTooPrecise, exp)
	}
	if exp > int64(maxAmountIntegerDigits) || int64(amount.NumDigits())+exp > int64(maxAmountIntegerDigits) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxTransferAmount)
	}

	return nil
}

// ValidateAmount validates a money movement amount.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	if err := ValidateMagnitude(amount); err != nil {
		return err
	}

	if amount.GreaterThan(maxTransferAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxTransferAmount)
	}

	if !amount.Equal(amount.Truncate(AmountScale)) {
		return fmt.Errorf("%w: %s", ErrAmountTooPrecise, amount)
	}

	return nil
}

// ValidateOpeningBalance checks an initial account balance. Zero and, for the
// caller to decide, negative values pass; the bounds match ValidateAmount.
func ValidateOpeningBalance(balance decimal.Decimal) error {
	if err := ValidateMagnitude(balance); err != nil {
		return err
	}

	if balance.Abs().GreaterThan(maxTransferAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxTransferAmount)
	}

	if !balance.Equal(balance.Truncate(AmountScale)) {
		return fmt.Errorf("%w: %s", ErrAmountTooPrecise, balance)
	}

	return nil
}

// ParseAmount parses a decimal amount and validates it.
// Non-numeric input, NaN and infinities are all rejected as invalid amounts.
func ParseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, raw)
	}

	if err := ValidateAmount(amount); err != nil {
		return decimal.Zero, err
	}

	return amount, nil
}

// ValidateAccountName validates account name
func ValidateAccountName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidAccountName)
	}

	if utf8.RuneCountInString(name) > MaxAccountNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAccountName, MaxAccountNameLength)
	}

	return nil
}

// ValidateDescription validates a free-text entry description. Empty is allowed.
func ValidateDescription(description string) error {
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return fmt.Errorf("%w: exceeds %d characters", ErrInvalidDescription, MaxDescriptionLength)
	}

	return nil
}

// ValidateCurrency validates currency code
func ValidateCurrency(currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))

	if !validCurrencies[currency] {
		return fmt.Errorf("%w: %s is not a valid ISO 4217 currency code", ErrInvalidCurrency, currency)
	}

	return nil
}

// ParseTransactionType parses a type filter value.
func ParseTransactionType(raw string) (TransactionType, error) {
	t := TransactionType(raw)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTransactionType, raw)
	}
	return t, nil
}

// ParseTransactionStatus parses a status value.
func ParseTransactionStatus(raw string) (TransactionStatus, error) {
	s := TransactionStatus(raw)
	if !s.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTransactionStatus, raw)
	}
	return s, nil
}

// NormalizePage clamps page parameters to sane values.
func NormalizePage(page Page) Page {
	if page.Number < 1 {
		page.Number = 1
	}

	if page.Size <= 0 {
		page.Size = DefaultPageSize
	}

	if page.Size > MaxPageSize {
		page.Size = MaxPageSize
	}

	return page
}
