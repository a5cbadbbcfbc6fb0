package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestValidateAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		amount decimal.Decimal
		want   error
	}{
		{"positive", decimal.RequireFromString("300.00"), nil},
		{"smallest unit", decimal.RequireFromString("0.01"), nil},
		{"zero", decimal.Zero, ErrInvalidAmount},
		{"negative", decimal.RequireFromString("-5.00"), ErrInvalidAmount},
		{"too large", decimal.RequireFromString("1000000000000.01"), ErrAmountTooLarge},
		{"sub-cent", decimal.RequireFromString("0.001"), ErrAmountTooPrecise},
		{"maximum", decimal.RequireFromString(MaxTransferAmount), nil},
		{"maximum with cents", decimal.RequireFromString("1000000000000.00"), nil},
		{"trailing zeros", decimal.RequireFromString("10.500"), nil},
		{"exponent notation", decimal.RequireFromString("1.5e2"), nil},
		{"one digit too many", decimal.RequireFromString("1e13"), ErrAmountTooLarge},
		{"huge exponent", decimal.RequireFromString("1e2147483647"), ErrAmountTooLarge},
		{"tiny exponent", decimal.RequireFromString("1e-2147483647"), ErrAmountTooPrecise},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateAmount(tt.amount); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	t.Parallel()

	amount, err := ParseAmount(" 12.50 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !amount.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("expected 12.5, got %s", amount)
	}

	for _, raw := range []string{"abc", "NaN", "Inf", "-Infinity", "", "-5", "0"} {
		if _, err := ParseAmount(raw); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("ParseAmount(%q): expected ErrInvalidAmount, got %v", raw, err)
		}
	}
}

func TestParseAmountExtremeExponents(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want error
	}{
		{"1e2147483647", ErrAmountTooLarge},
		{"9.99e2147483647", ErrAmountTooLarge},
		{"1e-2147483647", ErrAmountTooPrecise},
		{"-1e2147483647", ErrInvalidAmount},
		{"0e2147483647", ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			done := make(chan error, 1)
			go func() {
				_, err := ParseAmount(tt.raw)
				done <- err
			}()

			select {
			case err := <-done:
				if !errors.Is(err, tt.want) {
					t.Fatalf("ParseAmount(%q): expected %v, got %v", tt.raw, tt.want, err)
				}
			case <-time.After(2 * time.Second):
				t.Fatalf("ParseAmount(%q) did not return", tt.raw)
			}
		})
	}
}

func TestValidateOpeningBalance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want error
	}{
		{"0", nil},
		{"1000.00", nil},
		{"-250.50", nil},
		{"1000000000000.01", ErrAmountTooLarge},
		{"-1000000000000.01", ErrAmountTooLarge},
		{"0.005", ErrAmountTooPrecise},
		{"1e2147483647", ErrAmountTooLarge},
		{"-1e-2147483647", ErrAmountTooPrecise},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if err := ValidateOpeningBalance(decimal.RequireFromString(tt.raw)); !errors.Is(err, tt.want) {
				t.Fatalf("ValidateOpeningBalance(%s): expected %v, got %v", tt.raw, tt.want, err)
			}
		})
	}
}

func TestValidateAccountName(t *testing.T) {
	t.Parallel()

	if err := ValidateAccountName("Everyday Checking"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := ValidateAccountName("   "); !errors.Is(err, ErrInvalidAccountName) {
		t.Fatalf("expected ErrInvalidAccountName, got %v", err)
	}

	tooLong := strings.Repeat("a", MaxAccountNameLength+1)
	if err := ValidateAccountName(tooLong); !errors.Is(err, ErrInvalidAccountName) {
		t.Fatalf("expected ErrInvalidAccountName, got %v", err)
	}
}

func TestValidateDescription(t *testing.T) {
	t.Parallel()

	if err := ValidateDescription(""); err != nil {
		t.Fatalf("empty description should be allowed, got %v", err)
	}

	if err := ValidateDescription(strings.Repeat("x", MaxDescriptionLength+1)); !errors.Is(err, ErrInvalidDescription) {
		t.Fatalf("expected ErrInvalidDescription, got %v", err)
	}
}

func TestValidateCurrency(t *testing.T) {
	t.Parallel()

	if err := ValidateCurrency(" usd "); err != nil {
		t.Fatalf("expected lower-case padded USD to pass, got %v", err)
	}

	if err := ValidateCurrency("XXX"); !errors.Is(err, ErrInvalidCurrency) {
		t.Fatalf("expected ErrInvalidCurrency, got %v", err)
	}
}

func TestParseTransactionTypeAndStatus(t *testing.T) {
	t.Parallel()

	if typ, err := ParseTransactionType("Deposit"); err != nil || typ != TransactionTypeDeposit {
		t.Fatalf("unexpected result: %v %v", typ, err)
	}
	if _, err := ParseTransactionType("deposit"); !errors.Is(err, ErrInvalidTransactionType) {
		t.Fatalf("expected ErrInvalidTransactionType, got %v", err)
	}

	if s, err := ParseTransactionStatus("Pending"); err != nil || s != TransactionStatusPending {
		t.Fatalf("unexpected result: %v %v", s, err)
	}
	if _, err := ParseTransactionStatus("Done"); !errors.Is(err, ErrInvalidTransactionStatus) {
		t.Fatalf("expected ErrInvalidTransactionStatus, got %v", err)
	}
}

func TestNormalizePage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   Page
		want Page
	}{
		{Page{}, Page{Number: 1, Size: DefaultPageSize}},
		{Page{Number: 3, Size: 25}, Page{Number: 3, Size: 25}},
		{Page{Number: -2, Size: 5000}, Page{Number: 1, Size: MaxPageSize}},
	}

	for _, tt := range tests {
		if got := NormalizePage(tt.in); got != tt.want {
			t.Errorf("NormalizePage(%+v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestErrorCode(t *testing.T) {
	t.Parallel()

	tests := map[error]string{
		ErrInvalidAmount:           CodeInvalidAmount,
		ErrAccountNotFound:         CodeAccountNotFound,
		ErrAccountNotActive:        CodeAccountNotActive,
		ErrSameAccount:             CodeSameAccount,
		ErrInsufficientFunds:       CodeInsufficientFunds,
		ErrWouldViolateNonNegative: CodeInsufficientFunds,
		ErrConflict:                CodeConflict,
		ErrTimeout:                 CodeTimeout,
		ErrStorageUnavailable:      CodeStorageUnavailable,
		ErrInvalidTransition:       CodeInvalidTransition,
		errors.New("boom"):         CodeInternal,
	}

	for err, want := range tests {
		if got := ErrorCode(err); got != want {
			t.Errorf("ErrorCode(%v) = %s, want %s", err, got, want)
		}
	}
}
