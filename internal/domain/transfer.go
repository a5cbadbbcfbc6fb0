package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TransferResult is the outcome of a committed transfer.
// Entries holds the withdrawal entry first and the deposit entry second.
type TransferResult struct {
	TransferID  string
	FromAccount *Account
	ToAccount   *Account
	Entries     []*Transaction
}

// Withdrawal returns the source account's entry.
func (r *TransferResult) Withdrawal() *Transaction {
	return r.Entries[0]
}

// Deposit returns the destination account's entry.
func (r *TransferResult) Deposit() *Transaction {
	return r.Entries[1]
}

// ValidateTransfer checks the account preconditions of a transfer in order:
// both accounts active, distinct accounts, sufficient available funds.
// The amount itself is checked earlier with ValidateAmount.
func ValidateTransfer(from, to *Account, amount decimal.Decimal) error {
	if !from.IsActive() {
		return fmt.Errorf("%w: %s is %s", ErrAccountNotActive, from.ID, from.Status)
	}

	if !to.IsActive() {
		return fmt.Errorf("%w: %s is %s", ErrAccountNotActive, to.ID, to.Status)
	}

	if from.ID == to.ID {
		return ErrSameAccount
	}

	return from.ValidateDebit(amount)
}

// TransferDescriptions returns the descriptions written on the two entries.
// A caller-supplied description is used on both sides.
func TransferDescriptions(from, to *Account, description string) (string, string) {
	if description != "" {
		return description, description
	}
	return "Transfer to " + to.Name, "Transfer from " + from.Name
}
