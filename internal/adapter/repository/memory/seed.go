package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/demobank/internal/domain"
)

// DemoStartingBalance is the balance every demo account opens with.
var DemoStartingBalance = decimal.NewFromInt(1000)

// Demo owner ids used by the seeded accounts.
const (
	DemoOwnerAlice = "demo-user-alice"
	DemoOwnerBob   = "demo-user-bob"
)

var demoAccounts = []struct {
	id      string
	owner   string
	name    string
	number  string
	accType domain.AccountType
}{
	{"acc-alice-checking", DemoOwnerAlice, "Everyday Checking", "4000000001", domain.AccountTypeChecking},
	{"acc-alice-savings", DemoOwnerAlice, "Rainy Day Savings", "4000000002", domain.AccountTypeSavings},
	{"acc-bob-checking", DemoOwnerBob, "Main Checking", "4000000003", domain.AccountTypeChecking},
	{"acc-bob-savings", DemoOwnerBob, "Holiday Savings", "4000000004", domain.AccountTypeSavings},
}

// SeedDemoData opens the demo accounts in one unit of work.
func (s *Store) SeedDemoData(ctx context.Context) ([]*domain.Account, error) {
	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	now := s.now()
	accounts := s.Accounts()
	seeded := make([]*domain.Account, 0, len(demoAccounts))

	for _, d := range demoAccounts {
		acc := &domain.Account{
			ID:               d.id,
			OwnerID:          d.owner,
			Name:             d.name,
			Number:           d.number,
			Type:             d.accType,
			Status:           domain.AccountStatusActive,
			Currency:         domain.DefaultCurrency,
			Balance:          DemoStartingBalance,
			AvailableBalance: DemoStartingBalance,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := accounts.Create(ctx, tx, acc); err != nil {
			return nil, err
		}
		seeded = append(seeded, acc)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return seeded, nil
}
