package usecase

import (
	"context"
	"time"

	"github.com/iho/demobank/internal/infrastructure/metrics"
)

// ConsistencyReport is the result of a ledger consistency check.
type ConsistencyReport struct {
	Consistent        bool
	UnpairedTransfers []string
	CheckedAt         time.Time
}

// LedgerUseCase handles ledger-wide operations.
type LedgerUseCase struct {
	ledger  Ledger
	metrics *metrics.Metrics
}

// NewLedgerUseCase creates a new LedgerUseCase. m may be nil.
func NewLedgerUseCase(ledger Ledger, m *metrics.Metrics) *LedgerUseCase {
	return &LedgerUseCase{
		ledger:  ledger,
		metrics: m,
	}
}

// CheckConsistency verifies that every transfer is a mirrored withdrawal/deposit pair
// of equal amounts.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	unpaired, err := uc.ledger.FindUnpairedTransfers(ctx)
	if err != nil {
		return nil, err
	}

	report := &ConsistencyReport{
		Consistent:        len(unpaired) == 0,
		UnpairedTransfers: unpaired,
		CheckedAt:         time.Now().UTC(),
	}

	if uc.metrics != nil {
		result := "consistent"
		if !report.Consistent {
			result = "inconsistent"
		}
		uc.metrics.LedgerChecks.WithLabelValues(result).Inc()
	}

	return report, nil
}
