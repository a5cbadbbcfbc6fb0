package domain

import (
	"testing"
	"time"
)

func TestTransactionStatus_CanTransitionTo(t *testing.T) {
	statuses := []TransactionStatus{
		TransactionStatusPending,
		TransactionStatusCompleted,
		TransactionStatusFailed,
		TransactionStatusCancelled,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			want := from == TransactionStatusPending && to != TransactionStatusPending
			if got := from.CanTransitionTo(to); got != want {
				t.Errorf("%s -> %s: expected %v, got %v", from, to, want, got)
			}
		}
	}
}

func TestTransactionFilter_Matches(t *testing.T) {
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	entry := &Transaction{
		Type:      TransactionTypeDeposit,
		Status:    TransactionStatusCompleted,
		Timestamp: base,
	}

	deposit := TransactionTypeDeposit
	withdrawal := TransactionTypeWithdrawal
	pending := TransactionStatusPending
	before := base.Add(-time.Hour)
	after := base.Add(time.Hour)

	tests := []struct {
		name   string
		filter TransactionFilter
		want   bool
	}{
		{"empty filter", TransactionFilter{}, true},
		{"matching type", TransactionFilter{Type: &deposit}, true},
		{"other type", TransactionFilter{Type: &withdrawal}, false},
		{"other status", TransactionFilter{Status: &pending}, false},
		{"inside range", TransactionFilter{From: &before, To: &after}, true},
		{"range ends before", TransactionFilter{To: &before}, false},
		{"range starts after", TransactionFilter{From: &after}, false},
		{"inclusive bounds", TransactionFilter{From: &base, To: &base}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(entry); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestTransaction_CloneCopiesRelatedAccount(t *testing.T) {
	related := "acc-2"
	entry := &Transaction{ID: "tx-1", RelatedAccountID: &related}

	clone := entry.Clone()
	*clone.RelatedAccountID = "changed"

	if *entry.RelatedAccountID != "acc-2" {
		t.Fatalf("clone shares related account pointer")
	}
}

func TestTransactionPage_TotalPages(t *testing.T) {
	page := &TransactionPage{Total: 21, Size: 10}
	if got := page.TotalPages(); got != 3 {
		t.Fatalf("expected 3 pages, got %d", got)
	}

	empty := &TransactionPage{Total: 0, Size: 10}
	if got := empty.TotalPages(); got != 0 {
		t.Fatalf("expected 0 pages, got %d", got)
	}
}
