package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iho/demobank/internal/domain"
	"github.com/iho/demobank/internal/usecase"
)

type ledgerServiceStub func(ctx context.Context) (*usecase.ConsistencyReport, error)

func (s ledgerServiceStub) CheckConsistency(ctx context.Context) (*usecase.ConsistencyReport, error) {
	return s(ctx)
}

func TestLedgerHandler_CheckConsistency(t *testing.T) {
	tests := []struct {
		name       string
		report     *usecase.ConsistencyReport
		err        error
		wantStatus int
	}{
		{name: "consistent", report: &usecase.ConsistencyReport{Consistent: true, UnpairedTransfers: []string{}, CheckedAt: time.Now()}, wantStatus: http.StatusOK},
		{name: "inconsistent", report: &usecase.ConsistencyReport{UnpairedTransfers: []string{"tr-1"}}, wantStatus: http.StatusConflict},
		{name: "storage down", err: domain.ErrStorageUnavailable, wantStatus: http.StatusServiceUnavailable},
		{name: "unexpected", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewLedgerHandler(ledgerServiceStub(func(ctx context.Context) (*usecase.ConsistencyReport, error) {
				return tt.report, tt.err
			}))

			rec := httptest.NewRecorder()
			handler.CheckConsistency(rec, httptest.NewRequest(http.MethodGet, "/ledger/consistency", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}
