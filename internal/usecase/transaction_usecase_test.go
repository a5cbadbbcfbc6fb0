package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/demobank/internal/domain"
	"github.com/iho/demobank/internal/usecase"
	"github.com/iho/demobank/internal/usecase/mocks"
)

func TestTransactionUseCase_ListForAccount(t *testing.T) {
	f := newTransferFixture(t)
	f.open(t, "x", "owner-1", "1000", domain.AccountStatusActive)
	f.open(t, "y", "owner-2", "0", domain.AccountStatusActive)

	for i := 0; i < 3; i++ {
		_, err := f.uc.Transfer(context.Background(), usecase.TransferInput{FromAccountID: "x", ToAccountID: "y", Amount: decimal.NewFromInt(10)})
		require.NoError(t, err)
	}

	uc := usecase.NewTransactionUseCase(f.store.TxManager(), f.store.Ledger(), f.store.Accounts(), nil)

	page, err := uc.ListForAccount(context.Background(), usecase.ListTransactionsInput{AccountID: "x"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, domain.DefaultPageSize, page.Size)

	withdrawal := domain.TransactionTypeWithdrawal
	page, err = uc.ListForAccount(context.Background(), usecase.ListTransactionsInput{
		AccountID: "y",
		Filter:    domain.TransactionFilter{Type: &withdrawal},
	})
	require.NoError(t, err)
	assert.Zero(t, page.Total)

	_, err = uc.ListForAccount(context.Background(), usecase.ListTransactionsInput{AccountID: "missing"})
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	from := time.Now()
	to := from.Add(-time.Hour)
	_, err = uc.ListForAccount(context.Background(), usecase.ListTransactionsInput{
		AccountID: "x",
		Filter:    domain.TransactionFilter{From: &from, To: &to},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestTransactionUseCase_ListForOwner(t *testing.T) {
	ctx := context.Background()
	f := newTransferFixture(t)
	f.open(t, "x", "owner-1", "1000", domain.AccountStatusActive)
	f.open(t, "x2", "owner-1", "0", domain.AccountStatusActive)
	f.open(t, "y", "owner-2", "0", domain.AccountStatusActive)

	transfers := []usecase.TransferInput{
		{FromAccountID: "x", ToAccountID: "x2", Amount: decimal.NewFromInt(100)},
		{FromAccountID: "x", ToAccountID: "y", Amount: decimal.NewFromInt(50)},
	}
	for _, in := range transfers {
		_, err := f.uc.Transfer(ctx, in)
		require.NoError(t, err)
	}

	uc := usecase.NewTransactionUseCase(f.store.TxManager(), f.store.Ledger(), f.store.Accounts(), nil)

	page, err := uc.ListForOwner(ctx, usecase.ListOwnerTransactionsInput{OwnerID: "owner-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total, "two withdrawals from x and one deposit into x2")
	for _, e := range page.Items {
		assert.Contains(t, []string{"x", "x2"}, e.AccountID)
	}

	page, err = uc.ListForOwner(ctx, usecase.ListOwnerTransactionsInput{OwnerID: "owner-1", AccountID: "x2"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, domain.TransactionTypeDeposit, page.Items[0].Type)

	page, err = uc.ListForOwner(ctx, usecase.ListOwnerTransactionsInput{OwnerID: "nobody"})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	tests := []struct {
		name  string
		input usecase.ListOwnerTransactionsInput
		want  error
	}{
		{"missing owner", usecase.ListOwnerTransactionsInput{}, domain.ErrOwnerRequired},
		{"account of another owner", usecase.ListOwnerTransactionsInput{OwnerID: "owner-1", AccountID: "y"}, domain.ErrAccountNotFound},
		{"unknown account", usecase.ListOwnerTransactionsInput{OwnerID: "owner-1", AccountID: "ghost"}, domain.ErrAccountNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.ListForOwner(ctx, tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTransactionUseCase_MarkStatus(t *testing.T) {
	ctx := context.Background()
	f := newTransferFixture(t)

	pending, err := f.store.Ledger().Append(ctx, nil, &domain.Transaction{
		AccountID: "x",
		Type:      domain.TransactionTypePayment,
		Amount:    decimal.NewFromInt(5),
		Status:    domain.TransactionStatusPending,
	})
	require.NoError(t, err)

	uc := usecase.NewTransactionUseCase(f.store.TxManager(), f.store.Ledger(), f.store.Accounts(), nil)

	cancelled, err := uc.MarkStatus(ctx, pending.ID, domain.TransactionStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusCancelled, cancelled.Status)

	_, err = uc.MarkStatus(ctx, pending.ID, domain.TransactionStatusCompleted)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = uc.MarkStatus(ctx, pending.ID, "Done")
	assert.ErrorIs(t, err, domain.ErrInvalidTransactionStatus)

	got, err := uc.GetTransaction(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusCancelled, got.Status)
}

func TestTransactionUseCase_MarkStatusRollsBackOnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	txManager := mocks.NewMockTxManager(ctrl)
	tx := mocks.NewMockTx(ctrl)
	ledger := mocks.NewMockLedger(ctrl)

	txManager.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	ledger.EXPECT().MarkStatus(gomock.Any(), tx, "tx-1", domain.TransactionStatusFailed).Return(nil, domain.ErrTransactionNotFound)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil)

	uc := usecase.NewTransactionUseCase(txManager, ledger, nil, nil)
	_, err := uc.MarkStatus(context.Background(), "tx-1", domain.TransactionStatusFailed)
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}
