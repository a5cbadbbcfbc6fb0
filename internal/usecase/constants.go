package usecase

import "time"

const (
	// DefaultTransferTimeout bounds one transfer including its retries.
	DefaultTransferTimeout = 10 * time.Second

	// rollbackTimeout bounds a rollback issued after the caller's context is gone.
	rollbackTimeout = 2 * time.Second

	// TransferCategory is the category written on both entries of a transfer.
	TransferCategory = "Transfer"

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// IdempotencyInProgress marks a key whose first request has not finished yet.
	IdempotencyInProgress = "processing"
)
