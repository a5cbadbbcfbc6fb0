package domain

import "time"

// Notification types
const (
	NotificationTypeTransaction = "transaction"
	NotificationTypeSecurity    = "security"
	NotificationTypeAlert       = "alert"
	NotificationTypeInfo        = "info"
)

// Notification titles emitted by the transfer flow.
const (
	TitleTransferCompleted = "Transfer Completed"
	TitleFundsReceived     = "Funds Received"
)

// NotificationEvent is handed to the notification emitter after a commit.
type NotificationEvent struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}
