package model

import "time"

type ActivityAction string

const (
	ActivityPaymentReceived ActivityAction = "PAYMENT_RECEIVED"
	ActivityPaymentFailed   ActivityAction = "PAYMENT_FAILED"
	ActivityPaymentExpired  ActivityAction = "PAYMENT_EXPIRED"
	ActivityPremiumExpired  ActivityAction = "PREMIUM_EXPIRED"
)

// ActivityLogEntry is an append-only audit record of a reconciliation
// outcome. Entries are write-once; nothing in the system updates them.
type ActivityLogEntry struct {
	ID         string // ULID, sortable by creation time
	Action     ActivityAction
	Resource   string // e.g. "payments", "premium_listings"
	ResourceID string
	Details    string
	CreatedAt  time.Time
}
