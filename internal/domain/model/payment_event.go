package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"property-marketplace/internal/domain"
)

// Gateway callback statuses. Anything outside this vocabulary is
// acknowledged without mutation for forward compatibility.
const (
	EventStatusPaid    = "PAID"
	EventStatusSettled = "SETTLED"
	EventStatusExpired = "EXPIRED"
	EventStatusFailed  = "FAILED"
)

// PaymentEvent is the validated form of a gateway webhook payload.
type PaymentEvent struct {
	ID             string `json:"id"`              // gateway transaction id
	ExternalID     string `json:"external_id"`     // our order reference, echoed back
	Status         string `json:"status"`
	PaymentMethod  string `json:"payment_method,omitempty"`
	PaymentChannel string `json:"payment_channel,omitempty"`
}

// Validate rejects structurally malformed payloads before any business
// logic runs. Field combinations (e.g. external_id on a paid event) are
// enforced by the reconciliation use case, where the branch is known.
func (e *PaymentEvent) Validate() error {
	if e == nil {
		return fmt.Errorf("%w: empty payload", domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("%w: missing event id", domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(e.Status) == "" {
		return fmt.Errorf("%w: missing event status", domain.ErrInvalidArgument)
	}
	return nil
}

// Settled reports a successful payment event.
func (e *PaymentEvent) Settled() bool {
	return e.Status == EventStatusPaid || e.Status == EventStatusSettled
}

// Failed reports a terminal unsuccessful payment event.
func (e *PaymentEvent) Failed() bool {
	return e.Status == EventStatusExpired || e.Status == EventStatusFailed
}

// Method resolves the reported payment method, preferring payment_method
// over payment_channel. Returns nil when the gateway reported neither, so
// the stored value is left untouched.
func (e *PaymentEvent) Method() *string {
	if e.PaymentMethod != "" {
		m := e.PaymentMethod
		return &m
	}
	if e.PaymentChannel != "" {
		m := e.PaymentChannel
		return &m
	}
	return nil
}

const premiumOrderPrefix = "premium-"

// NewPremiumOrderRef builds the order reference embedded in a premium
// checkout invoice: premium-<propertyID>-<ulid>. The ULID suffix keeps the
// reference unique across repeated upgrade attempts for the same property.
func NewPremiumOrderRef(propertyID string, now time.Time) string {
	return premiumOrderPrefix + propertyID + "-" + ulid.MustNew(ulid.Timestamp(now), ulidEntropy).String()
}

var ulidEntropy = ulid.DefaultEntropy()

// ParsePremiumOrderRef extracts the property id from a premium order
// reference. The property id may itself contain dashes (UUIDs), so the
// suffix is cut at the last separator rather than the second one.
func ParsePremiumOrderRef(ref string) (propertyID string, ok bool) {
	if !strings.HasPrefix(ref, premiumOrderPrefix) {
		return "", false
	}
	rest := strings.TrimPrefix(ref, premiumOrderPrefix)
	i := strings.LastIndex(rest, "-")
	if i <= 0 {
		return "", false
	}
	return rest[:i], true
}
