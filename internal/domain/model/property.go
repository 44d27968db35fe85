package model

import "time"

// Property is the narrow slice of the listing entity this core touches.
// IsPromoted is owned by the listing subsystem; payment reconciliation is
// the only writer here, and only as part of a premium activation cascade.
type Property struct {
	ID         string // UUID
	OwnerID    string // UUID
	Title      string
	City       string
	Price      int64 // minor currency units
	IsPromoted bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
