package domain

import "time"

// AuditFields holds standard audit information for domain entities.
// Ledger records are never updated, so only creation is tracked.
type AuditFields struct {
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy"` // actor reference (token subject)
}
