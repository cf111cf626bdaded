package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy int64     `json:"createdBy"` // UserID reference, 0 for seeded rows
}
