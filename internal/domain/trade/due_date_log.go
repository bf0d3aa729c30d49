package trade

import "github.com/simpro/backend/internal/domain/shared"

// DueDateLog records one due-date extension. Entries are append-only.
type DueDateLog struct {
	shared.BaseEntity
	OrderID   string `json:"orderId"`
	OldDate   string `json:"oldDate"`
	NewDate   string `json:"newDate"`
	Reason    string `json:"reason"`
	UpdatedAt string `json:"updatedAt"`
}
