package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/simpro/backend/internal/domain/bulk"
	"github.com/simpro/backend/internal/domain/shared"
	"gorm.io/datatypes"
)

// RestoreRunModel is the persistence model for the RestoreRun audit record.
type RestoreRunModel struct {
	ID           string             `gorm:"type:varchar(36);primaryKey"`
	AccountID    uuid.UUID          `gorm:"type:uuid;not null;index"`
	Source       bulk.RestoreSource `gorm:"type:varchar(20);not null"`
	FileName     string             `gorm:"type:varchar(255);not null"`
	FileSize     int64              `gorm:"not null;default:0"`
	Status       bulk.RestoreStatus `gorm:"type:varchar(20);not null;index"`
	Counts       datatypes.JSON     `gorm:"type:jsonb"`
	RemappedIDs  int                `gorm:"column:remapped_ids;not null;default:0"`
	ErrorMessage string             `gorm:"type:text"`
	StartedAt    *time.Time
	CompletedAt  *time.Time
	CreatedAt    time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (RestoreRunModel) TableName() string {
	return "restore_runs"
}

// ToDomain converts the persistence model to a domain RestoreRun.
func (m *RestoreRunModel) ToDomain() (*bulk.RestoreRun, error) {
	counts := map[string]int{}
	if len(m.Counts) > 0 {
		if err := json.Unmarshal(m.Counts, &counts); err != nil {
			return nil, fmt.Errorf("decode restore run counts: %w", err)
		}
	}
	return &bulk.RestoreRun{
		BaseEntity:   shared.BaseEntity{ID: m.ID, AccountID: m.AccountID},
		Source:       m.Source,
		FileName:     m.FileName,
		FileSize:     m.FileSize,
		Status:       m.Status,
		Counts:       counts,
		RemappedIDs:  m.RemappedIDs,
		ErrorMessage: m.ErrorMessage,
		StartedAt:    m.StartedAt,
		CompletedAt:  m.CompletedAt,
		CreatedAt:    m.CreatedAt,
	}, nil
}

// RestoreRunModelFromDomain creates a new persistence model from a domain RestoreRun.
func RestoreRunModelFromDomain(r *bulk.RestoreRun) (*RestoreRunModel, error) {
	counts, err := json.Marshal(r.Counts)
	if err != nil {
		return nil, fmt.Errorf("encode restore run counts: %w", err)
	}
	return &RestoreRunModel{
		ID:           r.ID,
		AccountID:    r.AccountID,
		Source:       r.Source,
		FileName:     r.FileName,
		FileSize:     r.FileSize,
		Status:       r.Status,
		Counts:       datatypes.JSON(counts),
		RemappedIDs:  r.RemappedIDs,
		ErrorMessage: r.ErrorMessage,
		StartedAt:    r.StartedAt,
		CompletedAt:  r.CompletedAt,
		CreatedAt:    r.CreatedAt,
	}, nil
}

// AllModels lists every table the service owns, parents before children
func AllModels() []any {
	return []any{
		&SimTypeModel{},
		&CustomerModel{},
		&SimPackageModel{},
		&SaleOrderModel{},
		&TransactionModel{},
		&DueDateLogModel{},
		&RestoreRunModel{},
	}
}
