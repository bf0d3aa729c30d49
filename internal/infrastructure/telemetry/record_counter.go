package telemetry

import (
	"context"
	"fmt"

	"github.com/simpro/backend/internal/domain/snapshot"
	"gorm.io/gorm"
)

// GormRecordCounter counts rows in every collection table.
type GormRecordCounter struct {
	db *gorm.DB
}

// NewGormRecordCounter creates a counter over db
func NewGormRecordCounter(db *gorm.DB) *GormRecordCounter {
	return &GormRecordCounter{db: db}
}

// CountRecords implements RecordCounter. Collection tables are named after their entity.
func (c *GormRecordCounter) CountRecords(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(snapshot.Entities))
	for _, entity := range snapshot.Entities {
		var n int64
		if err := c.db.WithContext(ctx).Table(string(entity)).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("count %s: %w", entity, err)
		}
		counts[string(entity)] = n
	}
	return counts, nil
}
