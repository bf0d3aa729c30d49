package bulk

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/simpro/backend/internal/domain/shared"
)

// RestoreSource is where the restored data came from
type RestoreSource string

const (
	RestoreSourceUpload RestoreSource = "upload"
	RestoreSourceJSON   RestoreSource = "json"
	RestoreSourceS3     RestoreSource = "s3"
)

// IsValid checks if the source is valid
func (s RestoreSource) IsValid() bool {
	switch s {
	case RestoreSourceUpload, RestoreSourceJSON, RestoreSourceS3:
		return true
	}
	return false
}

// RestoreStatus represents the status of a restore run
type RestoreStatus string

const (
	RestoreStatusPending    RestoreStatus = "pending"
	RestoreStatusProcessing RestoreStatus = "processing"
	RestoreStatusCompleted  RestoreStatus = "completed"
	RestoreStatusFailed     RestoreStatus = "failed"
)

// IsValid checks if the status is valid
func (s RestoreStatus) IsValid() bool {
	switch s {
	case RestoreStatusPending, RestoreStatusProcessing, RestoreStatusCompleted, RestoreStatusFailed:
		return true
	}
	return false
}

// IsTerminal returns true if this is a terminal state
func (s RestoreStatus) IsTerminal() bool {
	return s == RestoreStatusCompleted || s == RestoreStatusFailed
}

// RestoreRun records one import of a full data set into an account.
// Counts holds the number of records written per collection.
type RestoreRun struct {
	shared.BaseEntity
	Source       RestoreSource  `json:"source"`
	FileName     string         `json:"fileName"`
	FileSize     int64          `json:"fileSize"`
	Status       RestoreStatus  `json:"status"`
	Counts       map[string]int `json:"counts"`
	RemappedIDs  int            `json:"remappedIds"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
	StartedAt    *time.Time     `json:"startedAt,omitempty"`
	CompletedAt  *time.Time     `json:"completedAt,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// NewRestoreRun creates a pending restore run
func NewRestoreRun(accountID uuid.UUID, source RestoreSource, fileName string, fileSize int64) (*RestoreRun, error) {
	if !source.IsValid() {
		return nil, shared.NewDomainError("INVALID_RESTORE_SOURCE", fmt.Sprintf("Invalid restore source: %s", source))
	}
	if fileName == "" {
		return nil, shared.NewDomainError("INVALID_FILE_NAME", "File name cannot be empty")
	}
	if fileSize < 0 {
		return nil, shared.NewDomainError("INVALID_FILE_SIZE", "File size cannot be negative")
	}

	return &RestoreRun{
		BaseEntity: shared.NewBaseEntity(accountID),
		Source:     source,
		FileName:   fileName,
		FileSize:   fileSize,
		Status:     RestoreStatusPending,
		Counts:     map[string]int{},
		CreatedAt:  time.Now(),
	}, nil
}

// StartProcessing marks the run as started
func (r *RestoreRun) StartProcessing() error {
	if r.Status != RestoreStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot start processing from state: %s", r.Status))
	}
	r.Status = RestoreStatusProcessing
	now := time.Now()
	r.StartedAt = &now
	return nil
}

// Complete records the written counts and the number of re-keyed identifiers
func (r *RestoreRun) Complete(counts map[string]int, remapped int) error {
	if r.Status != RestoreStatusProcessing {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete from state: %s", r.Status))
	}
	r.Status = RestoreStatusCompleted
	r.Counts = counts
	r.RemappedIDs = remapped
	now := time.Now()
	r.CompletedAt = &now
	return nil
}

// Fail marks the run as failed with the cause
func (r *RestoreRun) Fail(cause error) error {
	if r.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot fail from terminal state: %s", r.Status))
	}
	r.Status = RestoreStatusFailed
	if cause != nil {
		r.ErrorMessage = cause.Error()
	}
	now := time.Now()
	r.CompletedAt = &now
	return nil
}

// TotalRecords sums the per-collection counts
func (r *RestoreRun) TotalRecords() int {
	total := 0
	for _, n := range r.Counts {
		total += n
	}
	return total
}

// Duration returns how long the run took, or has taken so far
func (r *RestoreRun) Duration() time.Duration {
	if r.StartedAt == nil {
		return 0
	}
	end := time.Now()
	if r.CompletedAt != nil {
		end = *r.CompletedAt
	}
	return end.Sub(*r.StartedAt)
}
