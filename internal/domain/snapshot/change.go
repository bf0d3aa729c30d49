package snapshot

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Op is the kind of change carried by a notification
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
	// OpReload tells subscribers the whole account was replaced
	OpReload Op = "reload"
)

// Change is one entry of the per-account change feed
type Change struct {
	AccountID  uuid.UUID       `json:"accountId"`
	Entity     Entity          `json:"entity,omitempty"`
	Op         Op              `json:"op"`
	ID         string          `json:"id,omitempty"`
	Record     json.RawMessage `json:"record,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// NewChange encodes record into a change event
func NewChange(accountID uuid.UUID, entity Entity, op Op, id string, record any) (Change, error) {
	c := Change{
		AccountID:  accountID,
		Entity:     entity,
		Op:         op,
		ID:         id,
		OccurredAt: time.Now().UTC(),
	}
	if record != nil {
		raw, err := json.Marshal(record)
		if err != nil {
			return Change{}, fmt.Errorf("encode %s record: %w", entity, err)
		}
		c.Record = raw
	}
	return c, nil
}

// NewReload builds the event published after a bulk replace
func NewReload(accountID uuid.UUID) Change {
	return Change{AccountID: accountID, Op: OpReload, OccurredAt: time.Now().UTC()}
}
