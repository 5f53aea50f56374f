package models

import (
	"encoding/json"
	"time"

	"github.com/najeeb67/my-money-mat/internal/uuid"

	"gorm.io/gorm"
)

// MutationQueueEntry is a named write operation waiting for connectivity.
type MutationQueueEntry struct {
	ID            string          `gorm:"type:text;primaryKey" json:"id"`
	OperationName string          `gorm:"not null" json:"operation_name"`
	Arguments     json.RawMessage `gorm:"type:text;not null" json:"arguments"`
	CreatedAt     time.Time       `gorm:"not null;index;autoCreateTime:false" json:"created_at"`
}

// TableName keeps the queue in its own table, independent of budget items.
func (MutationQueueEntry) TableName() string {
	return "mutation_queue"
}

// BeforeCreate hook generates a UUIDv7 for new entries
func (m *MutationQueueEntry) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New()
	}
	return nil
}
