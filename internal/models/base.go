package models

import (
	"time"

	"github.com/najeeb67/my-money-mat/internal/uuid"

	"gorm.io/gorm"
)

// Base contains the identity and bookkeeping columns of a local record.
// Timestamps are owned by the services, not by GORM, because updated_at is
// the conflict clock and must match the mutation time exactly.
type Base struct {
	ID        string    `gorm:"type:text;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false" json:"updated_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}
