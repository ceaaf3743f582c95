package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Business is a client-owned business entity. Each business gets its own
// business-type TaxReturn.
type Business struct {
	ID         string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID     string    `gorm:"not null;index" json:"user_id"`
	Name       string    `gorm:"not null" json:"name"`
	EntityType string    `json:"entity_type"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (b *Business) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
