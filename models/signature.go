package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Signable document types queried by the pipeline.
const (
	SignatureEngagementLetter = "engagement_letter"
	SignatureForm8879         = "form_8879"
)

// SignatureRecord is written by the external e-signature flow and read by
// this core to feed derived-stage computation and the client advance
// precondition.
type SignatureRecord struct {
	ID           string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID       string    `gorm:"not null;index" json:"user_id"`
	DocumentType string    `gorm:"not null" json:"document_type"`
	SignedAt     time.Time `json:"signed_at"`
	CreatedAt    time.Time `json:"created_at"`
}

func (s *SignatureRecord) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
