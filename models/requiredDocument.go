package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequiredDocumentItem is one entry on a client's document checklist,
// derived from their questionnaire answers. An item counts as satisfied
// when it is either uploaded or marked not applicable.
type RequiredDocumentItem struct {
	ID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`

	UserID string `gorm:"not null;index" json:"user_id"`

	// ReturnID groups the item under the client's personal or business
	// return. Nil when the matching return does not exist yet.
	ReturnID *string `gorm:"type:uuid" json:"return_id"`

	DocumentType string `gorm:"not null;index" json:"document_type"`
	Description  string `gorm:"not null" json:"description"`

	TaxYear int `json:"tax_year"`

	// SortOrder preserves rule-declaration order for display.
	SortOrder int `json:"sort_order"`

	IsUploaded          bool `gorm:"default:false" json:"is_uploaded"`
	MarkedNotApplicable bool `gorm:"default:false" json:"marked_not_applicable"`

	// DocumentID links the satisfying upload. Non-nil whenever IsUploaded
	// is true.
	DocumentID *string `gorm:"type:uuid" json:"document_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Satisfied reports whether the item requires no further client action.
func (r *RequiredDocumentItem) Satisfied() bool {
	return r.IsUploaded || r.MarkedNotApplicable
}

func (r *RequiredDocumentItem) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
