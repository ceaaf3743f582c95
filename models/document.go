package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Document status values. A document is created in StatusProcessing and
// flips to StatusVerified once its verify_after timestamp passes; staff
// can override to StatusRejected at any point.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusVerified   = "verified"
	StatusRejected   = "rejected"
)

// Document stores the metadata of an uploaded client file. The file bytes
// themselves live in object storage; only the storage key is kept here.
type Document struct {
	// ID is a unique identifier for the document, stored as a UUID in the database.
	ID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`

	// UserID is the owning client, supplied by the auth gateway.
	UserID string `gorm:"not null;index" json:"user_id"`

	// FileName is the storage key under which the file was saved.
	FileName string `gorm:"not null" json:"file_name"`

	// OriginalName is the filename as uploaded by the client.
	OriginalName string `gorm:"not null" json:"original_name"`

	// FileType is the MIME type reported at upload time.
	FileType string `json:"file_type"`

	FileSize int64 `json:"file_size"`

	// DocumentType is the inferred or explicitly assigned tax-form type
	// (e.g. "w2", "form_1098"). Only staff may change it after creation.
	DocumentType string `gorm:"index" json:"document_type"`

	// Status is one of pending/processing/verified/rejected.
	Status string `gorm:"default:processing" json:"status"`

	TaxYear int `json:"tax_year"`

	// AIClassification is a JSONB payload with the classifier's confidence,
	// topic keywords and auto-match audit trail. Display only.
	AIClassification datatypes.JSON `json:"ai_classification"`

	// VerifyAfter schedules the processing -> verified transition. The
	// verifier polls on this column, so the schedule survives restarts.
	VerifyAfter *time.Time `json:"-"`

	OriginalURL string `json:"original_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns an application-side UUID so the model also works on
// databases without gen_random_uuid (the in-memory test database).
func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
