package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Preparation pipeline stages, in fixed order. StageFiled is terminal.
const (
	StageNotStarted         = "not_started"
	StageDocumentsGathering = "documents_gathering"
	StageInformationReview  = "information_review"
	StageReturnPreparation  = "return_preparation"
	StageQualityReview      = "quality_review"
	StageClientReview       = "client_review"
	StageSignatureRequired  = "signature_required"
	StageFiling             = "filing"
	StageFiled              = "filed"
)

// PipelineStages is the authoritative stage ordering. Index positions are
// meaningful: everything below the current stage is completed, everything
// above is pending.
var PipelineStages = []string{
	StageNotStarted,
	StageDocumentsGathering,
	StageInformationReview,
	StageReturnPreparation,
	StageQualityReview,
	StageClientReview,
	StageSignatureRequired,
	StageFiling,
	StageFiled,
}

// StageIndex returns the position of a stage in PipelineStages, or -1 if
// the value is not a known stage.
func StageIndex(stage string) int {
	for i, s := range PipelineStages {
		if s == stage {
			return i
		}
	}
	return -1
}

// Return types.
const (
	ReturnTypePersonal = "personal"
	ReturnTypeBusiness = "business"
)

// TaxReturn tracks one return through the preparation pipeline. Status is
// the staff-controlled pipeline stage and is empty until staff first touch
// the board; FederalStatus/StateStatus are the separate refund-tracking
// vocabulary and must not be conflated with the pipeline stage.
type TaxReturn struct {
	ID         string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID     string  `gorm:"not null;index" json:"user_id"`
	BusinessID *string `gorm:"type:uuid" json:"business_id"`

	// ReturnType is "personal" or "business". Exactly one personal return
	// exists per client (created lazily); one business return per entity.
	ReturnType string `gorm:"not null" json:"return_type"`

	Name string `json:"name"`

	// Status is the explicit pipeline stage. Empty means staff have never
	// set it and the stage is derived from client activity instead.
	Status string `json:"status"`

	FederalStatus string  `json:"federal_status"`
	FederalAmount float64 `json:"federal_amount"`
	StateStatus   string  `json:"state_status"`
	StateAmount   float64 `json:"state_amount"`

	TaxYear int `json:"tax_year"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *TaxReturn) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
