package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuestionnaireAnswer holds one client's answer to one intake question.
// Answer is stored as JSON because the value may be a boolean, a string,
// a list of strings, or null depending on the question.
type QuestionnaireAnswer struct {
	ID         string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID     string         `gorm:"not null;uniqueIndex:idx_user_question" json:"user_id"`
	QuestionID string         `gorm:"not null;uniqueIndex:idx_user_question" json:"question_id"`
	Answer     datatypes.JSON `json:"answer"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (q *QuestionnaireAnswer) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}
