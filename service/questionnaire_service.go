package services

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"

	model "github.com/clearfile/taxportal/models"
)

// requiredQuestionIDs is the fixed list a client must answer before the
// questionnaire counts as complete for derived-stage purposes.
var requiredQuestionIDs = []string{
	"filing_status",
	"employment_type",
	"dependents",
	"income_sources",
	"mortgage_interest",
	"student_loan_interest",
	"charitable_donations",
}

// SaveAnswers upserts the submitted answers by (user, question) and then
// regenerates the document checklist from the full answer set.
func (s *PortalService) SaveAnswers(userID string, answers map[string]interface{}) error {
	if len(answers) == 0 {
		return fmt.Errorf("%w: no answers submitted", ErrValidation)
	}

	for questionID, value := range answers {
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("%w: answer for %s is not serializable", ErrValidation, questionID)
		}
		answer := model.QuestionnaireAnswer{
			UserID:     userID,
			QuestionID: questionID,
			Answer:     datatypes.JSON(raw),
		}
		err = s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "question_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"answer", "updated_at"}),
		}).Create(&answer).Error
		if err != nil {
			logrus.WithError(err).Errorf("[SaveAnswers] upsert failed for question %s", questionID)
			return fmt.Errorf("failed to save answer %s: %w", questionID, err)
		}
	}

	if err := s.RegenerateChecklist(userID); err != nil {
		return fmt.Errorf("failed to regenerate checklist: %w", err)
	}
	logrus.Infof("[SaveAnswers] saved %d answers for user %s", len(answers), userID)
	return nil
}

// GetAnswers returns all stored answers for a client.
func (s *PortalService) GetAnswers(userID string) ([]model.QuestionnaireAnswer, error) {
	var answers []model.QuestionnaireAnswer
	if err := s.db.Where("user_id = ?", userID).Order("question_id").Find(&answers).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch answers: %w", err)
	}
	return answers, nil
}

var jsonNull = []byte("null")

// questionnaireComplete reports whether every required question has a
// non-null stored answer.
func questionnaireComplete(answers []model.QuestionnaireAnswer) bool {
	answered := make(map[string]bool, len(answers))
	for _, a := range answers {
		if len(a.Answer) == 0 || bytes.Equal(a.Answer, jsonNull) {
			continue
		}
		answered[a.QuestionID] = true
	}
	for _, id := range requiredQuestionIDs {
		if !answered[id] {
			return false
		}
	}
	return true
}
