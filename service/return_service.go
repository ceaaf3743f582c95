package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	model "github.com/clearfile/taxportal/models"
)

// StageSignals are the client-activity observations the derived fallback
// is computed from. They only matter for returns staff have never moved
// on the board.
type StageSignals struct {
	QuestionnaireStarted  bool
	QuestionnaireComplete bool
	DocumentsComplete     bool
	EngagementSigned      bool
	Form8879Signed        bool
	FederalFiled          bool
}

// StatusSource is the resolved origin of a return's pipeline position:
// either the staff-set explicit stage or the signal-derived fallback.
// Modeling the two as one sum type keeps the precedence visible instead
// of buried in null checks.
type StatusSource struct {
	Explicit string        // authoritative when a known stage
	Signals  *StageSignals // consulted only when Explicit is unset
}

// Resolve returns the index of the current pipeline stage.
func (src StatusSource) Resolve() int {
	if idx := model.StageIndex(src.Explicit); idx >= 0 {
		return idx
	}
	if src.Signals == nil {
		return 0
	}
	completed := src.Signals.completionVector()
	for i, done := range completed {
		if !done {
			return i
		}
	}
	return len(model.PipelineStages) - 1
}

// completionVector asserts completeness per stage. Each entry is ANDed
// with its predecessor, so the vector is monotonic by construction.
// Signing Form 8879 is the only observable client action that implies
// quality review, client review and the signature step all happened, so
// those three stages intentionally share that signal.
func (s *StageSignals) completionVector() [9]bool {
	var c [9]bool
	c[0] = s.QuestionnaireStarted || s.DocumentsComplete
	c[1] = c[0] && s.DocumentsComplete
	c[2] = c[1] && s.QuestionnaireComplete
	c[3] = c[2] && s.EngagementSigned
	c[4] = c[3] && s.Form8879Signed
	c[5] = c[4] && s.Form8879Signed
	c[6] = c[5] && s.Form8879Signed
	c[7] = c[6] && s.FederalFiled
	c[8] = false // filed is terminal; it becomes current, never completed
	return c
}

// StageStatus is one row of the client-facing pipeline view.
type StageStatus struct {
	Stage      string `json:"stage"`
	Status     string `json:"status"` // completed | current | pending
	ActionHint string `json:"action_hint,omitempty"`
}

// stageActionHints describe what the client can do at the current stage.
var stageActionHints = map[string]string{
	model.StageNotStarted:         "Complete your tax questionnaire to get started",
	model.StageDocumentsGathering: "Upload your remaining required documents",
	model.StageInformationReview:  "Answer any outstanding questionnaire items",
	model.StageSignatureRequired:  "Sign Form 8879 to authorize e-filing",
	model.StageClientReview:       "Review your draft return and raise any questions",
}

// BuildStageView expands a resolved stage index into the full ordered
// stage list with completed/current/pending markers.
func BuildStageView(currentIdx int) []StageStatus {
	view := make([]StageStatus, len(model.PipelineStages))
	for i, stage := range model.PipelineStages {
		status := "pending"
		switch {
		case i < currentIdx:
			status = "completed"
		case i == currentIdx:
			status = "current"
		}
		entry := StageStatus{Stage: stage, Status: status}
		if status == "current" {
			entry.ActionHint = stageActionHints[stage]
		}
		view[i] = entry
	}
	return view
}

// StageView computes the pipeline view for one of the caller's returns.
func (s *PortalService) StageView(userID, returnID string) ([]StageStatus, error) {
	ret, err := s.getOwnedReturn(userID, returnID)
	if err != nil {
		return nil, err
	}

	src := StatusSource{Explicit: ret.Status}
	if model.StageIndex(ret.Status) < 0 {
		signals, err := s.gatherSignals(userID, ret)
		if err != nil {
			return nil, err
		}
		src = StatusSource{Signals: signals}
	}
	return BuildStageView(src.Resolve()), nil
}

// AdvanceFromSignature is the single client-triggered pipeline transition:
// a return sitting at signature_required moves to filing once Form 8879 is
// signed. Both preconditions are validated and failures name the unmet
// condition.
func (s *PortalService) AdvanceFromSignature(userID, returnID string) (*model.TaxReturn, error) {
	ret, err := s.getOwnedReturn(userID, returnID)
	if err != nil {
		return nil, err
	}

	if ret.Status != model.StageSignatureRequired {
		return nil, fmt.Errorf("%w: return status is %q, expected %q",
			ErrPrecondition, ret.Status, model.StageSignatureRequired)
	}

	signed, err := s.hasSignature(userID, model.SignatureForm8879)
	if err != nil {
		return nil, err
	}
	if !signed {
		return nil, fmt.Errorf("%w: Form 8879 has not been signed", ErrPrecondition)
	}

	err = s.db.Model(ret).Updates(map[string]interface{}{
		"status":     model.StageFiling,
		"updated_at": time.Now(),
	}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to advance return: %w", err)
	}
	ret.Status = model.StageFiling
	logrus.Infof("[AdvanceFromSignature] return %s advanced to filing", returnID)
	return ret, nil
}

// UpdateReturnStatus is the staff board move. Any of the nine stages is
// accepted, backward moves included.
func (s *PortalService) UpdateReturnStatus(returnID, status string) (*model.TaxReturn, error) {
	if model.StageIndex(status) < 0 {
		return nil, fmt.Errorf("%w: %q is not a pipeline stage", ErrValidation, status)
	}

	var ret model.TaxReturn
	if err := s.db.First(&ret, "id = ?", returnID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: return %s", ErrNotFound, returnID)
		}
		return nil, fmt.Errorf("failed to fetch return: %w", err)
	}

	err := s.db.Model(&ret).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update return status: %w", err)
	}
	ret.Status = status
	logrus.Infof("[UpdateReturnStatus] return %s moved to %s", returnID, status)
	return &ret, nil
}

// GetReturns lists the client's returns, creating the personal return and
// any missing business returns lazily.
func (s *PortalService) GetReturns(userID string) ([]model.TaxReturn, error) {
	if _, err := s.ensurePersonalReturn(userID); err != nil {
		return nil, err
	}
	if err := s.ensureBusinessReturns(userID); err != nil {
		return nil, err
	}

	var returns []model.TaxReturn
	if err := s.db.Where("user_id = ?", userID).Order("created_at asc").Find(&returns).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch returns: %w", err)
	}
	return returns, nil
}

// ensurePersonalReturn guarantees the client's single personal return.
func (s *PortalService) ensurePersonalReturn(userID string) (*model.TaxReturn, error) {
	var ret model.TaxReturn
	err := s.db.Where("user_id = ? AND return_type = ?", userID, model.ReturnTypePersonal).First(&ret).Error
	if err == nil {
		return &ret, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to fetch personal return: %w", err)
	}

	ret = model.TaxReturn{
		UserID:     userID,
		ReturnType: model.ReturnTypePersonal,
		Name:       "Personal Return",
		TaxYear:    s.cfg.TaxYear,
	}
	if err := s.db.Create(&ret).Error; err != nil {
		return nil, fmt.Errorf("failed to create personal return: %w", err)
	}
	logrus.Infof("[ensurePersonalReturn] created personal return for user %s", userID)
	return &ret, nil
}

// ensureBusinessReturns creates a business return for any entity missing one.
func (s *PortalService) ensureBusinessReturns(userID string) error {
	var businesses []model.Business
	if err := s.db.Where("user_id = ?", userID).Find(&businesses).Error; err != nil {
		return fmt.Errorf("failed to fetch businesses: %w", err)
	}

	for _, biz := range businesses {
		var count int64
		err := s.db.Model(&model.TaxReturn{}).
			Where("user_id = ? AND business_id = ?", userID, biz.ID).Count(&count).Error
		if err != nil {
			return fmt.Errorf("failed to count business returns: %w", err)
		}
		if count > 0 {
			continue
		}
		bizID := biz.ID
		ret := model.TaxReturn{
			UserID:     userID,
			BusinessID: &bizID,
			ReturnType: model.ReturnTypeBusiness,
			Name:       fmt.Sprintf("%s Return", biz.Name),
			TaxYear:    s.cfg.TaxYear,
		}
		if err := s.db.Create(&ret).Error; err != nil {
			return fmt.Errorf("failed to create business return: %w", err)
		}
	}
	return nil
}

// firstBusinessReturnID returns the id of the client's first business
// return, or nil when none exists.
func (s *PortalService) firstBusinessReturnID(userID string) (*string, error) {
	var ret model.TaxReturn
	err := s.db.Where("user_id = ? AND return_type = ?", userID, model.ReturnTypeBusiness).
		Order("created_at asc").First(&ret).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch business return: %w", err)
	}
	return &ret.ID, nil
}

func (s *PortalService) getOwnedReturn(userID, returnID string) (*model.TaxReturn, error) {
	var ret model.TaxReturn
	err := s.db.Where("id = ? AND user_id = ?", returnID, userID).First(&ret).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: return %s", ErrNotFound, returnID)
		}
		return nil, fmt.Errorf("failed to fetch return: %w", err)
	}
	return &ret, nil
}

func (s *PortalService) hasSignature(userID, documentType string) (bool, error) {
	var count int64
	err := s.db.Model(&model.SignatureRecord{}).
		Where("user_id = ? AND document_type = ?", userID, documentType).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check signatures: %w", err)
	}
	return count > 0, nil
}

// gatherSignals collects the observations for the derived fallback.
func (s *PortalService) gatherSignals(userID string, ret *model.TaxReturn) (*StageSignals, error) {
	answers, err := s.GetAnswers(userID)
	if err != nil {
		return nil, err
	}

	items, err := s.GetChecklist(userID)
	if err != nil {
		return nil, err
	}

	var docCount int64
	if err := s.db.Model(&model.Document{}).Where("user_id = ?", userID).Count(&docCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count documents: %w", err)
	}

	engagement, err := s.hasSignature(userID, model.SignatureEngagementLetter)
	if err != nil {
		return nil, err
	}
	form8879, err := s.hasSignature(userID, model.SignatureForm8879)
	if err != nil {
		return nil, err
	}

	return &StageSignals{
		QuestionnaireStarted:  len(answers) > 0,
		QuestionnaireComplete: questionnaireComplete(answers),
		DocumentsComplete:     checklistComplete(items) && docCount > 0,
		EngagementSigned:      engagement,
		Form8879Signed:        form8879,
		FederalFiled:          ret.FederalStatus != "",
	}, nil
}
