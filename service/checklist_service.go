package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	model "github.com/clearfile/taxportal/models"
)

type checklistKey struct {
	docType     string
	description string
}

// RegenerateChecklist rebuilds the client's required-document items from
// their current questionnaire answers. Reconciliation is a diff by
// (documentType, description): unchanged items keep their uploaded /
// not-applicable state and document links, removed items are deleted,
// added items are inserted in rule order. Serialized per user against
// concurrent uploads.
func (s *PortalService) RegenerateChecklist(userID string) error {
	lock := s.locks.forUser(userID)
	lock.Lock()
	defer lock.Unlock()
	return s.regenerateLocked(userID)
}

func (s *PortalService) regenerateLocked(userID string) error {
	answers, err := s.GetAnswers(userID)
	if err != nil {
		return err
	}
	requirements := GenerateRequirements(answers)

	personal, err := s.ensurePersonalReturn(userID)
	if err != nil {
		return err
	}
	businessReturnID, err := s.firstBusinessReturnID(userID)
	if err != nil {
		return err
	}

	var existing []model.RequiredDocumentItem
	if err := s.db.Where("user_id = ?", userID).Find(&existing).Error; err != nil {
		return fmt.Errorf("failed to fetch checklist: %w", err)
	}
	current := make(map[checklistKey]model.RequiredDocumentItem, len(existing))
	for _, item := range existing {
		current[checklistKey{item.DocumentType, item.Description}] = item
	}

	desired := make(map[checklistKey]bool, len(requirements))
	for _, req := range requirements {
		desired[checklistKey{req.Type, req.Description}] = true
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for key, item := range current {
			if desired[key] {
				continue
			}
			// Removed requirement. The linked document, if any, stays in
			// storage as an unlinked extra; only the checklist row goes.
			if err := tx.Delete(&model.RequiredDocumentItem{}, "id = ?", item.ID).Error; err != nil {
				return fmt.Errorf("failed to delete checklist item %s: %w", item.ID, err)
			}
		}

		for i, req := range requirements {
			returnID := &personal.ID
			if req.IsBusinessDoc {
				returnID = businessReturnID // nil when no business return exists
			}

			key := checklistKey{req.Type, req.Description}
			if item, ok := current[key]; ok {
				updates := map[string]interface{}{
					"return_id":  returnID,
					"sort_order": i,
					"tax_year":   s.cfg.TaxYear,
					"updated_at": time.Now(),
				}
				if err := tx.Model(&model.RequiredDocumentItem{}).Where("id = ?", item.ID).Updates(updates).Error; err != nil {
					return fmt.Errorf("failed to update checklist item %s: %w", item.ID, err)
				}
				continue
			}

			item := model.RequiredDocumentItem{
				UserID:       userID,
				ReturnID:     returnID,
				DocumentType: req.Type,
				Description:  req.Description,
				TaxYear:      s.cfg.TaxYear,
				SortOrder:    i,
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("failed to create checklist item %s: %w", req.Type, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logrus.Infof("[RegenerateChecklist] user %s now has %d requirements", userID, len(requirements))
	return nil
}

// GetChecklist returns the client's checklist in display order.
func (s *PortalService) GetChecklist(userID string) ([]model.RequiredDocumentItem, error) {
	var items []model.RequiredDocumentItem
	if err := s.db.Where("user_id = ?", userID).Order("sort_order asc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch checklist: %w", err)
	}
	return items, nil
}

// MarkNotApplicable sets or clears the not-applicable flag on one item.
// Items belonging to other users surface as not found.
func (s *PortalService) MarkNotApplicable(userID, itemID string, value bool) (*model.RequiredDocumentItem, error) {
	var item model.RequiredDocumentItem
	err := s.db.Where("id = ? AND user_id = ?", itemID, userID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: checklist item %s", ErrNotFound, itemID)
		}
		return nil, fmt.Errorf("failed to fetch checklist item: %w", err)
	}

	err = s.db.Model(&item).Updates(map[string]interface{}{
		"marked_not_applicable": value,
		"updated_at":            time.Now(),
	}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update checklist item: %w", err)
	}

	item.MarkedNotApplicable = value
	logrus.Infof("[MarkNotApplicable] item %s set to %t for user %s", itemID, value, userID)
	return &item, nil
}

// checklistComplete reports whether every item is satisfied. An empty
// checklist does not count as complete.
func checklistComplete(items []model.RequiredDocumentItem) bool {
	if len(items) == 0 {
		return false
	}
	for i := range items {
		if !items[i].Satisfied() {
			return false
		}
	}
	return true
}
