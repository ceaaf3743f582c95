package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/clearfile/taxportal/models"
)

func TestRegenerateChecklist_MatchesRequirements(t *testing.T) {
	s := newTestService(t)
	userID := "client-1"

	err := s.SaveAnswers(userID, map[string]interface{}{
		"employment_type":   []string{"W-2 Employee", "Self-Employment/1099"},
		"mortgage_interest": true,
	})
	require.NoError(t, err)

	items, err := s.GetChecklist(userID)
	require.NoError(t, err)

	answers, err := s.GetAnswers(userID)
	require.NoError(t, err)
	reqs := GenerateRequirements(answers)
	require.Equal(t, len(reqs), len(items), "checklist size must equal deduplicated requirement count")

	seen := map[string]bool{}
	for i, item := range items {
		key := item.DocumentType + "|" + item.Description
		assert.False(t, seen[key], "duplicate checklist entry %s", key)
		seen[key] = true

		// GetChecklist returns display order, which is rule order.
		assert.Equal(t, reqs[i].Type, item.DocumentType)
		assert.Equal(t, 2025, item.TaxYear)
	}
}

func TestRegenerateChecklist_ReturnLinkage(t *testing.T) {
	s := newTestService(t)
	userID := "client-2"

	// No business return yet: business docs stay unlinked.
	err := s.SaveAnswers(userID, map[string]interface{}{
		"employment_type": []string{"Self-Employment/1099"},
	})
	require.NoError(t, err)

	items, err := s.GetChecklist(userID)
	require.NoError(t, err)
	for _, item := range items {
		if item.DocumentType == "1099_nec" {
			assert.Nil(t, item.ReturnID)
		}
		if item.DocumentType == "government_id" {
			require.NotNil(t, item.ReturnID)
		}
	}

	// With a business entity the business return exists and gets the link.
	biz := model.Business{UserID: userID, Name: "Side Hustle LLC"}
	require.NoError(t, s.db.Create(&biz).Error)
	require.NoError(t, s.ensureBusinessReturns(userID))
	require.NoError(t, s.RegenerateChecklist(userID))

	bizReturnID, err := s.firstBusinessReturnID(userID)
	require.NoError(t, err)
	require.NotNil(t, bizReturnID)

	items, err = s.GetChecklist(userID)
	require.NoError(t, err)
	for _, item := range items {
		if item.DocumentType == "1099_nec" {
			require.NotNil(t, item.ReturnID)
			assert.Equal(t, *bizReturnID, *item.ReturnID)
		}
	}
}

func TestRegenerateChecklist_PreservesUnchangedItems(t *testing.T) {
	s := newTestService(t)
	userID := "client-3"

	err := s.SaveAnswers(userID, map[string]interface{}{
		"employment_type":   []string{"W-2 Employee"},
		"mortgage_interest": true,
	})
	require.NoError(t, err)

	// Satisfy the W-2 item with an upload and mark the 1098 item N/A.
	header := fileHeader("w2-acme.pdf", 2048)
	doc, err := s.createAndReconcile(userID, header, "key-1", "", "")
	require.NoError(t, err)

	items, err := s.GetChecklist(userID)
	require.NoError(t, err)
	var naItemID string
	for _, item := range items {
		if item.DocumentType == "form_1098" {
			naItemID = item.ID
		}
	}
	require.NotEmpty(t, naItemID)
	_, err = s.MarkNotApplicable(userID, naItemID, true)
	require.NoError(t, err)

	// Resubmitting the same answers must not reset any state.
	err = s.SaveAnswers(userID, map[string]interface{}{
		"employment_type":   []string{"W-2 Employee"},
		"mortgage_interest": true,
	})
	require.NoError(t, err)

	items, err = s.GetChecklist(userID)
	require.NoError(t, err)
	for _, item := range items {
		switch item.DocumentType {
		case "w2":
			assert.True(t, item.IsUploaded)
			require.NotNil(t, item.DocumentID)
			assert.Equal(t, doc.ID, *item.DocumentID)
		case "form_1098":
			assert.True(t, item.MarkedNotApplicable)
		}
	}

	// Dropping the mortgage answer removes the 1098 item; the uploaded
	// document itself is never deleted.
	err = s.SaveAnswers(userID, map[string]interface{}{
		"employment_type":   []string{"W-2 Employee"},
		"mortgage_interest": false,
	})
	require.NoError(t, err)

	items, err = s.GetChecklist(userID)
	require.NoError(t, err)
	for _, item := range items {
		assert.NotEqual(t, "form_1098", item.DocumentType)
	}

	var docCount int64
	require.NoError(t, s.db.Model(&model.Document{}).Where("user_id = ?", userID).Count(&docCount).Error)
	assert.Equal(t, int64(1), docCount)
}

func TestMarkNotApplicable_Toggle(t *testing.T) {
	s := newTestService(t)
	userID := "client-4"

	require.NoError(t, s.SaveAnswers(userID, map[string]interface{}{
		"charitable_donations": true,
	}))

	items, err := s.GetChecklist(userID)
	require.NoError(t, err)
	original := items[0]

	marked, err := s.MarkNotApplicable(userID, original.ID, true)
	require.NoError(t, err)
	assert.True(t, marked.MarkedNotApplicable)

	unmarked, err := s.MarkNotApplicable(userID, original.ID, false)
	require.NoError(t, err)

	// Back to the original state with no other field mutated.
	assert.False(t, unmarked.MarkedNotApplicable)
	assert.Equal(t, original.DocumentType, unmarked.DocumentType)
	assert.Equal(t, original.Description, unmarked.Description)
	assert.Equal(t, original.IsUploaded, unmarked.IsUploaded)
	assert.Equal(t, original.DocumentID, unmarked.DocumentID)
	assert.Equal(t, original.SortOrder, unmarked.SortOrder)
}

func TestMarkNotApplicable_OwnershipMismatch(t *testing.T) {
	s := newTestService(t)

	require.NoError(t, s.SaveAnswers("owner", map[string]interface{}{
		"charitable_donations": true,
	}))
	items, err := s.GetChecklist("owner")
	require.NoError(t, err)

	// Another user probing the item id sees not-found, not forbidden.
	_, err = s.MarkNotApplicable("intruder", items[0].ID, true)
	assert.ErrorIs(t, err, ErrNotFound)
}
