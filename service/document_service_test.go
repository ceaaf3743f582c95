package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/clearfile/taxportal/models"
)

func TestValidateUpload(t *testing.T) {
	maxBytes := int64(15 << 20)

	cases := []struct {
		name     string
		filename string
		size     int64
		wantErr  bool
	}{
		{"pdf ok", "w2.pdf", 1024, false},
		{"png ok", "receipt.png", 1024, false},
		{"executable rejected", "virus.exe", 1024, true},
		{"no extension rejected", "README", 1024, true},
		{"empty file rejected", "w2.pdf", 0, true},
		{"oversize rejected", "w2.pdf", maxBytes + 1, true},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			err := validateUpload(fileHeader(tt.filename, tt.size), maxBytes)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReconcile_ExplicitSelection(t *testing.T) {
	s := newTestService(t)
	userID := "client-1"

	require.NoError(t, s.SaveAnswers(userID, map[string]interface{}{
		"mortgage_interest": true,
	}))

	items, err := s.GetChecklist(userID)
	require.NoError(t, err)
	var item1098 model.RequiredDocumentItem
	for _, item := range items {
		if item.DocumentType == "form_1098" {
			item1098 = item
		}
	}
	require.NotEmpty(t, item1098.ID)

	// Filename classifies as "other", but the explicit selection wins and
	// the document takes the item's declared type.
	doc, err := s.createAndReconcile(userID, fileHeader("scan0001.pdf", 1024), "key-1", "", item1098.ID)
	require.NoError(t, err)
	assert.Equal(t, "form_1098", doc.DocumentType)
	assert.Equal(t, model.StatusProcessing, doc.Status)
	require.NotNil(t, doc.VerifyAfter)

	var linked model.RequiredDocumentItem
	require.NoError(t, s.db.First(&linked, "id = ?", item1098.ID).Error)
	assert.True(t, linked.IsUploaded)
	require.NotNil(t, linked.DocumentID)
	assert.Equal(t, doc.ID, *linked.DocumentID)
}

func TestReconcile_ExplicitSelectionAlreadySatisfied(t *testing.T) {
	s := newTestService(t)
	userID := "client-2"

	require.NoError(t, s.SaveAnswers(userID, map[string]interface{}{
		"mortgage_interest": true,
	}))
	items, err := s.GetChecklist(userID)
	require.NoError(t, err)
	var item1098 model.RequiredDocumentItem
	for _, item := range items {
		if item.DocumentType == "form_1098" {
			item1098 = item
		}
	}

	first, err := s.createAndReconcile(userID, fileHeader("1098.pdf", 1024), "key-1", "", item1098.ID)
	require.NoError(t, err)

	// Re-using the satisfied item must not re-link it; the second file is
	// stored unlinked.
	second, err := s.createAndReconcile(userID, fileHeader("1098-copy.pdf", 1024), "key-2", "", item1098.ID)
	require.NoError(t, err)

	var linked model.RequiredDocumentItem
	require.NoError(t, s.db.First(&linked, "id = ?", item1098.ID).Error)
	require.NotNil(t, linked.DocumentID)
	assert.Equal(t, first.ID, *linked.DocumentID, "existing link must not change")
	assert.NotEqual(t, second.ID, *linked.DocumentID)
}

func TestReconcile_AutoMatchFirstComeFirstServed(t *testing.T) {
	s := newTestService(t)
	userID := "client-3"

	// Exactly one unmet w2 item.
	require.NoError(t, s.SaveAnswers(userID, map[string]interface{}{
		"employment_type": []string{"W-2 Employee"},
	}))

	// Two files in one batch, both classified w2, submitted in order.
	first, err := s.createAndReconcile(userID, fileHeader("w2-acme.pdf", 1024), "key-1", "", "")
	require.NoError(t, err)
	second, err := s.createAndReconcile(userID, fileHeader("w2-globex.pdf", 1024), "key-2", "", "")
	require.NoError(t, err)

	var item model.RequiredDocumentItem
	require.NoError(t, s.db.First(&item, "user_id = ? AND document_type = ?", userID, "w2").Error)

	assert.True(t, item.IsUploaded)
	require.NotNil(t, item.DocumentID)
	assert.Equal(t, first.ID, *item.DocumentID, "first file in submission order takes the item")
	assert.NotEqual(t, second.ID, *item.DocumentID)
}

func TestReconcile_NoMatchStaysUnlinked(t *testing.T) {
	s := newTestService(t)
	userID := "client-4"

	require.NoError(t, s.SaveAnswers(userID, map[string]interface{}{
		"employment_type": []string{"W-2 Employee"},
	}))

	doc, err := s.createAndReconcile(userID, fileHeader("vacation.jpg", 1024), "key-1", "", "")
	require.NoError(t, err)
	assert.Equal(t, "other", doc.DocumentType)

	// Counts toward total files but not toward checklist completion.
	docs, err := s.GetUserDocuments(userID)
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	items, err := s.GetChecklist(userID)
	require.NoError(t, err)
	for _, item := range items {
		assert.False(t, item.IsUploaded)
	}
}

func TestReconcile_ForeignExplicitItemStaysUnlinked(t *testing.T) {
	s := newTestService(t)

	require.NoError(t, s.SaveAnswers("owner", map[string]interface{}{
		"mortgage_interest": true,
	}))
	items, err := s.GetChecklist("owner")
	require.NoError(t, err)

	// Another user naming someone else's item: the upload succeeds but
	// never touches the foreign checklist.
	doc, err := s.createAndReconcile("intruder", fileHeader("1098.pdf", 1024), "key-1", "", items[0].ID)
	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)

	var foreign model.RequiredDocumentItem
	require.NoError(t, s.db.First(&foreign, "id = ?", items[0].ID).Error)
	assert.False(t, foreign.IsUploaded)
	assert.Nil(t, foreign.DocumentID)
}

func TestUpdateDocumentStatus(t *testing.T) {
	s := newTestService(t)
	userID := "client-5"

	doc, err := s.createAndReconcile(userID, fileHeader("w2.pdf", 1024), "key-1", "", "")
	require.NoError(t, err)

	updated, err := s.UpdateDocumentStatus(doc.ID, model.StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, updated.Status)

	_, err = s.UpdateDocumentStatus(doc.ID, "archived")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.UpdateDocumentStatus("00000000-0000-0000-0000-000000000000", model.StatusVerified)
	assert.ErrorIs(t, err, ErrNotFound)
}
