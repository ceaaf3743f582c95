package services

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"testing"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/clearfile/taxportal/initializers"
	model "github.com/clearfile/taxportal/models"
)

// newTestService builds a PortalService over an isolated in-memory
// database. Storage and search clients stay nil; the affected paths skip
// cleanly, matching how the production service degrades without them.
func newTestService(t *testing.T) *PortalService {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&model.QuestionnaireAnswer{},
		&model.RequiredDocumentItem{},
		&model.Document{},
		&model.TaxReturn{},
		&model.Business{},
		&model.SignatureRecord{},
		&model.Message{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return &PortalService{
		db: db,
		cfg: &initializers.Config{
			TaxYear:           2025,
			VerifyDelaySec:    30,
			AutoReplyDelaySec: 20,
			PollIntervalSec:   5,
			MaxUploadBytes:    15 << 20,
		},
		locks: newUserLocks(),
	}
}

// answer builds a stored questionnaire answer with a JSON-encoded value.
func answer(t *testing.T, userID, questionID string, value interface{}) model.QuestionnaireAnswer {
	t.Helper()
	raw, err := json.Marshal(value)
	if err != nil {
		t.Fatalf("failed to marshal answer: %v", err)
	}
	return model.QuestionnaireAnswer{
		UserID:     userID,
		QuestionID: questionID,
		Answer:     datatypes.JSON(raw),
	}
}

// fileHeader fabricates the multipart header for an upload without going
// through an HTTP request.
func fileHeader(filename string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{
		Filename: filename,
		Size:     size,
		Header: textproto.MIMEHeader{
			"Content-Type": []string{"application/pdf"},
		},
	}
}
