package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	model "github.com/clearfile/taxportal/models"
)

// allowedUploadExtensions gates uploads before any mutation happens.
var allowedUploadExtensions = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".heic": true,
	".docx": true,
	".xlsx": true,
	".csv":  true,
}

// UploadAndReconcile stores one uploaded file and links it to the client's
// checklist. Resolution order: explicit item selection, then best-effort
// match by classified type, else the document stays unlinked. Validation
// happens before the file is stored or any row is written, so a rejected
// file leaves no trace.
func (s *PortalService) UploadAndReconcile(userID string, file multipart.File, header *multipart.FileHeader, requiredDocumentID string) (*model.Document, error) {
	if err := validateUpload(header, s.cfg.MaxUploadBytes); err != nil {
		return nil, err
	}

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	storageKey, fileURL, err := s.storeFile(fileBytes, header)
	if err != nil {
		return nil, err
	}

	lock := s.locks.forUser(userID)
	lock.Lock()
	doc, err := s.createAndReconcile(userID, header, storageKey, fileURL, requiredDocumentID)
	lock.Unlock()
	if err != nil {
		return nil, err
	}

	s.indexDocument(doc)
	return doc, nil
}

func validateUpload(header *multipart.FileHeader, maxBytes int64) error {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedUploadExtensions[ext] {
		return fmt.Errorf("%w: file type %q is not accepted", ErrValidation, ext)
	}
	if header.Size <= 0 {
		return fmt.Errorf("%w: file is empty", ErrValidation)
	}
	if header.Size > maxBytes {
		return fmt.Errorf("%w: file exceeds the %d byte limit", ErrValidation, maxBytes)
	}
	return nil
}

// storeFile writes the bytes to the Supabase S3 bucket and returns the
// storage key and public URL.
func (s *PortalService) storeFile(fileBytes []byte, header *multipart.FileHeader) (string, string, error) {
	suffix, err := gonanoid.New()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate storage key: %w", err)
	}
	storageKey := fmt.Sprintf("%s-%s", suffix, header.Filename)

	if s.s3Client == nil {
		logrus.Warn("[storeFile] storage client not configured, skipping object upload")
		return storageKey, "", nil
	}

	bucket := s.cfg.StorageBucket
	if bucket == "" {
		return "", "", fmt.Errorf("bucket name not configured")
	}

	_, err = s.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(storageKey),
		Body:        bytes.NewReader(fileBytes),
		ACL:         aws.String("public-read"),
		ContentType: aws.String(header.Header.Get("Content-Type")),
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload file to S3: %w", err)
	}

	fileURL := fmt.Sprintf("%s/object/public/%s/%s", s.cfg.StoragePublicURL, bucket, storageKey)
	return storageKey, fileURL, nil
}

// createAndReconcile creates the Document row and links it to a checklist
// item inside one transaction. Caller must hold the user's lock.
func (s *PortalService) createAndReconcile(userID string, header *multipart.FileHeader, storageKey, fileURL, requiredDocumentID string) (*model.Document, error) {
	docType := ClassifyFilename(header.Filename)
	analysis := AnalyzeDocument(docType)

	var doc model.Document
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var linkItem *model.RequiredDocumentItem

		if requiredDocumentID != "" {
			var item model.RequiredDocumentItem
			err := tx.Where("id = ? AND user_id = ?", requiredDocumentID, userID).First(&item).Error
			switch {
			case err == nil && !item.IsUploaded:
				// The client's explicit selection overrides the classifier.
				docType = item.DocumentType
				analysis.DocumentType = docType
				linkItem = &item
			case err == nil:
				// Already satisfied: never re-link a finished item.
				logrus.Infof("[createAndReconcile] item %s already uploaded, storing %s unlinked", item.ID, header.Filename)
			case errors.Is(err, gorm.ErrRecordNotFound):
				logrus.Infof("[createAndReconcile] explicit item %s not found for user %s, storing unlinked", requiredDocumentID, userID)
			default:
				return fmt.Errorf("failed to fetch checklist item: %w", err)
			}
		} else {
			var item model.RequiredDocumentItem
			err := tx.Where("user_id = ? AND document_type = ? AND is_uploaded = ?", userID, docType, false).
				Order("sort_order asc").First(&item).Error
			switch {
			case err == nil:
				linkItem = &item
				analysis.AutoMatched = true
			case errors.Is(err, gorm.ErrRecordNotFound):
				// No unmet item of this type: the file stays an unlinked extra.
			default:
				return fmt.Errorf("failed to search checklist: %w", err)
			}
		}

		analysisJSON, err := json.Marshal(analysis)
		if err != nil {
			return fmt.Errorf("failed to marshal analysis: %w", err)
		}

		verifyAfter := time.Now().Add(time.Duration(s.cfg.VerifyDelaySec) * time.Second)
		doc = model.Document{
			UserID:           userID,
			FileName:         storageKey,
			OriginalName:     header.Filename,
			FileType:         header.Header.Get("Content-Type"),
			FileSize:         header.Size,
			DocumentType:     docType,
			Status:           model.StatusProcessing,
			TaxYear:          s.cfg.TaxYear,
			AIClassification: datatypes.JSON(analysisJSON),
			VerifyAfter:      &verifyAfter,
			OriginalURL:      fileURL,
		}
		if err := tx.Create(&doc).Error; err != nil {
			return fmt.Errorf("failed to save document: %w", err)
		}

		if linkItem != nil {
			err := tx.Model(&model.RequiredDocumentItem{}).Where("id = ?", linkItem.ID).Updates(map[string]interface{}{
				"is_uploaded": true,
				"document_id": doc.ID,
				"updated_at":  time.Now(),
			}).Error
			if err != nil {
				return fmt.Errorf("failed to link checklist item: %w", err)
			}
			logrus.Infof("[createAndReconcile] linked document %s to checklist item %s", doc.ID, linkItem.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetUserDocuments lists the client's own uploads, newest first.
func (s *PortalService) GetUserDocuments(userID string) ([]model.Document, error) {
	var docs []model.Document
	if err := s.db.Where("user_id = ?", userID).Order("created_at desc").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch documents: %w", err)
	}
	return docs, nil
}

// GetAllDocuments is the staff dashboard feed.
func (s *PortalService) GetAllDocuments() ([]model.Document, error) {
	var docs []model.Document
	if err := s.db.Order("created_at desc").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch documents: %w", err)
	}
	return docs, nil
}

// UpdateDocumentStatus is the staff override (verify or reject).
func (s *PortalService) UpdateDocumentStatus(documentID, status string) (*model.Document, error) {
	if status != model.StatusVerified && status != model.StatusRejected {
		return nil, fmt.Errorf("%w: status must be verified or rejected", ErrValidation)
	}

	var doc model.Document
	if err := s.db.First(&doc, "id = ?", documentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: document %s", ErrNotFound, documentID)
		}
		return nil, fmt.Errorf("failed to fetch document: %w", err)
	}

	err := s.db.Model(&doc).Updates(map[string]interface{}{
		"status":       status,
		"verify_after": nil,
		"updated_at":   time.Now(),
	}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update document status: %w", err)
	}
	doc.Status = status
	return &doc, nil
}
