package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	model "github.com/clearfile/taxportal/models"
)

// indexDocument pushes upload metadata into the documents index so staff
// can search by name or type. Indexing is best effort and never fails an
// upload.
func (s *PortalService) indexDocument(doc *model.Document) {
	if s.esClient == nil {
		return
	}

	payload := map[string]interface{}{
		"document_id":   doc.ID,
		"user_id":       doc.UserID,
		"original_name": doc.OriginalName,
		"document_type": doc.DocumentType,
		"tax_year":      doc.TaxYear,
		"status":        doc.Status,
		"created_at":    doc.CreatedAt,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		logrus.WithError(err).Warn("[indexDocument] failed to marshal document")
		return
	}

	res, err := s.esClient.Index(
		"documents",
		bytes.NewReader(body),
		s.esClient.Index.WithDocumentID(doc.ID),
		s.esClient.Index.WithContext(context.Background()),
	)
	if err != nil {
		logrus.WithError(err).Warn("[indexDocument] indexing failed")
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		logrus.Warnf("[indexDocument] indexing failed: %s", res.String())
		return
	}
	logrus.Infof("[indexDocument] document %s indexed", doc.ID)
}

// SearchDocuments runs a staff full-text query over indexed uploads.
func (s *PortalService) SearchDocuments(query string) ([]map[string]interface{}, error) {
	if s.esClient == nil {
		return nil, fmt.Errorf("elasticsearch client is not initialized")
	}

	searchQuery := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"original_name", "document_type", "user_id"},
			},
		},
	}
	body, err := json.Marshal(searchQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search query: %w", err)
	}

	res, err := s.esClient.Search(
		s.esClient.Search.WithContext(context.Background()),
		s.esClient.Search.WithIndex("documents"),
		s.esClient.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch search failed: %s", res.String())
	}

	var result map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	hitsMap, ok := result["hits"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid hits structure in search response")
	}
	hitsArray, ok := hitsMap["hits"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid hits array in search response")
	}

	var documents []map[string]interface{}
	for _, hit := range hitsArray {
		hitMap, ok := hit.(map[string]interface{})
		if !ok {
			continue
		}
		source, ok := hitMap["_source"].(map[string]interface{})
		if !ok {
			continue
		}
		documents = append(documents, source)
	}
	return documents, nil
}
