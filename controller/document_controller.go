package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	model "github.com/clearfile/taxportal/models"
)

// UploadDocuments handles a multipart batch upload. Files are processed
// strictly in submission order so auto-matching observes the linkage made
// by earlier files in the same batch. An optional required_document_id
// field assigns the upload to a specific checklist item; it names exactly
// one item, so it is only honored for single-file requests.
func (c *PortalController) UploadDocuments(ctx *gin.Context) {
	form, err := ctx.MultipartForm()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse multipart form"})
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No files in request"})
		return
	}

	requiredDocumentID := ctx.PostForm("required_document_id")
	if requiredDocumentID != "" && len(files) > 1 {
		logrus.Warn("[UploadDocuments] required_document_id ignored for multi-file batch")
		requiredDocumentID = ""
	}

	uploaded := make([]*model.Document, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Failed to open uploaded file", "file": header.Filename})
			return
		}

		doc, err := c.service.UploadAndReconcile(userID(ctx), file, header, requiredDocumentID)
		file.Close()
		if err != nil {
			logrus.WithError(err).Errorf("[UploadDocuments] upload failed for %s", header.Filename)
			respondError(ctx, err)
			return
		}
		uploaded = append(uploaded, doc)
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":   "Documents uploaded",
		"documents": uploaded,
		"total":     len(uploaded),
	})
}

// GetDocuments lists the caller's own uploads.
func (c *PortalController) GetDocuments(ctx *gin.Context) {
	docs, err := c.service.GetUserDocuments(userID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"documents": docs, "total": len(docs)})
}

// GetAllDocuments is the staff dashboard feed.
func (c *PortalController) GetAllDocuments(ctx *gin.Context) {
	docs, err := c.service.GetAllDocuments()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"documents": docs, "total": len(docs)})
}

// UpdateDocumentStatus is the staff verify/reject override.
func (c *PortalController) UpdateDocumentStatus(ctx *gin.Context) {
	documentID := ctx.Param("id")
	if documentID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Document ID required"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	doc, err := c.service.UpdateDocumentStatus(documentID, req.Status)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, doc)
}

// SearchDocuments runs the staff Elasticsearch query.
func (c *PortalController) SearchDocuments(ctx *gin.Context) {
	query := ctx.Query("q")
	if query == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'q' is required"})
		return
	}

	results, err := c.service.SearchDocuments(query)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"results": results, "total": len(results)})
}
