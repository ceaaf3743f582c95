package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetChecklist returns the client's required-document items in display order.
func (c *PortalController) GetChecklist(ctx *gin.Context) {
	items, err := c.service.GetChecklist(userID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

// MarkNotApplicable sets or clears the not-applicable flag on one checklist item.
func (c *PortalController) MarkNotApplicable(ctx *gin.Context) {
	itemID := ctx.Param("id")
	if itemID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Item ID required"})
		return
	}

	var req struct {
		NotApplicable *bool `json:"not_applicable" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	item, err := c.service.MarkNotApplicable(userID(ctx), itemID, *req.NotApplicable)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, item)
}
