package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetReturns lists the caller's returns, creating missing ones lazily.
func (c *PortalController) GetReturns(ctx *gin.Context) {
	returns, err := c.service.GetReturns(userID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"returns": returns})
}

// GetStageView returns the 9-stage pipeline view for one return.
func (c *PortalController) GetStageView(ctx *gin.Context) {
	returnID := ctx.Param("id")
	if returnID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Return ID required"})
		return
	}

	stages, err := c.service.StageView(userID(ctx), returnID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"stages": stages})
}

// AdvanceFromSignature moves a signature_required return to filing once
// Form 8879 is signed.
func (c *PortalController) AdvanceFromSignature(ctx *gin.Context) {
	returnID := ctx.Param("id")
	if returnID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Return ID required"})
		return
	}

	ret, err := c.service.AdvanceFromSignature(userID(ctx), returnID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, ret)
}

// UpdateReturnStatus is the staff Kanban board move.
func (c *PortalController) UpdateReturnStatus(ctx *gin.Context) {
	returnID := ctx.Param("id")
	if returnID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Return ID required"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	ret, err := c.service.UpdateReturnStatus(returnID, req.Status)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, ret)
}
