package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetMessages returns the caller's support thread.
func (c *PortalController) GetMessages(ctx *gin.Context) {
	messages, err := c.service.GetMessages(userID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"messages": messages})
}

// PostMessage adds a client message; a simulated staff reply follows after
// a short delay.
func (c *PortalController) PostMessage(ctx *gin.Context) {
	var req struct {
		Body string `json:"body" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	msg, err := c.service.PostMessage(userID(ctx), req.Body)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, msg)
}
