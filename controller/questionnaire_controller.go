package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SaveQuestionnaire upserts the submitted answers and regenerates the
// client's document checklist.
func (c *PortalController) SaveQuestionnaire(ctx *gin.Context) {
	var req struct {
		Answers map[string]interface{} `json:"answers" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if err := c.service.SaveAnswers(userID(ctx), req.Answers); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Questionnaire saved and checklist updated"})
}

// GetQuestionnaire returns the client's stored answers.
func (c *PortalController) GetQuestionnaire(ctx *gin.Context) {
	answers, err := c.service.GetAnswers(userID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"answers": answers})
}
