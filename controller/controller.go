package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clearfile/taxportal/middleware"
	service "github.com/clearfile/taxportal/service"
)

// PortalController manages HTTP requests for the client portal core.
type PortalController struct {
	service *service.PortalService
}

// NewPortalController initializes the controller with the service
func NewPortalController(service *service.PortalService) *PortalController {
	return &PortalController{service}
}

func userID(ctx *gin.Context) string {
	return ctx.GetString(middleware.UserIDKey)
}

// respondError translates the service error taxonomy into HTTP statuses:
// validation 400, not found 404, unmet precondition 409, everything else
// 500. The wrapped message is surfaced so the caller can tell "fix your
// input" from "not allowed" from "not found".
func respondError(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrPrecondition):
		status = http.StatusConflict
	}
	ctx.JSON(status, gin.H{"error": err.Error()})
}
