package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/securetask/secure-task-api/internal/constants"
	"github.com/securetask/secure-task-api/internal/dto"
	apierrors "github.com/securetask/secure-task-api/internal/errors"
	"github.com/securetask/secure-task-api/internal/middleware"
	"github.com/securetask/secure-task-api/internal/services"
)

// AuditHandler exposes the audit trail to reporting surfaces.
type AuditHandler struct {
	auditService *services.AuditService
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
	}
}

// ListAuditLog returns the actor's organization audit entries, newest
// first. Entries from other organizations are never visible here.
func (h *AuditHandler) ListAuditLog(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultAuditLimit)))

	entries, err := h.auditService.ListForOrganization(actor.OrganizationID, limit)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch audit log")
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": dto.ToAuditEntryDTOs(entries)})
}
