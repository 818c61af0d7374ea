package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/securetask/secure-task-api/internal/dto"
	apierrors "github.com/securetask/secure-task-api/internal/errors"
	"github.com/securetask/secure-task-api/internal/services"
)

// OrganizationHandler coordinates organization HTTP handlers.
type OrganizationHandler struct {
	orgService *services.OrganizationService
}

// NewOrganizationHandler creates a new OrganizationHandler
func NewOrganizationHandler(orgService *services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{
		orgService: orgService,
	}
}

// ListOrganizations returns every organization ordered by creation time.
func (h *OrganizationHandler) ListOrganizations(c *gin.Context) {
	orgs, err := h.orgService.ListOrganizations()
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch organizations")
		return
	}

	c.JSON(http.StatusOK, gin.H{"organizations": dto.ToOrganizationDTOs(orgs)})
}
