package auth

import (
	"testing"

	"github.com/securetask/secure-task-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestAuthorizeEmptyRequiredSetAllows(t *testing.T) {
	actor := Actor{ID: "u1", Role: models.RoleViewer, OrganizationID: "o1"}
	assert.True(t, Authorize(actor))
}

func TestAuthorizeAllowsWhenAnyRequiredRoleSatisfied(t *testing.T) {
	admin := Actor{ID: "u1", Role: models.RoleAdmin, OrganizationID: "o1"}

	assert.True(t, Authorize(admin, models.RoleOwner, models.RoleAdmin))
	assert.True(t, Authorize(admin, models.RoleViewer))
	assert.False(t, Authorize(admin, models.RoleOwner))
}

func TestAuthorizeDeniesViewerForMutatingSet(t *testing.T) {
	viewer := Actor{ID: "u2", Role: models.RoleViewer, OrganizationID: "o1"}
	assert.False(t, Authorize(viewer, models.RoleOwner, models.RoleAdmin))
}

func TestAuthorizeOwnerAlwaysAllowed(t *testing.T) {
	owner := Actor{ID: "u3", Role: models.RoleOwner, OrganizationID: "o1"}
	assert.True(t, Authorize(owner, models.RoleOwner))
	assert.True(t, Authorize(owner, models.RoleAdmin))
	assert.True(t, Authorize(owner, models.RoleViewer))
}

func TestIsElevated(t *testing.T) {
	assert.True(t, IsElevated(models.RoleOwner))
	assert.True(t, IsElevated(models.RoleAdmin))
	assert.False(t, IsElevated(models.RoleViewer))
}
