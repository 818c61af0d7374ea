package middleware

import (
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/securetask/secure-task-api/internal/auth"
	"github.com/securetask/secure-task-api/internal/constants"
	apierrors "github.com/securetask/secure-task-api/internal/errors"
	"github.com/securetask/secure-task-api/internal/models"
	"github.com/securetask/secure-task-api/internal/services"
)

// RequireAuth verifies the Bearer token and places the reconstructed actor
// in the request context. No core logic runs without a resolvable actor.
func RequireAuth(secret string) gin.HandlerFunc {
	secretBytes := []byte(secret)
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		actor, err := auth.ParseToken(secretBytes, token)
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyActor, actor)
		c.Next()
	}
}

// RequireRoles guards a route with a statically declared required-role set.
// The set is fixed at router construction, read once at startup. A denial
// appends an access_denied audit record, best effort: failing to record a
// denial never un-denies it.
func RequireRoles(auditService *services.AuditService, roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, exists := GetActor(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if !auth.Authorize(actor, roles...) {
			actorID := actor.ID
			if _, err := auditService.Append(&actorID, actor.OrganizationID, models.AuditAccessDenied, models.JSONMap{
				"method": c.Request.Method,
				"path":   c.FullPath(),
				"role":   string(actor.Role),
			}); err != nil {
				log.Printf("failed to record access denial: %v", err)
			}
			apierrors.Forbidden(c, "Insufficient role for this action")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetActor retrieves the current actor from context
func GetActor(c *gin.Context) (auth.Actor, bool) {
	value, exists := c.Get(constants.ContextKeyActor)
	if !exists {
		return auth.Actor{}, false
	}
	actor, ok := value.(auth.Actor)
	return actor, ok
}
