package auth

import "github.com/securetask/secure-task-api/internal/models"

// Actor is the authenticated identity context for one request. It is
// rebuilt from a verified token on every request and never persisted; the
// organization id is fixed for the life of the token, and the role may lag
// a concurrent role change until the user authenticates again.
type Actor struct {
	ID             string
	Role           models.UserRole
	OrganizationID string
}
