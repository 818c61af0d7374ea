package auth

import "github.com/securetask/secure-task-api/internal/models"

// Authorize is the coarse role gate. An empty required set means the
// endpoint has no role restriction beyond authentication. Otherwise the
// actor is allowed iff its role satisfies at least one required role.
//
// The finer user-management rule (an admin may never create or elevate an
// owner) is layered on top of this by the user service so the gate stays
// reusable for plain endpoint guarding.
func Authorize(actor Actor, requiredRoles ...models.UserRole) bool {
	if len(requiredRoles) == 0 {
		return true
	}
	for _, required := range requiredRoles {
		if actor.Role.Satisfies(required) {
			return true
		}
	}
	return false
}

// IsElevated reports whether the role carries mutating privileges.
func IsElevated(role models.UserRole) bool {
	return role == models.RoleOwner || role == models.RoleAdmin
}
