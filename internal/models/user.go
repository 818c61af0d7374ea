package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRole is the closed role set. Each role maps to an integer priority;
// a higher priority is a strict superset of the capabilities below it
// within the same organization.
type UserRole string

const (
	RoleOwner  UserRole = "owner"
	RoleAdmin  UserRole = "admin"
	RoleViewer UserRole = "viewer"
)

var rolePriority = map[UserRole]int{
	RoleOwner:  3,
	RoleAdmin:  2,
	RoleViewer: 1,
}

// Priority returns the integer rank of the role. Unknown roles rank below
// every valid role.
func (r UserRole) Priority() int {
	return rolePriority[r]
}

// Satisfies reports whether the role is at least as privileged as required.
func (r UserRole) Satisfies(required UserRole) bool {
	return r.Priority() >= required.Priority()
}

// Valid reports whether the role is one of the closed set.
func (r UserRole) Valid() bool {
	_, ok := rolePriority[r]
	return ok
}

type User struct {
	ID             string     `gorm:"type:varchar(36);primarykey" json:"id"`
	Email          string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash   string     `gorm:"type:varchar(255);not null" json:"-"`
	DisplayName    string     `gorm:"type:varchar(255);not null" json:"display_name"`
	Role           UserRole   `gorm:"type:varchar(20);not null" json:"role"`
	OrganizationID string     `gorm:"type:varchar(36);not null;index" json:"organization_id"`
	LastLoginAt    *time.Time `json:"last_login_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Relations
	Organization  Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	CreatedTasks  []Task       `gorm:"foreignKey:CreatedByID" json:"-"`
	AssignedTasks []Task       `gorm:"foreignKey:AssigneeID" json:"-"`
	AuditEntries  []AuditLog   `gorm:"foreignKey:ActorID" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
