package repository

import (
	"time"

	"github.com/securetask/secure-task-api/internal/models"
	"gorm.io/gorm"
)

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	// WithTx returns a copy of the repository bound to the given transaction
	WithTx(tx *gorm.DB) OrganizationRepository

	// Create creates a new organization
	Create(org *models.Organization) error

	// FindByID finds an organization by ID
	FindByID(id string) (*models.Organization, error)

	// FindByName finds an organization by its unique display name
	FindByName(name string) (*models.Organization, error)

	// ListAll lists every organization ordered by creation time ascending
	ListAll() ([]models.Organization, error)

	// Count returns the number of organizations
	Count() (int64, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// WithTx returns a copy of the repository bound to the given transaction
	WithTx(tx *gorm.DB) UserRepository

	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id string) (*models.User, error)

	// FindByEmail finds a user by email (stored lowercased)
	FindByEmail(email string) (*models.User, error)

	// ListByOrganization lists an organization's users ordered by display name
	ListByOrganization(organizationID string) ([]models.User, error)

	// Update persists changes to a user
	Update(user *models.User) error

	// UpdateLastLogin stamps the user's last login time
	UpdateLastLogin(id string, at time.Time) error

	// Count returns the number of users
	Count() (int64, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	OrganizationID string
	Status         *models.TaskStatus
	AssigneeID     *string
	Page           int
	PageSize       int
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// WithTx returns a copy of the repository bound to the given transaction
	WithTx(tx *gorm.DB) TaskRepository

	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id string, preload ...string) (*models.Task, error)

	// List retrieves tasks newest-first with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update persists changes to a task
	Update(task *models.Task) error

	// Delete removes a task
	Delete(id string) error
}

// AuditRepository defines the interface for the append-only audit trail.
// There is deliberately no update or delete operation.
type AuditRepository interface {
	// WithTx returns a copy of the repository bound to the given transaction
	WithTx(tx *gorm.DB) AuditRepository

	// Create appends an audit record
	Create(entry *models.AuditLog) error

	// ListByOrganization lists one organization's records newest-first
	ListByOrganization(organizationID string, limit int) ([]models.AuditLog, error)
}
