package dto

import (
	"time"

	"github.com/securetask/secure-task-api/internal/models"
)

// SystemActor is the sentinel reported for audit entries whose acting user
// is absent or has been removed.
const SystemActor = "system"

// OrganizationDTO represents an organization in API responses
type OrganizationDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  *string   `json:"parent_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserProfileDTO represents a user in API responses
type UserProfileDTO struct {
	ID             string           `json:"id"`
	Email          string           `json:"email"`
	DisplayName    string           `json:"display_name"`
	Role           models.UserRole  `json:"role"`
	OrganizationID string           `json:"organization_id"`
	Organization   *OrganizationDTO `json:"organization,omitempty"`
	LastLoginAt    *time.Time       `json:"last_login_at"`
	CreatedAt      time.Time        `json:"created_at"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID             string              `json:"id"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	Status         models.TaskStatus   `json:"status"`
	Category       models.TaskCategory `json:"category"`
	DueDate        *time.Time          `json:"due_date"`
	OrganizationID string              `json:"organization_id"`
	CreatedByID    *string             `json:"created_by_id"`
	AssigneeID     *string             `json:"assignee_id"`
	CreatedBy      *UserProfileDTO     `json:"created_by,omitempty"`
	Assignee       *UserProfileDTO     `json:"assignee,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// AuditEntryDTO represents one audit trail record in API responses.
// Timestamps are ISO-8601 strings so reporting surfaces get a stable wire
// shape regardless of the storage driver.
type AuditEntryDTO struct {
	ID             string             `json:"id"`
	ActorID        string             `json:"actor_id"`
	OrganizationID string             `json:"organization_id"`
	Action         models.AuditAction `json:"action"`
	Context        models.JSONMap     `json:"context"`
	CreatedAt      string             `json:"created_at"`
}

// ToOrganizationDTO converts an Organization model to OrganizationDTO
func ToOrganizationDTO(org models.Organization) OrganizationDTO {
	return OrganizationDTO{
		ID:        org.ID,
		Name:      org.Name,
		ParentID:  org.ParentID,
		CreatedAt: org.CreatedAt,
		UpdatedAt: org.UpdatedAt,
	}
}

// ToUserProfileDTO converts a User model to UserProfileDTO
func ToUserProfileDTO(user models.User) UserProfileDTO {
	profile := UserProfileDTO{
		ID:             user.ID,
		Email:          user.Email,
		DisplayName:    user.DisplayName,
		Role:           user.Role,
		OrganizationID: user.OrganizationID,
		LastLoginAt:    user.LastLoginAt,
		CreatedAt:      user.CreatedAt,
	}

	// Include organization if preloaded
	if user.Organization.ID != "" {
		org := ToOrganizationDTO(user.Organization)
		profile.Organization = &org
	}

	return profile
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		Status:         task.Status,
		Category:       task.Category,
		DueDate:        task.DueDate,
		OrganizationID: task.OrganizationID,
		CreatedByID:    task.CreatedByID,
		AssigneeID:     task.AssigneeID,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}

	if task.CreatedBy != nil {
		creator := ToUserProfileDTO(*task.CreatedBy)
		dto.CreatedBy = &creator
	}
	if task.Assignee != nil {
		assignee := ToUserProfileDTO(*task.Assignee)
		dto.Assignee = &assignee
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}

// ToUserProfileDTOs converts a slice of users
func ToUserProfileDTOs(users []models.User) []UserProfileDTO {
	dtos := make([]UserProfileDTO, len(users))
	for i, user := range users {
		dtos[i] = ToUserProfileDTO(user)
	}
	return dtos
}

// ToOrganizationDTOs converts a slice of organizations
func ToOrganizationDTOs(orgs []models.Organization) []OrganizationDTO {
	dtos := make([]OrganizationDTO, len(orgs))
	for i, org := range orgs {
		dtos[i] = ToOrganizationDTO(org)
	}
	return dtos
}

// ToAuditEntryDTO converts an AuditLog model to AuditEntryDTO
func ToAuditEntryDTO(entry models.AuditLog) AuditEntryDTO {
	actorID := SystemActor
	if entry.ActorID != nil {
		actorID = *entry.ActorID
	}

	context := entry.Context
	if context == nil {
		context = models.JSONMap{}
	}

	return AuditEntryDTO{
		ID:             entry.ID,
		ActorID:        actorID,
		OrganizationID: entry.OrganizationID,
		Action:         entry.Action,
		Context:        context,
		CreatedAt:      entry.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ToAuditEntryDTOs converts a slice of audit records
func ToAuditEntryDTOs(entries []models.AuditLog) []AuditEntryDTO {
	dtos := make([]AuditEntryDTO, len(entries))
	for i, entry := range entries {
		dtos[i] = ToAuditEntryDTO(entry)
	}
	return dtos
}
