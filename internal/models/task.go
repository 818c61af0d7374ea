package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusBacklog    TaskStatus = "backlog"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusDone       TaskStatus = "done"
)

// Valid reports whether the status is one of the four board columns.
// Any authorized actor may move a task directly between any two statuses;
// there is no transition table.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusBacklog, TaskStatusInProgress, TaskStatusReview, TaskStatusDone:
		return true
	}
	return false
}

type TaskCategory string

const (
	TaskCategoryWork     TaskCategory = "work"
	TaskCategoryPersonal TaskCategory = "personal"
	TaskCategorySecurity TaskCategory = "security"
	TaskCategoryOther    TaskCategory = "other"
)

func (c TaskCategory) Valid() bool {
	switch c {
	case TaskCategoryWork, TaskCategoryPersonal, TaskCategorySecurity, TaskCategoryOther:
		return true
	}
	return false
}

// Task is a tenant-owned entity. OrganizationID is assigned at creation
// from the acting user and is immutable thereafter.
type Task struct {
	ID             string       `gorm:"type:varchar(36);primarykey" json:"id"`
	Title          string       `gorm:"not null" json:"title"`
	Description    string       `gorm:"type:text" json:"description"`
	Status         TaskStatus   `gorm:"type:varchar(20);not null;default:'backlog'" json:"status"`
	Category       TaskCategory `gorm:"type:varchar(20);not null;default:'work'" json:"category"`
	DueDate        *time.Time   `json:"due_date"`
	OrganizationID string       `gorm:"type:varchar(36);not null;index" json:"organization_id"`
	CreatedByID    *string      `gorm:"type:varchar(36);index" json:"created_by_id"`
	AssigneeID     *string      `gorm:"type:varchar(36);index" json:"assignee_id"`
	CreatedAt      time.Time    `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	CreatedBy    *User        `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	Assignee     *User        `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
