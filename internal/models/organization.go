package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Organization is the tenant boundary. Every user, task and audit entry
// belongs to exactly one organization. ParentID is a weak reference: it is
// set at creation and never reassigned, so parent chains cannot form cycles.
type Organization struct {
	ID        string    `gorm:"type:varchar(36);primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	ParentID  *string   `gorm:"type:varchar(36);index" json:"parent_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Parent   *Organization  `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children []Organization `gorm:"foreignKey:ParentID" json:"children,omitempty"`
	Users    []User         `gorm:"foreignKey:OrganizationID" json:"users,omitempty"`
	Tasks    []Task         `gorm:"foreignKey:OrganizationID" json:"tasks,omitempty"`
}

func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}
