package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditAction is the closed set of sensitive actions recorded in the audit
// trail.
type AuditAction string

const (
	AuditLogin        AuditAction = "login"
	AuditLogout       AuditAction = "logout"
	AuditCreateTask   AuditAction = "create_task"
	AuditUpdateTask   AuditAction = "update_task"
	AuditDeleteTask   AuditAction = "delete_task"
	AuditCreateUser   AuditAction = "create_user"
	AuditUpdateUser   AuditAction = "update_user"
	AuditChangeRole   AuditAction = "change_role"
	AuditAccessDenied AuditAction = "access_denied"
)

// JSONMap stores an open key-value context as a JSON text column. Values
// must be JSON-safe scalars; callers own the contents.
type JSONMap map[string]any

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (m *JSONMap) Scan(value any) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported audit context type %T", value)
	}
	if len(data) == 0 {
		*m = JSONMap{}
		return nil
	}
	return json.Unmarshal(data, m)
}

// AuditLog is an append-only record of a sensitive action. Rows are never
// updated or deleted after creation. ActorID is nil for system actions.
type AuditLog struct {
	ID             string      `gorm:"type:varchar(36);primarykey" json:"id"`
	ActorID        *string     `gorm:"type:varchar(36);index" json:"actor_id"`
	OrganizationID string      `gorm:"type:varchar(36);not null;index" json:"organization_id"`
	Action         AuditAction `gorm:"type:varchar(30);not null" json:"action"`
	Context        JSONMap     `gorm:"type:text" json:"context"`
	CreatedAt      time.Time   `gorm:"index" json:"created_at"`

	// Relations
	Actor        *User        `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
