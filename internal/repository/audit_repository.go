package repository

import (
	"github.com/securetask/secure-task-api/internal/constants"
	"github.com/securetask/secure-task-api/internal/models"
	"gorm.io/gorm"
)

// GormAuditRepository is a GORM implementation of AuditRepository
type GormAuditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new AuditRepository
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &GormAuditRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *GormAuditRepository) WithTx(tx *gorm.DB) AuditRepository {
	return &GormAuditRepository{db: tx}
}

// Create appends an audit record
func (r *GormAuditRepository) Create(entry *models.AuditLog) error {
	return r.db.Create(entry).Error
}

// ListByOrganization lists one organization's records newest-first
func (r *GormAuditRepository) ListByOrganization(organizationID string, limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > constants.MaxAuditLimit {
		limit = constants.DefaultAuditLimit
	}

	var entries []models.AuditLog
	if err := r.db.Preload("Actor").
		Where("organization_id = ?", organizationID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
