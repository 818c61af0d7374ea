package services

import (
	"errors"
	"fmt"

	"github.com/securetask/secure-task-api/internal/models"
	"github.com/securetask/secure-task-api/internal/repository"
)

var ErrAuditAppendFailed = errors.New("failed to append audit record")

// AuditService is the append-only audit trail. Records are written
// synchronously; a caller's operation is not complete until its record is
// durably appended. Nothing ever updates or deletes a record.
type AuditService struct {
	auditRepo repository.AuditRepository
}

// NewAuditService creates a new AuditService
func NewAuditService(auditRepo repository.AuditRepository) *AuditService {
	return &AuditService{
		auditRepo: auditRepo,
	}
}

// Append records a sensitive action. A nil actorID marks a system action.
func (s *AuditService) Append(actorID *string, organizationID string, action models.AuditAction, context models.JSONMap) (*models.AuditLog, error) {
	if context == nil {
		context = models.JSONMap{}
	}

	entry := &models.AuditLog{
		ActorID:        actorID,
		OrganizationID: organizationID,
		Action:         action,
		Context:        context,
	}

	if err := s.auditRepo.Create(entry); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuditAppendFailed, err)
	}

	return entry, nil
}

// ListForOrganization returns one organization's records newest-first.
// A non-positive limit falls back to the default of 200.
func (s *AuditService) ListForOrganization(organizationID string, limit int) ([]models.AuditLog, error) {
	entries, err := s.auditRepo.ListByOrganization(organizationID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit records: %w", err)
	}
	return entries, nil
}
