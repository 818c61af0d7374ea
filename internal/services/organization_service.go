package services

import (
	"errors"
	"fmt"

	"github.com/securetask/secure-task-api/internal/models"
	"github.com/securetask/secure-task-api/internal/repository"
	"gorm.io/gorm"
)

var ErrOrganizationNotFound = errors.New("organization not found")

// OrganizationService manages the tenant forest. Organizations are created
// at bootstrap or by administrative action and never deleted here; parents
// are weak references assigned at creation.
type OrganizationService struct {
	orgRepo repository.OrganizationRepository
}

// NewOrganizationService creates a new OrganizationService
func NewOrganizationService(orgRepo repository.OrganizationRepository) *OrganizationService {
	return &OrganizationService{
		orgRepo: orgRepo,
	}
}

// EnsureRootOrganization returns the organization with the given name,
// creating it if absent. Idempotent by name to support bootstrap seeding.
func (s *OrganizationService) EnsureRootOrganization(name string) (*models.Organization, error) {
	existing, err := s.orgRepo.FindByName(name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up organization: %w", err)
	}

	org := &models.Organization{Name: name}
	if err := s.orgRepo.Create(org); err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}
	return org, nil
}

// GetOrganization resolves an organization by id.
func (s *OrganizationService) GetOrganization(id string) (*models.Organization, error) {
	org, err := s.orgRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}
	return org, nil
}

// ListOrganizations returns every organization ordered by creation time
// ascending.
func (s *OrganizationService) ListOrganizations() ([]models.Organization, error) {
	orgs, err := s.orgRepo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	return orgs, nil
}
