package bootstrap

import (
	"fmt"
	"log"

	"github.com/securetask/secure-task-api/internal/config"
	"github.com/securetask/secure-task-api/internal/models"
	"github.com/securetask/secure-task-api/internal/repository"
	"github.com/securetask/secure-task-api/internal/services"
	"gorm.io/gorm"
)

// EnsureSeedData seeds the root organization and the initial owner account.
// It is an explicit, idempotent procedure invoked once during process
// startup: if any user already exists it does nothing. The seed user is
// created as a system action, so no audit actor is recorded.
func EnsureSeedData(db *gorm.DB, cfg *config.Config) error {
	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)

	count, err := userRepo.Count()
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	orgService := services.NewOrganizationService(orgRepo)
	org, err := orgService.EnsureRootOrganization(cfg.SeedOrganization)
	if err != nil {
		return fmt.Errorf("failed to ensure root organization: %w", err)
	}

	userService := services.NewUserService(db, userRepo, orgRepo, repository.NewAuditRepository(db))
	owner, err := userService.CreateUser(nil, services.CreateUserInput{
		Email:          cfg.SeedOwnerEmail,
		DisplayName:    cfg.SeedOwnerName,
		Password:       cfg.SeedOwnerPass,
		Role:           models.RoleOwner,
		OrganizationID: org.ID,
	})
	if err != nil {
		return fmt.Errorf("failed to create seed owner: %w", err)
	}

	log.Printf("Seeded organization %q with owner %s", org.Name, owner.Email)
	return nil
}
