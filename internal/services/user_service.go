package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/securetask/secure-task-api/internal/auth"
	"github.com/securetask/secure-task-api/internal/constants"
	"github.com/securetask/secure-task-api/internal/models"
	"github.com/securetask/secure-task-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrEmailTaken              = errors.New("email already registered")
	ErrViewerCannotManageUsers = errors.New("viewers cannot manage users")
	ErrAdminCannotGrantOwner   = errors.New("admins cannot create or promote owners")
	ErrAdminCannotManageOwner  = errors.New("admins cannot manage owners")
	ErrInvalidRole             = errors.New("invalid role")
	ErrPasswordTooShort        = errors.New("password too short")
	ErrDisplayNameRequired     = errors.New("display name is required")
	ErrFailedToHashPassword    = errors.New("failed to hash password")
)

// UserService is the organization-scoped accessor for users. It layers the
// role-assignment refinement on top of the generic gate: an admin may
// manage actors up to admin priority but may never create or elevate an
// owner; only an owner may.
type UserService struct {
	db        *gorm.DB
	userRepo  repository.UserRepository
	orgRepo   repository.OrganizationRepository
	auditRepo repository.AuditRepository
}

// NewUserService creates a new UserService
func NewUserService(db *gorm.DB, userRepo repository.UserRepository, orgRepo repository.OrganizationRepository, auditRepo repository.AuditRepository) *UserService {
	return &UserService{
		db:        db,
		userRepo:  userRepo,
		orgRepo:   orgRepo,
		auditRepo: auditRepo,
	}
}

// CreateUserInput represents input for creating a user
type CreateUserInput struct {
	Email       string
	DisplayName string
	Password    string
	Role        models.UserRole
	// OrganizationID is honored only for system (actor-less) creation, such
	// as the bootstrap seed. Actor-driven creation always uses the actor's
	// own organization.
	OrganizationID string
}

// UpdateUserInput represents a partial profile update
type UpdateUserInput struct {
	DisplayName *string
}

// ListUsers returns the users of the actor's organization ordered by
// display name.
func (s *UserService) ListUsers(actor auth.Actor) ([]models.User, error) {
	users, err := s.userRepo.ListByOrganization(actor.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetUser returns a user if it belongs to the actor's organization.
func (s *UserService) GetUser(actor auth.Actor, userID string) (*models.User, error) {
	return s.getScopedUser(actor, userID)
}

// CreateUser creates a user. When actor is nil the call is a system action
// (bootstrap seed): no role refinement applies and no audit record is
// written, matching the absent-actor sentinel in the trail.
func (s *UserService) CreateUser(actor *auth.Actor, input CreateUserInput) (*models.User, error) {
	if !input.Role.Valid() {
		return nil, ErrInvalidRole
	}
	if strings.TrimSpace(input.DisplayName) == "" {
		return nil, ErrDisplayNameRequired
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	organizationID := input.OrganizationID
	if actor != nil {
		if err := s.ensureActorCanAssignRole(*actor, input.Role); err != nil {
			return nil, err
		}
		// Client-supplied organizations are ignored; a user is always
		// created inside the actor's own tenant.
		organizationID = actor.OrganizationID
	}

	if _, err := s.orgRepo.FindByID(organizationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to resolve organization: %w", err)
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Email:          email,
		DisplayName:    strings.TrimSpace(input.DisplayName),
		PasswordHash:   string(hashed),
		Role:           input.Role,
		OrganizationID: organizationID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.WithTx(tx).Create(user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		if actor == nil {
			return nil
		}
		return s.appendAudit(tx, *actor, models.AuditCreateUser, models.JSONMap{
			"target_user_id": user.ID,
			"role":           string(user.Role),
		})
	})
	if err != nil {
		return nil, err
	}

	return s.userRepo.FindByID(user.ID)
}

// UpdateUser applies a partial profile update to a user in the actor's
// organization.
func (s *UserService) UpdateUser(actor auth.Actor, userID string, input UpdateUserInput) (*models.User, error) {
	if err := s.ensureCanManage(actor); err != nil {
		return nil, err
	}

	user, err := s.getScopedUser(actor, userID)
	if err != nil {
		return nil, err
	}
	if actor.Role == models.RoleAdmin && user.Role == models.RoleOwner {
		return nil, ErrAdminCannotManageOwner
	}

	if input.DisplayName != nil {
		name := strings.TrimSpace(*input.DisplayName)
		if name == "" {
			return nil, ErrDisplayNameRequired
		}
		user.DisplayName = name
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.WithTx(tx).Update(user); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		return s.appendAudit(tx, actor, models.AuditUpdateUser, models.JSONMap{
			"target_user_id": user.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.userRepo.FindByID(user.ID)
}

// ChangeRole assigns a new role to a user in the actor's organization.
func (s *UserService) ChangeRole(actor auth.Actor, userID string, newRole models.UserRole) (*models.User, error) {
	if err := s.ensureCanManage(actor); err != nil {
		return nil, err
	}
	if !newRole.Valid() {
		return nil, ErrInvalidRole
	}
	if err := s.ensureActorCanAssignRole(actor, newRole); err != nil {
		return nil, err
	}

	user, err := s.getScopedUser(actor, userID)
	if err != nil {
		return nil, err
	}
	if actor.Role == models.RoleAdmin && user.Role == models.RoleOwner {
		return nil, ErrAdminCannotManageOwner
	}

	previous := user.Role
	user.Role = newRole

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.WithTx(tx).Update(user); err != nil {
			return fmt.Errorf("failed to change role: %w", err)
		}
		return s.appendAudit(tx, actor, models.AuditChangeRole, models.JSONMap{
			"target_user_id": user.ID,
			"from":           string(previous),
			"to":             string(newRole),
		})
	})
	if err != nil {
		return nil, err
	}

	return s.userRepo.FindByID(user.ID)
}

// getScopedUser loads a user and collapses nonexistence and a tenant
// mismatch into ErrUserNotFound.
func (s *UserService) getScopedUser(actor auth.Actor, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user.OrganizationID != actor.OrganizationID {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) ensureCanManage(actor auth.Actor) error {
	if !auth.Authorize(actor, models.RoleOwner, models.RoleAdmin) {
		return ErrViewerCannotManageUsers
	}
	return nil
}

// ensureActorCanAssignRole enforces the composed rule on top of the generic
// gate: viewers manage nobody, and only an owner may hand out the owner
// role.
func (s *UserService) ensureActorCanAssignRole(actor auth.Actor, requested models.UserRole) error {
	if actor.Role == models.RoleViewer {
		return ErrViewerCannotManageUsers
	}
	if actor.Role == models.RoleAdmin && requested == models.RoleOwner {
		return ErrAdminCannotGrantOwner
	}
	return nil
}

func (s *UserService) appendAudit(tx *gorm.DB, actor auth.Actor, action models.AuditAction, context models.JSONMap) error {
	actorID := actor.ID
	entry := &models.AuditLog{
		ActorID:        &actorID,
		OrganizationID: actor.OrganizationID,
		Action:         action,
		Context:        context,
	}
	if err := s.auditRepo.WithTx(tx).Create(entry); err != nil {
		return fmt.Errorf("%w: %v", ErrAuditAppendFailed, err)
	}
	return nil
}
