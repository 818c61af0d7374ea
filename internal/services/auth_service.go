package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/securetask/secure-task-api/internal/auth"
	"github.com/securetask/secure-task-api/internal/models"
	"github.com/securetask/secure-task-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService handles the login flow: credential verification, the login
// audit record and token issuance. Login is treated like any other
// sensitive action - it does not succeed unless its audit record is
// durably appended.
type AuthService struct {
	db        *gorm.DB
	userRepo  repository.UserRepository
	auditRepo repository.AuditRepository
	secret    []byte
	tokenTTL  time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(db *gorm.DB, userRepo repository.UserRepository, auditRepo repository.AuditRepository, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		db:        db,
		userRepo:  userRepo,
		auditRepo: auditRepo,
		secret:    []byte(secret),
		tokenTTL:  tokenTTL,
	}
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is the issued token plus the authenticated user.
type LoginResult struct {
	Token string
	User  *models.User
}

// Login verifies credentials, stamps the last login, audits the action and
// issues a signed token carrying {subject, role, organization}.
func (s *AuthService) Login(input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	actorID := user.ID
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.WithTx(tx).UpdateLastLogin(user.ID, time.Now()); err != nil {
			return fmt.Errorf("failed to update last login: %w", err)
		}
		entry := &models.AuditLog{
			ActorID:        &actorID,
			OrganizationID: user.OrganizationID,
			Action:         models.AuditLogin,
			Context:        models.JSONMap{},
		}
		if err := s.auditRepo.WithTx(tx).Create(entry); err != nil {
			return fmt.Errorf("%w: %v", ErrAuditAppendFailed, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := auth.GenerateToken(s.secret, user, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &LoginResult{Token: token, User: user}, nil
}

// Logout records the logout action. Tokens are stateless, so the audit
// trail is the only server-side effect.
func (s *AuthService) Logout(actor auth.Actor) error {
	actorID := actor.ID
	entry := &models.AuditLog{
		ActorID:        &actorID,
		OrganizationID: actor.OrganizationID,
		Action:         models.AuditLogout,
		Context:        models.JSONMap{},
	}
	if err := s.auditRepo.Create(entry); err != nil {
		return fmt.Errorf("%w: %v", ErrAuditAppendFailed, err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
