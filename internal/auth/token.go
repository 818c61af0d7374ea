package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/securetask/secure-task-api/internal/models"
)

const issuer = "secure-task-api"

// ErrInvalidToken indicates the token failed signature or claim validation.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the JWT claims carried by an access token. The core trusts
// them verbatim once the signature is verified.
type Claims struct {
	Role           models.UserRole `json:"role"`
	OrganizationID string          `json:"org_id"`
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 access token for the given user.
func GenerateToken(secret []byte, user *models.User, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("token secret is not configured")
	}
	if ttl <= 0 {
		return "", errors.New("token ttl must be greater than zero")
	}

	now := time.Now().UTC()
	claims := Claims{
		Role:           user.Role,
		OrganizationID: user.OrganizationID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies the token and reconstructs the request actor.
func ParseToken(secret []byte, token string) (Actor, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Actor{}, ErrInvalidToken
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil {
		return Actor{}, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Actor{}, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" || claims.OrganizationID == "" || !claims.Role.Valid() {
		return Actor{}, ErrInvalidToken
	}

	return Actor{
		ID:             claims.Subject,
		Role:           claims.Role,
		OrganizationID: claims.OrganizationID,
	}, nil
}
