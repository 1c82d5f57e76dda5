package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/craveq/backend/internal/types"
)

const tokenTTL = 24 * time.Hour

// AuthService issues and validates admin tokens for the catalog API
type AuthService struct {
	jwtSecret    []byte
	passwordHash []byte
	now          func() time.Time
}

// NewAuthService creates an AuthService. An empty passwordHash disables login.
func NewAuthService(jwtSecret, passwordHash string) *AuthService {
	return &AuthService{
		jwtSecret:    []byte(jwtSecret),
		passwordHash: []byte(passwordHash),
		now:          time.Now,
	}
}

// HashPassword returns the bcrypt hash to configure as ADMIN_PASSWORD_HASH
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login checks the admin password and returns a signed token
func (s *AuthService) Login(password string) (string, *types.TokenClaims, error) {
	if len(s.passwordHash) == 0 || len(s.jwtSecret) == 0 {
		return "", nil, ErrAdminDisabled
	}

	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	return s.generateToken()
}

func (s *AuthService) generateToken() (string, *types.TokenClaims, error) {
	now := s.now()
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   types.AdminRole,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
		Role: types.AdminRole,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, claims, nil
}

// ValidateToken parses a token and checks that it carries the admin role
func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	if len(s.jwtSecret) == 0 {
		return nil, ErrAdminDisabled
	}

	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid || claims.Role != types.AdminRole {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
