package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/craveq/backend/internal/types"
)

func newTestAuthService(t *testing.T) *AuthService {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	return NewAuthService("test-secret", hash)
}

func TestLoginAndValidate(t *testing.T) {
	svc := newTestAuthService(t)

	token, claims, err := svc.Login("correct horse")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, types.AdminRole, claims.Role)
	assert.Equal(t, types.AdminRole, claims.Subject)

	validated, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, claims.ID, validated.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestAuthService(t)

	_, _, err := svc.Login("battery staple")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginDisabled(t *testing.T) {
	_, _, err := NewAuthService("test-secret", "").Login("anything")
	assert.ErrorIs(t, err, ErrAdminDisabled)

	_, err = NewAuthService("", "").ValidateToken("anything")
	assert.ErrorIs(t, err, ErrAdminDisabled)
}

func TestValidateTokenRejects(t *testing.T) {
	svc := newTestAuthService(t)
	token, _, err := svc.Login("correct horse")
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		svc.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
		defer func() { svc.now = time.Now }()

		_, err := svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewAuthService("other-secret", "")
		_, err := other.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing role", func(t *testing.T) {
		claims := &types.TokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = svc.ValidateToken(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
