package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/craveq/backend/internal/model"
	"github.com/pageza/craveq/backend/internal/types"
)

// MockUpgrader is a mock implementation of the craving lookup
type MockUpgrader struct {
	mock.Mock
}

// UpgradeRecipe mocks the UpgradeRecipe method
func (m *MockUpgrader) UpgradeRecipe(ctx context.Context, craving string) ([]model.Alternative, error) {
	args := m.Called(ctx, craving)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Alternative), args.Error(1)
}

// MockTokenValidator is a mock implementation of admin token validation
type MockTokenValidator struct {
	mock.Mock
}

// ValidateToken mocks the ValidateToken method
func (m *MockTokenValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TokenClaims), args.Error(1)
}
