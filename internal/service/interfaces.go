package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/craveq/backend/internal/model"
	"github.com/pageza/craveq/backend/internal/types"
)

// Upgrader maps a craving to healthier recipe alternatives.
// A miss is reported as a *LookupError; any other error is unexpected.
type Upgrader interface {
	UpgradeRecipe(ctx context.Context, craving string) ([]model.Alternative, error)
}

// CacheInvalidator drops cached decode results after the catalog changes
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// IAuthService defines the interface for admin authentication
type IAuthService interface {
	Login(password string) (string, *types.TokenClaims, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

// IRecipeService defines the interface for catalog recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, recipe *model.Recipe) (*model.Recipe, error)
	GetRecipe(ctx context.Context, id uuid.UUID) (*model.Recipe, error)
	UpdateRecipe(ctx context.Context, id uuid.UUID, recipe *model.Recipe) (*model.Recipe, error)
	DeleteRecipe(ctx context.Context, id uuid.UUID) error
	ListRecipes(ctx context.Context, category string) ([]*model.Recipe, error)
	SearchRecipes(ctx context.Context, query string) ([]*model.Recipe, error)
	UpsertRecipe(ctx context.Context, recipe *model.Recipe) (*model.Recipe, error)
	CountRecipes(ctx context.Context) (int64, error)
}
