package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/craveq/backend/internal/model"
)

// RecipeService handles catalog recipe operations
type RecipeService struct {
	db *gorm.DB
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// prepare normalizes a recipe before it is written. The health score is
// stored as given; callers derive it when none was supplied.
func prepare(recipe *model.Recipe) error {
	recipe.Title = strings.TrimSpace(recipe.Title)
	if recipe.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidRecipe)
	}
	recipe.Category = strings.ToLower(strings.TrimSpace(recipe.Category))
	if recipe.Category == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidRecipe)
	}
	recipe.CravingKey = NormalizeCraving(recipe.CravingKey)
	if recipe.CravingKey == "" {
		recipe.CravingKey = recipe.Category
	}
	if recipe.HealthScore < 0 || recipe.HealthScore > 100 {
		return fmt.Errorf("%w: health_score must be between 0 and 100", ErrInvalidRecipe)
	}
	if recipe.Ingredients == nil {
		recipe.Ingredients = model.JSONBStringArray{}
	}
	return nil
}

// CreateRecipe creates a new recipe. A soft-deleted recipe with the same
// title is purged first so the title can be reused.
func (s *RecipeService) CreateRecipe(ctx context.Context, recipe *model.Recipe) (*model.Recipe, error) {
	if err := prepare(recipe); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("title = ? AND deleted_at IS NOT NULL", recipe.Title).
			Delete(&model.Recipe{}).Error; err != nil {
			return fmt.Errorf("failed to purge deleted recipe: %w", err)
		}
		return tx.Create(recipe).Error
	})
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

// GetRecipe retrieves a recipe by ID
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// UpdateRecipe replaces the editable fields of a recipe
func (s *RecipeService) UpdateRecipe(ctx context.Context, id uuid.UUID, recipe *model.Recipe) (*model.Recipe, error) {
	existing, err := s.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}

	recipe.ID = existing.ID
	recipe.CreatedAt = existing.CreatedAt
	if err := prepare(recipe); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(recipe).Error; err != nil {
		return nil, err
	}
	return s.GetRecipe(ctx, id)
}

// DeleteRecipe soft-deletes a recipe
func (s *RecipeService) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	// First check if the recipe exists
	if _, err := s.GetRecipe(ctx, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&model.Recipe{}, "id = ?", id).Error
}

// ListRecipes lists catalog recipes, optionally restricted to one category
func (s *RecipeService) ListRecipes(ctx context.Context, category string) ([]*model.Recipe, error) {
	query := s.db.WithContext(ctx).Order("category ASC, title ASC")
	if category != "" {
		query = query.Where("category = ?", strings.ToLower(category))
	}

	var recipes []*model.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// SearchRecipes matches the query against titles and ingredients.
// On PostgreSQL matches are ordered by embedding distance to the query.
func (s *RecipeService) SearchRecipes(ctx context.Context, query string) ([]*model.Recipe, error) {
	key := NormalizeCraving(query)
	if key == "" {
		return s.ListRecipes(ctx, "")
	}

	dbQuery := s.matching(s.db.WithContext(ctx), key)
	if s.isPostgres() {
		dbQuery = dbQuery.Clauses(clause.OrderBy{
			Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{model.GenerateEmbedding(key)}},
		})
	} else {
		dbQuery = dbQuery.Order("title ASC")
	}

	var recipes []*model.Recipe
	if err := dbQuery.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// UpsertRecipe inserts a recipe or replaces the one with the same title,
// reviving it if it had been soft-deleted.
func (s *RecipeService) UpsertRecipe(ctx context.Context, recipe *model.Recipe) (*model.Recipe, error) {
	if err := prepare(recipe); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "title"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"updated_at", "deleted_at", "craving_key", "category", "region", "continent", "original",
			"calories", "protein", "carbs", "fat", "fiber", "sugar", "health_score", "ingredients", "embedding",
		}),
	}).Create(recipe).Error
	if err != nil {
		return nil, err
	}

	var stored model.Recipe
	if err := s.db.WithContext(ctx).First(&stored, "title = ?", recipe.Title).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// CountRecipes returns the number of live catalog recipes
func (s *RecipeService) CountRecipes(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Recipe{}).Count(&count).Error
	return count, err
}

// Originals returns the recipes that describe cravings, ordered by craving key
func (s *RecipeService) Originals(ctx context.Context) ([]model.Recipe, error) {
	var recipes []model.Recipe
	err := s.db.WithContext(ctx).
		Where("original = ?", true).
		Order("craving_key ASC, title ASC").
		Find(&recipes).Error
	return recipes, err
}

// UpgradesFor returns non-original recipes in the baseline's category that score
// strictly better than it.
func (s *RecipeService) UpgradesFor(ctx context.Context, baseline *model.Recipe, craving string, limit int) ([]model.Recipe, error) {
	query := s.db.WithContext(ctx).
		Where("original = ?", false).
		Where("category = ?", baseline.Category).
		Where("health_score > ?", baseline.HealthScore)
	return s.rankedUpgrades(query, craving, limit)
}

// UpgradesMatching returns non-original recipes whose title or ingredients contain key
func (s *RecipeService) UpgradesMatching(ctx context.Context, key string, limit int) ([]model.Recipe, error) {
	query := s.matching(s.db.WithContext(ctx).Where("original = ?", false), key)
	return s.rankedUpgrades(query, key, limit)
}

func (s *RecipeService) rankedUpgrades(query *gorm.DB, craving string, limit int) ([]model.Recipe, error) {
	if s.isPostgres() {
		query = query.Clauses(clause.OrderBy{
			Expression: clause.Expr{
				SQL:  "health_score DESC, calories ASC, embedding <-> ?",
				Vars: []interface{}{model.GenerateEmbedding(craving)},
			},
		})
	} else {
		query = query.Order("health_score DESC").Order("calories ASC").Order("title ASC")
	}

	var recipes []model.Recipe
	if err := query.Limit(limit).Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// likeEscaper makes %, _ and the escape character itself match literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching key as a plain substring
func containsPattern(key string) string {
	return "%" + likeEscaper.Replace(key) + "%"
}

func (s *RecipeService) matching(query *gorm.DB, key string) *gorm.DB {
	like := containsPattern(key)
	if s.isPostgres() {
		return query.Where(`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(ingredients::text) LIKE ? ESCAPE '\'`, like, like)
	}
	return query.Where(`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(ingredients) LIKE ? ESCAPE '\'`, like, like)
}

func (s *RecipeService) isPostgres() bool {
	return s.db.Dialector.Name() == "postgres"
}
