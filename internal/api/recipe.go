package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/craveq/backend/internal/middleware"
	"github.com/pageza/craveq/backend/internal/model"
	"github.com/pageza/craveq/backend/internal/service"
	"github.com/pageza/craveq/backend/internal/types"
)

// RecipeHandler serves the catalog admin API
type RecipeHandler struct {
	recipes service.IRecipeService
	auth    middleware.TokenValidator
	cache   service.CacheInvalidator
}

// NewRecipeHandler creates a new recipe handler; cache may be nil
func NewRecipeHandler(recipes service.IRecipeService, auth middleware.TokenValidator, cache service.CacheInvalidator) *RecipeHandler {
	return &RecipeHandler{
		recipes: recipes,
		auth:    auth,
		cache:   cache,
	}
}

// RegisterRoutes registers the recipe routes. Reads are public, writes need an admin token.
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.POST("", middleware.AuthMiddleware(h.auth), h.CreateRecipe)
		recipes.PUT("/:id", middleware.AuthMiddleware(h.auth), h.UpdateRecipe)
		recipes.DELETE("/:id", middleware.AuthMiddleware(h.auth), h.DeleteRecipe)
	}
}

func toModel(req *types.RecipeRequest) *model.Recipe {
	recipe := &model.Recipe{
		Title:       req.Title,
		CravingKey:  req.CravingKey,
		Category:    req.Category,
		Region:      req.Region,
		Continent:   req.Continent,
		Original:    req.Original,
		Calories:    req.Calories,
		Protein:     req.Protein,
		Carbs:       req.Carbs,
		Fat:         req.Fat,
		Fiber:       req.Fiber,
		Sugar:       req.Sugar,
		Ingredients: model.JSONBStringArray(req.Ingredients),
	}
	if req.HealthScore != nil {
		recipe.HealthScore = *req.HealthScore
	} else {
		recipe.DeriveHealthScore()
	}
	return recipe
}

// invalidate drops cached decode results; failures only cost freshness
func (h *RecipeHandler) invalidate(ctx context.Context) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Invalidate(ctx); err != nil {
		log.Printf("[Recipes] Failed to invalidate decode cache: %v", err)
	}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid recipe ID"})
		return uuid.Nil, false
	}
	return id, true
}

// writeError maps service errors to HTTP responses
func writeError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, types.ErrorResponse{Error: "Recipe not found"})
	case errors.Is(err, gorm.ErrDuplicatedKey):
		c.JSON(http.StatusConflict, types.ErrorResponse{Error: "A recipe with this title already exists"})
	case errors.Is(err, service.ErrInvalidRecipe):
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
	default:
		log.Printf("[Recipes] Failed to %s recipe: %v", action, err)
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to " + action + " recipe"})
	}
}

// ListRecipes lists recipes, searching when q is given
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	ctx := c.Request.Context()
	category := strings.ToLower(strings.TrimSpace(c.Query("category")))

	var (
		recipes []*model.Recipe
		err     error
	)
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		recipes, err = h.recipes.SearchRecipes(ctx, q)
		if err == nil && category != "" {
			filtered := recipes[:0]
			for _, r := range recipes {
				if r.Category == category {
					filtered = append(filtered, r)
				}
			}
			recipes = filtered
		}
	} else {
		recipes, err = h.recipes.ListRecipes(ctx, category)
	}
	if err != nil {
		writeError(c, err, "fetch")
		return
	}

	if recipes == nil {
		recipes = []*model.Recipe{}
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// GetRecipe returns a single recipe
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "fetch")
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

// CreateRecipe adds a recipe to the catalog
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
		return
	}

	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), toModel(&req))
	if err != nil {
		writeError(c, err, "create")
		return
	}

	h.invalidate(c.Request.Context())
	c.JSON(http.StatusCreated, gin.H{"recipe": recipe})
}

// UpdateRecipe replaces a recipe
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
		return
	}

	recipe, err := h.recipes.UpdateRecipe(c.Request.Context(), id, toModel(&req))
	if err != nil {
		writeError(c, err, "update")
		return
	}

	h.invalidate(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

// DeleteRecipe removes a recipe
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.recipes.DeleteRecipe(c.Request.Context(), id); err != nil {
		writeError(c, err, "delete")
		return
	}

	h.invalidate(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Recipe deleted successfully"})
}
