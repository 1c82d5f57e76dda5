package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pageza/craveq/backend/internal/model"
)

// Entry is one recipe in a catalog file
type Entry struct {
	Craving     string          `json:"craving" yaml:"craving"`
	Title       string          `json:"title" yaml:"title"`
	Category    string          `json:"category" yaml:"category"`
	Region      string          `json:"region" yaml:"region"`
	Continent   string          `json:"continent" yaml:"continent"`
	Original    bool            `json:"original" yaml:"original"`
	HealthScore *float64        `json:"health_score,omitempty" yaml:"health_score,omitempty"`
	Nutrition   model.Nutrition `json:"nutrition" yaml:"nutrition"`
	Ingredients []string        `json:"ingredients" yaml:"ingredients"`
}

// File is the top-level document of a catalog file
type File struct {
	Recipes []Entry `json:"recipes" yaml:"recipes"`
}

// Validate checks the fields every entry must carry
func (e *Entry) Validate() error {
	var missing []string
	if strings.TrimSpace(e.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(e.Category) == "" {
		missing = append(missing, "category")
	}
	if len(e.Ingredients) == 0 {
		missing = append(missing, "ingredients")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s", strings.Join(missing, ", "))
	}
	if s := e.HealthScore; s != nil && (*s < 0 || *s > 100) {
		return errors.New("health_score must be between 0 and 100")
	}
	return nil
}

// Recipe converts the entry to a catalog recipe, deriving the health score
// when the entry has none
func (e *Entry) Recipe() *model.Recipe {
	recipe := &model.Recipe{
		Title:       e.Title,
		CravingKey:  e.Craving,
		Category:    e.Category,
		Region:      e.Region,
		Continent:   e.Continent,
		Original:    e.Original,
		Calories:    e.Nutrition.Calories,
		Protein:     e.Nutrition.Protein,
		Carbs:       e.Nutrition.Carbs,
		Fat:         e.Nutrition.Fat,
		Fiber:       e.Nutrition.Fiber,
		Sugar:       e.Nutrition.Sugar,
		Ingredients: model.JSONBStringArray(e.Ingredients),
	}
	if e.HealthScore != nil {
		recipe.HealthScore = *e.HealthScore
	} else {
		recipe.DeriveHealthScore()
	}
	return recipe
}
