package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/pageza/craveq/backend/internal/model"
)

// NormalizeCraving lowercases a craving, trims it and collapses inner whitespace
func NormalizeCraving(craving string) string {
	return strings.Join(strings.Fields(strings.ToLower(craving)), " ")
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

// CatalogUpgrader answers cravings from the recipe catalog
type CatalogUpgrader struct {
	recipes *RecipeService
	limit   int
}

// NewCatalogUpgrader creates an upgrader returning at most limit alternatives
func NewCatalogUpgrader(recipes *RecipeService, limit int) *CatalogUpgrader {
	if limit < 1 {
		limit = 1
	}
	return &CatalogUpgrader{recipes: recipes, limit: limit}
}

// UpgradeRecipe finds the recipe behind a craving and returns healthier
// alternatives from the same category, best first. Cravings that match no
// known dish fall back to a title and ingredient search over the upgrades.
func (u *CatalogUpgrader) UpgradeRecipe(ctx context.Context, craving string) ([]model.Alternative, error) {
	key := NormalizeCraving(craving)
	// Punctuation alone would match the JSON text of every ingredient list
	if !strings.ContainsFunc(key, isWordRune) {
		return nil, NewLookupError(craving)
	}

	baseline, err := u.matchBaseline(ctx, key)
	if err != nil {
		return nil, err
	}

	var upgrades []model.Recipe
	if baseline != nil {
		upgrades, err = u.recipes.UpgradesFor(ctx, baseline, key, u.limit)
	} else {
		upgrades, err = u.recipes.UpgradesMatching(ctx, key, u.limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query upgrades for %q: %w", key, err)
	}

	if len(upgrades) == 0 {
		return nil, NewLookupError(craving)
	}

	alternatives := make([]model.Alternative, len(upgrades))
	for i := range upgrades {
		alternatives[i] = upgrades[i].ToAlternative()
	}
	return alternatives, nil
}

// matchBaseline returns the original recipe for key: an exact craving key or
// title match first, then the first partial match either way round.
func (u *CatalogUpgrader) matchBaseline(ctx context.Context, key string) (*model.Recipe, error) {
	originals, err := u.recipes.Originals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load original recipes: %w", err)
	}

	for i := range originals {
		if originals[i].CravingKey == key || strings.ToLower(originals[i].Title) == key {
			return &originals[i], nil
		}
	}
	for i := range originals {
		k := originals[i].CravingKey
		if k == "" {
			continue
		}
		if strings.Contains(key, k) || strings.Contains(k, key) {
			return &originals[i], nil
		}
	}
	return nil, nil
}
