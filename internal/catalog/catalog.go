// Package catalog loads recipe catalogs from files, S3 or the built-in seed
// and writes them into the recipe store.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pageza/craveq/backend/internal/model"
)

// Store is the part of the recipe service seeding needs
type Store interface {
	UpsertRecipe(ctx context.Context, recipe *model.Recipe) (*model.Recipe, error)
	CountRecipes(ctx context.Context) (int64, error)
}

// Load reads and decodes a catalog, choosing YAML or JSON by extension
func Load(ctx context.Context, src Source) ([]Entry, error) {
	r, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return Decode(r, filepath.Ext(src.Name()))
}

// Decode parses a catalog document. ext is a file extension such as ".yaml".
func Decode(r io.Reader, ext string) ([]Entry, error) {
	var file File
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(r).Decode(&file); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode YAML catalog: %w", err)
		}
	case ".json":
		if err := json.NewDecoder(r).Decode(&file); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode JSON catalog: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", ext)
	}
	return file.Recipes, nil
}

// Seed validates every entry and upserts them by title. Nothing is written
// when any entry is invalid.
func Seed(ctx context.Context, store Store, entries []Entry) (int, error) {
	for i := range entries {
		if err := entries[i].Validate(); err != nil {
			return 0, fmt.Errorf("catalog entry %d (%q): %w", i, entries[i].Title, err)
		}
	}

	for i := range entries {
		if _, err := store.UpsertRecipe(ctx, entries[i].Recipe()); err != nil {
			return i, fmt.Errorf("failed to upsert %q: %w", entries[i].Title, err)
		}
	}
	return len(entries), nil
}

// SeedIfEmpty loads src into the store only when the store has no recipes
func SeedIfEmpty(ctx context.Context, store Store, src Source) (int, error) {
	count, err := store.CountRecipes(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	if count > 0 {
		log.Printf("[Catalog] %d recipes present, skipping seed", count)
		return 0, nil
	}

	entries, err := Load(ctx, src)
	if err != nil {
		return 0, err
	}
	n, err := Seed(ctx, store, entries)
	if err != nil {
		return n, err
	}
	log.Printf("[Catalog] Seeded %d recipes from %s", n, src.Name())
	return n, nil
}
