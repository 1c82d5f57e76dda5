package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/pageza/craveq/backend/internal/model"
)

// RunMigrations prepares the catalog schema. PostgreSQL needs the pgvector
// extension before the embedding column can be created.
func RunMigrations(db *gorm.DB) error {
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
			return fmt.Errorf("failed to install pgvector extension: %w", err)
		}
	}

	if err := db.AutoMigrate(&model.Recipe{}); err != nil {
		return fmt.Errorf("failed to migrate recipes: %w", err)
	}

	log.Printf("Applied migrations using %s dialect", db.Dialector.Name())
	return nil
}
