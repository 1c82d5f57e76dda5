package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/pageza/craveq/backend/config"
	"github.com/pageza/craveq/backend/internal/catalog"
	"github.com/pageza/craveq/backend/internal/database"
	"github.com/pageza/craveq/backend/internal/service"
)

func main() {
	file := flag.String("file", "", "Catalog file to import (.yaml, .yml or .json)")
	fromS3 := flag.Bool("s3", false, "Import the catalog object at CATALOG_S3_BUCKET/CATALOG_S3_KEY")
	onlyEmpty := flag.Bool("if-empty", false, "Skip the import when the catalog already has recipes")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var src catalog.Source = catalog.EmbeddedSource{}
	switch {
	case *file != "" && *fromS3:
		log.Fatal("-file and -s3 are mutually exclusive")
	case *file != "":
		src = catalog.FileSource{Path: *file}
	case *fromS3:
		if cfg.CatalogS3Bucket == "" {
			log.Fatal("CATALOG_S3_BUCKET must be set to import from S3")
		}
		s3Cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to configure S3: %v", err)
		}
		src = catalog.S3Source{Client: s3Cfg.Client, Bucket: s3Cfg.BucketName, Key: s3Cfg.Key}
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	recipes := service.NewRecipeService(db)
	if *onlyEmpty {
		if _, err := catalog.SeedIfEmpty(ctx, recipes, src); err != nil {
			log.Fatalf("Failed to seed catalog: %v", err)
		}
		return
	}

	entries, err := catalog.Load(ctx, src)
	if err != nil {
		log.Fatalf("Failed to load catalog from %s: %v", src.Name(), err)
	}
	n, err := catalog.Seed(ctx, recipes, entries)
	if err != nil {
		log.Fatalf("Failed to seed catalog after %d recipes: %v", n, err)
	}
	log.Printf("Imported %d recipes from %s", n, src.Name())
}
