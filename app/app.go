package app

import (
	"fmt"
	"log"
	"os"

	"catalogo-instrumentais/app/controller"
	"catalogo-instrumentais/app/router"
	"catalogo-instrumentais/config"
	"catalogo-instrumentais/db"
	"catalogo-instrumentais/imagematch"
	"catalogo-instrumentais/repository"
	"catalogo-instrumentais/service"
)

// Initialize initializes the application
func Initialize() error {
	// Initialize database connection
	if err := db.InitDB(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	// Load engine configuration (built-in defaults + optional JSON overlay)
	cfg := config.Load(os.Getenv("CATALOG_CONFIG_PATH"))

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	// Drive access is optional: without credentials the sync endpoint is
	// unavailable but browsing still works
	var driveService service.DriveServiceInterface
	credentialsPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	if credentialsPath != "" {
		ds, err := service.NewDriveService(credentialsPath)
		if err != nil {
			return err
		}
		driveService = ds
	} else {
		log.Printf("⚠️  GOOGLE_APPLICATION_CREDENTIALS not set, image sync disabled")
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository()
	imageRepo := repository.NewImageRepository(cfg)

	// Initialize services
	resolver := imagematch.NewResolver(imageRepo, cfg)
	catalogService := service.NewCatalogService(productRepo, resolver, cfg, baseURL)
	syncService := service.NewSyncService(driveService, imageRepo, cfg)
	imageFileService := service.NewImageFileService(imageRepo, driveService, cfg)

	if err := service.EnsureCacheDir(); err != nil {
		return err
	}

	// Create controllers
	controllers := &router.Controllers{
		Product: controller.NewProductController(catalogService, cfg),
		Image:   controller.NewImageController(syncService, imageFileService, cfg),
		Catalog: controller.NewCatalogController(catalogService, cfg),
	}

	// Setup routes using standard http router
	router.SetupRoutes(controllers)

	return nil
}
