package service

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"catalogo-instrumentais/config"
	"catalogo-instrumentais/models"
	"catalogo-instrumentais/repository"
	"catalogo-instrumentais/variation"
)

// SyncService ingests images from a Google Drive folder into a product
// table's image table. The filename stem becomes the owner key, transformed
// to match whatever key shape the target table uses.
// Implements SyncServiceInterface
type SyncService struct {
	driveService DriveServiceInterface
	imageRepo    repository.ImageRepositoryInterface
	cfg          *config.Config
}

// NewSyncService creates a new SyncService
func NewSyncService(driveService DriveServiceInterface, imageRepo repository.ImageRepositoryInterface, cfg *config.Config) *SyncService {
	return &SyncService{
		driveService: driveService,
		imageRepo:    imageRepo,
		cfg:          cfg,
	}
}

// Ensure SyncService implements SyncServiceInterface
var _ SyncServiceInterface = (*SyncService)(nil)

// ownerKeyFor derives the image owner key from a Drive filename.
// Slug-keyed tables get the slugged stem; everything else keeps the stem
// as written, since name-keyed tables store raw product names.
func ownerKeyFor(fileName string, rules config.TableRules) string {
	stem := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	if rules.Override != nil && rules.Override.UseSlugTransform {
		return variation.Slugify(stem)
	}
	return stem
}

// SyncImages ingests every image of a Drive folder into the table's image
// table. Re-runs are idempotent: a URL already present is skipped, never
// duplicated.
func (s *SyncService) SyncImages(ctx context.Context, table, folderID string) (*models.SyncImagesResponse, error) {
	if s.driveService == nil {
		return nil, fmt.Errorf("drive access is not configured")
	}
	if !s.cfg.ValidTable(table) {
		return nil, fmt.Errorf("unknown product table: %s", table)
	}
	rules := s.cfg.RulesFor(table)

	log.Printf("🔄 Starting image sync for table %s from folder: %s", table, folderID)

	driveImages, err := s.driveService.ListImages(folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list images from Drive: %w", err)
	}

	log.Printf("📦 Processing %d images from Google Drive", len(driveImages))
	stats := &models.SyncImagesResponse{Table: table, Total: len(driveImages)}

	for _, img := range driveImages {
		exists, err := s.imageRepo.ExistsByURL(ctx, rules.ImageTable, img.URL)
		if err != nil {
			log.Printf("❌ Error checking existence for %s: %v", img.Name, err)
			continue
		}

		if exists {
			log.Printf("⏭️  Skipping %s (already in %s)", img.Name, rules.ImageTable)
			stats.Skipped++
			continue
		}

		rec := models.ImageRecord{
			OwnerKey: ownerKeyFor(img.Name, rules),
			URL:      img.URL,
		}

		log.Printf("💾 Inserting %s into %s (key: %s)", img.Name, rules.ImageTable, rec.OwnerKey)
		if err := s.imageRepo.Insert(ctx, rules.ImageTable, rec); err != nil {
			log.Printf("❌ Error inserting %s: %v", img.Name, err)
			continue
		}

		stats.Inserted++
	}

	log.Printf("🎉 Sync completed for %s: %d inserted, %d skipped, %d total", table, stats.Inserted, stats.Skipped, stats.Total)
	return stats, nil
}
