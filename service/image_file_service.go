package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"catalogo-instrumentais/config"
	"catalogo-instrumentais/repository"
)

// ImageFileService serves optimized image bytes for stored image records.
// The first request for a record/size pair downloads and optimizes the
// source file; subsequent requests hit the local cache.
// Implements ImageFileServiceInterface
type ImageFileService struct {
	imageRepo    repository.ImageRepositoryInterface
	driveService DriveServiceInterface
	cfg          *config.Config
}

// NewImageFileService creates a new ImageFileService
func NewImageFileService(imageRepo repository.ImageRepositoryInterface, driveService DriveServiceInterface, cfg *config.Config) *ImageFileService {
	return &ImageFileService{
		imageRepo:    imageRepo,
		driveService: driveService,
		cfg:          cfg,
	}
}

// Ensure ImageFileService implements ImageFileServiceInterface
var _ ImageFileServiceInterface = (*ImageFileService)(nil)

// driveFileID extracts the file id from a drive.google.com/uc?id=... URL,
// or returns false for any other URL shape
func driveFileID(rawURL string) (string, bool) {
	if !strings.Contains(rawURL, "drive.google.com") {
		return "", false
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	id := parsed.Query().Get("id")
	return id, id != ""
}

// fetchSource downloads the original image bytes. Drive-hosted URLs go
// through the authenticated Drive client so private folders work; anything
// else is a plain HTTP fetch.
func (s *ImageFileService) fetchSource(ctx context.Context, rawURL string) ([]byte, error) {
	if fileID, ok := driveFileID(rawURL); ok && s.driveService != nil {
		return s.driveService.DownloadImage(fileID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", rawURL, err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("source returned status %d for %s", resp.StatusCode, rawURL)
	}

	return io.ReadAll(resp.Body)
}

// GetOptimizedImage returns optimized JPEG bytes for one stored image
// record, identified by its product table and record id. size is "thumb"
// or "medium".
func (s *ImageFileService) GetOptimizedImage(ctx context.Context, table, imageID, size string) ([]byte, error) {
	if !s.cfg.ValidTable(table) {
		return nil, fmt.Errorf("unknown product table: %s", table)
	}
	rules := s.cfg.RulesFor(table)

	cachePath := GetCachePath(rules.ImageTable, imageID, size)
	if CacheExists(cachePath) {
		return ReadFromCache(cachePath)
	}

	rec, err := s.imageRepo.GetByID(ctx, rules.ImageTable, imageID)
	if err != nil {
		return nil, fmt.Errorf("failed to load image record: %w", err)
	}
	if rec.URL == "" {
		return nil, fmt.Errorf("image %s has no source url", imageID)
	}

	raw, err := s.fetchSource(ctx, rec.URL)
	if err != nil {
		return nil, err
	}

	optimized, err := OptimizeImage(raw, size)
	if err != nil {
		return nil, err
	}

	if err := SaveToCache(cachePath, optimized); err != nil {
		// Cache miss next time, but the bytes are good
		log.Printf("⚠️  Warning: failed to cache image %s: %v", imageID, err)
	}

	return optimized, nil
}
