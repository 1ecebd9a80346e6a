package controller

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"catalogo-instrumentais/config"
	"catalogo-instrumentais/service"
)

// ImageController handles HTTP requests for image ingestion and serving
type ImageController struct {
	syncService      service.SyncServiceInterface
	imageFileService service.ImageFileServiceInterface
	cfg              *config.Config
}

// NewImageController creates a new ImageController
func NewImageController(
	syncService service.SyncServiceInterface,
	imageFileService service.ImageFileServiceInterface,
	cfg *config.Config,
) *ImageController {
	return &ImageController{
		syncService:      syncService,
		imageFileService: imageFileService,
		cfg:              cfg,
	}
}

// validImageSizes is a map of valid size values for optimized serving
var validImageSizes = map[string]bool{
	"thumb":  true,
	"medium": true,
}

// SyncImages handles POST /admin/images/sync?table=instrumentais&folderId=XYZ
func (c *ImageController) SyncImages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		log.Printf("❌ SyncImages: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	table := strings.TrimSpace(r.URL.Query().Get("table"))
	folderID := strings.TrimSpace(r.URL.Query().Get("folderId"))
	if table == "" || folderID == "" {
		log.Printf("❌ SyncImages: table and folderId parameters are required")
		http.Error(w, "table and folderId parameters are required", http.StatusBadRequest)
		return
	}
	if !c.cfg.ValidTable(table) {
		log.Printf("❌ SyncImages: Invalid table: %s", table)
		http.Error(w, "Invalid table", http.StatusBadRequest)
		return
	}

	stats, err := c.syncService.SyncImages(r.Context(), table, folderID)
	if err != nil {
		log.Printf("❌ SyncImages: Sync failed for %s: %v", table, err)
		http.Error(w, fmt.Sprintf("Failed to sync images: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		log.Printf("❌ SyncImages: Error encoding response: %v", err)
	}
}

// GetOptimizedImage handles GET /admin/images/{id}/file?table=instrumentais&size=thumb
func (c *ImageController) GetOptimizedImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		log.Printf("❌ GetOptimizedImage: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Path shape: /admin/images/{id}/file
	path := strings.TrimPrefix(r.URL.Path, "/admin/images/")
	imageID := strings.TrimSuffix(path, "/file")
	if imageID == "" || imageID == path {
		log.Printf("❌ GetOptimizedImage: Invalid path: %s", r.URL.Path)
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	table := strings.TrimSpace(r.URL.Query().Get("table"))
	if table == "" || !c.cfg.ValidTable(table) {
		log.Printf("❌ GetOptimizedImage: Invalid table: %s", table)
		http.Error(w, "Invalid table", http.StatusBadRequest)
		return
	}

	size := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("size")))
	if size == "" {
		size = "medium"
	}
	if !validImageSizes[size] {
		log.Printf("❌ GetOptimizedImage: Invalid size: %s", size)
		http.Error(w, "Invalid size. Valid sizes: thumb, medium", http.StatusBadRequest)
		return
	}

	data, err := c.imageFileService.GetOptimizedImage(r.Context(), table, imageID, size)
	if err != nil {
		log.Printf("❌ GetOptimizedImage: Failed for image %s (%s/%s): %v", imageID, table, size, err)
		http.Error(w, "Failed to load image", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("❌ GetOptimizedImage: Error writing response: %v", err)
	}
}
