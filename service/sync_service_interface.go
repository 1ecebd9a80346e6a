package service

import (
	"context"

	"catalogo-instrumentais/models"
)

// SyncServiceInterface defines the contract for image ingestion operations
type SyncServiceInterface interface {
	// SyncImages ingests the images of a Drive folder into the given product
	// table's image table and returns insertion stats: inserted = new rows
	// created, skipped = already existed (by url), total = files seen in Drive.
	SyncImages(ctx context.Context, table, folderID string) (*models.SyncImagesResponse, error)
}
