package repository

import (
	"context"

	"catalogo-instrumentais/models"
)

// ProductRepositoryInterface defines the contract for product row access
type ProductRepositoryInterface interface {
	FetchAllRows(ctx context.Context, table string) ([]models.CatalogRow, error)
}

// ImageRepositoryInterface defines the contract for image table access.
// The query methods double as the lookup surface of the image resolver.
type ImageRepositoryInterface interface {
	QueryEquals(ctx context.Context, table, field, value string) ([]models.ImageRecord, error)
	QueryPrefix(ctx context.Context, table, field, prefix string) ([]models.ImageRecord, error)
	QueryAll(ctx context.Context, table string) ([]models.ImageRecord, error)
	QueryInSet(ctx context.Context, table, field string, values []string) ([]models.ImageRecord, error)
	ExistsByURL(ctx context.Context, table, url string) (bool, error)
	Insert(ctx context.Context, table string, rec models.ImageRecord) error
	GetByID(ctx context.Context, table, id string) (models.ImageRecord, error)
}
