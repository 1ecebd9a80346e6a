package service

import (
	"context"

	"catalogo-instrumentais/models"
)

// CatalogServiceInterface defines the contract for catalog view operations
type CatalogServiceInterface interface {
	BuildListing(ctx context.Context, table string) (*models.ListingResponse, error)
	GetProductDetail(ctx context.Context, table, token string) (*models.ProductDetail, error)
	RenderCatalogHTML(ctx context.Context, table string, useBase64 bool) (string, error)
	GeneratePDF(ctx context.Context, table string) ([]byte, error)
}
