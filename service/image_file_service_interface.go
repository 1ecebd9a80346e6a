package service

import "context"

// ImageFileServiceInterface defines the contract for serving optimized images
type ImageFileServiceInterface interface {
	GetOptimizedImage(ctx context.Context, table, imageID, size string) ([]byte, error)
}
