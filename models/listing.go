package models

// ListingGroup is a ProductGroup enriched with its resolved imagery for
// display on a listing page
type ListingGroup struct {
	BaseName    string       `json:"baseName"`
	Token       string       `json:"token"`
	HasVariants bool         `json:"hasVariants"`
	Members     []CatalogRow `json:"members"`
	Images      []ImageRecord `json:"images"`
	CardImage   string       `json:"cardImage,omitempty"`
}

// ListingResponse is the payload for a listing page of one source table
type ListingResponse struct {
	Table  string         `json:"table"`
	Groups []ListingGroup `json:"groups"`
	Total  int            `json:"total"`
}

// ProductDetail is the payload for a single product's detail view
type ProductDetail struct {
	Row     CatalogRow        `json:"row"`
	Variant VariantDescriptor `json:"variant"`
	Images  []ImageRecord     `json:"images"`
}

// SyncImagesResponse reports the outcome of a Drive image ingestion run
type SyncImagesResponse struct {
	Table    string `json:"table"`
	Inserted int    `json:"inserted"`
	Skipped  int    `json:"skipped"`
	Total    int    `json:"total"`
}
