package models

// CatalogRow represents a single product row fetched from a source table.
// Identity is either the table's numeric key or, when the table has no such
// column, the row's 1-based position in a name-sorted scan.
type CatalogRow struct {
	Identity    int    `json:"identity"`
	RawName     string `json:"rawName"`
	Code        string `json:"code,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	SourceTable string `json:"sourceTable"`
}

// HasEmbeddedImage reports whether the row carries its own image URL,
// used as the last fallback when the resolution chain finds nothing.
func (r CatalogRow) HasEmbeddedImage() bool {
	return r.ImageURL != ""
}
