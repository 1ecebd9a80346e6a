package models

// ImageRecord represents one row of an image table. OwnerKey is either the
// numeric product identity or a name/slug string, depending on the owning
// table's structure.
type ImageRecord struct {
	ID        string `json:"id"`
	OwnerKey  string `json:"ownerKey"`
	URL       string `json:"url"`
	Order     int    `json:"order"`
	IsPrimary bool   `json:"isPrimary"`
}

// DriveImage is an image file discovered in a Google Drive folder during
// an ingestion run
type DriveImage struct {
	FileID string `json:"fileId"`
	Name   string `json:"name"`
	URL    string `json:"url"`
}
