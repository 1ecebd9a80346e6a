package models

// VariantKind classifies the variant pattern extracted from a product name
type VariantKind string

const (
	// VariantNumeric is a trailing ordinal like "Nº3" or "#12"
	VariantNumeric VariantKind = "NUMERIC"
	// VariantDimension is a single measurement like "26,5CM"
	VariantDimension VariantKind = "DIMENSION"
	// VariantCompoundDimension is a width×height measurement like "10x20MM"
	// or the trailing half of one ("x 50mm")
	VariantCompoundDimension VariantKind = "COMPOUND_DIMENSION"
	// VariantNone means no variant pattern matched
	VariantNone VariantKind = "NONE"
)

// VariantDescriptor is the result of parsing a free-text product name into
// a base identity plus the suffix that distinguishes it from its siblings
type VariantDescriptor struct {
	BaseName string      `json:"baseName"`
	Label    string      `json:"label,omitempty"`
	Kind     VariantKind `json:"kind"`
}

// ProductGroup is a cluster of rows sharing the same base identity.
// Members are ordered ascending by the numeric magnitude of their labels.
// HasVariants is true iff the group holds more than one member.
type ProductGroup struct {
	BaseName    string       `json:"baseName"`
	Members     []CatalogRow `json:"members"`
	HasVariants bool         `json:"hasVariants"`
}
