package variation

import (
	"regexp"
	"strings"

	"catalogo-instrumentais/models"
)

// Shapes a product code must NOT have to participate in Rule B. Numeric IDs,
// content hashes, UUIDs and base64 blobs all collide across unrelated rows,
// so they are never trusted as identity.
var (
	allDigits    = regexp.MustCompile(`^[0-9]+$`)
	base64Shaped = regexp.MustCompile(`^[A-Za-z0-9+/]{15,}={0,2}$`)
	hexHashLike  = regexp.MustCompile(`^[a-f0-9]{32,}$`)
	uuidShaped   = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	hasLetter    = regexp.MustCompile(`\p{L}`)
)

// ValidDedupCode reports whether a code is a genuine catalog code ("TRS401")
// rather than a numeric ID, hash, UUID or base64 blob
func ValidDedupCode(code string) bool {
	code = strings.TrimSpace(code)
	if len(code) < 2 || len(code) > 20 {
		return false
	}
	if allDigits.MatchString(code) {
		return false
	}
	if base64Shaped.MatchString(code) {
		return false
	}
	lowered := strings.ToLower(code)
	if hexHashLike.MatchString(lowered) || uuidShaped.MatchString(lowered) {
		return false
	}
	return hasLetter.MatchString(code)
}

// IsDuplicate decides whether two rows represent the same real-world item.
// Rule A: normalized names match. Rule B: both rows carry a valid catalog
// code and the codes match case-insensitively. Symmetric by construction.
func IsDuplicate(a, b models.CatalogRow) bool {
	if Normalize(a.RawName) == Normalize(b.RawName) {
		return true
	}
	if ValidDedupCode(a.Code) && ValidDedupCode(b.Code) &&
		strings.EqualFold(strings.TrimSpace(a.Code), strings.TrimSpace(b.Code)) {
		return true
	}
	return false
}

// Dedupe folds a row list into a deduplicated one. A row is dropped the
// first time it matches an already-kept row under either rule; first seen
// wins, relative order is preserved.
func Dedupe(rows []models.CatalogRow) []models.CatalogRow {
	seenNames := make(map[string]bool, len(rows))
	seenCodes := make(map[string]bool, len(rows))

	kept := make([]models.CatalogRow, 0, len(rows))
	for _, row := range rows {
		nameKey := Normalize(row.RawName)
		codeKey := ""
		if ValidDedupCode(row.Code) {
			codeKey = strings.ToUpper(strings.TrimSpace(row.Code))
		}

		if seenNames[nameKey] || (codeKey != "" && seenCodes[codeKey]) {
			continue
		}

		seenNames[nameKey] = true
		if codeKey != "" {
			seenCodes[codeKey] = true
		}
		kept = append(kept, row)
	}
	return kept
}
