package variation

import (
	"sort"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// The catalog is Brazilian Portuguese; collation must put "Pinça" next to
// "Pinca" rather than after "Pz". Collators are not safe for concurrent use,
// so comparisons are serialized behind a mutex.
var (
	collatorMu sync.Mutex
	collator   = collate.New(language.BrazilianPortuguese, collate.IgnoreCase)
)

// CompareNames compares two display names with locale-aware ordering
func CompareNames(a, b string) int {
	collatorMu.Lock()
	defer collatorMu.Unlock()
	return collator.CompareString(a, b)
}

// OrderForDisplay sorts items for a listing page: items with at least one
// resolved image first, then locale-aware alphabetical by display name.
// The sort is stable, and works the same for flat rows and product groups.
func OrderForDisplay[T any](items []T, name func(T) string, hasImage func(T) bool) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if hasImage(a) != hasImage(b) {
			return hasImage(a)
		}
		return CompareNames(name(a), name(b)) < 0
	})
}
