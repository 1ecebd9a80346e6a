package variation

import (
	"regexp"
	"sort"
	"strconv"

	"catalogo-instrumentais/config"
	"catalogo-instrumentais/models"
)

var nonDigits = regexp.MustCompile(`[^0-9]+`)

// labelMagnitude extracts the integer magnitude used to order variants
// within a group: all non-digit characters stripped, parsed as an integer,
// anything unparsable counts as zero
func labelMagnitude(label string) int {
	digits := nonDigits.ReplaceAllString(label, "")
	if digits == "" {
		return 0
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		// longer than an int; caller only needs a consistent ordering
		return 0
	}
	return n
}

type groupEntry struct {
	row  models.CatalogRow
	desc models.VariantDescriptor
}

// Group clusters rows into ordered product groups: deduplicate, extract a
// variant descriptor per row, bucket by normalized base name, then decide
// per bucket whether it is a real variant family or a set of singletons.
//
// A bucket only becomes a variant group when more than one of its members
// matched a variant pattern; otherwise each member is emitted as its own
// singleton group under its raw name, so unrelated single items that happen
// to share a generic bucket key are never collapsed.
func Group(rows []models.CatalogRow, rules []config.VariantRule) []models.ProductGroup {
	deduped := Dedupe(rows)
	extractor := NewExtractor(rules)

	buckets := make(map[string][]groupEntry, len(deduped))
	var order []string

	for _, row := range deduped {
		desc := extractor.Extract(row.RawName)

		key := Normalize(desc.BaseName)
		if key == "" {
			key = Normalize(row.RawName)
		}
		if key == "" {
			key = row.RawName
		}

		if _, ok := buckets[key]; !ok {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], groupEntry{row: row, desc: desc})
	}

	var groups []models.ProductGroup
	for _, key := range order {
		entries := buckets[key]

		withVariant := 0
		for _, e := range entries {
			if e.desc.Kind != models.VariantNone {
				withVariant++
			}
		}

		if withVariant < 2 {
			// singleton emission keeps the original display name
			for _, e := range entries {
				groups = append(groups, models.ProductGroup{
					BaseName:    e.row.RawName,
					Members:     []models.CatalogRow{e.row},
					HasVariants: false,
				})
			}
			continue
		}

		sort.SliceStable(entries, func(i, j int) bool {
			return labelMagnitude(entries[i].desc.Label) < labelMagnitude(entries[j].desc.Label)
		})

		members := make([]models.CatalogRow, len(entries))
		for i, e := range entries {
			members[i] = e.row
		}

		groups = append(groups, models.ProductGroup{
			BaseName:    displayBaseName(entries),
			Members:     members,
			HasVariants: true,
		})
	}

	sortGroupsForDisplay(groups)
	return groups
}

// displayBaseName picks the group's display name from the first member that
// actually matched a variant pattern, preserving its original case/accents
func displayBaseName(entries []groupEntry) string {
	for _, e := range entries {
		if e.desc.Kind != models.VariantNone && e.desc.BaseName != "" {
			return e.desc.BaseName
		}
	}
	return entries[0].desc.BaseName
}

// sortGroupsForDisplay orders groups for a listing page: variant families
// first (bigger families first), then locale-aware alphabetical by base name
func sortGroupsForDisplay(groups []models.ProductGroup) {
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		if a.HasVariants != b.HasVariants {
			return a.HasVariants
		}
		if a.HasVariants && len(a.Members) != len(b.Members) {
			return len(a.Members) > len(b.Members)
		}
		return CompareNames(a.BaseName, b.BaseName) < 0
	})
}
