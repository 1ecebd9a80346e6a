package imagematch

import (
	"context"
	"log"
	"sort"
	"strconv"
	"strings"

	"catalogo-instrumentais/config"
	"catalogo-instrumentais/models"
	"catalogo-instrumentais/variation"
)

// Store is the query surface the resolver needs from the image catalog.
// Every predicate form is a point lookup against the external data store;
// the resolver owns only the decision logic, never the I/O client.
type Store interface {
	QueryEquals(ctx context.Context, table, field, value string) ([]models.ImageRecord, error)
	QueryPrefix(ctx context.Context, table, field, prefix string) ([]models.ImageRecord, error)
	QueryAll(ctx context.Context, table string) ([]models.ImageRecord, error)
	QueryInSet(ctx context.Context, table, field string, values []string) ([]models.ImageRecord, error)
}

// Resolver finds the images belonging to a catalog row through a prioritized
// chain of strategies. Each step runs only when the previous one yielded
// nothing, and every failure degrades to "no result"; a missing image is
// the worst outcome this component can produce.
type Resolver struct {
	store Store
	cfg   *config.Config
}

// NewResolver creates a resolver over the given store and configuration
func NewResolver(store Store, cfg *config.Config) *Resolver {
	return &Resolver{store: store, cfg: cfg}
}

// ResolveImages returns the images associated with a row, or an empty slice.
// Chain: identifier redirect → structural override lookup → name-similarity
// search → generic identifier match. Never returns an error and never
// panics; store failures are logged and treated as empty steps.
func (r *Resolver) ResolveImages(ctx context.Context, row models.CatalogRow) []models.ImageRecord {
	rules := r.cfg.RulesFor(row.SourceTable)

	// Step 1: identity redirect. Near-identical variants intentionally
	// reuse one canonical image set
	identity := row.Identity
	if target, ok := rules.Redirects[identity]; ok {
		log.Printf("🔀 Image redirect for %s/%d -> %d", row.SourceTable, identity, target)
		identity = target
	}

	if ctx.Err() != nil {
		return nil
	}

	// Step 2: structural override (non-standard image table schema)
	if rules.Override != nil {
		if imgs := r.resolveOverride(ctx, row, rules); len(imgs) > 0 {
			return imgs
		}
	}

	if ctx.Err() != nil {
		return nil
	}

	// Step 3: similarity search for tables with no usable key at all
	if rules.SimilaritySearch {
		if imgs := r.resolveBySimilarity(ctx, row, rules); len(imgs) > 0 {
			return imgs
		}
	}

	if ctx.Err() != nil {
		return nil
	}

	// Step 4: generic identifier match
	return r.resolveGeneric(ctx, row, rules, identity)
}

// resolveOverride looks up images in a table with its own lookup/url fields,
// trying exact key equality first, then prefix queries built from the first
// three (then two) significant tokens of the candidate key
func (r *Resolver) resolveOverride(ctx context.Context, row models.CatalogRow, rules config.TableRules) []models.ImageRecord {
	ov := rules.Override

	key := row.RawName
	if ov.UseSlugTransform {
		key = variation.Slugify(row.RawName)
	}

	// (a) exact match on the lookup field
	recs, err := r.store.QueryEquals(ctx, rules.ImageTable, ov.LookupField, key)
	if err != nil {
		log.Printf("⚠️  Image query failed (%s, exact %q): %v", rules.ImageTable, key, err)
	}
	recs = filterDenied(recs, rules.DenyList)
	if len(recs) > 0 {
		return orderRecords(recs)
	}

	// (b) and (c): prefix match on the leading significant tokens
	tokens := SignificantTokens(key)
	sep := " "
	if ov.UseSlugTransform {
		sep = "-"
	}
	for _, take := range []int{3, 2} {
		if len(tokens) < take {
			continue
		}
		prefix := strings.Join(tokens[:take], sep)

		recs, err := r.store.QueryPrefix(ctx, rules.ImageTable, ov.LookupField, prefix)
		if err != nil {
			log.Printf("⚠️  Image query failed (%s, prefix %q): %v", rules.ImageTable, prefix, err)
			continue
		}
		recs = filterDenied(recs, rules.DenyList)

		if match := pickPrefixGroup(recs, key, r.cfg.OverrideScoreThreshold); len(match) > 0 {
			return orderRecords(match)
		}
	}

	return nil
}

// pickPrefixGroup resolves a prefix query's result set: a single distinct
// owner key is accepted outright; multiple are scored by token overlap
// against the candidate key and only an unambiguous best above the
// threshold is accepted. Ambiguity means "no match", never a guess.
func pickPrefixGroup(recs []models.ImageRecord, key string, threshold float64) []models.ImageRecord {
	byOwner := groupByOwner(recs)
	if len(byOwner.keys) == 0 {
		return nil
	}
	if len(byOwner.keys) == 1 {
		return byOwner.groups[byOwner.keys[0]]
	}

	candidate := SignificantTokens(key)
	bestScore := 0.0
	bestKey := ""
	tied := false
	for _, owner := range byOwner.keys {
		score := coverageScore(candidate, SignificantTokens(owner))
		if score > bestScore {
			bestScore = score
			bestKey = owner
			tied = false
		} else if score == bestScore && bestKey != "" {
			tied = true
		}
	}

	if tied || bestScore < threshold {
		return nil
	}
	return byOwner.groups[bestKey]
}

// resolveBySimilarity scans every distinct name in the image table and
// scores it against the row name with the symmetric coverage metric. The
// single best candidate is accepted only when it clears the score threshold
// and the leading tokens of both names are prefix-compatible.
func (r *Resolver) resolveBySimilarity(ctx context.Context, row models.CatalogRow, rules config.TableRules) []models.ImageRecord {
	recs, err := r.store.QueryAll(ctx, rules.ImageTable)
	if err != nil {
		log.Printf("⚠️  Image query failed (%s, full scan): %v", rules.ImageTable, err)
		return nil
	}
	recs = filterDenied(recs, rules.DenyList)

	rowTokens := MatchTokens(row.RawName)
	if len(rowTokens) == 0 {
		return nil
	}

	byOwner := groupByOwner(recs)
	bestScore := 0.0
	bestKey := ""
	tied := false
	for _, owner := range byOwner.keys {
		ownerTokens := MatchTokens(owner)
		if !headsCompatible(rowTokens, ownerTokens) {
			continue
		}
		score := coverageScore(rowTokens, ownerTokens)
		if score < r.cfg.SimilarityThreshold {
			continue
		}
		if score > bestScore {
			bestScore = score
			bestKey = owner
			tied = false
		} else if score == bestScore && bestKey != "" {
			tied = true
		}
	}

	if tied || bestKey == "" {
		return nil
	}
	return orderRecords(byOwner.groups[bestKey])
}

// ResolveByKey looks up images directly by an owner key in the table's
// image table, bypassing the matching chain. Used for the configured card
// imagery of tables whose rows have no photos of their own.
func (r *Resolver) ResolveByKey(ctx context.Context, table, key string) []models.ImageRecord {
	rules := r.cfg.RulesFor(table)

	field := "nome"
	if rules.Override != nil && rules.Override.LookupField != "" {
		field = rules.Override.LookupField
	}

	recs, err := r.store.QueryEquals(ctx, rules.ImageTable, field, key)
	if err != nil {
		log.Printf("⚠️  Image query failed (%s, key %q): %v", rules.ImageTable, key, err)
		return nil
	}
	recs = filterDenied(recs, rules.DenyList)
	if len(recs) == 0 {
		return nil
	}
	return orderRecords(recs)
}

// ResolveFirstNameKeyed fetches the image sets of several rows of a purely
// name-keyed table in one round trip and returns the set of the first row
// that has one. Returns ok=false when the table needs the full per-row
// chain instead.
func (r *Resolver) ResolveFirstNameKeyed(ctx context.Context, rows []models.CatalogRow) ([]models.ImageRecord, bool) {
	if len(rows) == 0 {
		return nil, false
	}
	rules := r.cfg.RulesFor(rows[0].SourceTable)
	if !rules.NameKeyed || rules.Override != nil || rules.SimilaritySearch {
		return nil, false
	}

	names := make([]string, len(rows))
	for i, row := range rows {
		names[i] = row.RawName
	}

	recs, err := r.store.QueryInSet(ctx, rules.ImageTable, "nome", names)
	if err != nil {
		log.Printf("⚠️  Image query failed (%s, name set): %v", rules.ImageTable, err)
		return nil, true
	}
	recs = filterDenied(recs, rules.DenyList)

	byOwner := groupByOwner(recs)
	for _, row := range rows {
		if group, ok := byOwner.groups[row.RawName]; ok && len(group) > 0 {
			return orderRecords(group), true
		}
	}
	return nil, true
}

// resolveGeneric is the last lookup: exact name for name-keyed tables,
// otherwise the numeric identity against the generic produto_id field.
// Results are deduplicated by URL, first occurrence wins.
func (r *Resolver) resolveGeneric(ctx context.Context, row models.CatalogRow, rules config.TableRules, identity int) []models.ImageRecord {
	var recs []models.ImageRecord
	var err error
	if rules.NameKeyed {
		recs, err = r.store.QueryEquals(ctx, rules.ImageTable, "nome", row.RawName)
	} else {
		recs, err = r.store.QueryEquals(ctx, rules.ImageTable, "produto_id", strconv.Itoa(identity))
	}
	if err != nil {
		log.Printf("⚠️  Image query failed (%s, generic): %v", rules.ImageTable, err)
		return nil
	}

	recs = filterDenied(recs, rules.DenyList)

	seen := make(map[string]bool, len(recs))
	unique := recs[:0]
	for _, rec := range recs {
		if seen[rec.URL] {
			continue
		}
		seen[rec.URL] = true
		unique = append(unique, rec)
	}
	if len(unique) == 0 {
		return nil
	}
	return orderRecords(unique)
}

type ownerGroups struct {
	keys   []string
	groups map[string][]models.ImageRecord
}

// groupByOwner buckets records by their distinct owner key, preserving
// first-appearance order of the keys
func groupByOwner(recs []models.ImageRecord) ownerGroups {
	out := ownerGroups{groups: make(map[string][]models.ImageRecord)}
	for _, rec := range recs {
		if _, ok := out.groups[rec.OwnerKey]; !ok {
			out.keys = append(out.keys, rec.OwnerKey)
		}
		out.groups[rec.OwnerKey] = append(out.groups[rec.OwnerKey], rec)
	}
	return out
}

// filterDenied drops records whose owner key is on the table's deny list
// (entries whose stored URL is known to be broken)
func filterDenied(recs []models.ImageRecord, denyList []string) []models.ImageRecord {
	if len(denyList) == 0 || len(recs) == 0 {
		return recs
	}
	denied := make(map[string]bool, len(denyList))
	for _, key := range denyList {
		denied[key] = true
	}

	kept := recs[:0]
	for _, rec := range recs {
		if denied[rec.OwnerKey] {
			continue
		}
		kept = append(kept, rec)
	}
	return kept
}

// orderRecords puts the primary image first, then ascending display order
func orderRecords(recs []models.ImageRecord) []models.ImageRecord {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].IsPrimary != recs[j].IsPrimary {
			return recs[i].IsPrimary
		}
		return recs[i].Order < recs[j].Order
	})
	return recs
}
