package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"catalogo-instrumentais/models"
)

// StructuralOverride describes an image table that does not follow the
// generic produto_id/url schema
type StructuralOverride struct {
	LookupField      string `json:"lookupField"`
	URLField         string `json:"urlField"`
	UseSlugTransform bool   `json:"useSlugTransform"`
	FallbackURL      string `json:"fallbackUrl,omitempty"`
	CardKey          string `json:"cardKey,omitempty"`
}

// VariantRule is a table-specific variant matcher expressed as data.
// Pattern is a regular expression evaluated against the raw product name;
// BaseGroup and LabelGroup are 1-based capture indexes for the base name
// and variant label. Table rules always win over the generic pattern chain.
type VariantRule struct {
	Pattern    string             `json:"pattern"`
	Kind       models.VariantKind `json:"kind"`
	BaseGroup  int                `json:"baseGroup"`
	LabelGroup int                `json:"labelGroup"`
}

// TableRules bundles everything the engine needs to know about one product
// table: its image table, structural quirks, redirects and deny lists
type TableRules struct {
	ImageTable       string            `json:"imageTable,omitempty"`
	Override         *StructuralOverride `json:"override,omitempty"`
	Redirects        map[int]int       `json:"redirects,omitempty"`
	DenyList         []string          `json:"denyList,omitempty"`
	NameKeyed        bool              `json:"nameKeyed,omitempty"`
	SimilaritySearch bool              `json:"similaritySearch,omitempty"`
	Preferred        map[string]string `json:"preferred,omitempty"`
	Matchers         []VariantRule     `json:"matchers,omitempty"`
}

// Config is the full static configuration injected into the engine.
// The thresholds are empirically tuned values carried over from production
// behavior; they are exposed here for per-deployment override rather than
// hard-coded into the matching logic.
type Config struct {
	Tables                   map[string]TableRules `json:"tables"`
	SimilarityThreshold      float64               `json:"similarityThreshold"`
	OverrideScoreThreshold   float64               `json:"overrideScoreThreshold"`
	MaxConcurrentResolutions int                   `json:"maxConcurrentResolutions"`
}

// Default returns the built-in configuration for the known product tables
func Default() *Config {
	return &Config{
		Tables:                   defaultTables(),
		SimilarityThreshold:      0.4,
		OverrideScoreThreshold:   0.5,
		MaxConcurrentResolutions: 8,
	}
}

// Load returns the default configuration overlaid with the JSON file at
// path. A missing or unreadable file is not fatal: the defaults are used and
// the problem is logged (malformed configuration degrades, never crashes).
func Load(path string) *Config {
	cfg := Default()
	if path == "" {
		return cfg
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("⚠️  Config file %s not readable, using defaults: %v", path, err)
		return cfg
	}

	var overlay Config
	if err := json.Unmarshal(data, &overlay); err != nil {
		log.Printf("⚠️  Config file %s is not valid JSON, using defaults: %v", path, err)
		return cfg
	}

	if overlay.SimilarityThreshold > 0 {
		cfg.SimilarityThreshold = overlay.SimilarityThreshold
	}
	if overlay.OverrideScoreThreshold > 0 {
		cfg.OverrideScoreThreshold = overlay.OverrideScoreThreshold
	}
	if overlay.MaxConcurrentResolutions > 0 {
		cfg.MaxConcurrentResolutions = overlay.MaxConcurrentResolutions
	}
	// Table entries replace wholesale; partial per-table merging is not
	// worth the ambiguity it introduces
	for table, rules := range overlay.Tables {
		cfg.Tables[table] = rules
	}

	log.Printf("✓ Loaded catalog configuration overrides from %s (%d tables)", path, len(overlay.Tables))
	return cfg
}

// RulesFor returns the rules for a product table. Tables without an explicit
// entry get an empty rule set with the derived image table name, so a
// missing mapping always degrades to the generic resolution path.
func (c *Config) RulesFor(table string) TableRules {
	rules := c.Tables[table]
	if rules.ImageTable == "" {
		rules.ImageTable = DeriveImageTable(table)
	}
	return rules
}

// ValidTable reports whether the table is one the configuration knows about
func (c *Config) ValidTable(table string) bool {
	_, ok := c.Tables[table]
	return ok
}

// TableNames returns the configured product tables in no particular order
func (c *Config) TableNames() []string {
	names := make([]string, 0, len(c.Tables))
	for name := range c.Tables {
		names = append(names, name)
	}
	return names
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
var nonTableChars = regexp.MustCompile(`[^a-z0-9 ]+`)
var spaceRuns = regexp.MustCompile(` +`)

// DeriveImageTable derives an image table name from a product table name
// when no explicit mapping exists: strip accents, drop everything outside
// [a-z0-9 ], turn spaces into underscores and append "_imagens".
func DeriveImageTable(table string) string {
	lowered := strings.ToLower(strings.TrimSpace(table))
	ascii, _, err := transform.String(stripMarks, lowered)
	if err != nil {
		ascii = lowered
	}
	ascii = nonTableChars.ReplaceAllString(ascii, "")
	ascii = spaceRuns.ReplaceAllString(strings.TrimSpace(ascii), " ")
	ascii = strings.ReplaceAll(ascii, " ", "_")
	return fmt.Sprintf("%s_imagens", ascii)
}
