package variation

import (
	"fmt"
	"log"
	"regexp"
	"strings"

	"catalogo-instrumentais/config"
	"catalogo-instrumentais/models"
)

// Generic patterns, evaluated in order after any table-specific rules.
// First match wins; later patterns are never evaluated once one matched.
var (
	// optional "ABC123 - " style leading catalog code, stripped before
	// generic matching (the raw name keeps it for display)
	leadingCodePattern = regexp.MustCompile(`^[A-Za-zÀ-ÿ]{2,4}\d{2,4}\s*[-–—:]\s*`)

	// "PONTA 3x8", "PONTA 4X10mmr": two short integers with the literal
	// PONTA token, optional trailing unit/letter suffix
	pontaPattern = regexp.MustCompile(`(?i)\bPONTA\s*(\d{1,2})\s*[xX×]\s*(\d{1,2})\s*([a-zA-Z]{1,3})?\s*$`)

	// "10x20mm", "2,5 x 10 cm": two bare numeric values around an x.
	// Does not fire when the left value carries its own unit ("18mm x 50mm");
	// that form is handled by the dimension suffix below.
	compoundPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?(?:,\d+)?)\s*[xX×]\s*(\d+(?:\.\d+)?(?:,\d+)?)\s*(mm|cm|m)?\s*$`)

	// "Nº3", "N°12", "#7" at end of string
	numberedPattern = regexp.MustCompile(`(?i)(?:Nº|N°|#)\s*(\d+)\s*$`)

	// single trailing measurement, optionally preceded by an x when it is
	// the right half of a compound dimension
	dimensionPattern = regexp.MustCompile(`(?i)(\s[xX×]\s*)?(\d+(?:[.,]\d+)?)\s*(mm|cm|m|pol|polegadas?|")\s*$`)
)

// Extractor parses free-text product names into variant descriptors.
// Table-specific rules compiled at construction take precedence over the
// generic pattern chain.
type Extractor struct {
	overrides []compiledRule
}

type compiledRule struct {
	re         *regexp.Regexp
	kind       models.VariantKind
	baseGroup  int
	labelGroup int
}

// NewExtractor compiles the table-specific rules. Rules whose pattern does
// not compile are logged and skipped rather than failing the whole table.
func NewExtractor(rules []config.VariantRule) *Extractor {
	e := &Extractor{}
	for _, rule := range rules {
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			log.Printf("⚠️  Skipping variant rule with invalid pattern %q: %v", rule.Pattern, err)
			continue
		}
		e.overrides = append(e.overrides, compiledRule{
			re:         re,
			kind:       rule.Kind,
			baseGroup:  rule.BaseGroup,
			labelGroup: rule.LabelGroup,
		})
	}
	return e
}

// ExtractVariant parses a name with a one-off rule set. Listing code should
// hold on to an Extractor instead of recompiling rules per row.
func ExtractVariant(name string, rules []config.VariantRule) models.VariantDescriptor {
	return NewExtractor(rules).Extract(name)
}

// Extract derives (baseName, label, kind) from a raw product name.
// Case and accents are preserved in the base name; normalization happens
// only when the base name is used as a grouping key.
func (e *Extractor) Extract(name string) models.VariantDescriptor {
	trimmed := strings.TrimSpace(name)

	// Table-specific rules beat every generic pattern
	for _, rule := range e.overrides {
		m := rule.re.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		desc := models.VariantDescriptor{Kind: rule.kind}
		if rule.baseGroup > 0 && rule.baseGroup < len(m) {
			desc.BaseName = strings.TrimSpace(m[rule.baseGroup])
		}
		if rule.labelGroup > 0 && rule.labelGroup < len(m) {
			desc.Label = formatRuleLabel(rule.kind, m[rule.labelGroup])
		}
		if desc.BaseName == "" {
			desc.BaseName = trimmed
		}
		return desc
	}

	// Grouping operates on the code-stripped form; the caller keeps the raw
	// name for display
	stripped := leadingCodePattern.ReplaceAllString(trimmed, "")

	if m := pontaPattern.FindStringSubmatchIndex(stripped); m != nil {
		a := stripped[m[2]:m[3]]
		b := stripped[m[4]:m[5]]
		return withBase(stripped, m[0], models.VariantDescriptor{
			Label: fmt.Sprintf("PONTA %sx%s", a, b),
			Kind:  models.VariantCompoundDimension,
		})
	}

	if m := compoundPattern.FindStringSubmatchIndex(stripped); m != nil {
		a := stripped[m[2]:m[3]]
		b := stripped[m[4]:m[5]]
		unit := "MM"
		if m[6] >= 0 {
			unit = strings.ToUpper(stripped[m[6]:m[7]])
		}
		return withBase(stripped, m[0], models.VariantDescriptor{
			Label: fmt.Sprintf("%sx%s%s", a, b, unit),
			Kind:  models.VariantCompoundDimension,
		})
	}

	if m := numberedPattern.FindStringSubmatchIndex(stripped); m != nil {
		return withBase(stripped, m[0], models.VariantDescriptor{
			Label: "Nº" + stripped[m[2]:m[3]],
			Kind:  models.VariantNumeric,
		})
	}

	if m := dimensionPattern.FindStringSubmatchIndex(stripped); m != nil {
		value := stripped[m[4]:m[5]]
		unit := strings.ToUpper(stripped[m[6]:m[7]])
		kind := models.VariantDimension
		// a leading x marks the right half of a compound dimension; the
		// left half stays in the base name ("... 18mm x 50mm" -> "50MM")
		if m[2] >= 0 {
			kind = models.VariantCompoundDimension
		}
		return withBase(stripped, m[0], models.VariantDescriptor{
			Label: value + unit,
			Kind:  kind,
		})
	}

	return models.VariantDescriptor{BaseName: trimmed, Kind: models.VariantNone}
}

// withBase fills in the base name as the name with the matched suffix
// removed. A base that strips down to nothing falls back to the full name:
// rows are never grouped under an empty key.
func withBase(name string, matchStart int, desc models.VariantDescriptor) models.VariantDescriptor {
	base := strings.TrimRight(strings.TrimSpace(name[:matchStart]), "-–—,:")
	base = strings.TrimSpace(base)
	if base == "" {
		base = strings.TrimSpace(name)
		desc.Kind = models.VariantNone
		desc.Label = ""
	}
	desc.BaseName = base
	return desc
}

func formatRuleLabel(kind models.VariantKind, raw string) string {
	label := strings.TrimSpace(raw)
	if kind == models.VariantNumeric && label != "" && !strings.HasPrefix(label, "Nº") {
		return "Nº" + label
	}
	return label
}
