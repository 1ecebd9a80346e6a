package imagematch

import (
	"regexp"
	"strings"

	"catalogo-instrumentais/variation"
)

// Tokens that carry no identity: measurement units, ordinal/degree marks and
// packaging words that appear on both sides of almost every comparison
var noiseTokens = map[string]bool{
	"mm": true, "cm": true, "m": true, "mmr": true,
	"pol": true, "polegada": true, "polegadas": true,
	"no": true, "nº": true, "n°": true, "n": true,
	"grau": true, "graus": true, "º": true, "°": true,
	"un": true, "und": true, "unid": true, "par": true,
	"fr": true, "ml": true, "cc": true, "g": true, "kg": true,
}

var numericToken = regexp.MustCompile(`^[0-9]+(?:[.,][0-9]+)?$`)

// SignificantTokens returns the candidate-key tokens used to build prefix
// queries: longer than two characters, not pure digits, not a unit word.
// The key may be a slug ("pinca-anatomica-padrao") or a plain name.
func SignificantTokens(key string) []string {
	split := func(r rune) bool { return r == ' ' || r == '-' || r == '_' }

	var tokens []string
	for _, tok := range strings.FieldsFunc(strings.ToLower(key), split) {
		if len(tok) <= 2 {
			continue
		}
		if numericToken.MatchString(tok) || noiseTokens[tok] {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// MatchTokens normalizes a name into the token list used by similarity
// scoring, stripping unit/ordinal/degree tokens and pure-numeric tokens
func MatchTokens(name string) []string {
	var tokens []string
	for _, tok := range strings.Fields(variation.Normalize(name)) {
		if numericToken.MatchString(tok) || noiseTokens[tok] {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// prefixCompatible tolerates minor spelling variants: one token being a
// prefix of the other, exact equality, or (for longer tokens) matching on
// the first five characters
func prefixCompatible(a, b string) bool {
	if a == b {
		return true
	}
	if a == "" || b == "" {
		return false
	}
	if strings.HasPrefix(a, b) || strings.HasPrefix(b, a) {
		return true
	}
	return len(a) >= 5 && len(b) >= 5 && a[:5] == b[:5]
}

// containedIn reports whether token has a prefix-compatible counterpart in
// the candidate list
func containedIn(token string, candidates []string) bool {
	for _, c := range candidates {
		if prefixCompatible(token, c) {
			return true
		}
	}
	return false
}

// coverageScore is the symmetric token-overlap metric: the average of the
// fraction of a's tokens found in b and the fraction of b's tokens found in
// a, both with prefix-tolerant matching. Ranges 0..1.
func coverageScore(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	foundA := 0
	for _, tok := range a {
		if containedIn(tok, b) {
			foundA++
		}
	}
	foundB := 0
	for _, tok := range b {
		if containedIn(tok, a) {
			foundB++
		}
	}

	return (float64(foundA)/float64(len(a)) + float64(foundB)/float64(len(b))) / 2
}

// headsCompatible applies the positional gates of similarity matching: the
// first tokens of both lists must be prefix-compatible, and when either list
// has two or more tokens, at least one of the first two of each list must be
// prefix-compatible with one of the first two of the other
func headsCompatible(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	if !prefixCompatible(a[0], b[0]) {
		return false
	}
	if len(a) < 2 && len(b) < 2 {
		return true
	}

	headA := a[:min(2, len(a))]
	headB := b[:min(2, len(b))]
	for _, ta := range headA {
		for _, tb := range headB {
			if prefixCompatible(ta, tb) {
				return true
			}
		}
	}
	return false
}
