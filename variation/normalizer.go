package variation

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks removes diacritics via NFD decomposition followed by
// combining-mark removal (á -> a, ç -> c, ô -> o)
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var (
	decimalBetweenDigits = regexp.MustCompile(`(\d)[.,](\d)`)
	digitLetterBoundary  = regexp.MustCompile(`(\d)(\p{L})`)
	letterDigitBoundary  = regexp.MustCompile(`(\p{L})(\d)`)
)

// Normalize canonicalizes free text for use as a comparison or grouping key:
// lower-case, diacritics stripped, decimal comma folded to a dot, punctuation
// replaced by spaces (intra-word hyphens survive), digit/letter boundaries
// split, whitespace runs collapsed. Total and idempotent; Normalize("") == "".
func Normalize(text string) string {
	lowered := strings.ToLower(text)

	ascii, _, err := transform.String(stripMarks, lowered)
	if err != nil {
		ascii = lowered
	}

	// Decimal separators between digits are part of the value ("26,5cm" and
	// "26.5 cm" must collide); everything else punctuation-like is noise
	ascii = decimalBetweenDigits.ReplaceAllString(ascii, "$1.$2")

	in := []rune(ascii)
	out := make([]rune, 0, len(in))
	for i, r := range in {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			out = append(out, r)
		case r == '.' && i > 0 && i < len(in)-1 && unicode.IsDigit(in[i-1]) && unicode.IsDigit(in[i+1]):
			out = append(out, r)
		case r == '-' && i > 0 && i < len(in)-1 && isWordRune(in[i-1]) && isWordRune(in[i+1]):
			// load-bearing hyphen ("porta-agulhas")
			out = append(out, r)
		default:
			out = append(out, ' ')
		}
	}

	s := string(out)
	s = digitLetterBoundary.ReplaceAllString(s, "$1 $2")
	s = letterDigitBoundary.ReplaceAllString(s, "$1 $2")

	return strings.Join(strings.Fields(s), " ")
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Slugify converts a product name into the slug form used by image tables
// with UseSlugTransform ("Pinça Anatômica Padrão" -> "pinca-anatomica-padrao")
func Slugify(text string) string {
	return strings.ReplaceAll(Normalize(text), " ", "-")
}
