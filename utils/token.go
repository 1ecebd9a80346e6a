package utils

import (
	"encoding/base64"
	"unicode"
	"unicode/utf8"
)

// Product names travel in URLs as opaque, text-safe tokens: base64url of the
// canonical name. Older links used delimiter substitution instead, so decode
// keeps a legacy path for tokens that do not decode into anything name-like.

// EncodeNameToken encodes a canonical product name as a URL-safe token
func EncodeNameToken(name string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(name))
}

// DecodeNameToken decodes a URL token back into a product name. Never fails:
// a token that base64url-decodes into a letterless or invalid string falls
// back to legacy delimiter decoding, and a token that survives neither is
// returned verbatim so the request can still degrade to a lookup miss.
func DecodeNameToken(token string) string {
	if decoded, ok := decodeBase64URL(token); ok && containsLetter(decoded) {
		return decoded
	}

	legacy := decodeLegacy(token)
	if containsLetter(legacy) {
		return legacy
	}

	return token
}

func decodeBase64URL(token string) (string, bool) {
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		// padded form produced by older encoders
		b, err = base64.URLEncoding.DecodeString(token)
		if err != nil {
			return "", false
		}
	}
	if !utf8.Valid(b) {
		return "", false
	}
	return string(b), true
}

// decodeLegacy reverses the delimiter substitutions of the pre-base64 token
// scheme. Order matters: the three-character "~_~" must be undone before the
// single-character substitutions it contains.
func decodeLegacy(token string) string {
	out := make([]rune, 0, len(token))
	runes := []rune(token)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '~' && i+2 < len(runes) && runes[i+1] == '_' && runes[i+2] == '~' {
			out = append(out, ' ', '-', ' ')
			i += 2
			continue
		}
		switch runes[i] {
		case '~':
			out = append(out, '/')
		case '_', '-':
			out = append(out, ' ')
		default:
			out = append(out, runes[i])
		}
	}
	return string(out)
}

func containsLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
