package utils

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameTokenRoundTrip(t *testing.T) {
	names := []string{
		"Pinça Backhaus",
		"Tesoura Mayo 14cm",
		"Cabo de Fibra Óptica",
		"Lâmina nº15 - aço",
		"Afastador/Retrator Duplo",
		"a",
	}
	for _, name := range names {
		token := EncodeNameToken(name)
		assert.NotContains(t, token, "/", "token must be URL-safe")
		assert.NotContains(t, token, "+", "token must be URL-safe")
		assert.Equal(t, name, DecodeNameToken(token))
	}
}

func TestDecodeNameTokenPaddedForm(t *testing.T) {
	// Older encoders emitted padded base64url
	padded := base64.URLEncoding.EncodeToString([]byte("Pinça Backhaus"))
	assert.Equal(t, "Pinça Backhaus", DecodeNameToken(padded))
}

func TestDecodeNameTokenLegacy(t *testing.T) {
	tests := []struct {
		token    string
		expected string
	}{
		{"Pinça_Backhaus", "Pinça Backhaus"},
		{"Tesoura-Mayo", "Tesoura Mayo"},
		{"Afastador~Retrator", "Afastador/Retrator"},
		{"Lâmina~_~aço", "Lâmina - aço"},
		{"Cabo_de_Bisturi~_~Inox", "Cabo de Bisturi - Inox"},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.expected, DecodeNameToken(tt.token))
		})
	}
}

func TestDecodeNameTokenNeverFails(t *testing.T) {
	inputs := []string{
		"",
		"!!!",
		"%%%",
		"12345",
		"====",
		"\x00\x01",
		"AAAA", // valid base64 of non-text bytes
	}
	for _, input := range inputs {
		assert.NotPanics(t, func() {
			_ = DecodeNameToken(input)
		})
	}

	// Garbage survives verbatim so the lookup can miss gracefully
	assert.Equal(t, "12345", DecodeNameToken("12345"))
}
