package variation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases and strips accents", "Pinça Anatômica", "pinca anatomica"},
		{"decimal comma folds to dot", "Cureta Bushe 26,5cm", "cureta bushe 26.5 cm"},
		{"decimal dot with spaced unit", "CURETA BUSHE  26.5 CM", "cureta bushe 26.5 cm"},
		{"digit letter boundary splits", "Tesoura Mayo 14cm", "tesoura mayo 14 cm"},
		{"letter digit boundary splits", "Lâmina nº15", "lamina nº 15"},
		{"punctuation becomes space", "Afastador (duplo), aço", "afastador duplo aco"},
		{"intra-word hyphen survives", "Porta-Agulhas Mayo", "porta-agulhas mayo"},
		{"trailing hyphen is noise", "Tesoura -", "tesoura"},
		{"whitespace collapses", "  Cabo   de  Bisturi  ", "cabo de bisturi"},
		{"empty", "", ""},
		{"only punctuation", "---", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalizeCollision(t *testing.T) {
	// Spelling variants of the same product must share a key
	assert.Equal(t, Normalize("Cureta Bushe 26,5cm"), Normalize("CURETA BUSHE  26.5 CM"))
	assert.Equal(t, Normalize("Pinça Adson"), Normalize("pinca adson"))
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Pinça Backhaus Nº2",
		"Cureta Bushe 26,5cm",
		"TS300 - Tesoura Íris",
		"Porta-Agulhas Mayo-Hegar 18cm",
		"",
	}
	for _, input := range inputs {
		once := Normalize(input)
		assert.Equal(t, once, Normalize(once), "input %q", input)
	}
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "pinca-anatomica-padrao", Slugify("Pinça Anatômica Padrão"))
	assert.Equal(t, "tesoura-mayo-14-cm", Slugify("Tesoura Mayo 14cm"))
	assert.Equal(t, "", Slugify(""))
}
