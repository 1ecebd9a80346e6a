package variation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogo-instrumentais/config"
	"catalogo-instrumentais/models"
)

func TestExtractGenericPatterns(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		base     string
		label    string
		kind     models.VariantKind
	}{
		{
			name:  "trailing dimension",
			input: "Tesoura Mayo 14cm",
			base:  "Tesoura Mayo", label: "14CM", kind: models.VariantDimension,
		},
		{
			name:  "dimension with decimal comma",
			input: "Cureta Bushe 26,5cm",
			base:  "Cureta Bushe", label: "26,5CM", kind: models.VariantDimension,
		},
		{
			name:  "numbered variant",
			input: "Pinça Backhaus Nº2",
			base:  "Pinça Backhaus", label: "Nº2", kind: models.VariantNumeric,
		},
		{
			name:  "hash numbered variant",
			input: "Broca #7",
			base:  "Broca", label: "Nº7", kind: models.VariantNumeric,
		},
		{
			name:  "ponta compound",
			input: "Eletrodo PONTA 3x8",
			base:  "Eletrodo", label: "PONTA 3x8", kind: models.VariantCompoundDimension,
		},
		{
			name:  "compound dimension with unit",
			input: "Caixa Perfurada 10x20mm",
			base:  "Caixa Perfurada", label: "10x20MM", kind: models.VariantCompoundDimension,
		},
		{
			name:  "compound dimension defaults to mm",
			input: "Placa em L 4x30",
			base:  "Placa em L", label: "4x30MM", kind: models.VariantCompoundDimension,
		},
		{
			name:  "unit on both halves keeps the left one in the base",
			input: "Parafuso Cortical 18mm x 50mm",
			base:  "Parafuso Cortical 18mm", label: "50MM", kind: models.VariantCompoundDimension,
		},
		{
			name:  "leading catalog code stripped before matching",
			input: "TS300 - Tesoura Íris 12cm",
			base:  "Tesoura Íris", label: "12CM", kind: models.VariantDimension,
		},
		{
			name:  "no variant pattern",
			input: "Afastador Farabeuf",
			base:  "Afastador Farabeuf", label: "", kind: models.VariantNone,
		},
		{
			name:  "name that is only a measurement never yields an empty base",
			input: "26,5cm",
			base:  "26,5cm", label: "", kind: models.VariantNone,
		},
	}

	extractor := NewExtractor(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := extractor.Extract(tt.input)
			assert.Equal(t, tt.base, desc.BaseName)
			assert.Equal(t, tt.label, desc.Label)
			assert.Equal(t, tt.kind, desc.Kind)
		})
	}
}

func TestExtractDeterministic(t *testing.T) {
	extractor := NewExtractor(nil)
	first := extractor.Extract("Pinça Backhaus Nº2")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, extractor.Extract("Pinça Backhaus Nº2"))
	}
}

func TestExtractTableRules(t *testing.T) {
	rules := config.Default().Tables["cabos"].Matchers
	require.NotEmpty(t, rules)
	extractor := NewExtractor(rules)

	bisturi := extractor.Extract("Cabo de Bisturi 4")
	assert.Equal(t, "Cabo de Bisturi", bisturi.BaseName)
	assert.Equal(t, "Nº4", bisturi.Label)
	assert.Equal(t, models.VariantNumeric, bisturi.Kind)

	fibra := extractor.Extract("Cabo de Fibra Óptica 4")
	assert.Equal(t, "Cabo de Fibra Óptica", fibra.BaseName)
	assert.Equal(t, "Nº4", fibra.Label)

	// Same trailing number, different base: the families must not merge
	assert.NotEqual(t, Normalize(bisturi.BaseName), Normalize(fibra.BaseName))

	// Names the rules don't cover still go through the generic chain
	generic := extractor.Extract("Tesoura Mayo 14cm")
	assert.Equal(t, models.VariantDimension, generic.Kind)
	assert.Equal(t, "14CM", generic.Label)
}

func TestExtractInvalidRuleSkipped(t *testing.T) {
	rules := []config.VariantRule{
		{Pattern: "(", Kind: models.VariantNumeric, BaseGroup: 1, LabelGroup: 2},
	}
	extractor := NewExtractor(rules)

	desc := extractor.Extract("Pinça Backhaus Nº2")
	assert.Equal(t, models.VariantNumeric, desc.Kind)
	assert.Equal(t, "Nº2", desc.Label)
}
