package config

import "catalogo-instrumentais/models"

// defaultTables is the built-in per-table configuration. These entries encode
// structural knowledge about the production schema that cannot be inferred
// from the data itself: which image table belongs to which product table,
// which image tables deviate from the produto_id/url layout, which rows
// intentionally reuse another row's imagery and which stored image keys are
// known to be broken.
func defaultTables() map[string]TableRules {
	return map[string]TableRules{
		"instrumentais": {
			// 15003 is a thread-length variant of 15002 that shares its
			// photo set
			Redirects: map[int]int{
				15003: 15002,
			},
			Preferred: map[string]string{
				"Afastador Farabeuf": "Afastador Farabeuf 12cm",
			},
		},
		"pinças": {
			ImageTable: "pincas_imagens",
			Override: &StructuralOverride{
				LookupField:      "slug",
				URLField:         "imagem_url",
				UseSlugTransform: true,
				FallbackURL:      "/static/placeholder-pinca.jpg",
				CardKey:          "pinca-anatomica",
			},
			DenyList: []string{
				// stored URLs for these slugs 404 on the CDN
				"pinca-adson-antiga",
				"pinca-backhaus-descontinuada",
			},
		},
		"tesouras": {
			SimilaritySearch: true,
		},
		"lâminas": {
			ImageTable: "laminas_imagens",
			NameKeyed:  true,
		},
		"cabos": {
			// Both bisturi handles and fiber-optic cables end in a bare
			// number; grouping by the trailing number alone would merge the
			// two families, so the distinguishing leading tokens are kept
			// in the group key
			Matchers: []VariantRule{
				{
					Pattern:    `(?i)^(Cabo de Bisturi)\s*(?:Nº|N°|#)?\s*(\d+)$`,
					Kind:       models.VariantNumeric,
					BaseGroup:  1,
					LabelGroup: 2,
				},
				{
					Pattern:    `(?i)^(Cabo de Fibra Óptica)\s*(?:Nº|N°|#)?\s*(\d+)$`,
					Kind:       models.VariantNumeric,
					BaseGroup:  1,
					LabelGroup: 2,
				},
			},
		},
		"afastadores": {},
		"curetas":     {},
	}
}
