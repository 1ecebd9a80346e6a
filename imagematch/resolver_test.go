package imagematch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogo-instrumentais/config"
	"catalogo-instrumentais/models"
)

// fakeStore serves canned query results. Slices are copied on the way out
// because the resolver filters result sets in place.
type fakeStore struct {
	equals map[string][]models.ImageRecord // table|field|value
	prefix map[string][]models.ImageRecord // table|field|prefix
	all    map[string][]models.ImageRecord // table
	inSet  map[string][]models.ImageRecord // table|field

	equalsCalls int
	prefixCalls int
	allCalls    int
	inSetCalls  int

	err error
}

func key(parts ...string) string {
	out := parts[0]
	for _, p := range parts[1:] {
		out += "|" + p
	}
	return out
}

func copyRecs(recs []models.ImageRecord) []models.ImageRecord {
	if recs == nil {
		return nil
	}
	out := make([]models.ImageRecord, len(recs))
	copy(out, recs)
	return out
}

func (f *fakeStore) QueryEquals(_ context.Context, table, field, value string) ([]models.ImageRecord, error) {
	f.equalsCalls++
	if f.err != nil {
		return nil, f.err
	}
	return copyRecs(f.equals[key(table, field, value)]), nil
}

func (f *fakeStore) QueryPrefix(_ context.Context, table, field, prefix string) ([]models.ImageRecord, error) {
	f.prefixCalls++
	if f.err != nil {
		return nil, f.err
	}
	return copyRecs(f.prefix[key(table, field, prefix)]), nil
}

func (f *fakeStore) QueryAll(_ context.Context, table string) ([]models.ImageRecord, error) {
	f.allCalls++
	if f.err != nil {
		return nil, f.err
	}
	return copyRecs(f.all[table]), nil
}

func (f *fakeStore) QueryInSet(_ context.Context, table, field string, _ []string) ([]models.ImageRecord, error) {
	f.inSetCalls++
	if f.err != nil {
		return nil, f.err
	}
	return copyRecs(f.inSet[key(table, field)]), nil
}

func newResolver(store *fakeStore) *Resolver {
	return NewResolver(store, config.Default())
}

func TestResolveGenericByIdentity(t *testing.T) {
	store := &fakeStore{
		equals: map[string][]models.ImageRecord{
			key("instrumentais_imagens", "produto_id", "42"): {
				{ID: "1", OwnerKey: "42", URL: "https://cdn/a.jpg", Order: 2},
				{ID: "2", OwnerKey: "42", URL: "https://cdn/b.jpg", Order: 1, IsPrimary: true},
			},
		},
	}
	r := newResolver(store)

	imgs := r.ResolveImages(context.Background(), models.CatalogRow{
		Identity: 42, RawName: "Afastador Weitlaner", SourceTable: "instrumentais",
	})

	require.Len(t, imgs, 2)
	// Primary image leads regardless of stored order
	assert.Equal(t, "https://cdn/b.jpg", imgs[0].URL)
	assert.True(t, imgs[0].IsPrimary)
}

func TestResolveRedirect(t *testing.T) {
	store := &fakeStore{
		equals: map[string][]models.ImageRecord{
			key("instrumentais_imagens", "produto_id", "15002"): {
				{ID: "7", OwnerKey: "15002", URL: "https://cdn/canonical.jpg"},
			},
		},
	}
	r := newResolver(store)

	imgs := r.ResolveImages(context.Background(), models.CatalogRow{
		Identity: 15003, RawName: "Fio Guia 150cm", SourceTable: "instrumentais",
	})

	require.Len(t, imgs, 1)
	assert.Equal(t, "https://cdn/canonical.jpg", imgs[0].URL)
}

func TestResolveGenericDeduplicatesURLs(t *testing.T) {
	store := &fakeStore{
		equals: map[string][]models.ImageRecord{
			key("laminas_imagens", "nome", "Lâmina 15"): {
				{ID: "1", OwnerKey: "Lâmina 15", URL: "https://cdn/l15.jpg"},
				{ID: "2", OwnerKey: "Lâmina 15", URL: "https://cdn/l15.jpg"},
				{ID: "3", OwnerKey: "Lâmina 15", URL: "https://cdn/l15-verso.jpg"},
			},
		},
	}
	r := newResolver(store)

	imgs := r.ResolveImages(context.Background(), models.CatalogRow{
		Identity: 9, RawName: "Lâmina 15", SourceTable: "lâminas",
	})

	require.Len(t, imgs, 2)
	assert.Equal(t, "https://cdn/l15.jpg", imgs[0].URL)
	assert.Equal(t, "https://cdn/l15-verso.jpg", imgs[1].URL)
}

func TestResolveOverrideExactShortCircuits(t *testing.T) {
	store := &fakeStore{
		equals: map[string][]models.ImageRecord{
			key("pincas_imagens", "slug", "pinca-anatomica-padrao"): {
				{ID: "1", OwnerKey: "pinca-anatomica-padrao", URL: "https://cdn/pap.jpg"},
			},
		},
	}
	r := newResolver(store)

	imgs := r.ResolveImages(context.Background(), models.CatalogRow{
		Identity: 3, RawName: "Pinça Anatômica Padrão", SourceTable: "pinças",
	})

	require.Len(t, imgs, 1)
	assert.Equal(t, "https://cdn/pap.jpg", imgs[0].URL)
	// Exact hit: no prefix, scan or generic queries afterwards
	assert.Equal(t, 1, store.equalsCalls)
	assert.Zero(t, store.prefixCalls)
	assert.Zero(t, store.allCalls)
}

func TestResolveOverridePrefixSingleOwner(t *testing.T) {
	store := &fakeStore{
		prefix: map[string][]models.ImageRecord{
			key("pincas_imagens", "slug", "pinca-anatomica-padrao"): {
				{ID: "1", OwnerKey: "pinca-anatomica-padrao-inox", URL: "https://cdn/papi-1.jpg", Order: 1},
				{ID: "2", OwnerKey: "pinca-anatomica-padrao-inox", URL: "https://cdn/papi-2.jpg", Order: 0},
			},
		},
	}
	r := newResolver(store)

	imgs := r.ResolveImages(context.Background(), models.CatalogRow{
		Identity: 3, RawName: "Pinça Anatômica Padrão 14cm", SourceTable: "pinças",
	})

	require.Len(t, imgs, 2)
	assert.Equal(t, "https://cdn/papi-2.jpg", imgs[0].URL)
}

func TestResolveOverridePrefixAmbiguityYieldsNothing(t *testing.T) {
	store := &fakeStore{
		prefix: map[string][]models.ImageRecord{
			key("pincas_imagens", "slug", "pinca-anatomica-padrao"): {
				{ID: "1", OwnerKey: "pinca-anatomica-padrao-inox-longa", URL: "https://cdn/a.jpg"},
				{ID: "2", OwnerKey: "pinca-anatomica-padrao-inox-curta", URL: "https://cdn/b.jpg"},
			},
		},
	}
	r := newResolver(store)

	imgs := r.ResolveImages(context.Background(), models.CatalogRow{
		Identity: 3, RawName: "Pinça Anatômica Padrão", SourceTable: "pinças",
	})

	// Two equally plausible owners: guessing is worse than no image
	assert.Empty(t, imgs)
}

func TestResolveDenyListFiltersRecords(t *testing.T) {
	store := &fakeStore{
		equals: map[string][]models.ImageRecord{
			key("pincas_imagens", "slug", "pinca-adson-antiga"): {
				{ID: "1", OwnerKey: "pinca-adson-antiga", URL: "https://cdn/dead.jpg"},
			},
		},
	}
	r := newResolver(store)

	imgs := r.ResolveImages(context.Background(), models.CatalogRow{
		Identity: 4, RawName: "Pinça Adson Antiga", SourceTable: "pinças",
	})

	assert.Empty(t, imgs)
}

func TestResolveSimilarity(t *testing.T) {
	store := &fakeStore{
		all: map[string][]models.ImageRecord{
			"tesouras_imagens": {
				{ID: "1", OwnerKey: "Tesoura Mayo", URL: "https://cdn/mayo-1.jpg", IsPrimary: true},
				{ID: "2", OwnerKey: "Tesoura Mayo", URL: "https://cdn/mayo-2.jpg"},
				{ID: "3", OwnerKey: "Pinça Adson", URL: "https://cdn/adson.jpg"},
			},
		},
	}
	r := newResolver(store)

	imgs := r.ResolveImages(context.Background(), models.CatalogRow{
		Identity: 5, RawName: "Tesoura Mayo Curva 14cm", SourceTable: "tesouras",
	})

	require.Len(t, imgs, 2)
	assert.Equal(t, "https://cdn/mayo-1.jpg", imgs[0].URL)
}

func TestResolveSimilarityBelowThreshold(t *testing.T) {
	store := &fakeStore{
		all: map[string][]models.ImageRecord{
			"tesouras_imagens": {
				{ID: "1", OwnerKey: "Tesoura Iris Delicada Longa Especial", URL: "https://cdn/iris.jpg"},
			},
		},
	}
	r := newResolver(store)

	imgs := r.ResolveImages(context.Background(), models.CatalogRow{
		Identity: 5, RawName: "Tesoura Mayo", SourceTable: "tesouras",
	})

	assert.Empty(t, imgs)
}

func TestResolveSimilarityHeadGate(t *testing.T) {
	store := &fakeStore{
		all: map[string][]models.ImageRecord{
			"tesouras_imagens": {
				// High overlap but the leading token disagrees
				{ID: "1", OwnerKey: "Curva Mayo Tesoura", URL: "https://cdn/x.jpg"},
			},
		},
	}
	r := newResolver(store)

	imgs := r.ResolveImages(context.Background(), models.CatalogRow{
		Identity: 5, RawName: "Tesoura Mayo Curva", SourceTable: "tesouras",
	})

	assert.Empty(t, imgs)
}

func TestResolveQueryErrorDegradesToEmpty(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	r := newResolver(store)

	assert.NotPanics(t, func() {
		imgs := r.ResolveImages(context.Background(), models.CatalogRow{
			Identity: 1, RawName: "Tesoura Mayo", SourceTable: "tesouras",
		})
		assert.Empty(t, imgs)
	})
}

func TestResolveCancelledContext(t *testing.T) {
	store := &fakeStore{
		all: map[string][]models.ImageRecord{
			"tesouras_imagens": {{ID: "1", OwnerKey: "Tesoura Mayo", URL: "https://cdn/x.jpg"}},
		},
	}
	r := newResolver(store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	imgs := r.ResolveImages(ctx, models.CatalogRow{
		Identity: 1, RawName: "Tesoura Mayo", SourceTable: "tesouras",
	})
	assert.Empty(t, imgs)
}

func TestResolveByKey(t *testing.T) {
	store := &fakeStore{
		equals: map[string][]models.ImageRecord{
			key("pincas_imagens", "slug", "pinca-anatomica"): {
				{ID: "1", OwnerKey: "pinca-anatomica", URL: "https://cdn/card.jpg"},
			},
		},
	}
	r := newResolver(store)

	imgs := r.ResolveByKey(context.Background(), "pinças", "pinca-anatomica")
	require.Len(t, imgs, 1)
	assert.Equal(t, "https://cdn/card.jpg", imgs[0].URL)

	assert.Empty(t, r.ResolveByKey(context.Background(), "pinças", "inexistente"))
}

func TestResolveFirstNameKeyed(t *testing.T) {
	store := &fakeStore{
		inSet: map[string][]models.ImageRecord{
			key("laminas_imagens", "nome"): {
				{ID: "1", OwnerKey: "Lâmina 12", URL: "https://cdn/l12.jpg"},
				{ID: "2", OwnerKey: "Lâmina 15", URL: "https://cdn/l15.jpg"},
			},
		},
	}
	r := newResolver(store)

	rows := []models.CatalogRow{
		{Identity: 1, RawName: "Lâmina 10", SourceTable: "lâminas"},
		{Identity: 2, RawName: "Lâmina 12", SourceTable: "lâminas"},
		{Identity: 3, RawName: "Lâmina 15", SourceTable: "lâminas"},
	}

	imgs, ok := r.ResolveFirstNameKeyed(context.Background(), rows)
	require.True(t, ok)
	require.Len(t, imgs, 1)
	// First member in order with a match wins, not the first record
	assert.Equal(t, "https://cdn/l12.jpg", imgs[0].URL)
	assert.Equal(t, 1, store.inSetCalls)

	// Tables that need the full chain opt out
	_, ok = r.ResolveFirstNameKeyed(context.Background(), []models.CatalogRow{
		{Identity: 1, RawName: "Pinça Anatômica", SourceTable: "pinças"},
	})
	assert.False(t, ok)
}
