package repository

import (
	"context"
	"fmt"
	"log"
	"strings"

	"catalogo-instrumentais/db"
	"catalogo-instrumentais/models"
)

// ProductRepository reads product rows from the per-category source tables
type ProductRepository struct{}

// NewProductRepository creates a new ProductRepository
func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

// Ensure ProductRepository implements ProductRepositoryInterface
var _ ProductRepositoryInterface = (*ProductRepository)(nil)

// quoteIdent quotes a table or column identifier. Table and field names only
// ever come from the static configuration, never from request input; quoting
// is belt-and-suspenders for names with accents or spaces.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// FetchAllRows returns every row of a product table ordered by name
// ascending. Tables without a numeric id column get stable positional
// identities: the scan is name-sorted, so position N is the same row on
// every scan of the same data.
func (r *ProductRepository) FetchAllRows(ctx context.Context, table string) ([]models.CatalogRow, error) {
	rows, err := r.fetchWithID(ctx, table)
	if err == nil {
		return rows, nil
	}

	log.Printf("⚠️  Table %s has no usable id column, falling back to positional identities: %v", table, err)
	return r.fetchPositional(ctx, table)
}

func (r *ProductRepository) fetchWithID(ctx context.Context, table string) ([]models.CatalogRow, error) {
	query := fmt.Sprintf(`
		SELECT id,
		       nome,
		       COALESCE(codigo, '') AS codigo,
		       COALESCE(descricao, '') AS descricao,
		       COALESCE(imagem_url, '') AS imagem_url
		FROM %s
		ORDER BY nome ASC
	`, quoteIdent(table))

	sqlRows, err := db.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer sqlRows.Close()

	var out []models.CatalogRow
	for sqlRows.Next() {
		row := models.CatalogRow{SourceTable: table}
		if err := sqlRows.Scan(&row.Identity, &row.RawName, &row.Code, &row.Description, &row.ImageURL); err != nil {
			log.Printf("❌ Error scanning row from %s: %v", table, err)
			continue
		}
		out = append(out, row)
	}
	if err := sqlRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", table, err)
	}

	log.Printf("✓ Fetched %d rows from %s", len(out), table)
	return out, nil
}

func (r *ProductRepository) fetchPositional(ctx context.Context, table string) ([]models.CatalogRow, error) {
	query := fmt.Sprintf(`
		SELECT nome,
		       COALESCE(codigo, '') AS codigo,
		       COALESCE(descricao, '') AS descricao,
		       COALESCE(imagem_url, '') AS imagem_url
		FROM %s
		ORDER BY nome ASC
	`, quoteIdent(table))

	sqlRows, err := db.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer sqlRows.Close()

	var out []models.CatalogRow
	position := 0
	for sqlRows.Next() {
		row := models.CatalogRow{SourceTable: table}
		if err := sqlRows.Scan(&row.RawName, &row.Code, &row.Description, &row.ImageURL); err != nil {
			log.Printf("❌ Error scanning row from %s: %v", table, err)
			continue
		}
		// 1-based position in the name-sorted scan
		position++
		row.Identity = position
		out = append(out, row)
	}
	if err := sqlRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", table, err)
	}

	log.Printf("✓ Fetched %d rows from %s (positional identities)", len(out), table)
	return out, nil
}
