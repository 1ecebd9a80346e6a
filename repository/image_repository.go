package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"catalogo-instrumentais/config"
	"catalogo-instrumentais/db"
	"catalogo-instrumentais/imagematch"
	"catalogo-instrumentais/models"
)

// ImageRepository reads and writes the per-category image tables. The
// generic schema is (id, produto_id, nome, url, ordem, principal); tables
// with a structural override declare their own lookup and url columns in
// the configuration and this repository maps them back onto ImageRecord.
type ImageRepository struct {
	cfg *config.Config
}

// NewImageRepository creates a new ImageRepository
func NewImageRepository(cfg *config.Config) *ImageRepository {
	return &ImageRepository{cfg: cfg}
}

// Ensure ImageRepository implements the interfaces it backs
var _ ImageRepositoryInterface = (*ImageRepository)(nil)
var _ imagematch.Store = (*ImageRepository)(nil)

// imageColumns is the resolved column layout of one image table
type imageColumns struct {
	ownerCol string
	urlCol   string
}

// columnsFor resolves the owner/url columns of an image table from the
// table configuration. Unknown tables get the generic layout.
func (r *ImageRepository) columnsFor(imageTable string) imageColumns {
	cols := imageColumns{ownerCol: "nome", urlCol: "url"}
	for _, rules := range r.cfg.Tables {
		if rules.ImageTable != imageTable || rules.Override == nil {
			continue
		}
		if rules.Override.LookupField != "" {
			cols.ownerCol = rules.Override.LookupField
		}
		if rules.Override.URLField != "" {
			cols.urlCol = rules.Override.URLField
		}
		break
	}
	return cols
}

func (r *ImageRepository) selectClause(imageTable string, cols imageColumns) string {
	return fmt.Sprintf(`
		SELECT id::text,
		       COALESCE(%s::text, '') AS chave,
		       COALESCE(%s, '') AS url,
		       COALESCE(ordem, 0) AS ordem,
		       COALESCE(principal, false) AS principal
		FROM %s
	`, quoteIdent(cols.ownerCol), quoteIdent(cols.urlCol), quoteIdent(imageTable))
}

func (r *ImageRepository) scanRecords(rows *sql.Rows, imageTable string) ([]models.ImageRecord, error) {
	defer rows.Close()

	var out []models.ImageRecord
	for rows.Next() {
		var rec models.ImageRecord
		if err := rows.Scan(&rec.ID, &rec.OwnerKey, &rec.URL, &rec.Order, &rec.IsPrimary); err != nil {
			log.Printf("❌ Error scanning image row from %s: %v", imageTable, err)
			continue
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", imageTable, err)
	}
	return out, nil
}

// QueryEquals returns the records whose field equals value exactly
func (r *ImageRepository) QueryEquals(ctx context.Context, table, field, value string) ([]models.ImageRecord, error) {
	cols := r.columnsFor(table)
	query := r.selectClause(table, cols) + fmt.Sprintf(" WHERE %s::text = $1", quoteIdent(field))

	rows, err := db.DB.QueryContext(ctx, query, value)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s by %s: %w", table, field, err)
	}
	return r.scanRecords(rows, table)
}

// QueryPrefix returns the records whose field starts with prefix
func (r *ImageRepository) QueryPrefix(ctx context.Context, table, field, prefix string) ([]models.ImageRecord, error) {
	cols := r.columnsFor(table)
	query := r.selectClause(table, cols) + fmt.Sprintf(" WHERE %s::text LIKE $1 || '%%'", quoteIdent(field))

	rows, err := db.DB.QueryContext(ctx, query, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s by %s prefix: %w", table, field, err)
	}
	return r.scanRecords(rows, table)
}

// QueryAll returns every record of an image table
func (r *ImageRepository) QueryAll(ctx context.Context, table string) ([]models.ImageRecord, error) {
	cols := r.columnsFor(table)

	rows, err := db.DB.QueryContext(ctx, r.selectClause(table, cols))
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", table, err)
	}
	return r.scanRecords(rows, table)
}

// QueryInSet returns the records whose field matches any of the given values
func (r *ImageRepository) QueryInSet(ctx context.Context, table, field string, values []string) ([]models.ImageRecord, error) {
	if len(values) == 0 {
		return nil, nil
	}

	cols := r.columnsFor(table)
	placeholders := make([]string, len(values))
	args := make([]interface{}, len(values))
	for i, v := range values {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = v
	}
	query := r.selectClause(table, cols) +
		fmt.Sprintf(" WHERE %s::text IN (%s)", quoteIdent(field), strings.Join(placeholders, ", "))

	rows, err := db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s by %s set: %w", table, field, err)
	}
	return r.scanRecords(rows, table)
}

// ExistsByURL reports whether the image table already holds a record with
// this URL. Used by the sync pipeline to make re-runs idempotent.
func (r *ImageRepository) ExistsByURL(ctx context.Context, table, url string) (bool, error) {
	cols := r.columnsFor(table)
	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE %s = $1)", quoteIdent(table), quoteIdent(cols.urlCol))

	var exists bool
	if err := db.DB.QueryRowContext(ctx, query, url).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check url in %s: %w", table, err)
	}
	return exists, nil
}

// Insert stores a new image record in the table's own column layout
func (r *ImageRepository) Insert(ctx context.Context, table string, rec models.ImageRecord) error {
	cols := r.columnsFor(table)
	query := fmt.Sprintf(
		"INSERT INTO %s (%s, %s, ordem, principal) VALUES ($1, $2, $3, $4)",
		quoteIdent(table), quoteIdent(cols.ownerCol), quoteIdent(cols.urlCol),
	)

	if _, err := db.DB.ExecContext(ctx, query, rec.OwnerKey, rec.URL, rec.Order, rec.IsPrimary); err != nil {
		return fmt.Errorf("failed to insert image into %s: %w", table, err)
	}
	return nil
}

// GetByID returns a single record by its id, or sql.ErrNoRows
func (r *ImageRepository) GetByID(ctx context.Context, table, id string) (models.ImageRecord, error) {
	cols := r.columnsFor(table)
	query := r.selectClause(table, cols) + " WHERE id::text = $1"

	var rec models.ImageRecord
	err := db.DB.QueryRowContext(ctx, query, id).Scan(&rec.ID, &rec.OwnerKey, &rec.URL, &rec.Order, &rec.IsPrimary)
	if err != nil {
		return models.ImageRecord{}, fmt.Errorf("failed to get image %s from %s: %w", id, table, err)
	}
	return rec, nil
}
