// Package index provides metadata-index implementations for asset records:
// a Postgres store for production and an in-memory store for development
// and tests.
package index

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"album/internal/asset"
)

const schema = `
CREATE TABLE IF NOT EXISTS album_images (
    id            BIGSERIAL PRIMARY KEY,
    stored_name   TEXT        NOT NULL UNIQUE,
    original_name TEXT        NOT NULL,
    file_url      TEXT        NOT NULL,
    file_size     BIGINT      NOT NULL,
    media_type    TEXT        NOT NULL,
    description   TEXT        NOT NULL DEFAULT '',
    uploaded_at   TIMESTAMPTZ NOT NULL,
    updated_at    TIMESTAMPTZ NOT NULL,
    deleted       BOOLEAN     NOT NULL DEFAULT FALSE,
    sort_order    INTEGER     NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_album_images_listing
    ON album_images (sort_order DESC, uploaded_at DESC) WHERE NOT deleted;
`

// Postgres implements asset.Index backed by an album_images table.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps an existing connection pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// EnsureSchema creates the album_images table when missing.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure album schema: %w", err)
	}
	return nil
}

func (p *Postgres) Insert(ctx context.Context, a *asset.Asset) (int64, error) {
	query := `
INSERT INTO album_images (stored_name, original_name, file_url, file_size, media_type, description, uploaded_at, updated_at, deleted, sort_order)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE, $9)
RETURNING id
`
	var id int64
	err := p.pool.QueryRow(ctx, query,
		a.StoredName,
		a.OriginalName,
		a.URL,
		a.SizeBytes,
		a.MediaType,
		a.Description,
		a.UploadedAt,
		a.UpdatedAt,
		a.SortOrder,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert asset: %w", err)
	}
	return id, nil
}

func (p *Postgres) FindByID(ctx context.Context, id int64) (*asset.Asset, error) {
	query := `
SELECT id, stored_name, original_name, file_url, file_size, media_type, description, uploaded_at, updated_at, deleted, sort_order
FROM album_images
WHERE id = $1 AND NOT deleted
`
	a, err := scanAsset(p.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find asset %d: %w", id, err)
	}
	return a, nil
}

func (p *Postgres) SoftDelete(ctx context.Context, id int64) (bool, error) {
	tag, err := p.pool.Exec(ctx,
		`UPDATE album_images SET deleted = TRUE, updated_at = $2 WHERE id = $1 AND NOT deleted`,
		id, time.Now(),
	)
	if err != nil {
		return false, fmt.Errorf("soft delete asset %d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (p *Postgres) Page(ctx context.Context, offset, limit int) ([]asset.Asset, int64, error) {
	var total int64
	if err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM album_images WHERE NOT deleted`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count assets: %w", err)
	}

	query := `
SELECT id, stored_name, original_name, file_url, file_size, media_type, description, uploaded_at, updated_at, deleted, sort_order
FROM album_images
WHERE NOT deleted
ORDER BY sort_order DESC, uploaded_at DESC
OFFSET $1 LIMIT $2
`
	rows, err := p.pool.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("page assets: %w", err)
	}
	defer rows.Close()

	var items []asset.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan asset: %w", err)
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate assets: %w", err)
	}
	return items, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(row rowScanner) (*asset.Asset, error) {
	var a asset.Asset
	err := row.Scan(
		&a.ID,
		&a.StoredName,
		&a.OriginalName,
		&a.URL,
		&a.SizeBytes,
		&a.MediaType,
		&a.Description,
		&a.UploadedAt,
		&a.UpdatedAt,
		&a.Deleted,
		&a.SortOrder,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
