package siteconfig

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidshop/storefront/pkg/pg"
)

// PostgresRepository stores the document as JSONB in the site_config table
// created by the embedded migrations in pkg/pg.
type PostgresRepository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewPostgresRepository creates a repository backed by pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool, now: time.Now}
}

func (r *PostgresRepository) Get(ctx context.Context) (*SiteConfig, error) {
	var data []byte
	err := r.pool.QueryRow(ctx,
		`SELECT data FROM site_config ORDER BY updated_at DESC LIMIT 1`,
	).Scan(&data)
	if pg.IsNotFoundError(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var out SiteConfig
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *PostgresRepository) Save(ctx context.Context, cfg *SiteConfig) error {
	if cfg == nil {
		return ErrInvalidConfig
	}
	doc := prepare(cfg, r.now())
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO site_config (id, site_name, data, updated_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET site_name = EXCLUDED.site_name, data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		doc.ID, doc.SiteName, data, doc.UpdatedAt,
	)
	if err != nil {
		return err
	}
	*cfg = *doc
	return nil
}

func (r *PostgresRepository) EnsureDefault(ctx context.Context, def *SiteConfig) (bool, error) {
	if def == nil {
		return false, ErrInvalidConfig
	}
	doc := prepare(def, r.now())
	data, err := json.Marshal(doc)
	if err != nil {
		return false, err
	}

	tag, err := r.pool.Exec(ctx,
		`INSERT INTO site_config (id, site_name, data, updated_at)
		 SELECT $1, $2, $3, $4
		 WHERE NOT EXISTS (SELECT 1 FROM site_config)`,
		doc.ID, doc.SiteName, data, doc.UpdatedAt,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
