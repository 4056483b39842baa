package category

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"storefront/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, logger: logger}
}

// List returns every mirrored category ordered by order hint, then name.
func (r *postgresRepo) List(ctx context.Context) ([]domain.Category, error) {
	const q = `
SELECT id, key, name, slug, COALESCE(parent_id, ''), order_hint, created_at, synced_at
FROM categories
ORDER BY order_hint ASC, name ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Error("category repo: list", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	result := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Key, &c.Name, &c.Slug, &c.ParentID, &c.OrderHint, &c.CreatedAt, &c.SyncedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, c domain.Category) error {
	const q = `
INSERT INTO categories (id, key, name, slug, parent_id, order_hint, created_at, synced_at)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, COALESCE($7, now()), $8)
ON CONFLICT (id) DO UPDATE
SET key = EXCLUDED.key,
    name = EXCLUDED.name,
    slug = COALESCE(NULLIF(EXCLUDED.slug, ''), categories.slug),
    parent_id = EXCLUDED.parent_id,
    order_hint = EXCLUDED.order_hint,
    synced_at = EXCLUDED.synced_at
`
	var createdAt *time.Time
	if !c.CreatedAt.IsZero() {
		createdAt = &c.CreatedAt
	}
	syncedAt := c.SyncedAt
	if syncedAt.IsZero() {
		syncedAt = time.Now().UTC()
	}
	if _, err := r.pool.Exec(ctx, q, c.ID, c.Key, c.Name, c.Slug, c.ParentID, c.OrderHint, createdAt, syncedAt); err != nil {
		r.logger.Error("category repo: upsert", zap.String("id", c.ID), zap.String("key", c.Key), zap.Error(err))
		return err
	}
	return nil
}

func (r *postgresRepo) Prune(ctx context.Context, syncedBefore time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE synced_at < $1`, syncedBefore)
	if err != nil {
		r.logger.Error("category repo: prune", zap.Error(err))
		return 0, err
	}
	return tag.RowsAffected(), nil
}
