package product

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
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

func (r *postgresRepo) List(ctx context.Context, f Filter) ([]domain.Product, int, error) {
	q, args := listQuery(f)
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Error("product repo: list", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	result := []domain.Product{}
	total := 0
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID, &p.Key, &p.SKU, &p.Name, &p.Slug, &p.Description, &p.VariantID,
			&p.PriceCents, &p.DiscountedCents, &p.Currency, &p.Images, &p.CategoryIDs,
			&p.Attributes, &p.CreatedAt, &p.SyncedAt, &total,
		); err != nil {
			return nil, 0, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("product repo: list rows", zap.Error(err))
		return nil, 0, err
	}
	if len(result) == 0 && f.Offset > 0 {
		// An offset past the last row leaves no row to carry the windowed total.
		cq, cargs := countQuery(f)
		if err := r.pool.QueryRow(ctx, cq, cargs...).Scan(&total); err != nil {
			r.logger.Error("product repo: count", zap.Error(err))
			return nil, 0, err
		}
	}
	r.logger.Debug("product repo: list", zap.Int("count", len(result)), zap.Int("total", total))
	return result, total, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
SELECT id, key, sku, name, slug, COALESCE(description, ''), variant_id, price_cents, discounted_cents, currency, images, category_ids, attributes, created_at, synced_at
FROM products
WHERE id = $1
`
	var p domain.Product
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&p.ID, &p.Key, &p.SKU, &p.Name, &p.Slug, &p.Description, &p.VariantID,
		&p.PriceCents, &p.DiscountedCents, &p.Currency, &p.Images, &p.CategoryIDs,
		&p.Attributes, &p.CreatedAt, &p.SyncedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("product repo: get", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) error {
	const q = `
INSERT INTO products (id, key, sku, name, slug, description, variant_id, price_cents, discounted_cents, currency, images, category_ids, attributes, created_at, synced_at)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10, $11, $12, COALESCE($13, '{}'::jsonb), COALESCE($14, now()), $15)
ON CONFLICT (id) DO UPDATE SET
    key = EXCLUDED.key,
    sku = EXCLUDED.sku,
    name = EXCLUDED.name,
    slug = EXCLUDED.slug,
    description = EXCLUDED.description,
    variant_id = EXCLUDED.variant_id,
    price_cents = EXCLUDED.price_cents,
    discounted_cents = EXCLUDED.discounted_cents,
    currency = EXCLUDED.currency,
    images = EXCLUDED.images,
    category_ids = EXCLUDED.category_ids,
    attributes = EXCLUDED.attributes,
    synced_at = EXCLUDED.synced_at
`
	images := p.Images
	if images == nil {
		images = []domain.Image{}
	}
	categoryIDs := p.CategoryIDs
	if categoryIDs == nil {
		categoryIDs = []string{}
	}
	variantID := p.VariantID
	if variantID < 1 {
		variantID = 1
	}
	var createdAt *time.Time
	if !p.CreatedAt.IsZero() {
		createdAt = &p.CreatedAt
	}
	syncedAt := p.SyncedAt
	if syncedAt.IsZero() {
		syncedAt = time.Now().UTC()
	}
	_, err := r.pool.Exec(ctx, q,
		p.ID, p.Key, p.SKU, p.Name, p.Slug, p.Description, variantID,
		p.PriceCents, p.DiscountedCents, p.Currency, images, categoryIDs,
		p.Attributes, createdAt, syncedAt,
	)
	if err != nil {
		r.logger.Error("product repo: upsert", zap.String("id", p.ID), zap.String("key", p.Key), zap.Error(err))
		return err
	}
	return nil
}

// Prune deletes products the last sync run did not touch.
func (r *postgresRepo) Prune(ctx context.Context, syncedBefore time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE synced_at < $1`, syncedBefore)
	if err != nil {
		r.logger.Error("product repo: prune", zap.Error(err))
		return 0, err
	}
	return tag.RowsAffected(), nil
}
