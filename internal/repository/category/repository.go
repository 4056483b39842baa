package category

import (
	"context"
	"time"

	"storefront/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Category, error)
	Upsert(ctx context.Context, c domain.Category) error
	Prune(ctx context.Context, syncedBefore time.Time) (int64, error)
}
