// Package catalogsync mirrors the platform's published catalog into Postgres
// so listing, filtering and search do not hit the platform per request.
package catalogsync

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"storefront/internal/commerce"
	"storefront/internal/domain"
)

const DefaultPageSize = 100

type source interface {
	ListProducts(ctx context.Context, limit, offset int) (commerce.Page[domain.Product], error)
	ListCategories(ctx context.Context, limit, offset int) (commerce.Page[domain.Category], error)
}

type productStore interface {
	Upsert(ctx context.Context, p domain.Product) error
	Prune(ctx context.Context, syncedBefore time.Time) (int64, error)
}

type categoryStore interface {
	Upsert(ctx context.Context, c domain.Category) error
	Prune(ctx context.Context, syncedBefore time.Time) (int64, error)
}

type Result struct {
	Products         int
	Categories       int
	PrunedProducts   int64
	PrunedCategories int64
	Duration         time.Duration
}

type Syncer struct {
	src        source
	products   productStore
	categories categoryStore
	logger     *zap.Logger
	pageSize   int
	now        func() time.Time
}

func New(src source, products productStore, categories categoryStore, logger *zap.Logger) *Syncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Syncer{
		src:        src,
		products:   products,
		categories: categories,
		logger:     logger,
		pageSize:   DefaultPageSize,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Run copies every category and published product, then prunes rows the run
// did not see. Nothing is pruned unless both walks complete.
func (s *Syncer) Run(ctx context.Context) (Result, error) {
	started := s.now()
	var res Result

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := walk(gctx, s.pageSize, s.src.ListCategories, func(ctx context.Context, c domain.Category) error {
			c.SyncedAt = started
			return s.categories.Upsert(ctx, c)
		})
		res.Categories = n
		if err != nil {
			return fmt.Errorf("sync categories: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		n, err := walk(gctx, s.pageSize, s.src.ListProducts, func(ctx context.Context, p domain.Product) error {
			p.SyncedAt = started
			return s.products.Upsert(ctx, p)
		})
		res.Products = n
		if err != nil {
			return fmt.Errorf("sync products: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn("catalog sync failed", zap.Error(err))
		return res, err
	}

	var err error
	if res.PrunedProducts, err = s.products.Prune(ctx, started); err != nil {
		return res, fmt.Errorf("prune products: %w", err)
	}
	if res.PrunedCategories, err = s.categories.Prune(ctx, started); err != nil {
		return res, fmt.Errorf("prune categories: %w", err)
	}
	res.Duration = s.now().Sub(started)
	s.logger.Info("catalog sync done",
		zap.Int("products", res.Products),
		zap.Int("categories", res.Categories),
		zap.Int64("prunedProducts", res.PrunedProducts),
		zap.Int64("prunedCategories", res.PrunedCategories),
		zap.Duration("took", res.Duration),
	)
	return res, nil
}

// Loop runs a sync immediately and then every interval until ctx is done.
// Failed runs are logged and retried on the next tick.
func (s *Syncer) Loop(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := s.Run(ctx); err != nil && ctx.Err() == nil {
			s.logger.Error("catalog sync run", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func walk[T any](
	ctx context.Context,
	pageSize int,
	list func(ctx context.Context, limit, offset int) (commerce.Page[T], error),
	save func(ctx context.Context, item T) error,
) (int, error) {
	saved, offset := 0, 0
	for {
		page, err := list(ctx, pageSize, offset)
		if err != nil {
			return saved, err
		}
		for _, item := range page.Results {
			if err := save(ctx, item); err != nil {
				return saved, err
			}
			saved++
		}
		if !page.HasMore() {
			return saved, nil
		}
		offset = page.Offset + page.Count
	}
}
