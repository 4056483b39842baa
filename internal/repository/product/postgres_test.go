package product

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
	"storefront/internal/migrate"
)

func TestPostgres_ListFiltersAndSorts(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	discounted := int64(900)
	products := []domain.Product{
		{ID: "p1", Key: "red-roses", Name: "Red Roses", PriceCents: 2500, Currency: "USD", CategoryIDs: []string{"roses"}},
		{ID: "p2", Key: "white-tulips", Name: "White Tulips", PriceCents: 1500, DiscountedCents: &discounted, Currency: "USD", CategoryIDs: []string{"tulips"}},
		{ID: "p3", Key: "pink-roses", Name: "Pink Roses", PriceCents: 1800, Currency: "USD", CategoryIDs: []string{"roses"},
			Images: []domain.Image{{URL: "https://img.example/pink.jpg"}}},
	}
	for _, p := range products {
		if err := repo.Upsert(ctx, p); err != nil {
			t.Fatalf("upsert %s: %v", p.ID, err)
		}
	}

	list, total, err := repo.List(ctx, Filter{CategoryIDs: []string{"roses"}, Sort: SortPriceAsc})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(list) != 2 || list[0].ID != "p3" || list[1].ID != "p1" {
		t.Fatalf("unexpected category listing total=%d %+v", total, list)
	}
	if len(list[0].Images) != 1 || list[0].VariantID != 1 {
		t.Fatalf("columns not round-tripped: %+v", list[0])
	}

	to := int64(1000)
	list, _, err = repo.List(ctx, Filter{PriceTo: &to})
	if err != nil {
		t.Fatalf("list price: %v", err)
	}
	if len(list) != 1 || list[0].ID != "p2" {
		t.Fatalf("discounted price not used for range: %+v", list)
	}

	list, total, err = repo.List(ctx, Filter{Search: "roses", Sort: SortNameAsc, Limit: 1})
	if err != nil {
		t.Fatalf("list search: %v", err)
	}
	if total != 2 || len(list) != 1 || list[0].ID != "p3" {
		t.Fatalf("unexpected search page total=%d %+v", total, list)
	}

	list, total, err = repo.List(ctx, Filter{CategoryIDs: []string{"roses"}, Limit: 10, Offset: 50})
	if err != nil {
		t.Fatalf("list past end: %v", err)
	}
	if total != 2 || len(list) != 0 {
		t.Fatalf("page past the end must keep the real total, got total=%d %+v", total, list)
	}
}

func TestPostgres_GetUpsertPrune(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	old := time.Now().UTC().Add(-time.Hour)
	if err := repo.Upsert(ctx, domain.Product{ID: "p1", Name: "Prod 1", PriceCents: 100, Currency: "USD", SyncedAt: old}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.Upsert(ctx, domain.Product{ID: "p1", Name: "Prod 1 updated", Description: "new desc", PriceCents: 200, Currency: "USD", SyncedAt: old}); err != nil {
		t.Fatalf("upsert update: %v", err)
	}
	got, err := repo.GetByID(ctx, "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Prod 1 updated" || got.Description != "new desc" || got.PriceCents != 200 {
		t.Fatalf("unexpected updated product %+v", got)
	}

	if err := repo.Upsert(ctx, domain.Product{ID: "p2", Name: "Fresh", PriceCents: 100, Currency: "USD"}); err != nil {
		t.Fatalf("upsert fresh: %v", err)
	}
	n, err := repo.Prune(ctx, time.Now().UTC().Add(-time.Minute))
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected one pruned row, got %d", n)
	}
	if _, err := repo.GetByID(ctx, "p1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected pruned product gone, got %v", err)
	}
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE products, categories`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}
