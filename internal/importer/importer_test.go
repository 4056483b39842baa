package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"storefront/internal/domain"
)

type stubProductRepo struct {
	items []domain.Product
	err   error
}

func (s *stubProductRepo) Upsert(_ context.Context, p domain.Product) error {
	if s.err != nil {
		return s.err
	}
	s.items = append(s.items, p)
	return nil
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := `id,key,name.en,slug.en,description.en,variants.id,variants.sku,variants.prices.value.centAmount,variants.prices.discounted.value.centAmount,variants.prices.value.currencyCode,categories,variants.images.url
00000000-0000-0000-0000-000000000001,prod-1,Prod One,prod-one,Desc one,2,SKU-1,1000,800,EUR,cat-1;cat-2,https://example.com/img1.jpg
,,,,,,,,,,,https://example.com/img2.jpg
,prod-2,Prod Two,,Desc two,,SKU-2,200,300,USD,,`

	repo := &stubProductRepo{}
	imp := NewCSVImporter(strings.NewReader(csvData), repo)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 2 || len(repo.items) != 2 {
		t.Fatalf("expected 2 products imported, got %d saved=%d", count, len(repo.items))
	}

	first := repo.items[0]
	if len(first.Images) != 2 || first.Images[1].URL != "https://example.com/img2.jpg" {
		t.Fatalf("expected 2 images on first product, got %+v", first.Images)
	}
	if first.Key != "prod-1" || first.SKU != "SKU-1" || first.PriceCents != 1000 || first.Currency != "EUR" || first.VariantID != 2 {
		t.Fatalf("unexpected product data: %+v", first)
	}
	if first.DiscountedCents == nil || *first.DiscountedCents != 800 {
		t.Fatalf("expected discounted price, got %v", first.DiscountedCents)
	}
	if first.ID != "00000000-0000-0000-0000-000000000001" {
		t.Fatalf("expected id to be preserved, got %s", first.ID)
	}
	if len(first.CategoryIDs) != 2 || first.CategoryIDs[1] != "cat-2" {
		t.Fatalf("unexpected categories %v", first.CategoryIDs)
	}
	if first.SyncedAt.IsZero() || !first.SyncedAt.Equal(repo.items[1].SyncedAt) {
		t.Fatalf("rows of one run should share a sync time")
	}

	second := repo.items[1]
	if _, err := uuid.Parse(second.ID); err != nil {
		t.Fatalf("expected derived id, got %q", second.ID)
	}
	if second.DiscountedCents != nil {
		t.Fatalf("discount above price should be dropped")
	}
	if second.VariantID != 1 {
		t.Fatalf("expected default variant, got %d", second.VariantID)
	}
}

func TestCSVImporter_DerivedIDIsStable(t *testing.T) {
	data := "key,name.en,variants.prices.value.centAmount,variants.prices.value.currencyCode\nk1,Name,100,USD\n"
	a, b := &stubProductRepo{}, &stubProductRepo{}
	if _, err := NewCSVImporter(strings.NewReader(data), a).Run(context.Background()); err != nil {
		t.Fatalf("run a: %v", err)
	}
	if _, err := NewCSVImporter(strings.NewReader(data), b).Run(context.Background()); err != nil {
		t.Fatalf("run b: %v", err)
	}
	if a.items[0].ID != b.items[0].ID {
		t.Fatalf("derived ids differ: %s vs %s", a.items[0].ID, b.items[0].ID)
	}
}

func TestCSVImporter_InvalidRow(t *testing.T) {
	data := "key,name.en,variants.prices.value.centAmount,variants.prices.value.currencyCode\nk1,,100,USD\n"
	if _, err := NewCSVImporter(strings.NewReader(data), &stubProductRepo{}).Run(context.Background()); err == nil {
		t.Fatalf("expected error for missing name")
	}
	bad := "id,key,name.en,variants.prices.value.centAmount,variants.prices.value.currencyCode\nnot-a-uuid,k1,N,100,USD\n"
	if _, err := NewCSVImporter(strings.NewReader(bad), &stubProductRepo{}).Run(context.Background()); err == nil {
		t.Fatalf("expected error for invalid id")
	}
}

func TestCSVImporter_WriterError(t *testing.T) {
	data := "key,name.en,variants.prices.value.centAmount,variants.prices.value.currencyCode\nk1,N,100,USD\n"
	boom := errors.New("boom")
	_, err := NewCSVImporter(strings.NewReader(data), &stubProductRepo{err: boom}).Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped writer error, got %v", err)
	}
}
