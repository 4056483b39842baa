package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/importer"
)

//go:embed catalog.csv
var catalogCSV []byte

type CategoryWriter interface {
	Upsert(ctx context.Context, c domain.Category) error
}

var categories = []domain.Category{
	{ID: "seed-bouquets", Key: "bouquets", Name: "Bouquets", Slug: "bouquets", OrderHint: "0.1"},
	{ID: "seed-roses", Key: "roses", Name: "Roses", Slug: "roses", ParentID: "seed-bouquets", OrderHint: "0.2"},
	{ID: "seed-tulips", Key: "tulips", Name: "Tulips", Slug: "tulips", ParentID: "seed-bouquets", OrderHint: "0.3"},
	{ID: "seed-peonies", Key: "peonies", Name: "Peonies", Slug: "peonies", ParentID: "seed-bouquets", OrderHint: "0.4"},
	{ID: "seed-boxes", Key: "boxes", Name: "Flower Boxes", Slug: "boxes", OrderHint: "0.5"},
}

// Apply loads a demo bouquet catalog into the mirror for local runs. It is idempotent.
func Apply(ctx context.Context, products importer.ProductWriter, cats CategoryWriter) (int, error) {
	for _, c := range categories {
		if err := cats.Upsert(ctx, c); err != nil {
			return 0, fmt.Errorf("upsert category %s: %w", c.Key, err)
		}
	}
	n, err := importer.NewCSVImporter(bytes.NewReader(catalogCSV), products).Run(ctx)
	if err != nil {
		return n, fmt.Errorf("import demo products: %w", err)
	}
	return n, nil
}
