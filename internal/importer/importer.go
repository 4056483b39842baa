package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"storefront/internal/domain"
)

// productNamespace derives stable product ids for rows exported without one.
var productNamespace = uuid.MustParse("6f1c9a52-3a7e-4b0e-9d55-0c6c1f6b8a10")

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) error
}

// CSVImporter reads commercetools-style product CSV exports into the catalog mirror.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
	now         func() time.Time
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

type csvRow struct {
	ID         string
	Key        string
	Name       string
	Slug       string
	Desc       string
	SKU        string
	VariantID  int
	Cents      int64
	Discounted *int64
	Currency   string
	Categories []string
	ImageURLs  []string
}

// Run parses CSV rows and upserts products grouped by product key.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	syncedAt := i.now()

	var (
		current  *csvRow
		imported int
	)

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		row := parseRow(record, index)
		if row == nil {
			continue
		}

		if row.Key != "" {
			if current != nil {
				if err := i.save(ctx, current, syncedAt); err != nil {
					return imported, err
				}
				imported++
			}
			current = row
			continue
		}

		// Continuation rows (images) belong to the current product.
		if current != nil && len(row.ImageURLs) > 0 {
			current.ImageURLs = append(current.ImageURLs, row.ImageURLs...)
		}
	}

	if current != nil {
		if err := i.save(ctx, current, syncedAt); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow, syncedAt time.Time) error {
	if row.Key == "" || row.Name == "" || row.Cents <= 0 || row.Currency == "" {
		return fmt.Errorf("invalid product row (missing required fields) for key %q", row.Key)
	}
	id := row.ID
	if id == "" {
		id = uuid.NewSHA1(productNamespace, []byte(row.Key)).String()
	} else if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid id for key %q: %s", row.Key, row.ID)
	}
	if row.Discounted != nil && *row.Discounted >= row.Cents {
		row.Discounted = nil
	}

	images := make([]domain.Image, 0, len(row.ImageURLs))
	for _, u := range row.ImageURLs {
		images = append(images, domain.Image{URL: u})
	}

	p := domain.Product{
		ID:              id,
		Key:             row.Key,
		SKU:             row.SKU,
		Name:            row.Name,
		Slug:            row.Slug,
		Description:     row.Desc,
		VariantID:       row.VariantID,
		PriceCents:      row.Cents,
		DiscountedCents: row.Discounted,
		Currency:        row.Currency,
		Images:          images,
		CategoryIDs:     row.Categories,
		SyncedAt:        syncedAt,
	}

	if err := i.productRepo.Upsert(ctx, p); err != nil {
		return fmt.Errorf("upsert product %q: %w", row.Key, err)
	}
	return nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) *csvRow {
	key := pick(record, index, "key")
	imageURL := pick(record, index, "variants.images.url")
	if key == "" && imageURL == "" {
		return nil
	}

	row := &csvRow{
		ID:        pick(record, index, "id"),
		Key:       key,
		Name:      pick(record, index, "name.en"),
		Slug:      pick(record, index, "slug.en"),
		Desc:      pick(record, index, "description.en"),
		SKU:       pick(record, index, "variants.sku"),
		Currency:  pick(record, index, "variants.prices.value.currencyCode"),
		VariantID: 1,
	}
	if v, err := strconv.Atoi(pick(record, index, "variants.id")); err == nil && v > 0 {
		row.VariantID = v
	}
	if c, err := strconv.ParseInt(pick(record, index, "variants.prices.value.centAmount"), 10, 64); err == nil {
		row.Cents = c
	}
	if d, err := strconv.ParseInt(pick(record, index, "variants.prices.discounted.value.centAmount"), 10, 64); err == nil && d > 0 {
		row.Discounted = &d
	}
	if cats := pick(record, index, "categories"); cats != "" {
		for _, c := range strings.Split(cats, ";") {
			if c = strings.TrimSpace(c); c != "" {
				row.Categories = append(row.Categories, c)
			}
		}
	}
	if imageURL != "" {
		row.ImageURLs = []string{imageURL}
	}
	return row
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
