package commerce

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"storefront/internal/domain"
)

// Page holds one page of a paged query result.
type Page[T any] struct {
	Results []T
	Offset  int
	Count   int
	Total   int
}

// HasMore reports whether another page follows this one.
func (p Page[T]) HasMore() bool {
	return p.Count > 0 && p.Offset+p.Count < p.Total
}

func pageQuery(limit, offset int) url.Values {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return url.Values{
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}
}

func (c *Client) ListProducts(ctx context.Context, limit, offset int) (Page[domain.Product], error) {
	var out ctPage[ctProduct]
	if err := c.do(ctx, "products.list", http.MethodGet, "/products", pageQuery(limit, offset), nil, &out); err != nil {
		return Page[domain.Product]{}, err
	}
	page := Page[domain.Product]{Offset: out.Offset, Count: out.Count, Total: out.Total}
	for _, p := range out.Results {
		if !p.MasterData.Published {
			continue
		}
		page.Results = append(page.Results, toProduct(p))
	}
	return page, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var out ctProduct
	if err := c.do(ctx, "products.get", http.MethodGet, "/products/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	p := toProduct(out)
	return &p, nil
}

func (c *Client) ListCategories(ctx context.Context, limit, offset int) (Page[domain.Category], error) {
	var out ctPage[ctCategory]
	if err := c.do(ctx, "categories.list", http.MethodGet, "/categories", pageQuery(limit, offset), nil, &out); err != nil {
		return Page[domain.Category]{}, err
	}
	page := Page[domain.Category]{Offset: out.Offset, Count: out.Count, Total: out.Total}
	for _, cat := range out.Results {
		page.Results = append(page.Results, toCategory(cat))
	}
	return page, nil
}
