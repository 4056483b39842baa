package product

import (
	"context"
	"time"

	"storefront/internal/domain"
)

type Sort string

const (
	SortDefault   Sort = ""
	SortNameAsc   Sort = "name.asc"
	SortNameDesc  Sort = "name.desc"
	SortPriceAsc  Sort = "price.asc"
	SortPriceDesc Sort = "price.desc"
)

// Valid reports whether s is a known sort order.
func (s Sort) Valid() bool {
	switch s {
	case SortDefault, SortNameAsc, SortNameDesc, SortPriceAsc, SortPriceDesc:
		return true
	}
	return false
}

// Filter narrows a catalog listing. Price bounds apply to the effective price.
type Filter struct {
	CategoryIDs []string
	PriceFrom   *int64
	PriceTo     *int64
	Search      string
	Sort        Sort
	Limit       int
	Offset      int
}

type Repository interface {
	List(ctx context.Context, f Filter) ([]domain.Product, int, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Upsert(ctx context.Context, p domain.Product) error
	Prune(ctx context.Context, syncedBefore time.Time) (int64, error)
}
