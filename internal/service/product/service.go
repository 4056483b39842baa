package product

import (
	"context"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"storefront/internal/domain"
	productrepo "storefront/internal/repository/product"
)

type categoryTree interface {
	Subtree(ctx context.Context, id string) ([]string, error)
}

// MembershipReader answers whether a product is in the shopper's cart.
type MembershipReader interface {
	Membership(productID string) domain.Membership
}

type Service struct {
	repo       productrepo.Repository
	categories categoryTree
	policy     *bluemonday.Policy
}

func New(repo productrepo.Repository, categories categoryTree) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		policy:     bluemonday.UGCPolicy(),
	}
}

// Query is a catalog listing request. CategoryID includes its subcategories.
type Query struct {
	CategoryID string
	PriceFrom  *int64
	PriceTo    *int64
	Search     string
	Sort       string
	Limit      int
	Offset     int
}

// Card is a product as the product card renders it.
type Card struct {
	domain.Product
	Membership      domain.Membership `json:"membership"`
	ButtonLabel     string            `json:"buttonLabel"`
	Price           string            `json:"price"`
	DiscountedPrice string            `json:"discountedPrice,omitempty"`
}

type Listing struct {
	Items  []Card `json:"items"`
	Total  int    `json:"total"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

func (s *Service) List(ctx context.Context, q Query, members MembershipReader) (*Listing, error) {
	sort := productrepo.Sort(strings.TrimSpace(q.Sort))
	if !sort.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if (q.PriceFrom != nil && *q.PriceFrom < 0) || (q.PriceTo != nil && *q.PriceTo < 0) {
		return nil, domain.ErrInvalidInput
	}
	if q.PriceFrom != nil && q.PriceTo != nil && *q.PriceFrom > *q.PriceTo {
		return nil, domain.ErrInvalidInput
	}
	limit := q.Limit
	if limit <= 0 {
		limit = productrepo.DefaultLimit
	}
	if limit > productrepo.MaxLimit {
		limit = productrepo.MaxLimit
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	f := productrepo.Filter{
		PriceFrom: q.PriceFrom,
		PriceTo:   q.PriceTo,
		Search:    q.Search,
		Sort:      sort,
		Limit:     limit,
		Offset:    offset,
	}
	if id := strings.TrimSpace(q.CategoryID); id != "" {
		ids, err := s.categories.Subtree(ctx, id)
		if err != nil {
			return nil, err
		}
		f.CategoryIDs = ids
	}

	products, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := &Listing{Items: make([]Card, 0, len(products)), Total: total, Limit: limit, Offset: offset}
	for _, p := range products {
		out.Items = append(out.Items, s.card(p, members))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string, members MembershipReader) (*Card, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c := s.card(*p, members)
	return &c, nil
}

func (s *Service) card(p domain.Product, members MembershipReader) Card {
	p.Description = s.policy.Sanitize(p.Description)
	m := domain.NotInCart
	if members != nil {
		m = members.Membership(p.ID)
	}
	c := Card{
		Product:     p,
		Membership:  m,
		ButtonLabel: m.ButtonLabel(),
		Price:       domain.FormatCents(p.PriceCents),
	}
	if eff := p.EffectivePriceCents(); eff != p.PriceCents {
		c.DiscountedPrice = domain.FormatCents(eff)
	}
	return c
}
