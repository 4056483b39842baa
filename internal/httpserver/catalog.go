package httpserver

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	categorysvc "storefront/internal/service/category"
	productsvc "storefront/internal/service/product"
)

type productService interface {
	List(ctx context.Context, q productsvc.Query, members productsvc.MembershipReader) (*productsvc.Listing, error)
	Get(ctx context.Context, id string, members productsvc.MembershipReader) (*productsvc.Card, error)
}

type categoryService interface {
	List(ctx context.Context) ([]categorysvc.Node, error)
}

func (h *handlers) listProducts(c *gin.Context) {
	q, err := parseProductQuery(c)
	if err != nil {
		writeError(c, err)
		return
	}
	view := currentSession(c).Cart.Store().View()
	listing, err := h.deps.Products.List(c.Request.Context(), q, view)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (h *handlers) getProduct(c *gin.Context) {
	view := currentSession(c).Cart.Store().View()
	card, err := h.deps.Products.Get(c.Request.Context(), c.Param("id"), view)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (h *handlers) listCategories(c *gin.Context) {
	nodes, err := h.deps.Categories.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": nodes, "total": len(nodes)})
}

func parseProductQuery(c *gin.Context) (productsvc.Query, error) {
	q := productsvc.Query{
		CategoryID: c.Query("category"),
		Search:     c.Query("search"),
		Sort:       c.Query("sort"),
	}
	var err error
	if q.PriceFrom, err = optionalInt64(c.Query("priceFrom")); err != nil {
		return q, err
	}
	if q.PriceTo, err = optionalInt64(c.Query("priceTo")); err != nil {
		return q, err
	}
	if q.Limit, err = optionalInt(c.Query("limit")); err != nil {
		return q, err
	}
	if q.Offset, err = optionalInt(c.Query("offset")); err != nil {
		return q, err
	}
	return q, nil
}

func optionalInt64(raw string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	return &v, nil
}

func optionalInt(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ErrInvalidInput
	}
	return v, nil
}
