package product

import (
	"fmt"
	"strings"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

const effectivePrice = "COALESCE(discounted_cents, price_cents)"

// listQuery renders the filtered listing. The windowed total ignores limit
// and offset but is only present when the page has rows; see countQuery.
func listQuery(f Filter) (string, []interface{}) {
	where, args := filterClause(f)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	var b strings.Builder
	b.WriteString(`SELECT id, key, sku, name, slug, COALESCE(description, ''), variant_id, price_cents, discounted_cents, currency, images, category_ids, attributes, created_at, synced_at, COUNT(*) OVER()
FROM products`)
	b.WriteString(where)
	b.WriteString("\nORDER BY ")
	b.WriteString(orderBy(f.Sort))

	limit, offset := paging(f)
	b.WriteString("\nLIMIT " + arg(limit) + " OFFSET " + arg(offset))
	return b.String(), args
}

// countQuery counts every row matching the filter.
func countQuery(f Filter) (string, []interface{}) {
	where, args := filterClause(f)
	return "SELECT COUNT(*) FROM products" + where, args
}

func filterClause(f Filter) (string, []interface{}) {
	var (
		where []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(f.CategoryIDs) > 0 {
		where = append(where, "category_ids && "+arg(f.CategoryIDs)+"::text[]")
	}
	if f.PriceFrom != nil {
		where = append(where, effectivePrice+" >= "+arg(*f.PriceFrom))
	}
	if f.PriceTo != nil {
		where = append(where, effectivePrice+" <= "+arg(*f.PriceTo))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		where = append(where, "name ILIKE "+arg("%"+escapeLike(s)+"%"))
	}
	if len(where) == 0 {
		return "", args
	}
	return "\nWHERE " + strings.Join(where, " AND "), args
}

func paging(f Filter) (limit, offset int) {
	limit = f.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	offset = f.Offset
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func orderBy(s Sort) string {
	switch s {
	case SortNameAsc:
		return "lower(name) ASC, id"
	case SortNameDesc:
		return "lower(name) DESC, id"
	case SortPriceAsc:
		return effectivePrice + " ASC, id"
	case SortPriceDesc:
		return effectivePrice + " DESC, id"
	default:
		return "created_at DESC, id"
	}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
