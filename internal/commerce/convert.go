package commerce

import (
	"sort"
	"strings"

	"storefront/internal/domain"
)

func toSnapshot(c ctCart) domain.CartSnapshot {
	lines := make([]domain.LineItem, 0, len(c.LineItems))
	for _, li := range c.LineItems {
		unit := li.Price.Value.CentAmount
		if li.Price.Discounted != nil {
			unit = li.Price.Discounted.Value.CentAmount
		}
		lines = append(lines, domain.LineItem{
			ID:             li.ID,
			ProductID:      li.ProductID,
			VariantID:      li.Variant.ID,
			SKU:            li.Variant.SKU,
			Name:           localized(li.Name),
			Quantity:       li.Quantity,
			UnitPriceCents: unit,
			TotalCents:     li.TotalPrice.CentAmount,
			Images:         imageURLs(li.Variant.Images),
		})
	}
	return domain.CartSnapshot{
		ID:          c.ID,
		Version:     c.Version,
		Currency:    c.TotalPrice.CurrencyCode,
		CustomerID:  c.CustomerID,
		AnonymousID: c.AnonymousID,
		TotalCents:  c.TotalPrice.CentAmount,
		LineItems:   lines,
	}
}

func toProduct(p ctProduct) domain.Product {
	cur := p.MasterData.Current
	v := cur.MasterVariant
	out := domain.Product{
		ID:          p.ID,
		Key:         p.Key,
		SKU:         v.SKU,
		Name:        localized(cur.Name),
		Slug:        localized(cur.Slug),
		Description: localized(cur.Description),
		VariantID:   v.ID,
		CreatedAt:   p.CreatedAt,
	}
	if out.VariantID == 0 {
		out.VariantID = 1
	}
	if len(v.Prices) > 0 {
		price := v.Prices[0]
		out.PriceCents = price.Value.CentAmount
		out.Currency = price.Value.CurrencyCode
		if price.Discounted != nil {
			d := price.Discounted.Value.CentAmount
			out.DiscountedCents = &d
		}
	}
	for _, img := range v.Images {
		if strings.TrimSpace(img.URL) == "" {
			continue
		}
		out.Images = append(out.Images, domain.Image{URL: img.URL, Label: img.Label})
	}
	for _, ref := range cur.Categories {
		if ref.ID != "" {
			out.CategoryIDs = append(out.CategoryIDs, ref.ID)
		}
	}
	if len(v.Attributes) > 0 {
		out.Attributes = make(map[string]interface{}, len(v.Attributes))
		for _, a := range v.Attributes {
			out.Attributes[a.Name] = a.Value
		}
	}
	return out
}

func toCategory(c ctCategory) domain.Category {
	out := domain.Category{
		ID:        c.ID,
		Key:       c.Key,
		Name:      localized(c.Name),
		Slug:      localized(c.Slug),
		OrderHint: c.OrderHint,
		CreatedAt: c.CreatedAt,
	}
	if c.Parent != nil {
		out.ParentID = c.Parent.ID
	}
	return out
}

func toCustomer(c ctCustomer) domain.Customer {
	addresses := make([]domain.CustomerAddress, 0, len(c.Addresses))
	for _, a := range c.Addresses {
		addresses = append(addresses, domain.CustomerAddress{
			ID:         a.ID,
			FirstName:  a.FirstName,
			LastName:   a.LastName,
			Country:    a.Country,
			StreetName: a.StreetName,
			PostalCode: a.PostalCode,
			City:       a.City,
		})
	}
	return domain.Customer{
		ID:                       c.ID,
		Version:                  c.Version,
		Email:                    c.Email,
		FirstName:                c.FirstName,
		LastName:                 c.LastName,
		DateOfBirth:              c.DateOfBirth,
		Addresses:                addresses,
		DefaultShippingAddressID: c.DefaultShippingAddressID,
		DefaultBillingAddressID:  c.DefaultBillingAddressID,
	}
}

// localized picks the English value of a localized string, falling back to the first non-empty locale in key order.
func localized(m map[string]string) string {
	if len(m) == 0 {
		return ""
	}
	for _, loc := range []string{"en", "en-US", "en-GB"} {
		if v, ok := m[loc]; ok && v != "" {
			return v
		}
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if m[k] != "" {
			return m[k]
		}
	}
	return ""
}

func imageURLs(images []ctImage) []string {
	var out []string
	for _, img := range images {
		if strings.TrimSpace(img.URL) == "" {
			continue
		}
		out = append(out, img.URL)
	}
	return out
}
