package domain

import (
	"strconv"
	"time"
)

type Product struct {
	ID              string                 `json:"id"`
	Key             string                 `json:"key"`
	SKU             string                 `json:"sku"`
	Name            string                 `json:"name"`
	Slug            string                 `json:"slug,omitempty"`
	Description     string                 `json:"description,omitempty"`
	VariantID       int                    `json:"variantId"`
	PriceCents      int64                  `json:"priceCents"`
	DiscountedCents *int64                 `json:"discountedCents,omitempty"`
	Currency        string                 `json:"currency"`
	Images          []Image                `json:"images,omitempty"`
	CategoryIDs     []string               `json:"categoryIds,omitempty"`
	Attributes      map[string]interface{} `json:"attributes,omitempty"`
	CreatedAt       time.Time              `json:"createdAt"`
	SyncedAt        time.Time              `json:"-"`
}

type Image struct {
	URL   string `json:"url"`
	Label string `json:"label,omitempty"`
}

// EffectivePriceCents is the discounted price when one applies.
func (p Product) EffectivePriceCents() int64 {
	if p.DiscountedCents != nil && *p.DiscountedCents < p.PriceCents {
		return *p.DiscountedCents
	}
	return p.PriceCents
}

// FormatCents renders a cent amount with two fraction digits, e.g. 1999 -> "19.99".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	frac := cents % 100
	out := sign + strconv.FormatInt(cents/100, 10) + "."
	if frac < 10 {
		out += "0"
	}
	return out + strconv.FormatInt(frac, 10)
}
