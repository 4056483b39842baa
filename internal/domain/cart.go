package domain

// CartSnapshot is the cart as last returned by the commerce gateway.
// Snapshots are replaced wholesale, never patched.
type CartSnapshot struct {
	ID          string     `json:"id,omitempty"`
	Version     int        `json:"version,omitempty"`
	Currency    string     `json:"currency,omitempty"`
	CustomerID  string     `json:"customerId,omitempty"`
	AnonymousID string     `json:"-"`
	TotalCents  int64      `json:"totalCents"`
	LineItems   []LineItem `json:"lineItems"`
}

// LineItem is owned by its snapshot; IDs are assigned by the gateway.
type LineItem struct {
	ID             string   `json:"id"`
	ProductID      string   `json:"productId"`
	VariantID      int      `json:"variantId"`
	SKU            string   `json:"sku,omitempty"`
	Name           string   `json:"name"`
	Quantity       int      `json:"quantity"`
	UnitPriceCents int64    `json:"unitPriceCents"`
	TotalCents     int64    `json:"totalCents"`
	Images         []string `json:"images,omitempty"`
}

// Clone returns a deep copy so callers cannot mutate a stored snapshot.
func (c CartSnapshot) Clone() CartSnapshot {
	out := c
	if c.LineItems != nil {
		out.LineItems = make([]LineItem, len(c.LineItems))
		for i, li := range c.LineItems {
			if li.Images != nil {
				li.Images = append([]string(nil), li.Images...)
			}
			out.LineItems[i] = li
		}
	}
	return out
}

// IsEmpty reports whether the snapshot has no line items.
func (c CartSnapshot) IsEmpty() bool {
	return len(c.LineItems) == 0
}

// TotalQuantity sums quantities across line items.
func (c CartSnapshot) TotalQuantity() int {
	total := 0
	for _, li := range c.LineItems {
		total += li.Quantity
	}
	return total
}

// CartOwner identifies who a newly created upstream cart belongs to.
type CartOwner struct {
	CustomerID  string
	AnonymousID string
}
