package commerce

import "time"

type ctPage[T any] struct {
	Limit   int `json:"limit"`
	Offset  int `json:"offset"`
	Count   int `json:"count"`
	Total   int `json:"total"`
	Results []T `json:"results"`
}

type ctCart struct {
	Type        string       `json:"type"`
	ID          string       `json:"id"`
	Version     int          `json:"version"`
	CustomerID  string       `json:"customerId,omitempty"`
	AnonymousID string       `json:"anonymousId,omitempty"`
	LineItems   []ctLineItem `json:"lineItems"`
	CartState   string       `json:"cartState"`
	TotalPrice  ctPriceValue `json:"totalPrice"`
	CreatedAt   time.Time    `json:"createdAt"`
}

type ctLineItem struct {
	ID          string            `json:"id"`
	ProductID   string            `json:"productId"`
	ProductKey  string            `json:"productKey,omitempty"`
	ProductSlug map[string]string `json:"productSlug,omitempty"`
	Name        map[string]string `json:"name"`
	Variant     ctVariant         `json:"variant"`
	Price       ctPrice           `json:"price"`
	Quantity    int               `json:"quantity"`
	TotalPrice  ctPriceValue      `json:"totalPrice"`
	AddedAt     time.Time         `json:"addedAt"`
}

type ctProduct struct {
	ID             string       `json:"id"`
	Key            string       `json:"key,omitempty"`
	Version        int          `json:"version"`
	CreatedAt      time.Time    `json:"createdAt"`
	LastModifiedAt time.Time    `json:"lastModifiedAt"`
	MasterData     ctMasterData `json:"masterData"`
}

type ctMasterData struct {
	Current   ctProductData `json:"current"`
	Published bool          `json:"published"`
}

type ctProductData struct {
	Name          map[string]string `json:"name"`
	Description   map[string]string `json:"description,omitempty"`
	Slug          map[string]string `json:"slug,omitempty"`
	MasterVariant ctVariant         `json:"masterVariant"`
	Variants      []ctVariant       `json:"variants"`
	Categories    []ctRef           `json:"categories"`
}

type ctVariant struct {
	ID         int           `json:"id"`
	SKU        string        `json:"sku"`
	Prices     []ctPrice     `json:"prices"`
	Images     []ctImage     `json:"images"`
	Attributes []ctAttribute `json:"attributes"`
}

type ctAttribute struct {
	Name  string      `json:"name"`
	Value interface{} `json:"value"`
}

type ctPrice struct {
	ID         string        `json:"id,omitempty"`
	Value      ctPriceValue  `json:"value"`
	Discounted *ctDiscounted `json:"discounted,omitempty"`
}

type ctDiscounted struct {
	Value    ctPriceValue `json:"value"`
	Discount ctRef        `json:"discount"`
}

type ctPriceValue struct {
	Type           string `json:"type"`
	CurrencyCode   string `json:"currencyCode"`
	CentAmount     int64  `json:"centAmount"`
	FractionDigits int    `json:"fractionDigits"`
}

type ctImage struct {
	URL        string        `json:"url"`
	Label      string        `json:"label,omitempty"`
	Dimensions *ctDimensions `json:"dimensions,omitempty"`
}

type ctDimensions struct {
	W int `json:"w"`
	H int `json:"h"`
}

type ctRef struct {
	TypeID string `json:"typeId,omitempty"`
	ID     string `json:"id,omitempty"`
	Key    string `json:"key,omitempty"`
}

type ctCategory struct {
	ID        string            `json:"id"`
	Version   int               `json:"version"`
	Key       string            `json:"key,omitempty"`
	Name      map[string]string `json:"name"`
	Slug      map[string]string `json:"slug"`
	Parent    *ctRef            `json:"parent,omitempty"`
	Ancestors []ctRef           `json:"ancestors"`
	OrderHint string            `json:"orderHint"`
	CreatedAt time.Time         `json:"createdAt"`
}

type ctCustomer struct {
	ID                       string      `json:"id"`
	Version                  int         `json:"version"`
	Email                    string      `json:"email"`
	FirstName                string      `json:"firstName,omitempty"`
	LastName                 string      `json:"lastName,omitempty"`
	DateOfBirth              string      `json:"dateOfBirth,omitempty"`
	Addresses                []ctAddress `json:"addresses"`
	DefaultShippingAddressID string      `json:"defaultShippingAddressId,omitempty"`
	DefaultBillingAddressID  string      `json:"defaultBillingAddressId,omitempty"`
}

type ctAddress struct {
	ID         string `json:"id,omitempty"`
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	Country    string `json:"country,omitempty"`
	StreetName string `json:"streetName,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	City       string `json:"city,omitempty"`
}

type ctSignInResult struct {
	Customer ctCustomer `json:"customer"`
	Cart     *ctCart    `json:"cart,omitempty"`
}

type ctProject struct {
	Key        string   `json:"key"`
	Name       string   `json:"name"`
	Currencies []string `json:"currencies"`
}

type ctCartUpdate struct {
	Version int            `json:"version"`
	Actions []ctCartAction `json:"actions"`
}

type ctCartAction struct {
	Action     string `json:"action"`
	ProductID  string `json:"productId,omitempty"`
	VariantID  int    `json:"variantId,omitempty"`
	Quantity   int    `json:"quantity,omitempty"`
	LineItemID string `json:"lineItemId,omitempty"`
}

type ctCartDraft struct {
	Currency    string `json:"currency"`
	CustomerID  string `json:"customerId,omitempty"`
	AnonymousID string `json:"anonymousId,omitempty"`
}

type ctErrorResponse struct {
	StatusCode int           `json:"statusCode"`
	Message    string        `json:"message"`
	Errors     []ctErrorItem `json:"errors"`
}

type ctErrorItem struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ctToken struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
	TokenType   string `json:"token_type"`
}
