package commerce

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"storefront/internal/domain"
)

// CartDraft describes a cart to create upstream.
type CartDraft struct {
	Currency string
	Owner    domain.CartOwner
}

// LineItemDraft describes a line item to add.
type LineItemDraft struct {
	ProductID string
	VariantID int
	Quantity  int
}

func (c *Client) GetCart(ctx context.Context, cartID string) (*domain.CartSnapshot, error) {
	var out ctCart
	if err := c.do(ctx, "carts.get", http.MethodGet, "/carts/"+url.PathEscape(cartID), nil, nil, &out); err != nil {
		return nil, err
	}
	snap := toSnapshot(out)
	return &snap, nil
}

// ActiveCartForCustomer returns the customer's most recent active cart.
func (c *Client) ActiveCartForCustomer(ctx context.Context, customerID string) (*domain.CartSnapshot, error) {
	var out ctCart
	if err := c.do(ctx, "carts.active", http.MethodGet, "/carts/customer-id="+url.PathEscape(customerID), nil, nil, &out); err != nil {
		return nil, err
	}
	snap := toSnapshot(out)
	return &snap, nil
}

func (c *Client) CreateCart(ctx context.Context, in CartDraft) (*domain.CartSnapshot, error) {
	currency := strings.TrimSpace(in.Currency)
	if currency == "" {
		return nil, &Error{Kind: domain.ErrValidation, Op: "carts.create", Message: "currency required"}
	}
	draft := ctCartDraft{
		Currency:    currency,
		CustomerID:  in.Owner.CustomerID,
		AnonymousID: in.Owner.AnonymousID,
	}
	if draft.CustomerID != "" {
		draft.AnonymousID = ""
	}
	var out ctCart
	if err := c.do(ctx, "carts.create", http.MethodPost, "/carts", nil, draft, &out); err != nil {
		return nil, err
	}
	snap := toSnapshot(out)
	return &snap, nil
}

func (c *Client) AddLineItem(ctx context.Context, cartID string, version int, in LineItemDraft) (*domain.CartSnapshot, error) {
	qty := in.Quantity
	if qty <= 0 {
		qty = 1
	}
	return c.updateCart(ctx, "carts.addLineItem", cartID, version, ctCartAction{
		Action:    "addLineItem",
		ProductID: in.ProductID,
		VariantID: in.VariantID,
		Quantity:  qty,
	})
}

func (c *Client) RemoveLineItem(ctx context.Context, cartID string, version int, lineItemID string) (*domain.CartSnapshot, error) {
	return c.updateCart(ctx, "carts.removeLineItem", cartID, version, ctCartAction{
		Action:     "removeLineItem",
		LineItemID: lineItemID,
	})
}

func (c *Client) updateCart(ctx context.Context, op, cartID string, version int, actions ...ctCartAction) (*domain.CartSnapshot, error) {
	var out ctCart
	body := ctCartUpdate{Version: version, Actions: actions}
	if err := c.do(ctx, op, http.MethodPost, "/carts/"+url.PathEscape(cartID), nil, body, &out); err != nil {
		return nil, err
	}
	snap := toSnapshot(out)
	return &snap, nil
}
