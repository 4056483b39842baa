package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"go.uber.org/zap"

	"storefront/internal/commerce"
	"storefront/internal/domain"
	"storefront/internal/repository/session"
)

type fakeCommerce struct {
	mu      sync.Mutex
	carts   map[string]*domain.CartSnapshot
	nextID  int
	created []commerce.CartDraft
	addErr  error

	versions []int

	createGate    chan struct{}
	createStarted chan struct{}
}

func newFakeCommerce() *fakeCommerce {
	return &fakeCommerce{carts: map[string]*domain.CartSnapshot{}}
}

func (f *fakeCommerce) put(c domain.CartSnapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.carts[c.ID] = &c
}

func (f *fakeCommerce) GetCart(ctx context.Context, cartID string) (*domain.CartSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.carts[cartID]
	if !ok {
		return nil, &commerce.Error{Kind: domain.ErrNotFound, Op: "carts.get", StatusCode: 404}
	}
	out := c.Clone()
	return &out, nil
}

func (f *fakeCommerce) ActiveCartForCustomer(ctx context.Context, customerID string) (*domain.CartSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.carts {
		if c.CustomerID == customerID {
			out := c.Clone()
			return &out, nil
		}
	}
	return nil, &commerce.Error{Kind: domain.ErrNotFound, Op: "carts.active", StatusCode: 404}
}

// bump simulates a change made to the cart outside this session.
func (f *fakeCommerce) bump(cartID, productID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.carts[cartID]
	c.Version++
	c.LineItems = append(c.LineItems, domain.LineItem{ID: cartID + "-ext", ProductID: productID, VariantID: 1, Quantity: 1})
}

func (f *fakeCommerce) CreateCart(ctx context.Context, in commerce.CartDraft) (*domain.CartSnapshot, error) {
	f.mu.Lock()
	gate, started := f.createGate, f.createStarted
	f.mu.Unlock()
	if gate != nil {
		started <- struct{}{}
		<-gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.created = append(f.created, in)
	c := &domain.CartSnapshot{
		ID:          fmt.Sprintf("cart-%d", f.nextID),
		Version:     1,
		Currency:    in.Currency,
		CustomerID:  in.Owner.CustomerID,
		AnonymousID: in.Owner.AnonymousID,
		LineItems:   []domain.LineItem{},
	}
	f.carts[c.ID] = c
	out := c.Clone()
	return &out, nil
}

func (f *fakeCommerce) AddLineItem(ctx context.Context, cartID string, version int, in commerce.LineItemDraft) (*domain.CartSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.versions = append(f.versions, version)
	if f.addErr != nil {
		return nil, f.addErr
	}
	c, ok := f.carts[cartID]
	if !ok {
		return nil, &commerce.Error{Kind: domain.ErrNotFound, Op: "carts.addLineItem", StatusCode: 404}
	}
	if c.Version != version {
		return nil, &commerce.Error{Kind: domain.ErrValidation, Op: "carts.addLineItem", StatusCode: 409, Code: "ConcurrentModification"}
	}
	c.Version++
	c.LineItems = append(c.LineItems, domain.LineItem{
		ID:        fmt.Sprintf("%s-li-%d", cartID, len(c.LineItems)+1),
		ProductID: in.ProductID,
		VariantID: in.VariantID,
		Quantity:  in.Quantity,
	})
	out := c.Clone()
	return &out, nil
}

func (f *fakeCommerce) RemoveLineItem(ctx context.Context, cartID string, version int, lineItemID string) (*domain.CartSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.versions = append(f.versions, version)
	c, ok := f.carts[cartID]
	if !ok {
		return nil, &commerce.Error{Kind: domain.ErrNotFound, Op: "carts.removeLineItem", StatusCode: 404}
	}
	if c.Version != version {
		return nil, &commerce.Error{Kind: domain.ErrValidation, Op: "carts.removeLineItem", StatusCode: 409, Code: "ConcurrentModification"}
	}
	kept := make([]domain.LineItem, 0, len(c.LineItems))
	for _, li := range c.LineItems {
		if li.ID != lineItemID {
			kept = append(kept, li)
		}
	}
	c.LineItems = kept
	c.Version++
	out := c.Clone()
	return &out, nil
}

func TestGatewayCreatesCartOnFirstAdd(t *testing.T) {
	fc := newFakeCommerce()
	bindings := session.NewMemory(0)
	ctx := context.Background()
	b := session.Binding{SessionID: "s1", AnonymousID: "anon-1"}
	if err := bindings.Save(ctx, b); err != nil {
		t.Fatalf("save: %v", err)
	}
	gw := newSessionGateway(fc, bindings, "EUR", b, zap.NewNop())

	snap, err := gw.GetCart(ctx)
	if err != nil || !snap.IsEmpty() {
		t.Fatalf("expected empty cart without upstream call, got %+v %v", snap, err)
	}
	if len(fc.created) != 0 {
		t.Fatalf("get must not create a cart")
	}

	snap, err = gw.AddLineItem(ctx, AddLineItemInput{ProductID: "p1", VariantID: 1, Quantity: 1})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(fc.created) != 1 || fc.created[0].Owner.AnonymousID != "anon-1" || fc.created[0].Currency != "EUR" {
		t.Fatalf("unexpected cart draft %+v", fc.created)
	}
	if snap.ID != "cart-1" || len(snap.LineItems) != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	stored, _ := bindings.Get(ctx, "s1")
	if stored.CartID != "cart-1" {
		t.Fatalf("cart id not persisted: %+v", stored)
	}

	if _, err := gw.AddLineItem(ctx, AddLineItemInput{ProductID: "p2", VariantID: 1, Quantity: 1}); err != nil {
		t.Fatalf("second add: %v", err)
	}
	if len(fc.created) != 1 {
		t.Fatalf("second add created another cart")
	}
	if got := fc.versions; len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("updates did not track versions: %v", got)
	}
}

func TestGatewayCustomerOwnsNewCart(t *testing.T) {
	fc := newFakeCommerce()
	b := session.Binding{SessionID: "s1", AnonymousID: "anon-1"}
	gw := newSessionGateway(fc, session.NewMemory(0), "USD", b, zap.NewNop())

	if _, err := gw.AddLineItem(context.Background(), AddLineItemInput{ProductID: "p1", VariantID: 1, CustomerID: "cust-1"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	owner := fc.created[0].Owner
	if owner.CustomerID != "cust-1" || owner.AnonymousID != "" {
		t.Fatalf("unexpected owner %+v", owner)
	}
}

func TestGatewayUnbindsMissingCart(t *testing.T) {
	fc := newFakeCommerce()
	bindings := session.NewMemory(0)
	ctx := context.Background()
	b := session.Binding{SessionID: "s1", CartID: "gone"}
	_ = bindings.Save(ctx, b)
	gw := newSessionGateway(fc, bindings, "USD", b, zap.NewNop())

	snap, err := gw.GetCart(ctx)
	if err != nil || !snap.IsEmpty() {
		t.Fatalf("expected empty snapshot, got %+v %v", snap, err)
	}
	if gw.Binding().CartID != "" {
		t.Fatalf("cart id not cleared")
	}
	stored, _ := bindings.Get(ctx, "s1")
	if stored.CartID != "" {
		t.Fatalf("cleared cart id not persisted")
	}
}

func TestGatewayCustomerActiveCart(t *testing.T) {
	fc := newFakeCommerce()
	fc.put(domain.CartSnapshot{ID: "c9", Version: 4, CustomerID: "cust-1", LineItems: []domain.LineItem{{ID: "li", ProductID: "p1", Quantity: 1}}})
	b := session.Binding{SessionID: "s1", CustomerID: "cust-1"}
	gw := newSessionGateway(fc, session.NewMemory(0), "USD", b, zap.NewNop())

	snap, err := gw.GetCart(context.Background())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if snap.ID != "c9" || gw.Binding().CartID != "c9" {
		t.Fatalf("active cart not bound: %+v", snap)
	}
	if _, err := gw.RemoveLineItem(context.Background(), "li"); err != nil {
		t.Fatalf("remove with tracked version: %v", err)
	}
}

func TestGatewayRemoveWithoutCart(t *testing.T) {
	gw := newSessionGateway(newFakeCommerce(), session.NewMemory(0), "USD", session.Binding{SessionID: "s1"}, zap.NewNop())
	if _, err := gw.RemoveLineItem(context.Background(), "li"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGatewayRefreshesVersionAfterConflict(t *testing.T) {
	fc := newFakeCommerce()
	ctx := context.Background()
	gw := newSessionGateway(fc, session.NewMemory(0), "USD", session.Binding{SessionID: "s1", AnonymousID: "anon"}, zap.NewNop())

	if _, err := gw.AddLineItem(ctx, AddLineItemInput{ProductID: "p1", VariantID: 1, Quantity: 1}); err != nil {
		t.Fatalf("add p1: %v", err)
	}
	fc.bump("cart-1", "p9")

	_, err := gw.AddLineItem(ctx, AddLineItemInput{ProductID: "p2", VariantID: 1, Quantity: 1})
	if !errors.Is(err, domain.ErrValidation) || !commerce.IsConcurrentModification(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	var stale *staleCartError
	if !errors.As(err, &stale) {
		t.Fatalf("conflict did not carry the refreshed cart: %v", err)
	}
	if stale.current.Version != 3 || len(stale.current.LineItems) != 2 {
		t.Fatalf("unexpected refreshed cart %+v", stale.current)
	}

	snap, err := gw.AddLineItem(ctx, AddLineItemInput{ProductID: "p3", VariantID: 1, Quantity: 1})
	if err != nil {
		t.Fatalf("retry after conflict: %v", err)
	}
	if len(snap.LineItems) != 3 {
		t.Fatalf("unexpected cart after retry %+v", snap)
	}
	if got := fc.versions; len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("retry did not send the refreshed version: %v", got)
	}
}

func TestGatewayConflictOnRemoveRefreshes(t *testing.T) {
	fc := newFakeCommerce()
	fc.put(domain.CartSnapshot{ID: "c1", Version: 5, LineItems: []domain.LineItem{{ID: "li", ProductID: "p1", Quantity: 1}}})
	ctx := context.Background()
	gw := newSessionGateway(fc, session.NewMemory(0), "USD", session.Binding{SessionID: "s1", CartID: "c1"}, zap.NewNop())
	if _, err := gw.GetCart(ctx); err != nil {
		t.Fatalf("get: %v", err)
	}
	fc.bump("c1", "p9")

	if _, err := gw.RemoveLineItem(ctx, "li"); !commerce.IsConcurrentModification(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if _, err := gw.RemoveLineItem(ctx, "li"); err != nil {
		t.Fatalf("retry after conflict: %v", err)
	}
}
