package cart

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"storefront/internal/commerce"
	"storefront/internal/domain"
	"storefront/internal/repository/session"
)

// cartClient is the part of commerce.Client a session gateway needs.
type cartClient interface {
	GetCart(ctx context.Context, cartID string) (*domain.CartSnapshot, error)
	ActiveCartForCustomer(ctx context.Context, customerID string) (*domain.CartSnapshot, error)
	CreateCart(ctx context.Context, in commerce.CartDraft) (*domain.CartSnapshot, error)
	AddLineItem(ctx context.Context, cartID string, version int, in commerce.LineItemDraft) (*domain.CartSnapshot, error)
	RemoveLineItem(ctx context.Context, cartID string, version int, lineItemID string) (*domain.CartSnapshot, error)
}

// sessionGateway implements Gateway for one session's cart. It creates the
// upstream cart on first add and keeps the cart version for updates.
type sessionGateway struct {
	client   cartClient
	bindings session.Repository
	currency string
	logger   *zap.Logger

	mu      sync.Mutex
	binding session.Binding
	version int

	// bindMu orders binding writes against detach. It is held only around
	// the repository save, never across an upstream call.
	bindMu   sync.Mutex
	detached bool
}

func newSessionGateway(client cartClient, bindings session.Repository, currency string, b session.Binding, logger *zap.Logger) *sessionGateway {
	return &sessionGateway{
		client:   client,
		bindings: bindings,
		currency: currency,
		logger:   logger,
		binding:  b,
	}
}

func (g *sessionGateway) Binding() session.Binding {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.binding
}

func (g *sessionGateway) GetCart(ctx context.Context) (domain.CartSnapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var (
		snap *domain.CartSnapshot
		err  error
	)
	switch {
	case g.binding.CartID != "":
		snap, err = g.client.GetCart(ctx, g.binding.CartID)
	case g.binding.CustomerID != "":
		snap, err = g.client.ActiveCartForCustomer(ctx, g.binding.CustomerID)
	default:
		return domain.CartSnapshot{LineItems: []domain.LineItem{}}, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		if g.binding.CartID != "" {
			g.logger.Info("bound cart gone upstream, unbinding", zap.String("cartId", g.binding.CartID))
			g.version = 0
			if err := g.bindCart(ctx, ""); err != nil {
				return domain.CartSnapshot{}, err
			}
		}
		return domain.CartSnapshot{LineItems: []domain.LineItem{}}, nil
	}
	if err != nil {
		return domain.CartSnapshot{}, err
	}
	if err := g.accept(ctx, snap); err != nil {
		return domain.CartSnapshot{}, err
	}
	return *snap, nil
}

func (g *sessionGateway) AddLineItem(ctx context.Context, in AddLineItemInput) (domain.CartSnapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.binding.CartID == "" {
		owner := domain.CartOwner{CustomerID: in.CustomerID}
		if owner.CustomerID == "" {
			owner.CustomerID = g.binding.CustomerID
		}
		if owner.CustomerID == "" {
			owner.AnonymousID = g.binding.AnonymousID
		}
		created, err := g.client.CreateCart(ctx, commerce.CartDraft{Currency: g.currency, Owner: owner})
		if err != nil {
			return domain.CartSnapshot{}, err
		}
		if err := g.accept(ctx, created); err != nil {
			return domain.CartSnapshot{}, err
		}
	}

	snap, err := g.client.AddLineItem(ctx, g.binding.CartID, g.version, commerce.LineItemDraft{
		ProductID: in.ProductID,
		VariantID: in.VariantID,
		Quantity:  in.Quantity,
	})
	if err != nil {
		return domain.CartSnapshot{}, g.refreshOnConflict(ctx, err)
	}
	if err := g.accept(ctx, snap); err != nil {
		return domain.CartSnapshot{}, err
	}
	return *snap, nil
}

func (g *sessionGateway) RemoveLineItem(ctx context.Context, lineItemID string) (domain.CartSnapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.binding.CartID == "" {
		return domain.CartSnapshot{}, domain.ErrNotFound
	}
	snap, err := g.client.RemoveLineItem(ctx, g.binding.CartID, g.version, lineItemID)
	if err != nil {
		return domain.CartSnapshot{}, g.refreshOnConflict(ctx, err)
	}
	if err := g.accept(ctx, snap); err != nil {
		return domain.CartSnapshot{}, err
	}
	return *snap, nil
}

// accept records the cart version and persists a changed cart id. Callers hold g.mu.
func (g *sessionGateway) accept(ctx context.Context, snap *domain.CartSnapshot) error {
	g.version = snap.Version
	if snap.ID == g.binding.CartID {
		return nil
	}
	return g.bindCart(ctx, snap.ID)
}

func (g *sessionGateway) bindCart(ctx context.Context, cartID string) error {
	next := g.binding
	next.CartID = cartID

	g.bindMu.Lock()
	defer g.bindMu.Unlock()
	if !g.detached {
		if err := g.bindings.Save(ctx, next); err != nil {
			return err
		}
	}
	g.binding = next
	return nil
}

// detach stops the gateway from writing its binding. Sessions call it when
// the session is signed out or rebound, so a mutation still in flight on
// the old engine cannot resurrect or overwrite the stored binding.
func (g *sessionGateway) detach() {
	g.bindMu.Lock()
	g.detached = true
	g.bindMu.Unlock()
}

// refreshOnConflict re-reads the cart after a version conflict so the next
// attempt sends the current version. The fresh cart rides along in a
// staleCartError for the engine to commit. Callers hold g.mu.
func (g *sessionGateway) refreshOnConflict(ctx context.Context, err error) error {
	if !commerce.IsConcurrentModification(err) {
		return err
	}
	current, gerr := g.client.GetCart(ctx, g.binding.CartID)
	if gerr != nil {
		g.logger.Warn("cart refresh after conflict failed", zap.String("cartId", g.binding.CartID), zap.Error(gerr))
		return err
	}
	if aerr := g.accept(ctx, current); aerr != nil {
		g.logger.Warn("cart refresh after conflict not bound", zap.Error(aerr))
		return err
	}
	g.logger.Info("cart changed elsewhere, refreshed", zap.String("cartId", current.ID), zap.Int("version", current.Version))
	return &staleCartError{cause: err, current: *current}
}

// staleCartError is a rejected update together with the cart as it is now.
type staleCartError struct {
	cause   error
	current domain.CartSnapshot
}

func (e *staleCartError) Error() string {
	return e.cause.Error()
}

func (e *staleCartError) Unwrap() error {
	return e.cause
}
