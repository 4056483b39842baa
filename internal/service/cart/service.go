package cart

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"storefront/internal/domain"
)

// DefaultMutationTimeout bounds a single gateway call made by the Service.
const DefaultMutationTimeout = 10 * time.Second

// Gateway is the remote cart API the Service reconciles against.
type Gateway interface {
	GetCart(ctx context.Context) (domain.CartSnapshot, error)
	AddLineItem(ctx context.Context, in AddLineItemInput) (domain.CartSnapshot, error)
	RemoveLineItem(ctx context.Context, lineItemID string) (domain.CartSnapshot, error)
}

// AddLineItemInput is the gateway add request. CustomerID owns the cart when one must be created.
type AddLineItemInput struct {
	ProductID  string
	VariantID  int
	Quantity   int
	CustomerID string
}

// MutationState is what the product card reads to disable buttons and show failures.
type MutationState struct {
	Pending   bool   `json:"pending"`
	LastError string `json:"lastError,omitempty"`
}

// Service keeps one session's Store consistent with the gateway and admits
// at most one cart mutation at a time.
type Service struct {
	gateway Gateway
	store   *Store
	logger  *zap.Logger
	timeout time.Duration

	pending atomic.Bool

	mu      sync.Mutex
	lastErr error
}

func New(gateway Gateway, logger *zap.Logger, timeout time.Duration) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultMutationTimeout
	}
	return &Service{
		gateway: gateway,
		store:   NewStore(),
		logger:  logger,
		timeout: timeout,
	}
}

// Store exposes the read side. Only the Service replaces its contents.
func (s *Service) Store() *Store {
	return s.store
}

func (s *Service) Snapshot() domain.CartSnapshot {
	return s.store.Snapshot()
}

func (s *Service) IsMember(productID string) bool {
	return s.store.IsMember(productID)
}

func (s *Service) Membership(productID string) domain.Membership {
	return s.store.Membership(productID)
}

func (s *Service) State() MutationState {
	st := MutationState{Pending: s.pending.Load()}
	s.mu.Lock()
	if s.lastErr != nil {
		st.LastError = UserMessage(s.lastErr)
	}
	s.mu.Unlock()
	return st
}

// LastError returns the failure of the most recent attempt that reached the gateway.
func (s *Service) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Hydrate loads the gateway's current cart into the store.
func (s *Service) Hydrate(ctx context.Context) error {
	if !s.pending.CompareAndSwap(false, true) {
		return domain.ErrBusy
	}
	defer s.pending.Store(false)

	snap, err := s.call(ctx, func(ctx context.Context) (domain.CartSnapshot, error) {
		return s.gateway.GetCart(ctx)
	})
	if err != nil {
		s.logger.Warn("cart hydrate failed", zap.Error(err))
		return err
	}
	s.store.Replace(snap)
	return nil
}

// AddProductToCart adds one unit of the product variant. It returns ErrBusy
// without contacting the gateway when another mutation is in flight.
func (s *Service) AddProductToCart(ctx context.Context, productID string, variantID int, customer *domain.Customer) error {
	productID = strings.TrimSpace(productID)
	if productID == "" || variantID < 1 {
		return domain.ErrInvalidInput
	}
	if !s.pending.CompareAndSwap(false, true) {
		s.logger.Debug("add rejected, mutation in flight", zap.String("productId", productID))
		return domain.ErrBusy
	}
	defer s.pending.Store(false)
	s.setLastError(nil)

	in := AddLineItemInput{ProductID: productID, VariantID: variantID, Quantity: 1}
	if customer != nil {
		in.CustomerID = customer.ID
	}
	snap, err := s.call(ctx, func(ctx context.Context) (domain.CartSnapshot, error) {
		return s.gateway.AddLineItem(ctx, in)
	})
	if err != nil {
		s.fail("add line item failed", productID, err)
		return err
	}
	s.store.Replace(snap)
	return nil
}

// RemoveProductFromCart removes the first line item carrying productID.
// It returns ErrNotInCart without contacting the gateway when there is none.
func (s *Service) RemoveProductFromCart(ctx context.Context, productID string) error {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return domain.ErrInvalidInput
	}
	if !s.pending.CompareAndSwap(false, true) {
		s.logger.Debug("remove rejected, mutation in flight", zap.String("productId", productID))
		return domain.ErrBusy
	}
	defer s.pending.Store(false)

	li, ok := s.store.LineItemFor(productID)
	if !ok {
		s.logger.Debug("remove skipped, product not in cart", zap.String("productId", productID))
		return domain.ErrNotInCart
	}
	s.setLastError(nil)

	snap, err := s.call(ctx, func(ctx context.Context) (domain.CartSnapshot, error) {
		return s.gateway.RemoveLineItem(ctx, li.ID)
	})
	if err != nil {
		s.fail("remove line item failed", productID, err)
		return err
	}
	s.store.Replace(snap)
	return nil
}

func (s *Service) call(ctx context.Context, fn func(context.Context) (domain.CartSnapshot, error)) (domain.CartSnapshot, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	snap, err := fn(callCtx)
	if err == nil {
		return snap, nil
	}
	if errors.Is(callCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, domain.ErrTimeout) {
		err = &timeoutError{cause: err}
	}
	return domain.CartSnapshot{}, err
}

// fail records a rejected mutation. A conflict carries the cart as the
// gateway re-read it, which replaces the store so a re-click starts from
// the current cart.
func (s *Service) fail(msg, productID string, err error) {
	s.setLastError(err)
	s.logger.Warn(msg, zap.String("productId", productID), zap.Error(err))
	var stale *staleCartError
	if errors.As(err, &stale) {
		s.store.Replace(stale.current)
	}
}

func (s *Service) setLastError(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

type timeoutError struct {
	cause error
}

func (e *timeoutError) Error() string {
	return domain.ErrTimeout.Error() + ": " + e.cause.Error()
}

func (e *timeoutError) UserMessage() string {
	return "The store took too long to respond. Please try again."
}

func (e *timeoutError) Unwrap() []error {
	return []error{domain.ErrTimeout, e.cause}
}

type userMessager interface {
	UserMessage() string
}

// UserMessage renders err for shoppers. Gateway errors carry their own text.
func UserMessage(err error) string {
	var um userMessager
	if errors.As(err, &um) {
		return um.UserMessage()
	}
	switch {
	case errors.Is(err, domain.ErrTimeout):
		return "The store took too long to respond. Please try again."
	case errors.Is(err, domain.ErrValidation):
		return "The request was rejected by the store."
	case errors.Is(err, domain.ErrNotFound):
		return "The requested item no longer exists."
	default:
		return "The store is temporarily unavailable. Please try again."
	}
}
