package cart

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/repository/session"
)

// Session is one shopper's cart engine together with its upstream binding.
type Session struct {
	ID      string
	Cart    *Service
	gateway *sessionGateway

	lastUsed time.Time
}

// Binding returns the current session binding.
func (s *Session) Binding() session.Binding {
	return s.gateway.Binding()
}

// Customer returns the signed-in customer, or nil for anonymous sessions.
func (s *Session) Customer() *domain.Customer {
	id := s.gateway.Binding().CustomerID
	if id == "" {
		return nil
	}
	return &domain.Customer{ID: id}
}

type SessionsOptions struct {
	Currency        string
	MutationTimeout time.Duration
	Logger          *zap.Logger
}

// Sessions owns the per-session engines. Each session gets its own Store; there is no shared cart.
type Sessions struct {
	client   cartClient
	bindings session.Repository
	currency string
	timeout  time.Duration
	logger   *zap.Logger
	now      func() time.Time

	mu      sync.Mutex
	entries map[string]*Session
}

func NewSessions(client cartClient, bindings session.Repository, opts SessionsOptions) *Sessions {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	currency := strings.TrimSpace(opts.Currency)
	if currency == "" {
		currency = "USD"
	}
	return &Sessions{
		client:   client,
		bindings: bindings,
		currency: currency,
		timeout:  opts.MutationTimeout,
		logger:   logger,
		now:      time.Now,
		entries:  make(map[string]*Session),
	}
}

// Create starts an anonymous session with an empty cart.
func (m *Sessions) Create(ctx context.Context) (*Session, error) {
	b := session.Binding{
		SessionID:   uuid.NewString(),
		AnonymousID: uuid.NewString(),
	}
	if err := m.bindings.Save(ctx, b); err != nil {
		return nil, err
	}
	sess := m.newSession(b)
	m.mu.Lock()
	m.entries[b.SessionID] = sess
	m.mu.Unlock()
	m.logger.Debug("session created", zap.String("sessionId", b.SessionID))
	return sess, nil
}

// Open returns the live session for id, loading and hydrating it from its
// stored binding when this process has not seen it yet. Unknown ids yield ErrNotFound.
func (m *Sessions) Open(ctx context.Context, id string) (*Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrNotFound
	}
	m.mu.Lock()
	if sess, ok := m.entries[id]; ok {
		sess.lastUsed = m.now()
		m.mu.Unlock()
		return sess, nil
	}
	m.mu.Unlock()

	b, err := m.bindings.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if sess, ok := m.entries[id]; ok {
		sess.lastUsed = m.now()
		m.mu.Unlock()
		return sess, nil
	}
	sess := m.newSession(*b)
	m.entries[id] = sess
	m.mu.Unlock()

	m.hydrate(ctx, sess)
	return sess, nil
}

// SignIn rebinds the session to a customer and the cart the platform merged
// the anonymous cart into. The previous engine is discarded.
func (m *Sessions) SignIn(ctx context.Context, id, customerID string, cart *domain.CartSnapshot) (*Session, error) {
	b, err := m.bindings.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	m.detach(id)
	b.CustomerID = customerID
	b.AnonymousID = ""
	b.CartID = ""
	if cart != nil {
		b.CartID = cart.ID
	}
	if err := m.bindings.Save(ctx, *b); err != nil {
		return nil, err
	}

	sess := m.newSession(*b)
	m.mu.Lock()
	m.entries[id] = sess
	m.mu.Unlock()

	m.hydrate(ctx, sess)
	m.logger.Info("session signed in", zap.String("sessionId", id), zap.String("customerId", customerID))
	return sess, nil
}

// Close tears the session down on sign-out.
func (m *Sessions) Close(ctx context.Context, id string) error {
	m.detach(id)
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return m.bindings.Delete(ctx, id)
}

// detach cuts the live engine for id off from the binding store. Its
// in-flight mutation may finish but can no longer write the binding.
func (m *Sessions) detach(id string) {
	m.mu.Lock()
	sess, ok := m.entries[id]
	m.mu.Unlock()
	if ok {
		sess.gateway.detach()
	}
}

// Sweep drops in-process engines idle for longer than idle. Bindings stay
// stored, so a returning shopper is rehydrated by Open.
func (m *Sessions) Sweep(idle time.Duration) int {
	cutoff := m.now().Add(-idle)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, sess := range m.entries {
		if sess.lastUsed.Before(cutoff) && !sess.Cart.State().Pending {
			delete(m.entries, id)
			n++
		}
	}
	return n
}

// Len reports the number of live engines.
func (m *Sessions) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Sessions) newSession(b session.Binding) *Session {
	logger := m.logger.With(zap.String("sessionId", b.SessionID))
	gw := newSessionGateway(m.client, m.bindings, m.currency, b, logger)
	return &Session{
		ID:       b.SessionID,
		Cart:     New(gw, logger, m.timeout),
		gateway:  gw,
		lastUsed: m.now(),
	}
}

func (m *Sessions) hydrate(ctx context.Context, sess *Session) {
	if err := sess.Cart.Hydrate(ctx); err != nil && !errors.Is(err, domain.ErrBusy) {
		m.logger.Warn("session hydrate failed", zap.String("sessionId", sess.ID), zap.Error(err))
	}
}
