package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"storefront/internal/domain"
)

type memoryEntry struct {
	binding   Binding
	expiresAt time.Time
}

type memoryRepo struct {
	mu       sync.RWMutex
	ttl      time.Duration
	now      func() time.Time
	bindings map[string]memoryEntry
}

// NewMemory keeps bindings in process. A zero ttl never expires them.
func NewMemory(ttl time.Duration) Repository {
	return &memoryRepo{
		ttl:      ttl,
		now:      time.Now,
		bindings: make(map[string]memoryEntry),
	}
}

func (r *memoryRepo) Get(ctx context.Context, sessionID string) (*Binding, error) {
	r.mu.RLock()
	e, ok := r.bindings[sessionID]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !e.expiresAt.IsZero() && r.now().After(e.expiresAt) {
		r.mu.Lock()
		delete(r.bindings, sessionID)
		r.mu.Unlock()
		return nil, domain.ErrNotFound
	}
	out := e.binding
	return &out, nil
}

func (r *memoryRepo) Save(ctx context.Context, b Binding) error {
	if strings.TrimSpace(b.SessionID) == "" {
		return domain.ErrInvalidInput
	}
	now := r.now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	e := memoryEntry{binding: b}
	if r.ttl > 0 {
		e.expiresAt = now.Add(r.ttl)
	}
	r.mu.Lock()
	r.bindings[b.SessionID] = e
	r.mu.Unlock()
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	delete(r.bindings, sessionID)
	r.mu.Unlock()
	return nil
}
