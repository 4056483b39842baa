package session

import (
	"context"
	"time"
)

// Binding ties a browser session to the upstream identities its cart belongs to.
type Binding struct {
	SessionID   string    `json:"sessionId"`
	AnonymousID string    `json:"anonymousId,omitempty"`
	CustomerID  string    `json:"customerId,omitempty"`
	CartID      string    `json:"cartId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Repository interface {
	Get(ctx context.Context, sessionID string) (*Binding, error)
	Save(ctx context.Context, b Binding) error
	Delete(ctx context.Context, sessionID string) error
}
