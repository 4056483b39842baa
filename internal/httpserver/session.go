package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/domain"
	cartsvc "storefront/internal/service/cart"
)

const (
	sessionCookie = "sf_session"
	sessionHeader = "X-Session-ID"
	sessionCtxKey = "storefront.session"
)

type sessionManager interface {
	Create(ctx context.Context) (*cartsvc.Session, error)
	Open(ctx context.Context, id string) (*cartsvc.Session, error)
	SignIn(ctx context.Context, id, customerID string, cart *domain.CartSnapshot) (*cartsvc.Session, error)
	Close(ctx context.Context, id string) error
}

// sessionMiddleware resolves the shopper's session from the X-Session-ID
// header or the sf_session cookie, starting a new one when neither is known.
func sessionMiddleware(sessions sessionManager, ttl time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(sessionHeader))
		if id == "" {
			id, _ = c.Cookie(sessionCookie)
		}

		sess, err := sessions.Open(c.Request.Context(), id)
		if errors.Is(err, domain.ErrNotFound) {
			sess, err = sessions.Create(c.Request.Context())
		}
		if err != nil {
			logger.Error("session resolve failed", zap.Error(err))
			writeError(c, err)
			return
		}
		if sess.ID != id {
			setSessionCookie(c, sess.ID, ttl)
		}
		c.Header(sessionHeader, sess.ID)
		c.Set(sessionCtxKey, sess)
		c.Next()
	}
}

func setSessionCookie(c *gin.Context, id string, ttl time.Duration) {
	maxAge := int(ttl.Seconds())
	if id == "" {
		maxAge = -1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id, maxAge, "/", "", c.Request.TLS != nil, true)
}

func currentSession(c *gin.Context) *cartsvc.Session {
	return c.MustGet(sessionCtxKey).(*cartsvc.Session)
}
