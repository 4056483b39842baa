package commerce

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"storefront/internal/domain"
)

const tokenRefreshSkew = 30 * time.Second

// tokenSource caches a client-credentials access token. Fetches are serialized by mu.
type tokenSource struct {
	authURL      string
	clientID     string
	clientSecret string
	scopes       string
	http         *http.Client
	now          func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func (s *tokenSource) enabled() bool {
	return s.clientID != ""
}

func (s *tokenSource) Token(ctx context.Context) (string, error) {
	if !s.enabled() {
		return "", nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && s.now().Add(tokenRefreshSkew).Before(s.expiresAt) {
		return s.token, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	if s.scopes != "" {
		form.Set("scope", s.scopes)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.authURL+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", errors.Wrap(err, "build token request")
	}
	req.SetBasicAuth(s.clientID, s.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.http.Do(req)
	if err != nil {
		return "", transportError("oauth.token", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body ctErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&body)
		e := classifyStatus("oauth.token", resp.StatusCode, body)
		// Bad client credentials are an upstream outage from the shopper's point of view.
		e.Kind = domain.ErrNetwork
		return "", e
	}

	var tok ctToken
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", &Error{Kind: domain.ErrNetwork, Op: "oauth.token", Message: "decode token: " + err.Error()}
	}
	s.token = tok.AccessToken
	s.expiresAt = s.now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	return s.token, nil
}

// Invalidate drops the cached token so the next call fetches a fresh one.
func (s *tokenSource) Invalidate() {
	s.mu.Lock()
	s.token = ""
	s.expiresAt = time.Time{}
	s.mu.Unlock()
}
