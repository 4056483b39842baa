// Package commerce is the HTTP client for the upstream commerce platform API.
package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"storefront/internal/domain"
)

// Options configures a Client.
type Options struct {
	APIURL       string
	AuthURL      string
	ProjectKey   string
	ClientID     string
	ClientSecret string
	Scopes       string
	Timeout      time.Duration
	HTTPClient   *http.Client
	Logger       *zap.Logger
}

// Client talks to a commercetools-style project API.
type Client struct {
	baseURL    string
	projectKey string
	http       *http.Client
	tokens     *tokenSource
	logger     *zap.Logger
	tracer     trace.Tracer
}

// New builds a Client. A missing HTTPClient gets one with Options.Timeout.
func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.APIURL, "/"),
		projectKey: opts.ProjectKey,
		http:       httpClient,
		tokens: &tokenSource{
			authURL:      strings.TrimRight(opts.AuthURL, "/"),
			clientID:     opts.ClientID,
			clientSecret: opts.ClientSecret,
			scopes:       opts.Scopes,
			http:         httpClient,
			now:          time.Now,
		},
		logger: logger.Named("commerce"),
		tracer: otel.Tracer("storefront/internal/commerce"),
	}
}

// ProjectKey returns the project this client is scoped to.
func (c *Client) ProjectKey() string {
	return c.projectKey
}

// do sends one request to /{projectKey}{path} and decodes a 2xx body into out.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out interface{}) error {
	ctx, span := c.tracer.Start(ctx, "commerce."+op, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("commerce.project", c.projectKey),
	)

	err := c.send(ctx, op, method, path, query, body, out)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Debug("request failed", zap.String("op", op), zap.Error(err))
	}
	return err
}

func (c *Client) send(ctx context.Context, op, method, path string, query url.Values, body, out interface{}) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	target := c.baseURL + "/" + url.PathEscape(c.projectKey) + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "commerce %s: encode body", op)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return errors.Wrapf(err, "commerce %s: build request", op)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return transportError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusUnauthorized {
			c.tokens.Invalidate()
		}
		var errBody ctErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		return classifyStatus(op, resp.StatusCode, errBody)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: domain.ErrNetwork, Op: op, StatusCode: resp.StatusCode, Message: "decode response: " + err.Error()}
	}
	return nil
}

func transportError(op string, err error) error {
	kind := domain.ErrNetwork
	msg := "request failed"
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = domain.ErrTimeout
		msg = "request timed out"
	} else if errors.Is(err, context.Canceled) {
		return errors.Wrapf(err, "commerce %s", op)
	}
	return &Error{Kind: kind, Op: op, Message: msg + ": " + err.Error()}
}
