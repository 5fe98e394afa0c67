// Package keycloak provides a typed client for the Keycloak Admin REST API.
//
// The root package holds the authenticated transport and the pieces shared by
// every resource API: the error taxonomy, the create-response handling, and
// the role representation. Resource-specific operations live in the client,
// user, and realm subpackages, each of which is a thin orchestration over one
// shared *Client.
package keycloak

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/derhornspieler/keycloak-admin/internal/metrics"
)

const defaultTimeout = 30 * time.Second

// Config holds the connection settings for a Keycloak server.
type Config struct {
	// URL is the server base URL, e.g. "https://id.example.com".
	URL string
	// Realm is the realm all realm-scoped requests are issued against.
	Realm string
	// ClientID and ClientSecret identify the service account used for the
	// client-credentials grant.
	ClientID     string
	ClientSecret string
	// AuthRealm is the realm the token endpoint belongs to. Defaults to
	// Realm; set it to "master" when the admin service account lives there.
	AuthRealm string
	// Timeout bounds each HTTP request. Defaults to 30s.
	Timeout time.Duration
}

// Client is the authenticated transport against the admin API. It holds no
// per-call state and is safe to share across the resource APIs for
// sequential use.
type Client struct {
	rest   *resty.Client
	tokens oauth2.TokenSource
	realm  string
	logger *zap.Logger
}

// Option customizes a Client created by New.
type Option func(*Client)

// WithTokenSource replaces the default client-credentials token source.
// Token caching and refresh are the source's responsibility.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// New creates a client for the admin API of cfg.Realm. A nil logger is
// replaced by a no-op logger.
func New(cfg Config, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	authRealm := cfg.AuthRealm
	if authRealm == "" {
		authRealm = cfg.Realm
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	base := strings.TrimSuffix(cfg.URL, "/")
	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     fmt.Sprintf("%s/auth/realms/%s/protocol/openid-connect/token", base, authRealm),
	}

	c := &Client{
		rest: resty.New().
			SetBaseURL(base + "/auth/admin/realms").
			SetTimeout(timeout).
			SetRetryCount(0),
		tokens: cc.TokenSource(context.Background()),
		realm:  cfg.Realm,
		logger: logger.Named("keycloak"),
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Realm returns the realm this client is scoped to.
func (c *Client) Realm() string {
	return c.realm
}

// Response is the decoded-enough view of an admin API response: resource
// APIs unmarshal Body themselves, and create calls read the Location header.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Send issues a request against the configured realm. The path is relative
// to the realm root, e.g. "users/1234" or "" for the realm itself.
func (c *Client) Send(ctx context.Context, method, path string, body any, headers map[string]string) (*Response, error) {
	uri := c.realm
	if path != "" {
		uri = c.realm + "/" + path
	}
	return c.SendRealmless(ctx, method, uri, body, headers)
}

// SendRealmless issues a request relative to the admin root (admin/realms).
// An empty path addresses the admin root itself, which is where realms are
// created.
func (c *Client) SendRealmless(ctx context.Context, method, path string, body any, headers map[string]string) (*Response, error) {
	tok, err := c.tokens.Token()
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues(method, "credentials").Inc()
		return nil, &CredentialsError{Err: err}
	}

	req := c.rest.R().
		SetContext(ctx).
		SetAuthToken(tok.AccessToken).
		SetHeader("X-Request-ID", requestID())
	for k, v := range headers {
		req.SetHeader(k, v)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json")
		req.SetBody(body)
	}

	if path != "" {
		path = "/" + path
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	duration := time.Since(start)
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues(method, "transport").Inc()
		return nil, &RequestError{Message: err.Error(), Err: err}
	}

	metrics.RequestsTotal.WithLabelValues(method, strconv.Itoa(resp.StatusCode())).Inc()
	metrics.RequestDuration.WithLabelValues(method).Observe(duration.Seconds())

	c.logger.Debug("admin request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("duration", duration),
	)

	if resp.IsError() {
		metrics.ErrorsTotal.WithLabelValues(method, "http").Inc()
		return nil, &RequestError{
			Status:  resp.StatusCode(),
			Message: resp.Status(),
			Body:    resp.Body(),
		}
	}

	return &Response{
		Status: resp.StatusCode(),
		Header: resp.Header(),
		Body:   resp.Body(),
	}, nil
}

func requestID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
