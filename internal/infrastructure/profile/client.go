// Package profile is the HTTP client for the remote platform API: token
// verification and login-link requests. It is the only place the gateway
// calls out of process.
package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/moovefit/session-gateway/internal/core/domain"
	"github.com/moovefit/session-gateway/internal/core/ports"
)

const defaultTimeout = 5 * time.Second

// Client talks to the profile API over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient builds a Client for the given base URL. If timeout <= 0, a
// default of 5s is applied.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

var _ ports.ProfileClient = (*Client)(nil)

// FetchCurrentUser resolves a bearer token to its user via GET /auth/me.
// A 401/403 answer maps to domain.ErrTokenRejected; the returned user is
// structurally validated before it is handed to the session layer.
func (c *Client) FetchCurrentUser(ctx context.Context, token string) (*domain.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/me", nil)
	if err != nil {
		return nil, fmt.Errorf("fetch current user: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch current user: %w", err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		return nil, domain.ErrTokenRejected
	case res.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fetch current user: unexpected status %d", res.StatusCode)
	}

	var user domain.User
	if err := json.NewDecoder(res.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("fetch current user: decode: %w", err)
	}
	if err := domain.ValidateUser(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// RequestLoginLink asks the platform to mail a login link via
// POST /auth/magic-link. The gateway never sees the mailed credential; a token
// only enters a session after FetchCurrentUser accepts it.
func (c *Client) RequestLoginLink(ctx context.Context, email string) (*ports.LoginLinkResult, error) {
	body, err := json.Marshal(map[string]string{"email": email})
	if err != nil {
		return nil, fmt.Errorf("request login link: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/magic-link", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request login link: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request login link: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusAccepted {
		return nil, fmt.Errorf("request login link: unexpected status %d", res.StatusCode)
	}

	var result ports.LoginLinkResult
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("request login link: decode: %w", err)
	}
	return &result, nil
}
