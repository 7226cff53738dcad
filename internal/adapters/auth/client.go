// Package auth is the HTTP client for the external authentication
// service. The service is only ever consulted to turn an opaque client
// token into a display identity.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Dragon57t/GAME-ART/internal/app"
	"github.com/Dragon57t/GAME-ART/internal/domain"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Resolve asks the auth service for the identity behind a token.
// Unknown or expired tokens come back as app.ErrInvalidToken.
func (c *Client) Resolve(ctx context.Context, token string) (*domain.Identity, error) {
	u := fmt.Sprintf("%s/resolve?token=%s", c.baseURL, url.QueryEscape(token))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build resolve request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("resolve token: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return nil, app.ErrInvalidToken
	default:
		return nil, fmt.Errorf("auth service returned %d", resp.StatusCode)
	}

	var ident domain.Identity
	if err := json.NewDecoder(resp.Body).Decode(&ident); err != nil {
		return nil, fmt.Errorf("decode identity: %w", err)
	}
	if ident.UserID == "" {
		return nil, app.ErrInvalidToken
	}
	return &ident, nil
}
