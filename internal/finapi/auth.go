package finapi

import (
	"context"
	"net/http"

	"github.com/lachiem1/fintrack/internal/model"
)

// Login calls POST /api/auth/login and returns the session token.
// A 401 here is a bad password, not an expired session.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (string, error) {
	return call[string](ctx, c, http.MethodPost, loginPath, nil, creds)
}

// Register calls POST /api/auth/register.
func (c *Client) Register(ctx context.Context, reg model.Registration) error {
	return c.exec(ctx, http.MethodPost, "/api/auth/register", reg)
}

// Me calls GET /api/auth/me.
func (c *Client) Me(ctx context.Context) (model.User, error) {
	return call[model.User](ctx, c, http.MethodGet, "/api/auth/me", nil, nil)
}
