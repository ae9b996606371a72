package marketapi

import (
	"context"
	"net/http"

	"makazi/internal/domain"
)

func (c *Client) Login(ctx context.Context, email, password string) (domain.AuthResult, error) {
	var out domain.AuthResult
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/users/login",
		body:   map[string]string{"email": email, "password": password},
	}, &out)
	return out, err
}

func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) (domain.AuthResult, error) {
	var out domain.AuthResult
	err := c.do(ctx, call{method: http.MethodPost, path: "/users/register", body: req}, &out)
	return out, err
}

// VerifyEmail completes registration; the upstream issues the bearer token
// on successful verification.
func (c *Client) VerifyEmail(ctx context.Context, email, code string) (domain.AuthResult, error) {
	var out domain.AuthResult
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/users/verify",
		body:   map[string]string{"email": email, "code": code},
	}, &out)
	return out, err
}

// PublicCounts hits the unauthenticated counts endpoint. Always public: a
// cached token must never be attached here.
func (c *Client) PublicCounts(ctx context.Context) (domain.SiteCounts, error) {
	var out domain.SiteCounts
	err := c.do(ctx, call{method: http.MethodGet, path: "/users/counts", public: true}, &out)
	return out, err
}
