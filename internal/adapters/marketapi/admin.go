package marketapi

import (
	"context"
	"fmt"
	"net/http"

	"makazi/internal/domain"
)

// Admin namespace. These mirror the public endpoints with elevated scope; the
// upstream enforces the actual authorization, the gateway only forwards the
// caller's token.

func (c *Client) AdminListUsers(ctx context.Context, token string) ([]domain.User, error) {
	var out []domain.User
	err := c.do(ctx, call{method: http.MethodGet, path: "/admin/users", token: token}, &out)
	return out, err
}

func (c *Client) AdminVerifyUser(ctx context.Context, token string, id int64) (domain.User, error) {
	var out domain.User
	err := c.do(ctx, call{method: http.MethodPost, path: fmt.Sprintf("/admin/users/%d/verify", id), token: token}, &out)
	return out, err
}

func (c *Client) AdminDeleteUser(ctx context.Context, token string, id int64) error {
	return c.do(ctx, call{method: http.MethodDelete, path: fmt.Sprintf("/admin/users/%d", id), token: token}, nil)
}

func (c *Client) AdminListProperties(ctx context.Context, token string, q domain.PropertyQuery) (domain.PropertyPage, error) {
	vals, err := queryValues(q)
	if err != nil {
		return domain.PropertyPage{}, err
	}
	var out domain.PropertyPage
	err = c.do(ctx, call{method: http.MethodGet, path: "/admin/properties", query: vals, token: token}, &out)
	return out, err
}

// Moderation: approve/reject a pending listing.
func (c *Client) AdminApproveProperty(ctx context.Context, token string, id int64) (domain.Property, error) {
	return c.adminModerate(ctx, token, id, "approve")
}

func (c *Client) AdminRejectProperty(ctx context.Context, token string, id int64) (domain.Property, error) {
	return c.adminModerate(ctx, token, id, "reject")
}

func (c *Client) adminModerate(ctx context.Context, token string, id int64, action string) (domain.Property, error) {
	var out domain.Property
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   fmt.Sprintf("/admin/properties/%d/%s", id, action),
		token:  token,
	}, &out)
	return out, err
}

func (c *Client) AdminListBookings(ctx context.Context, token string) ([]domain.Booking, error) {
	var out []domain.Booking
	err := c.do(ctx, call{method: http.MethodGet, path: "/admin/bookings", token: token}, &out)
	return out, err
}

func (c *Client) AdminListPayments(ctx context.Context, token string) ([]domain.Payment, error) {
	var out []domain.Payment
	err := c.do(ctx, call{method: http.MethodGet, path: "/admin/payments", token: token}, &out)
	return out, err
}

func (c *Client) AdminCreateCategory(ctx context.Context, token string, name string) (domain.Category, error) {
	var out domain.Category
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/admin/categories",
		body:   map[string]string{"name": name},
		token:  token,
	}, &out)
	return out, err
}

func (c *Client) AdminUpdateCategory(ctx context.Context, token string, id int64, name string) (domain.Category, error) {
	var out domain.Category
	err := c.do(ctx, call{
		method: http.MethodPut,
		path:   fmt.Sprintf("/admin/categories/%d", id),
		body:   map[string]string{"name": name},
		token:  token,
	}, &out)
	return out, err
}

func (c *Client) AdminDeleteCategory(ctx context.Context, token string, id int64) error {
	return c.do(ctx, call{method: http.MethodDelete, path: fmt.Sprintf("/admin/categories/%d", id), token: token}, nil)
}
