package marketapi

import (
	"context"
	"fmt"
	"net/http"

	"makazi/internal/domain"
)

func (c *Client) CreateBooking(ctx context.Context, token string, d domain.BookingDraft) (domain.Booking, error) {
	var out domain.Booking
	err := c.do(ctx, call{method: http.MethodPost, path: "/bookings", body: d, token: token}, &out)
	return out, err
}

func (c *Client) ListBookings(ctx context.Context, token string) ([]domain.Booking, error) {
	var out []domain.Booking
	err := c.do(ctx, call{method: http.MethodGet, path: "/bookings", token: token}, &out)
	return out, err
}

func (c *Client) ConfirmBooking(ctx context.Context, token string, id int64) (domain.Booking, error) {
	return c.bookingAction(ctx, token, id, "confirm")
}

func (c *Client) DeclineBooking(ctx context.Context, token string, id int64) (domain.Booking, error) {
	return c.bookingAction(ctx, token, id, "decline")
}

func (c *Client) CancelBooking(ctx context.Context, token string, id int64) (domain.Booking, error) {
	return c.bookingAction(ctx, token, id, "cancel")
}

// bookingAction requests a server-side state transition; the returned booking
// is the server's post-transition view, never a locally mutated copy.
func (c *Client) bookingAction(ctx context.Context, token string, id int64, action string) (domain.Booking, error) {
	var out domain.Booking
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   fmt.Sprintf("/bookings/%d/%s", id, action),
		token:  token,
	}, &out)
	return out, err
}
