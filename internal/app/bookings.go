package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"makazi/internal/domain"
)

// ErrAuthRequired is returned before any network call when a booking action
// is attempted without a stored token. The message is user-facing.
var ErrAuthRequired = errors.New("Authentication required. Please login again.")

type BookingService struct {
	api domain.BookingAPI
	log zerolog.Logger
}

func NewBookingService(api domain.BookingAPI, log zerolog.Logger) *BookingService {
	return &BookingService{api: api, log: log}
}

// API exposes the upstream port for composed reads such as the dashboard.
func (b *BookingService) API() domain.BookingAPI { return b.api }

func (b *BookingService) Create(ctx context.Context, token string, d domain.BookingDraft) (domain.Booking, error) {
	if token == "" {
		return domain.Booking{}, ErrAuthRequired
	}
	return b.api.CreateBooking(ctx, token, d)
}

func (b *BookingService) List(ctx context.Context, token string) ([]domain.Booking, error) {
	if token == "" {
		return nil, ErrAuthRequired
	}
	return b.api.ListBookings(ctx, token)
}

// The action methods request server-side transitions; the server's view is
// returned as-is and the UI re-renders from it.

func (b *BookingService) Confirm(ctx context.Context, token string, id int64) (domain.Booking, error) {
	if token == "" {
		return domain.Booking{}, ErrAuthRequired
	}
	return b.api.ConfirmBooking(ctx, token, id)
}

func (b *BookingService) Decline(ctx context.Context, token string, id int64) (domain.Booking, error) {
	if token == "" {
		return domain.Booking{}, ErrAuthRequired
	}
	return b.api.DeclineBooking(ctx, token, id)
}

func (b *BookingService) Cancel(ctx context.Context, token string, id int64) (domain.Booking, error) {
	if token == "" {
		return domain.Booking{}, ErrAuthRequired
	}
	return b.api.CancelBooking(ctx, token, id)
}
