package domain

import (
	"context"
	"io"
)

// Upstream API ports, split per concern so services depend on the slice they
// use and tests fake only that slice.

type AuthAPI interface {
	Login(ctx context.Context, email, password string) (AuthResult, error)
	Register(ctx context.Context, req RegisterRequest) (AuthResult, error)
	VerifyEmail(ctx context.Context, email, code string) (AuthResult, error)
	PublicCounts(ctx context.Context) (SiteCounts, error)
}

type CatalogAPI interface {
	ListProperties(ctx context.Context, token string, q PropertyQuery) (PropertyPage, error)
	GetProperty(ctx context.Context, token string, id int64) (Property, error)
	CreateProperty(ctx context.Context, token string, d PropertyDraft) (Property, error)
	UpdateProperty(ctx context.Context, token string, id int64, d PropertyDraft) (Property, error)
	DeleteProperty(ctx context.Context, token string, id int64) error
	UploadPropertyMedia(ctx context.Context, token string, id int64, filename string, r io.Reader) ([]string, error)
	ListCategories(ctx context.Context) ([]Category, error)
	ListReviews(ctx context.Context, propertyID int64) ([]Review, error)
	CreateReview(ctx context.Context, token string, d ReviewDraft) (Review, error)
	ListFavorites(ctx context.Context, token string) ([]Favorite, error)
	AddFavorite(ctx context.Context, token string, propertyID int64) (Favorite, error)
	RemoveFavorite(ctx context.Context, token string, favoriteID int64) error
	CreateInquiry(ctx context.Context, token string, d InquiryDraft) (Inquiry, error)
}

type BookingAPI interface {
	CreateBooking(ctx context.Context, token string, d BookingDraft) (Booking, error)
	ListBookings(ctx context.Context, token string) ([]Booking, error)
	ConfirmBooking(ctx context.Context, token string, id int64) (Booking, error)
	DeclineBooking(ctx context.Context, token string, id int64) (Booking, error)
	CancelBooking(ctx context.Context, token string, id int64) (Booking, error)
}

// AdminAPI covers the moderation endpoints. Every call still carries the
// caller's token; role enforcement happens server-side.
type AdminAPI interface {
	AdminListUsers(ctx context.Context, token string) ([]User, error)
	AdminVerifyUser(ctx context.Context, token string, id int64) (User, error)
	AdminDeleteUser(ctx context.Context, token string, id int64) error
	AdminListProperties(ctx context.Context, token string, q PropertyQuery) (PropertyPage, error)
	AdminApproveProperty(ctx context.Context, token string, id int64) (Property, error)
	AdminRejectProperty(ctx context.Context, token string, id int64) (Property, error)
	AdminListBookings(ctx context.Context, token string) ([]Booking, error)
	AdminListPayments(ctx context.Context, token string) ([]Payment, error)
	AdminCreateCategory(ctx context.Context, token string, name string) (Category, error)
	AdminUpdateCategory(ctx context.Context, token string, id int64, name string) (Category, error)
	AdminDeleteCategory(ctx context.Context, token string, id int64) error
}

type PaymentAPI interface {
	InitiatePayment(ctx context.Context, token string, req PaymentRequest) (Payment, error)
	PaymentStatus(ctx context.Context, token, id string) (Payment, error)
}

// SessionStore abstracts the token/user persistence the browser tier kept in
// local storage. Implementations must be safe for concurrent use.
type SessionStore interface {
	SaveSession(ctx context.Context, s Session) error
	GetSession(ctx context.Context, token string) (Session, bool, error)
	ClearSession(ctx context.Context, token string) error

	SetLanguage(ctx context.Context, token, lang string) error
	Language(ctx context.Context, token string) (string, error)

	// Site-wide CMS text fields edited from the admin screens.
	SetPageContent(ctx context.Context, key, text string) error
	PageContent(ctx context.Context, key string) (string, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
