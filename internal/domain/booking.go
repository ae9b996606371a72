package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingDeclined  BookingStatus = "declined"
	BookingCancelled BookingStatus = "cancelled"
)

func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case BookingPending, BookingConfirmed, BookingDeclined, BookingCancelled:
		return BookingStatus(s), true
	default:
		return "", false
	}
}

type Booking struct {
	ID           int64         `json:"id"`
	PropertyID   int64         `json:"property_id"`
	UserID       int64         `json:"user_id,omitempty"`
	Status       BookingStatus `json:"status"`
	StartDate    string        `json:"start_date"` // YYYY-MM-DD, server-validated
	EndDate      string        `json:"end_date"`
	DurationType string        `json:"duration_type,omitempty"` // day|month
	Amount       float64       `json:"amount"`
	CreatedAt    time.Time     `json:"created_at"`
}

// BookingDraft is the payload for booking creation. When a payment gates the
// booking, the draft is captured at payment initiation and held in memory
// until the payment reaches a terminal state (a "staged" booking).
type BookingDraft struct {
	PropertyID   int64   `json:"property_id"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	DurationType string  `json:"duration_type,omitempty"`
	Amount       float64 `json:"amount"`
}
