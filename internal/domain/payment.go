package domain

import "time"

// PaymentStatus is the client-observed state of an externally processed
// mobile-money payment. The gateway never transitions a payment itself; it
// polls the upstream status endpoint until a terminal state appears.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentSuccess    PaymentStatus = "success"
	PaymentFailed     PaymentStatus = "failed"
	PaymentError      PaymentStatus = "error"
	PaymentCancelled  PaymentStatus = "cancelled"
)

func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch PaymentStatus(s) {
	case PaymentPending, PaymentProcessing, PaymentSuccess,
		PaymentFailed, PaymentError, PaymentCancelled:
		return PaymentStatus(s), true
	default:
		return "", false
	}
}

// Terminal reports whether no further transition is expected.
func (s PaymentStatus) Terminal() bool {
	switch s {
	case PaymentSuccess, PaymentFailed, PaymentError, PaymentCancelled:
		return true
	}
	return false
}

type Payment struct {
	ID        string        `json:"id"` // provider checkout reference
	Provider  string        `json:"provider"`
	Amount    float64       `json:"amount"`
	Phone     string        `json:"phone,omitempty"`
	Status    PaymentStatus `json:"status"`
	Reference string        `json:"reference,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

type PaymentRequest struct {
	Provider string  `json:"provider"` // mpesa|airtel|card
	Amount   float64 `json:"amount"`
	Phone    string  `json:"phone,omitempty"`
}
