package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"makazi/internal/app/paywatch"
	"makazi/internal/domain"
	"makazi/internal/format"
)

// Provider minimums, validated before any request leaves the gateway. Mobile
// money providers reject sub-minimum amounts late and expensively; the source
// UI disabled the pay button instead, and this is the server-side analog.
var defaultMinimums = map[string]float64{
	"mpesa":  1000,
	"airtel": 500,
	"card":   100,
}

type PaymentService struct {
	api      domain.PaymentAPI
	watcher  *paywatch.Watcher
	minimums map[string]float64
	log      zerolog.Logger
}

func NewPaymentService(api domain.PaymentAPI, watcher *paywatch.Watcher, minimums map[string]float64, log zerolog.Logger) *PaymentService {
	if minimums == nil {
		minimums = defaultMinimums
	}
	return &PaymentService{api: api, watcher: watcher, minimums: minimums, log: log}
}

// Initiate validates locally, fires the upstream initiation, and registers
// the payment with the watcher. staged, when non-nil, is the booking payload
// captured from the initiation request; it is created only if the payment
// later reaches success.
func (p *PaymentService) Initiate(ctx context.Context, token string, req domain.PaymentRequest, staged *domain.BookingDraft) (domain.Payment, error) {
	if token == "" {
		return domain.Payment{}, ErrAuthRequired
	}
	min, ok := p.minimums[req.Provider]
	if !ok {
		return domain.Payment{}, fmt.Errorf("unsupported payment provider %q", req.Provider)
	}
	if req.Amount < min {
		return domain.Payment{}, fmt.Errorf("minimum amount for %s is %s", req.Provider, format.Price(min))
	}
	if req.Provider != "card" && req.Phone == "" {
		return domain.Payment{}, fmt.Errorf("phone number is required for %s payments", req.Provider)
	}

	pay, err := p.api.InitiatePayment(ctx, token, req)
	if err != nil {
		return domain.Payment{}, err
	}

	if !p.watcher.Watch(pay.ID, token, staged) {
		// already watched: the earlier poll (and its staged booking) stands
		p.log.Warn().Str("payment_id", pay.ID).Msg("payment already being watched")
	}
	return pay, nil
}

// Status prefers the watcher's last observation for actively watched
// payments and falls back to a direct upstream fetch otherwise.
func (p *PaymentService) Status(ctx context.Context, token, id string) (domain.Payment, error) {
	if token == "" {
		return domain.Payment{}, ErrAuthRequired
	}
	if last, ok := p.watcher.Last(id); ok {
		return domain.Payment{ID: id, Status: last}, nil
	}
	return p.api.PaymentStatus(ctx, token, id)
}
