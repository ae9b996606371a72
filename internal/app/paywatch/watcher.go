// Package paywatch discovers when externally processed mobile-money payments
// reach a terminal state. Payments transition server-side; the watcher polls
// the status endpoint at a fixed interval per payment and reacts exactly once
// when a terminal state appears.
//
// Deliberate gaps, kept from the system this replaces: there is no poll cap
// or backoff (a payment stuck pending polls until Close), and staged bookings
// live only in memory. A restart loses them; Close logs each loss instead of
// silently dropping or silently persisting them.
package paywatch

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"makazi/internal/adapters/observability"
	"makazi/internal/domain"
)

// StatusFetcher is the slice of the upstream API the watcher polls.
type StatusFetcher interface {
	PaymentStatus(ctx context.Context, token, id string) (domain.Payment, error)
}

// BookingCreator finalizes a staged booking after a successful payment.
type BookingCreator interface {
	CreateBooking(ctx context.Context, token string, d domain.BookingDraft) (domain.Booking, error)
}

// ContactSupportMessage is surfaced when a payment cleared but the deferred
// booking could not be created. The payment is not rolled back and the
// booking is not retried.
const ContactSupportMessage = "Your payment was received but the booking could not be created. Please contact support."

// Outcome is delivered to the terminal callback once per watched payment.
type Outcome struct {
	PaymentID string
	Status    domain.PaymentStatus
	Booking   *domain.Booking // set when a staged booking was created
	Message   string          // non-empty when something needs user attention
}

type poll struct {
	id     string
	token  string
	staged *domain.BookingDraft
	stop   chan struct{}
	once   sync.Once

	mu   sync.Mutex
	last domain.PaymentStatus
}

func (p *poll) setLast(s domain.PaymentStatus) {
	p.mu.Lock()
	p.last = s
	p.mu.Unlock()
}

func (p *poll) lastStatus() domain.PaymentStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

type Watcher struct {
	api      StatusFetcher
	bookings BookingCreator
	clock    Clock
	interval time.Duration
	onTerm   func(Outcome)
	log      zerolog.Logger

	mu     sync.Mutex
	polls  map[string]*poll
	closed bool
	wg     sync.WaitGroup
}

// New builds a Watcher. onTerminal may be nil; when set it is called exactly
// once per payment, after any staged-booking finalization.
func New(api StatusFetcher, bookings BookingCreator, clock Clock, interval time.Duration, onTerminal func(Outcome), log zerolog.Logger) *Watcher {
	if clock == nil {
		clock = SystemClock
	}
	if interval <= 0 {
		interval = 3 * time.Second
	}
	return &Watcher{
		api:      api,
		bookings: bookings,
		clock:    clock,
		interval: interval,
		onTerm:   onTerminal,
		log:      log,
		polls:    make(map[string]*poll),
	}
}

// Watch begins polling paymentID. It reports false when the payment is
// already being watched (re-entrant starts are no-ops) or the watcher is
// closed. staged, when non-nil, is the booking to create if the payment
// succeeds.
func (w *Watcher) Watch(paymentID, token string, staged *domain.BookingDraft) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return false
	}
	if _, active := w.polls[paymentID]; active {
		return false
	}
	p := &poll{
		id:     paymentID,
		token:  token,
		staged: staged,
		stop:   make(chan struct{}),
		last:   domain.PaymentPending,
	}
	w.polls[paymentID] = p
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run(p)
	}()
	return true
}

// Watching reports whether paymentID has an active poll.
func (w *Watcher) Watching(paymentID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.polls[paymentID]
	return ok
}

// Last returns the most recently observed status for an actively watched
// payment.
func (w *Watcher) Last(paymentID string) (domain.PaymentStatus, bool) {
	w.mu.Lock()
	p, ok := w.polls[paymentID]
	w.mu.Unlock()
	if !ok {
		return "", false
	}
	return p.lastStatus(), true
}

func (w *Watcher) run(p *poll) {
	t := w.clock.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-p.stop:
			return
		case <-t.Chan():
			pay, err := w.api.PaymentStatus(context.Background(), p.token, p.id)
			if err != nil {
				// transient failure: the next tick tries again
				w.log.Warn().Str("payment_id", p.id).Err(err).Msg("payment status poll failed")
				observability.ObservePaymentPoll("fetch_error")
				continue
			}
			observability.ObservePaymentPoll(string(pay.Status))
			p.setLast(pay.Status)
			if pay.Status.Terminal() {
				w.finalize(p, pay.Status)
				return
			}
		}
	}
}

// finalize runs once per watched payment: drop the association first so a
// re-Watch of the same ID is possible, then react to the terminal state.
func (w *Watcher) finalize(p *poll, status domain.PaymentStatus) {
	w.mu.Lock()
	delete(w.polls, p.id)
	w.mu.Unlock()

	out := Outcome{PaymentID: p.id, Status: status}
	booked := "no"

	if status == domain.PaymentSuccess && p.staged != nil {
		b, err := w.bookings.CreateBooking(context.Background(), p.token, *p.staged)
		if err != nil {
			w.log.Error().Str("payment_id", p.id).Err(err).
				Msg("payment succeeded but staged booking creation failed")
			out.Message = ContactSupportMessage
			booked = "failed"
		} else {
			out.Booking = &b
			booked = "yes"
		}
	}

	observability.ObservePaymentOutcome(string(status), booked)
	w.log.Info().Str("payment_id", p.id).Str("status", string(status)).
		Str("booked", booked).Msg("payment reached terminal state")

	if w.onTerm != nil {
		w.onTerm(out)
	}
}

// Close stops every active poll and waits for them to unwind. Staged bookings
// that never reached a terminal state are lost; each one is logged so the
// loss is visible in operations, since nothing persists them across restarts.
func (w *Watcher) Close() {
	w.mu.Lock()
	w.closed = true
	remaining := make([]*poll, 0, len(w.polls))
	for _, p := range w.polls {
		remaining = append(remaining, p)
	}
	w.mu.Unlock()

	for _, p := range remaining {
		p.once.Do(func() { close(p.stop) })
	}
	w.wg.Wait()

	w.mu.Lock()
	defer w.mu.Unlock()
	for id, p := range w.polls {
		if p.staged != nil {
			w.log.Warn().Str("payment_id", id).Int64("property_id", p.staged.PropertyID).
				Msg("shutdown with staged booking still pending; booking is lost")
		}
		delete(w.polls, id)
	}
}
