package payment

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"campfind/internal/adapters/observability"
	"campfind/internal/domain"
)

// ErrDeclined is returned when the simulated processor rejects a charge.
var ErrDeclined = errors.New("payment: declined")

// Simulator is a stand-in payment processor: it waits a fixed delay, then succeeds
// with probability SuccessRate. There is no external signal behind the outcome.
type Simulator struct {
	delay       time.Duration
	successRate float64
	roll        func() float64
}

type Option func(*Simulator)

// WithRoll replaces the random source; roll must return values in [0,1).
func WithRoll(roll func() float64) Option { return func(s *Simulator) { s.roll = roll } }

func NewSimulator(delay time.Duration, successRate float64, opts ...Option) *Simulator {
	if successRate < 0 {
		successRate = 0
	}
	if successRate > 1 {
		successRate = 1
	}
	s := &Simulator{delay: delay, successRate: successRate, roll: rand.Float64}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Simulator) Charge(ctx context.Context, c domain.Charge) error {
	start := time.Now()
	method := string(c.Payment.Type)
	if !sleepCtx(ctx, s.delay) {
		return ctx.Err()
	}
	if s.roll() < s.successRate {
		observability.ObservePayment(method, "confirmed", time.Since(start))
		return nil
	}
	observability.ObservePayment(method, "failed", time.Since(start))
	return ErrDeclined
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
