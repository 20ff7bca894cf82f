package services

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces successive upstream calls to stay under platform throttling.
type Pacer interface {
	Pause(ctx context.Context) error
}

// PacerFactory builds a fresh Pacer for a single collection run, so pacing
// state is never shared across requests.
type PacerFactory func() Pacer

type intervalPacer struct {
	limiter *rate.Limiter
}

// NewIntervalPacer returns a Pacer that blocks for one interval per Pause.
// A zero interval never blocks.
func NewIntervalPacer(interval time.Duration) Pacer {
	return &intervalPacer{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Pause blocks until an interval has elapsed since the previous Pause
// returned. Any token accrued while idle is dropped first, so a Pause after
// a long gap still waits the full interval.
func (p *intervalPacer) Pause(ctx context.Context) error {
	p.limiter.Allow()
	return p.limiter.Wait(ctx)
}
