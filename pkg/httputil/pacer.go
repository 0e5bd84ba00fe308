package httputil

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces requests so that consecutive sends are between min and max
// apart, picked at random per send. A request that arrives after the gap has
// already elapsed goes out immediately.
//
// The schedule lives in a single-token rate.Limiter refilling once per min.
// Each send is booked at its final, jittered time, so concurrent callers
// queue behind each other instead of drawing offsets from the same instant.
type Pacer struct {
	min, max time.Duration

	mu   sync.Mutex
	lim  *rate.Limiter
	next time.Time // send time of the latest booking
	now  func() time.Time
}

// NewPacer creates a Pacer with the window [lo, hi].
// A zero lo disables pacing. An hi below lo is raised to lo.
func NewPacer(lo, hi time.Duration) *Pacer {
	p := &Pacer{min: lo, max: max(hi, lo), now: time.Now}
	if lo > 0 {
		p.lim = rate.NewLimiter(rate.Every(lo), 1)
	}
	return p
}

// Wait blocks until the next request may be sent.
// The first call never blocks.
func (p *Pacer) Wait(ctx context.Context) error {
	d := p.reserve()
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// reserve books the next send and returns how long the caller must wait.
func (p *Pacer) reserve() time.Duration {
	if p == nil || p.lim == nil {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	from := now
	if p.next.After(from) {
		from = p.next
	}
	at := from
	if p.lim.TokensAt(from) < 1 {
		at = p.next.Add(p.min + p.extra())
	}
	p.lim.ReserveN(at, 1)
	p.next = at
	return at.Sub(now)
}

// extra draws uniformly from [0, max-min].
func (p *Pacer) extra() time.Duration {
	spread := p.max - p.min
	if spread <= 0 {
		return 0
	}
	return time.Duration(rand.Int64N(int64(spread) + 1))
}
