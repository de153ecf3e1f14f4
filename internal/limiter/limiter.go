// Package limiter provides named concurrency pools for outbound API calls.
//
// Each upstream service gets one pool: the pool bounds how many calls are
// in flight at once, and can additionally enforce a minimum spacing between
// call starts for providers with hard requests-per-second caps. Queued
// callers are admitted in submission order; the pool itself never fails a
// call — only the wrapped function's error is returned.
package limiter

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pool bounds concurrent calls to a single upstream service.
type Pool struct {
	name string
	sem  chan struct{}
	gate *rate.Limiter
}

// New creates a pool allowing at most maxInFlight concurrent calls.
func New(name string, maxInFlight int) *Pool {
	if maxInFlight < 1 {
		maxInFlight = 1
	}
	return &Pool{
		name: name,
		sem:  make(chan struct{}, maxInFlight),
	}
}

// WithMinInterval enforces a fixed minimum delay between call starts,
// independent of the concurrency bound. Zero or negative disables the gate.
func (p *Pool) WithMinInterval(d time.Duration) *Pool {
	if d > 0 {
		p.gate = rate.NewLimiter(rate.Every(d), 1)
	}
	return p
}

// Name returns the pool name, used in log lines.
func (p *Pool) Name() string { return p.name }

// Do runs fn once an in-flight slot is free and any per-call spacing has
// elapsed. The slot is released on every return path, including panics in
// fn. fn's error is passed through untouched.
func (p *Pool) Do(ctx context.Context, fn func(context.Context) error) error {
	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-p.sem }()

	if p.gate != nil {
		if err := p.gate.Wait(ctx); err != nil {
			return err
		}
	}
	return fn(ctx)
}
