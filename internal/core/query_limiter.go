package core

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrTooManyQueries is returned when every query slot stays busy for the
// whole wait window.
var ErrTooManyQueries = errors.New("too many concurrent queries, please try again later")

const (
	// DefaultMaxConcurrentQueries bounds parallel database reads.
	DefaultMaxConcurrentQueries = 4

	// DefaultQueryWait is how long a caller waits for a free slot.
	DefaultQueryWait = 5 * time.Second
)

// QueryLimiter is a semaphore in front of the connection pool. Count and
// schema-check requests share it so a burst of API calls cannot take every
// pooled connection.
type QueryLimiter struct {
	slots   chan struct{}
	maxWait time.Duration
	active  atomic.Int64
}

// NewQueryLimiter allows at most maxConcurrent queries in flight.
// Non-positive arguments select the defaults.
func NewQueryLimiter(maxConcurrent int, maxWait time.Duration) *QueryLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentQueries
	}
	if maxWait <= 0 {
		maxWait = DefaultQueryWait
	}
	return &QueryLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire takes a slot. The caller must Release it (use defer).
func (l *QueryLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrTooManyQueries
	}
}

// Release returns a slot taken by Acquire.
func (l *QueryLimiter) Release() {
	l.active.Add(-1)
	<-l.slots
}

// QueryLimiterStatus is a point-in-time view of the limiter.
type QueryLimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status reports slot usage.
func (l *QueryLimiter) Status() QueryLimiterStatus {
	return QueryLimiterStatus{
		Active:        int(l.active.Load()),
		Available:     cap(l.slots) - len(l.slots),
		MaxConcurrent: cap(l.slots),
	}
}

// WaitForDrain blocks until no query holds a slot or ctx ends.
func (l *QueryLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for l.active.Load() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}
