// Package ratelimit provides a sliding-window request limiter for the
// parsing endpoints exposed to untrusted input.
package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultPerMinute is the per-minute request cap.
	DefaultPerMinute = 20
	// DefaultPerHour is the per-hour request cap.
	DefaultPerHour = 100
)

// Limiter enforces both a per-minute and a per-hour cap over a sliding
// window of recorded calls. It is safe for concurrent use.
type Limiter struct {
	perMinute int
	perHour   int

	mu      sync.Mutex
	history []time.Time
	now     func() time.Time
}

// NewLimiter creates a limiter with the given caps. Non-positive caps fall
// back to the defaults.
func NewLimiter(perMinute, perHour int) *Limiter {
	if perMinute <= 0 {
		perMinute = DefaultPerMinute
	}

	if perHour <= 0 {
		perHour = DefaultPerHour
	}

	return &Limiter{
		perMinute: perMinute,
		perHour:   perHour,
		now:       time.Now,
	}
}

// Allow records one call if neither cap is exceeded, and returns an error
// otherwise. A rejected call is not recorded.
func (l *Limiter) Allow() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	minuteAgo := now.Add(-time.Minute)
	hourAgo := now.Add(-time.Hour)

	kept := l.history[:0]
	for _, t := range l.history {
		if t.After(hourAgo) {
			kept = append(kept, t)
		}
	}
	l.history = kept

	lastMinute := 0
	for _, t := range l.history {
		if t.After(minuteAgo) {
			lastMinute++
		}
	}

	if lastMinute >= l.perMinute {
		return fmt.Errorf("rate limit exceeded: maximum %d calls per minute, please wait before trying again", l.perMinute)
	}

	if len(l.history) >= l.perHour {
		return fmt.Errorf("rate limit exceeded: maximum %d calls per hour, please wait before trying again", l.perHour)
	}

	l.history = append(l.history, now)

	return nil
}
