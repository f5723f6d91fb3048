// Package quota enforces the per-client daily upload allowance.
package quota

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Window is the period the allowance refills over.
const Window = 24 * time.Hour

type client struct {
	limiter *rate.Limiter
	seen    time.Time
}

// Limiter is a set of token buckets keyed by client address. Each bucket holds
// perWindow tokens and refills one token every Window/perWindow.
type Limiter struct {
	mu sync.Mutex

	limit rate.Limit
	burst int
	now   func() time.Time

	clients   map[string]*client
	lastSweep time.Time
}

// New returns a limiter allowing perWindow uploads per Window.
func New(perWindow int) *Limiter {
	perWindow = max(perWindow, 1)
	return &Limiter{
		limit:   rate.Every(Window / time.Duration(perWindow)),
		burst:   perWindow,
		now:     time.Now,
		clients: map[string]*client{},
	}
}

// Allow takes one token from key's bucket.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	return l.get(key, now).limiter.AllowN(now, 1)
}

// Remaining reports how many uploads key has left right now.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.clients[key]
	if !ok {
		return l.burst
	}
	return int(c.limiter.TokensAt(l.now()))
}

// Len is the number of tracked clients.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

func (l *Limiter) get(key string, now time.Time) *client {
	l.sweepLocked(now)

	c, ok := l.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.seen = now
	return c
}

// sweepLocked drops clients idle for a whole window. Their buckets would be
// full again, so a fresh limiter is equivalent.
func (l *Limiter) sweepLocked(now time.Time) {
	if now.Sub(l.lastSweep) < time.Hour {
		return
	}
	l.lastSweep = now
	for key, c := range l.clients {
		if now.Sub(c.seen) >= Window {
			delete(l.clients, key)
		}
	}
}
