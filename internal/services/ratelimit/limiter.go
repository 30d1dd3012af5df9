// Package ratelimit provides sliding-window admission control per
// (connection, event kind). It protects the event dispatcher from chatty
// clients; the transport layer carries its own coarser flood guard.
package ratelimit

import (
	"sync"
	"time"

	"github.com/partypop/partypop/internal/dependencies/clock"
	"github.com/partypop/partypop/internal/model"
)

// Config holds the window parameters.
type Config struct {
	Limit  int
	Window time.Duration
}

// DefaultConfig allows 8 events of a kind per 10 seconds per connection.
func DefaultConfig() Config {
	return Config{
		Limit:  8,
		Window: 10 * time.Second,
	}
}

type key struct {
	client model.ClientID
	kind   string
}

// Limiter tracks recent event timestamps per (connection, kind). It has its
// own lock and is never held together with a room lock.
type Limiter struct {
	mu    sync.Mutex
	clock clock.Clock
	cfg   Config
	hits  map[key][]time.Time
}

// New creates a limiter.
func New(clk clock.Clock, cfg Config) *Limiter {
	return &Limiter{
		clock: clk,
		cfg:   cfg,
		hits:  map[key][]time.Time{},
	}
}

// Allow admits the event if fewer than Limit events of this kind happened
// within the window, and records it.
func (l *Limiter) Allow(client model.ClientID, kind string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	cutoff := now.Add(-l.cfg.Window)
	k := key{client: client, kind: kind}

	recent := l.hits[k][:0]
	for _, t := range l.hits[k] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= l.cfg.Limit {
		l.hits[k] = recent
		return false
	}
	l.hits[k] = append(recent, now)
	return true
}

// Forget drops all state for a connection; called on disconnect.
func (l *Limiter) Forget(client model.ClientID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for k := range l.hits {
		if k.client == client {
			delete(l.hits, k)
		}
	}
}
