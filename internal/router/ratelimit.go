package router

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Rate is a fixed-window budget such as "10/m".
type Rate struct {
	Limit  int
	Window time.Duration
}

// ParseRate parses "<count>/<s|m|h>". An empty string disables limiting.
func ParseRate(s string) (Rate, error) {
	if strings.TrimSpace(s) == "" {
		return Rate{}, nil
	}
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return Rate{}, fmt.Errorf("invalid rate limit format: %s", s)
	}

	limit, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || limit <= 0 {
		return Rate{}, fmt.Errorf("invalid rate limit count: %s", parts[0])
	}

	var window time.Duration
	switch strings.ToLower(strings.TrimSpace(parts[1])) {
	case "s":
		window = time.Second
	case "m":
		window = time.Minute
	case "h":
		window = time.Hour
	default:
		return Rate{}, fmt.Errorf("invalid rate limit duration unit: %s", parts[1])
	}
	return Rate{Limit: limit, Window: window}, nil
}

func (r Rate) Enabled() bool {
	return r.Limit > 0
}

type rateWindow struct {
	start    time.Time
	requests int
}

// RateLimiter counts inbound frames per connection.
type RateLimiter struct {
	rate    Rate
	mu      sync.Mutex
	windows map[uuid.UUID]*rateWindow
	now     func() time.Time
}

func NewRateLimiter(rate Rate) *RateLimiter {
	return &RateLimiter{
		rate:    rate,
		windows: make(map[uuid.UUID]*rateWindow),
		now:     time.Now,
	}
}

// Allow records one frame for connID and reports whether it fits the budget.
func (l *RateLimiter) Allow(connID uuid.UUID) bool {
	if !l.rate.Enabled() {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, found := l.windows[connID]
	if !found || now.Sub(w.start) >= l.rate.Window {
		l.windows[connID] = &rateWindow{start: now, requests: 1}
		return true
	}
	if w.requests < l.rate.Limit {
		w.requests++
		return true
	}
	return false
}

func (l *RateLimiter) Forget(connID uuid.UUID) {
	l.mu.Lock()
	delete(l.windows, connID)
	l.mu.Unlock()
}
