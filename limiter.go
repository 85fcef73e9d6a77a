package netlifystats

import (
	"strconv"
	"sync"
	"time"
)

// RefreshLimiter is a per-IP sliding-window limiter for requests that hit
// the upstream API.
type RefreshLimiter struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	max    int
	window time.Duration

	stop     chan struct{}
	stopOnce sync.Once
}

// NewRefreshLimiter creates a RefreshLimiter that allows max requests per
// window. Call Stop to end its cleanup goroutine.
func NewRefreshLimiter(max int, window time.Duration) *RefreshLimiter {
	l := &RefreshLimiter{
		hits:   make(map[string][]time.Time),
		max:    max,
		window: window,
		stop:   make(chan struct{}),
	}
	go l.cleanup()
	return l
}

func (l *RefreshLimiter) cleanup() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case now := <-ticker.C:
			cutoff := now.Add(-l.window)
			l.mu.Lock()
			for ip, hits := range l.hits {
				kept := prune(hits, cutoff)
				if len(kept) == 0 {
					delete(l.hits, ip)
				} else {
					l.hits[ip] = kept
				}
			}
			l.mu.Unlock()
		}
	}
}

// Allow reports whether ip is under the limit and, if so, records the
// request.
func (l *RefreshLimiter) Allow(ip string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := prune(l.hits[ip], now.Add(-l.window))
	if len(kept) >= l.max {
		l.hits[ip] = kept
		return false
	}
	l.hits[ip] = append(kept, now)
	return true
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (l *RefreshLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *RefreshLimiter) tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.hits)
}

func prune(hits []time.Time, cutoff time.Time) []time.Time {
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

// retryAfter renders a window as a Retry-After value in whole seconds.
func retryAfter(window time.Duration) string {
	secs := int(window.Round(time.Second) / time.Second)
	return strconv.Itoa(max(secs, 1))
}
