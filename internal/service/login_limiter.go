package service

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LoginLimiter maintains per-account rate limiters for login attempts and
// performs periodic cleanup of idle entries.
type LoginLimiter struct {
	mu              sync.Mutex
	limit           rate.Limit
	burst           int
	accounts        map[string]*accountEntry
	cleanupInterval time.Duration
	stopCh          chan struct{}
}

type accountEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLoginLimiter creates a limiter that admits a burst of maxAttempts per
// key, refilling at maxAttempts per minute.
func NewLoginLimiter(maxAttempts int) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	l := &LoginLimiter{
		limit:           rate.Every(time.Minute / time.Duration(maxAttempts)),
		burst:           maxAttempts,
		accounts:        map[string]*accountEntry{},
		cleanupInterval: 5 * time.Minute,
		stopCh:          make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

func (l *LoginLimiter) cleanupLoop() {
	ticker := time.NewTicker(l.cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-10 * time.Minute)
			l.mu.Lock()
			for key, entry := range l.accounts {
				if entry.lastSeen.Before(cutoff) {
					delete(l.accounts, key)
				}
			}
			l.mu.Unlock()
		case <-l.stopCh:
			return
		}
	}
}

// Stop stops the cleanup goroutine.
func (l *LoginLimiter) Stop() {
	close(l.stopCh)
}

func (l *LoginLimiter) getLimiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if entry, ok := l.accounts[key]; ok {
		entry.lastSeen = time.Now()
		return entry.limiter
	}
	limiter := rate.NewLimiter(l.limit, l.burst)
	l.accounts[key] = &accountEntry{limiter: limiter, lastSeen: time.Now()}
	return limiter
}

// Allow reports whether another attempt for the given key is permitted.
func (l *LoginLimiter) Allow(key string) bool {
	return l.getLimiter(key).Allow()
}
