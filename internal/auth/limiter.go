// Package auth implements password hashing, session tokens and the login
// rate limiter.
package auth

import (
	"sync"
	"time"
)

// AttemptLimiter tracks failed login attempts per client.
type AttemptLimiter interface {
	// Allow reports whether the client may attempt a login.
	Allow(key string) bool

	// Failure records a failed login for the client.
	Failure(key string)

	// Reset forgets all failures for the client.
	Reset(key string)
}

// MemoryLimiter is a process-local AttemptLimiter. State is lost on restart,
// which also unlocks all clients.
type MemoryLimiter struct {
	mutex    sync.Mutex
	attempts map[string]attempt

	maxFailures int
	lockout     time.Duration
}

type attempt struct {
	failures int
	last     time.Time
}

// NewMemoryLimiter returns a limiter that locks a client out for the lockout
// duration after maxFailures consecutive failed attempts.
func NewMemoryLimiter(maxFailures int, lockout time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		attempts:    make(map[string]attempt),
		maxFailures: maxFailures,
		lockout:     lockout,
	}
}

func (l *MemoryLimiter) Allow(key string) bool {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	a, ok := l.attempts[key]
	if !ok || a.failures < l.maxFailures {
		return true
	}

	if time.Since(a.last) >= l.lockout {
		delete(l.attempts, key)
		return true
	}

	return false
}

func (l *MemoryLimiter) Failure(key string) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	a := l.attempts[key]

	// Failures older than the lockout window do not count anymore
	if !a.last.IsZero() && time.Since(a.last) >= l.lockout {
		a.failures = 0
	}

	a.failures++
	a.last = time.Now()
	l.attempts[key] = a
}

func (l *MemoryLimiter) Reset(key string) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	delete(l.attempts, key)
}
