package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// ==================== CooldownLimiter ====================

// CooldownLimiter enforces a minimum interval per key. Used to slow down the
// public submission endpoint and manual link-check triggers.
type CooldownLimiter struct {
	locks sync.Map // key -> *lockEntry
}

type lockEntry struct {
	lastTime time.Time
	mu       sync.Mutex
}

var globalLimiter = &CooldownLimiter{}

// GetLimiter returns the global limiter.
func GetLimiter() *CooldownLimiter {
	return globalLimiter
}

// CheckResult outcome of a limiter check.
type CheckResult struct {
	Allowed    bool
	RetryAfter time.Duration
}

// Check reports whether the key may run now and stamps it when allowed.
func (r *CooldownLimiter) Check(key string, interval time.Duration) CheckResult {
	actual, _ := r.locks.LoadOrStore(key, &lockEntry{})
	entry := actual.(*lockEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(entry.lastTime)
	if elapsed < interval {
		return CheckResult{Allowed: false, RetryAfter: interval - elapsed}
	}

	entry.lastTime = now
	return CheckResult{Allowed: true}
}

// Reset clears the cooldown for a key.
func (r *CooldownLimiter) Reset(key string) {
	r.locks.Delete(key)
}

// ==================== Gin middleware ====================

// SubmissionCooldown limits anonymous submissions per client IP. Authenticated
// callers are not throttled.
func SubmissionCooldown(interval time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserID(c) > 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("submit:%s", c.ClientIP())
		result := globalLimiter.Check(key, interval)
		if !result.Allowed {
			c.Header("Retry-After", fmt.Sprintf("%d", int(result.RetryAfter.Seconds())+1))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":    429,
				"message": "too many submissions, retry later",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
