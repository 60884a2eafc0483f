package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"securelogin/internal/ratelimit"
)

type LimitRule struct {
	Scope  string
	Window time.Duration
	Max    int64
	// RefundSuccess gives the slot back when the request ends below 400,
	// so only failed attempts burn the budget.
	RefundSuccess bool
	Message       string
	RetryAfter    string
}

func APILimiter(store ratelimit.CounterStore) gin.HandlerFunc {
	return RateLimit(store, LimitRule{
		Scope:      "api",
		Window:     15 * time.Minute,
		Max:        100,
		Message:    "Too many requests from this IP, please try again later.",
		RetryAfter: "15 minutes",
	})
}

func AuthLimiter(store ratelimit.CounterStore) gin.HandlerFunc {
	return RateLimit(store, LimitRule{
		Scope:         "auth",
		Window:        15 * time.Minute,
		Max:           5,
		RefundSuccess: true,
		Message:       "Too many login attempts from this IP, please try again in 15 minutes.",
		RetryAfter:    "15 minutes",
	})
}

func TwoFALimiter(store ratelimit.CounterStore) gin.HandlerFunc {
	return RateLimit(store, LimitRule{
		Scope:      "2fa",
		Window:     5 * time.Minute,
		Max:        10,
		Message:    "Too many 2FA attempts from this IP, please try again in 5 minutes.",
		RetryAfter: "5 minutes",
	})
}

// RateLimit keys the rule's counter by client IP. A store failure fails
// open: losing throttling for a moment beats locking everyone out of login.
func RateLimit(store ratelimit.CounterStore, rule LimitRule) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rule.Scope + ":" + c.ClientIP()

		count, err := store.Increment(c.Request.Context(), key, rule.Window)
		if err != nil {
			log.Printf("[ratelimit][%s] store error, allowing request: %v", rule.Scope, err)
			c.Next()
			return
		}
		if count > rule.Max {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":      "too_many_requests",
				"message":    rule.Message,
				"retryAfter": rule.RetryAfter,
			})
			return
		}

		c.Next()

		if rule.RefundSuccess && c.Writer.Status() < http.StatusBadRequest {
			if err := store.Decrement(c.Request.Context(), key); err != nil {
				log.Printf("[ratelimit][%s] refund failed for %s: %v", rule.Scope, key, err)
			}
		}
	}
}
