package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"board-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"

	limiterIdleTTL = 10 * time.Minute
)

// ErrorHandler renders errors attached with c.Error by handlers that did not write a response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		utils.SendAppError(c, c.Errors.Last().Err)
	}
}

// RequestID tags every request with an id, reusing one supplied by the client or a proxy.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client key.
type RateLimiter struct {
	visitors  map[string]*visitor
	mutex     sync.Mutex
	rate      rate.Limit
	burst     int
	lastSweep time.Time
}

func NewRateLimiter(requestsPerMinute int, burst int) *RateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		visitors:  make(map[string]*visitor),
		rate:      rate.Every(time.Minute / time.Duration(requestsPerMinute)),
		burst:     burst,
		lastSweep: time.Now(),
	}
}

// GetLimiter returns the limiter for key, dropping limiters idle for longer than ten minutes.
func (rl *RateLimiter) GetLimiter(key string) *rate.Limiter {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()
	if now.Sub(rl.lastSweep) > limiterIdleTTL {
		for k, v := range rl.visitors {
			if now.Sub(v.lastSeen) > limiterIdleTTL {
				delete(rl.visitors, k)
			}
		}
		rl.lastSweep = now
	}

	v, exists := rl.visitors[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now

	return v.limiter
}

// RateLimit limits each client IP to requestsPerMinute with the given burst.
func RateLimit(requestsPerMinute int, burst int) gin.HandlerFunc {
	rateLimiter := NewRateLimiter(requestsPerMinute, burst)

	return func(c *gin.Context) {
		limiter := rateLimiter.GetLimiter(c.ClientIP())
		reset := strconv.FormatInt(time.Now().Add(time.Minute).Unix(), 10)

		if !limiter.Allow() {
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("X-RateLimit-Reset", reset)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, utils.ErrorResponse{
				Error:   "Rate limit exceeded",
				Message: fmt.Sprintf("Too many requests. Limit: %d requests per minute", requestsPerMinute),
				Code:    http.StatusTooManyRequests,
			})
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(int(limiter.Tokens())))
		c.Header("X-RateLimit-Reset", reset)
		c.Next()
	}
}

// ValidateJSON requires a JSON content type on requests that carry a body.
func ValidateJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodDelete, http.MethodOptions:
			c.Next()
			return
		}

		// Body-less actions such as liking a post carry no content type.
		if c.Request.ContentLength == 0 {
			c.Next()
			return
		}

		if !strings.Contains(c.GetHeader("Content-Type"), "application/json") {
			c.AbortWithStatusJSON(http.StatusBadRequest, utils.ErrorResponse{
				Error:   "Invalid content type",
				Message: "Content-Type must be application/json; charset=utf-8",
				Code:    http.StatusBadRequest,
			})
			return
		}

		c.Next()
	}
}

// RequestLogger logs one line per request at a level chosen by the response status.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}

		logger.LogAttrs(c.Request.Context(), level, "request",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.String("ip", c.ClientIP()),
			slog.String("request_id", c.GetString(requestIDKey)),
			slog.String("user_agent", c.Request.UserAgent()),
		)
	}
}

func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'self'")
		c.Next()
	}
}
