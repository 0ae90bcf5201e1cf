package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/logger"
	"golang.org/x/time/rate"
)

const (
	ownerKey      = "owner_id"
	traceIDHeader = "X-Trace-Id"
)

// TraceID reuses the caller's X-Trace-Id or generates one, and stores it in the request context.
func TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(traceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		c.Request = c.Request.WithContext(logger.WithTraceID(c.Request.Context(), traceID))
		c.Header(traceIDHeader, traceID)

		c.Next()
	}
}

func Logger(l *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.FromContext(c.Request.Context(), l).Info("request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)))
	}
}

// Authentication accepts HS256 bearer tokens and uses the subject claim as the owner id.
func Authentication(secret []byte, l *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.FromContext(c.Request.Context(), l)

		header := c.GetHeader("Authorization")
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenStr == "" {
			log.Warn("missing bearer token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var claims jwt.RegisteredClaims
		_, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			log.Warn("invalid bearer token", slog.String(logger.Error, err.Error()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		if claims.Subject == "" {
			log.Warn("token has no subject")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(ownerKey, claims.Subject)
		c.Next()
	}
}

var errNoOwner = errors.New("owner not found in context")

func ownerID(c *gin.Context) (string, error) {
	owner := c.GetString(ownerKey)
	if owner == "" {
		return "", errNoOwner
	}
	return owner, nil
}

type ipLimiter struct {
	limiter *rate.Limiter
	last    time.Time
}

// RateLimit applies a token bucket per client IP. Idle buckets are dropped after ten minutes.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	var (
		mu       sync.Mutex
		limiters = map[string]*ipLimiter{}
		sweptAt  = time.Now()
	)

	get := func(ip string, now time.Time) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()

		if now.Sub(sweptAt) > 10*time.Minute {
			for key, l := range limiters {
				if now.Sub(l.last) > 10*time.Minute {
					delete(limiters, key)
				}
			}
			sweptAt = now
		}

		l, ok := limiters[ip]
		if !ok {
			l = &ipLimiter{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
			limiters[ip] = l
		}
		l.last = now

		return l.limiter
	}

	return func(c *gin.Context) {
		if !get(c.ClientIP(), time.Now()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": fmt.Sprintf("rate limit of %.0f requests per second exceeded", rps)})
			return
		}
		c.Next()
	}
}
