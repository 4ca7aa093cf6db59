package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/picfeed/picfeed/internal/auth"
	"github.com/picfeed/picfeed/internal/service"
	"github.com/picfeed/picfeed/pkg/telemetry"
)

// GatewayKeyHeader carries the shared secret the gateway adds to proxied requests
const GatewayKeyHeader = "X-Gateway-Key"

const userIDKey = "userID"

// RequestLogger logs one line per request
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.Bool("has_auth", c.GetHeader("Authorization") != ""),
		}
		if id, ok := c.Get(userIDKey); ok {
			fields = append(fields, zap.Int64("user_id", id.(int64)))
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			logger.Error("Request completed", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			logger.Warn("Request completed", fields...)
		default:
			logger.Info("Request completed", fields...)
		}
	}
}

// Tracing starts a server span per request and records its latency
func Tracing() gin.HandlerFunc {
	propagator := otel.GetTextMapPropagator()
	return func(c *gin.Context) {
		start := time.Now()
		ctx := propagator.Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		ctx, span := telemetry.StartSpan(ctx, c.Request.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Request.Method),
				attribute.String("http.route", route),
			),
		)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
		telemetry.RecordRequest(ctx, route, c.Request.Method, status, time.Since(start))
	}
}

// GatewayKey rejects requests that did not come through the gateway.
// /health and its sub-paths are always reachable; with no key configured
// only development deployments accept traffic.
func GatewayKey(expected string, development bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if path := c.Request.URL.Path; path == "/health" || strings.HasPrefix(path, "/health/") {
			c.Next()
			return
		}

		if expected == "" {
			if development {
				c.Next()
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Gateway key not configured"})
			return
		}

		provided := c.GetHeader(GatewayKeyHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Direct access forbidden. Please use the API gateway."})
			return
		}
		c.Next()
	}
}

// Authenticate requires a valid bearer token whose subject is an existing user
func Authenticate(tokens *auth.TokenManager, users service.UserStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		claims, err := tokens.Parse(parts[1])
		if err != nil {
			logger.Debug("Token rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		userID, _ := claims.UserID()

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			abortWithError(c, logger, err)
			return
		}
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User no longer exists"})
			return
		}

		c.Set(userIDKey, user.ID)
		c.Next()
	}
}

// currentUserID returns the authenticated user set by Authenticate
func currentUserID(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}
