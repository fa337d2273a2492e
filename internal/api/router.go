package api

import (
	"context"
	"net/http"
	"time"

	"github.com/comments-api/internal/config"
	"github.com/comments-api/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

const (
	serviceName = "comments-api"

	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"

	healthCheckTimeout = 2 * time.Second
)

// NewRouter creates and configures the Gin router
func NewRouter(store repository.CommentRepository, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(requestIDMiddleware())
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware(cfg.Server.AllowedOrigins))

	commentHandler := NewCommentHandler(store, cfg.Store.Timeout, log)

	router.GET("/health", healthCheck(store, cfg.Store.Backend))
	router.GET("/metrics", metricsHandler(store, log))

	comments := router.Group(cfg.Server.BasePath)
	{
		comments.GET("/post/:postId", commentHandler.GetPostComments)
		comments.DELETE("/:commentId", commentHandler.DeleteComment)
	}

	return router
}

// healthCheck reports whether the comment store is reachable
func healthCheck(store repository.CommentRepository, backend string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := contextWithTimeout(c, healthCheckTimeout)
		defer cancel()

		status, code := "healthy", http.StatusOK
		if err := store.Ping(ctx); err != nil {
			status, code = "unhealthy", http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":    status,
			"store":     backend,
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   serviceName,
		})
	}
}

// metricsHandler returns the stored comment count
func metricsHandler(store repository.CommentRepository, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := store.Count(c.Request.Context())
		if err != nil {
			log.Error().Err(err).Msg("Failed to count comments")
			c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"database": gin.H{
				"comments": count,
			},
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// requestIDMiddleware propagates or assigns an X-Request-ID
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Interface("error", err).
					Str("request_id", c.GetString(requestIDKey)).
					Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": msgInternalError,
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetString(requestIDKey)).
			Msg("Request completed")
	}
}

// corsMiddleware applies rs/cors inside the gin chain; preflights end here with 204
func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	policy := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	})

	return func(c *gin.Context) {
		preflight := c.Request.Method == http.MethodOptions &&
			c.GetHeader("Access-Control-Request-Method") != ""

		policy.HandlerFunc(c.Writer, c.Request)
		if preflight {
			c.Abort()
			return
		}
		c.Next()
	}
}

// contextWithTimeout bounds a store call by the request context and timeout.
// A non-positive timeout leaves the request context unchanged.
func contextWithTimeout(c *gin.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), timeout)
}
