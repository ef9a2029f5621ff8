package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lesser-scholar/internal/config"
	"github.com/lesser-scholar/internal/service"
	"github.com/lesser-scholar/internal/validation"
	"github.com/rs/zerolog"
)

// Realm is announced to clients that fail basic authentication
const Realm = "Lesser Scholar"

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(accessLogMiddleware(services.Stats, log))
	router.Use(corsMiddleware())

	// Handlers
	commentHandler := NewCommentHandler(services, log)
	moderationHandler := NewModerationHandler(services, log)
	statsHandler := NewStatsHandler(services, cfg, log)

	// Health check
	router.GET("/health", healthCheck)

	// Public pages
	router.GET("/", commentHandler.GetIndex)
	router.GET("/a/:name", commentHandler.GetArticle)
	router.GET("/recent", commentHandler.GetRecent)
	router.GET("/tag/:name", commentHandler.GetTag)
	router.POST("/comment/:name", commentHandler.SubmitComment)

	// Moderator endpoints
	admin := router.Group("", gin.BasicAuthForRealm(gin.Accounts{cfg.Admin.User: cfg.Admin.Password}, Realm))
	{
		admin.GET("/comment_approval", moderationHandler.ListPending)
		admin.POST("/comment_approval", moderationHandler.ApplyDecisions)
		admin.POST("/comment_approval/by-id", moderationHandler.ApplyByID)
		admin.GET("/stats", statsHandler.GetStats)
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "lesser-scholar",
	})
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
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
			Msg("Request completed")
	}
}

// accessLogMiddleware records every request line in the daily access log.
// A failed append is logged and never fails the request.
func accessLogMiddleware(stats service.StatsService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := stats.Record(c.Request.Method, c.Request.URL.Path); err != nil {
			log.Error().Err(err).Msg("Failed to append access log")
		}
		c.Next()
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// contextWithTimeout creates a context with timeout for handlers
func contextWithTimeout(c *gin.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), timeout)
}

// respondError maps service errors to status codes
func respondError(c *gin.Context, log zerolog.Logger, err error, msg string) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": verrs})
	case errors.Is(err, service.ErrArticleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
	case errors.Is(err, service.ErrTagNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "tag not found"})
	case errors.Is(err, service.ErrMalformedBatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Msg(msg)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}
