package http

import (
	"net/http"
	"time"

	"github.com/gdugdh24/devmatch-backend/internal/delivery/http/handler"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Router struct {
	matchHandler   *handler.MatchHandler
	batchHandler   *handler.BatchHandler
	metricsHandler http.Handler
	logger         *zap.Logger
}

func NewRouter(
	matchHandler *handler.MatchHandler,
	batchHandler *handler.BatchHandler,
	metricsHandler http.Handler,
	logger *zap.Logger,
) *Router {
	return &Router{
		matchHandler:   matchHandler,
		batchHandler:   batchHandler,
		metricsHandler: metricsHandler,
		logger:         logger,
	}
}

func (r *Router) Setup() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(r.logger))

	// Health check (supports both GET and HEAD)
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	if r.metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(r.metricsHandler))
	}

	// API v1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/users/:user_id/matches", r.matchHandler.ListMatches)

		matches := v1.Group("/matches/:match_id")
		{
			matches.POST("/contact", r.matchHandler.Contact)
			matches.POST("/dismiss", r.matchHandler.Dismiss)
		}

		v1.POST("/batch/run", r.batchHandler.RunBatch)
	}

	return router
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			logger.Error("request failed", append(fields, zap.String("errors", c.Errors.String()))...)
			return
		}
		logger.Debug("request", fields...)
	}
}
