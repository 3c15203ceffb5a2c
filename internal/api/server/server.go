package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"whisper-batch/internal/api/middleware"
	v1routes "whisper-batch/internal/api/v1/routes"
)

// Config represents API server configuration
type Config struct {
	Host         string
	Port         int
	CertPath     string
	KeyPath      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	Environment  string
}

// TLSEnabled reports whether both certificate paths are set.
func (c Config) TLSEnabled() bool {
	return c.CertPath != "" && c.KeyPath != ""
}

// Server represents the API server
type Server struct {
	config     Config
	router     *gin.Engine
	httpServer *http.Server
	logger     *zap.Logger
	errCh      chan error
}

// NewServer creates a new API server. metricsHandler may be nil.
func NewServer(config Config, container *v1routes.ServiceContainer, metricsHandler http.Handler, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if config.Environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogging(logger))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
		})
	})
	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}

	if container.Logger == nil {
		container.Logger = logger
	}
	v1routes.RegisterRoutes(router, container)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return &Server{
		config:     config,
		router:     router,
		httpServer: httpServer,
		logger:     logger,
		errCh:      make(chan error, 1),
	}
}

// Start listens in the background. A listener failure is delivered on Errors.
func (s *Server) Start() {
	s.logger.Info("Starting API server",
		zap.String("address", s.httpServer.Addr),
		zap.Bool("tls", s.config.TLSEnabled()),
		zap.String("environment", s.config.Environment),
	)

	go func() {
		var err error
		if s.config.TLSEnabled() {
			err = s.httpServer.ListenAndServeTLS(s.config.CertPath, s.config.KeyPath)
		} else {
			err = s.httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Failed to start server", zap.Error(err))
			s.errCh <- err
		}
	}()
}

// Errors yields the listener error, if any.
func (s *Server) Errors() <-chan error {
	return s.errCh
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	s.logger.Info("API server shutdown complete")
	return nil
}

// Router returns the Gin router (useful for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}
