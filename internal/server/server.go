// Package server defines the application container that composes the main
// dependencies: configuration, loggers, the database pool, the redis client,
// the realtime hub, the background job service, and the HTTP server itself.
// It owns startup and graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/rohithvarma444/amEx-sub001/internal/config"
	"github.com/rohithvarma444/amEx-sub001/internal/database"
	"github.com/rohithvarma444/amEx-sub001/internal/lib/job"
	loggerPkg "github.com/rohithvarma444/amEx-sub001/internal/logger"
	"github.com/rohithvarma444/amEx-sub001/internal/realtime"
)

// Server is the application container holding shared resources. It is not
// the HTTP server itself; it wraps one alongside every other long-lived
// dependency.
type Server struct {
	Config *config.Config

	Logger *zerolog.Logger

	// LoggerService holds the New Relic application instance; its nrApp is
	// nil when New Relic is disabled.
	LoggerService *loggerPkg.LoggerService

	DB *database.Database

	Redis *redis.Client

	// Realtime bridges Redis Pub/Sub chat events to connected subscribers.
	Realtime *realtime.Hub

	// Job runs background workers (Asynq) and the cron-driven deal sweep.
	Job *job.JobService

	httpServer *http.Server
}

// New constructs a Server and initializes core dependencies. The HTTP server
// is configured later via SetupHTTPServer and started with Start.
//
// Redis connection failure does not block startup (chat realtime and OTP
// rate limiting degrade); database or job failures do.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	db, err := database.New(cfg, logger, loggerService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Address,
	})

	if loggerService != nil && loggerService.GetApplication() != nil {
		redisClient.AddHook(nrredis.NewHook(redisClient.Options()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error().Err(err).Msg("failed to connect to Redis, continuing without Redis")
	}

	realtimeHub := realtime.NewHub(redisClient, logger)

	jobService := job.NewJobService(logger, cfg)
	jobService.InitHandlers(cfg, logger, db.Pool)

	if err := jobService.Start(); err != nil {
		return nil, err
	}

	server := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		DB:            db,
		Redis:         redisClient,
		Realtime:      realtimeHub,
		Job:           jobService,
	}

	return server, nil
}

// SetupHTTPServer configures the internal net/http server with the given
// handler (the Echo instance).
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:    ":" + s.Config.Server.Port,
		Handler: handler,

		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server. It blocks until the server stops or errors.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server, the realtime hub, background
// jobs, and closes connections.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.Realtime.Close()

	if s.Job != nil {
		s.Job.Stop()
	}

	if err := s.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	if err := s.Redis.Close(); err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}

	return nil
}
