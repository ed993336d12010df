package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"

	"github.com/rohithvarma444/amEx-sub001/internal/config"
	"github.com/rohithvarma444/amEx-sub001/internal/database"
	"github.com/rohithvarma444/amEx-sub001/internal/handler"
	"github.com/rohithvarma444/amEx-sub001/internal/logger"
	"github.com/rohithvarma444/amEx-sub001/internal/middleware"
	"github.com/rohithvarma444/amEx-sub001/internal/repository"
	"github.com/rohithvarma444/amEx-sub001/internal/router"
	"github.com/rohithvarma444/amEx-sub001/internal/server"
	"github.com/rohithvarma444/amEx-sub001/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	log, loggerService, err := logger.New(cfg)
	if err != nil {
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := database.Migrate(ctx, log, cfg); err != nil {
		cancel()
		log.Fatal().Err(err).Msg("failed to run database migrations")
	}
	cancel()

	srv, err := server.New(cfg, log, loggerService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize server")
	}

	repos := repository.NewRepositories(srv)

	services, err := service.NewService(srv, repos)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize services")
	}

	middlewares := middleware.NewMiddlewares(srv)
	handlers := handler.NewHandlers(srv, services)

	e := router.NewRouter(srv, middlewares, handlers)
	srv.SetupHTTPServer(e)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	if loggerService != nil {
		loggerService.Shutdown(10 * time.Second)
	}

	log.Info().Msg("server stopped")
}
