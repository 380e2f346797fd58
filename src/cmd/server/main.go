package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jackyeh168/cartquest/src/internal/bootstrap"
	"github.com/jackyeh168/cartquest/src/internal/infrastructure/config"
	"github.com/jackyeh168/cartquest/src/internal/infrastructure/database"
	"github.com/jackyeh168/cartquest/src/internal/infrastructure/logging"
	"github.com/jackyeh168/cartquest/src/internal/infrastructure/metrics"
	"github.com/jackyeh168/cartquest/src/internal/infrastructure/persistence"
	"github.com/jackyeh168/cartquest/src/internal/interfaces/httpapi"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	log := logging.WithService(logging.New(cfg.Log))

	if cfg.Auth.JWTSecret == "" {
		log.Warn("auth.jwt_secret is empty, authenticated endpoints will reject every request")
	}
	if cfg.Auth.InternalAPIKey == "" {
		log.Warn("auth.internal_api_key is empty, purchase reward endpoint is disabled")
	}

	db, err := database.Open(cfg.Database, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.WithError(err).Error("Failed to close database")
		}
	}()

	if err := persistence.Migrate(db); err != nil {
		log.WithError(err).Fatal("Failed to migrate database")
	}

	m := metrics.New()
	services, err := bootstrap.NewServices(cfg, bootstrap.Infrastructure{
		DB:      db,
		Log:     log,
		Metrics: m,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to build services")
	}

	health := func(ctx context.Context) error {
		return database.Ping(ctx, db)
	}

	gin.SetMode(cfg.Server.Mode)
	router := httpapi.NewRouter(httpapi.RouterOptions{
		JWTSecret:      cfg.Auth.JWTSecret,
		InternalAPIKey: cfg.Auth.InternalAPIKey,
		Services:       services,
		Health:         health,
		Log:            log.WithField("component", "http"),
		Observer:       m,
		MetricsHandler: m.Handler(),
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		log.WithField("addr", httpServer.Addr).Info("Starting server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		log.WithError(err).Error("Server failed")
		return
	case sig := <-stop:
		log.WithField("signal", sig.String()).Info("Shutdown signal received, shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
		return
	}
	log.Info("Server exited gracefully")
}
