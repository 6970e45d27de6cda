package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"busScheduleManagement/internal/auth"
	"busScheduleManagement/internal/config"
	"busScheduleManagement/internal/db"
	"busScheduleManagement/internal/httpapi"
	"busScheduleManagement/internal/logging"
	"busScheduleManagement/internal/scheduling"
	"busScheduleManagement/repository"
)

func main() {
	cfg, err := config.LoadWithDefaults()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()
	logger.Info("configuration loaded", zap.String("config", cfg.String()))

	d, err := db.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal("open db", zap.Error(err))
	}
	defer func() {
		if err := d.Close(); err != nil {
			logger.Error("close db", zap.Error(err))
		}
	}()

	users := repository.NewUserRepository(d)
	buses := repository.NewBusRepository(d)
	stops := repository.NewStopRepository(d)
	routes := repository.NewRouteRepository(d)
	schedules := repository.NewScheduleRepository(d)
	engine := scheduling.NewEngine(buses, routes, schedules)

	api := httpapi.New(httpapi.Deps{
		Logger:    logger,
		Tokens:    auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Timeout:   cfg.HTTP.RequestTimeout,
		Users:     users,
		Buses:     buses,
		Stops:     stops,
		Routes:    routes,
		Schedules: engine,
	})

	srv := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      api.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("address", cfg.HTTP.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server", zap.Error(err))
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
