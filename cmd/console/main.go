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

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/shopcrew/admin-console/internal/adminapi"
	"github.com/shopcrew/admin-console/internal/audit"
	"github.com/shopcrew/admin-console/internal/config"
	"github.com/shopcrew/admin-console/internal/notify"
	"github.com/shopcrew/admin-console/internal/session"
	"github.com/shopcrew/admin-console/internal/web"
	"github.com/shopcrew/admin-console/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)

	store, err := session.OpenSQLite(cfg.StatePath)
	if err != nil {
		log.Fatalf("open state store: %v", err)
	}

	sessions := session.NewManager(store, logger)
	api := adminapi.NewClient(adminapi.Config{
		BaseURL:        cfg.BackendURL,
		TokenSource:    sessions.Token,
		OnUnauthorized: sessions.Invalidate,
	})
	feed := notify.NewFeed(api, store)
	producer := audit.NewProducer(cfg.KafkaBrokers, cfg.AuditTopic, logger)

	renderer, err := web.NewRenderer()
	if err != nil {
		log.Fatalf("parse templates: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer

	handlers := web.NewHandlers(api, sessions, feed, producer, store, cfg.CookieSecure)
	web.Register(e, handlers, logger)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("console_listening", "addr", cfg.ListenAddr, "backend", cfg.BackendURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if err := producer.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}
	if err := store.Close(); err != nil {
		logger.Error("state store close error", "error", err)
	}

	logger.Info("shutdown complete")
}
