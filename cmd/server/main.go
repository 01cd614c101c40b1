package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"rankgate/internal/platform/config"
	"rankgate/internal/platform/httpserver"
	"rankgate/internal/platform/logger"
	promometrics "rankgate/internal/promotion/metrics"
	"rankgate/internal/promotion/service"
	"rankgate/internal/promotion/store"
	"rankgate/internal/roblox"
	httptransport "rankgate/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	// A local .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	log := logger.New()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("configuration error", "error", err)
		os.Exit(1)
	}

	authority, err := roblox.NewClient(roblox.Config{
		SessionCookie: cfg.SessionCookie,
		UsersBaseURL:  cfg.UsersBaseURL,
		GroupsBaseURL: cfg.GroupsBaseURL,
		AuthBaseURL:   cfg.AuthBaseURL,
		HTTPClient:    &http.Client{Timeout: cfg.UpstreamTimeout},
		Logger:        log,
	})
	if err != nil {
		log.Error("roblox client error", "error", err)
		os.Exit(1)
	}

	requests := store.NewInMemory()
	workflow, err := service.New(requests, authority, cfg.GroupID,
		service.WithLogger(log),
		service.WithMetrics(promometrics.New()),
	)
	if err != nil {
		log.Error("workflow wiring error", "error", err)
		os.Exit(1)
	}

	handler := httptransport.NewHandler(workflow, log)
	router := httptransport.NewRouter(handler, cfg.APIKey, log)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting rankgate", "addr", cfg.Addr, "group_id", cfg.GroupID)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
