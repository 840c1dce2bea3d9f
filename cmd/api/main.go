package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-faster/errors"

	"github.com/mastermahi08/Silkspeed-veersion01/internal/config"
	"github.com/mastermahi08/Silkspeed-veersion01/internal/httpserver"
	"github.com/mastermahi08/Silkspeed-veersion01/internal/repository/kv"
	"github.com/mastermahi08/Silkspeed-veersion01/internal/service/session"
)

func main() {
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	if err := config.LoadDotEnv(".env"); err != nil {
		logger.Fatalf("load .env: %v", err)
	}
	cfg := config.FromEnv()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	repo, closeRepo, err := kv.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("open %s storage: %v", cfg.StorageDriver, err)
	}
	defer closeRepo()

	sessions := session.New(repo, session.Config{
		CartKey: cfg.CartKey,
		IdleTTL: cfg.SessionIdleTTL,
		Logger:  logger,
	})
	go sessions.Run(ctx)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Sessions:       sessions,
		Storage:        repo,
		AllowedOrigins: cfg.AllowedOrigins,
		SecureCookie:   cfg.CookieSecure,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s storage=%s", cfg.HTTPAddr, cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
