package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/mastermahi08/Silkspeed-veersion01/internal/cart"
	"github.com/mastermahi08/Silkspeed-veersion01/internal/config"
	"github.com/mastermahi08/Silkspeed-veersion01/internal/repository/kv"
	"github.com/mastermahi08/Silkspeed-veersion01/internal/seed"
	"github.com/mastermahi08/Silkspeed-veersion01/internal/service/session"
)

func main() {
	var sessionID string
	flag.StringVar(&sessionID, "session", "", "Cart session id to seed (a new one is issued when empty)")
	flag.Parse()

	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	if err := config.LoadDotEnv(".env"); err != nil {
		logger.Fatalf("load .env: %v", err)
	}
	cfg := config.FromEnv()

	ctx := context.Background()
	repo, closeRepo, err := kv.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("open %s storage: %v", cfg.StorageDriver, err)
	}
	defer closeRepo()

	sessions := session.New(repo, session.Config{CartKey: cfg.CartKey, Logger: logger})
	if sessionID == "" {
		sessionID = sessions.Issue()
	}

	err = sessions.Do(ctx, sessionID, func(s *cart.Store) error {
		if err := seed.Apply(ctx, s); err != nil {
			return err
		}
		logger.Printf("seeded session=%s lines=%d items=%d total=%s", sessionID, s.Len(), s.ItemCount(), s.Total().StringFixed(2))
		return nil
	})
	if err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Println("seed applied")
}
