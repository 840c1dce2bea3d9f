package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mastermahi08/Silkspeed-veersion01/internal/cart"
	"github.com/mastermahi08/Silkspeed-veersion01/internal/config"
	"github.com/mastermahi08/Silkspeed-veersion01/internal/importer"
	"github.com/mastermahi08/Silkspeed-veersion01/internal/repository/kv"
	"github.com/mastermahi08/Silkspeed-veersion01/internal/service/session"
)

func main() {
	var (
		filePath  string
		sessionID string
	)
	flag.StringVar(&filePath, "file", "", "Path to line item CSV (productId,name,price,image,size,color,quantity)")
	flag.StringVar(&sessionID, "session", "", "Cart session id to import into (a new one is issued when empty)")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	logger := log.New(os.Stdout, "[importer] ", log.LstdFlags|log.LUTC|log.Lshortfile)
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

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatalf("open file: %v", err)
	}
	defer f.Close()

	sessions := session.New(repo, session.Config{CartKey: cfg.CartKey, Logger: logger})
	if sessionID == "" {
		sessionID = sessions.Issue()
	}

	start := time.Now()
	var count int
	err = sessions.Do(ctx, sessionID, func(s *cart.Store) error {
		var runErr error
		count, runErr = importer.NewCSVImporter(f, s).Run(ctx)
		return runErr
	})
	if err != nil {
		logger.Fatalf("import failed after %d rows: %v", count, err)
	}

	fmt.Printf("Imported %d line items into session %s in %s\n", count, sessionID, time.Since(start).Truncate(time.Millisecond))
}
