package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/mastermahi08/Silkspeed-veersion01/internal/config"
	"github.com/mastermahi08/Silkspeed-veersion01/internal/db"
	"github.com/mastermahi08/Silkspeed-veersion01/internal/migrate"
)

func main() {
	down := flag.Bool("down", false, "Roll back the latest migration instead of applying")
	flag.Parse()

	logger := log.New(os.Stdout, "[migrate] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	if err := config.LoadDotEnv(".env"); err != nil {
		logger.Fatalf("load .env: %v", err)
	}
	cfg := config.FromEnv()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if *down {
		if err := migrate.Rollback(ctx, pool, logger); err != nil {
			logger.Fatalf("rollback migration: %v", err)
		}
		logger.Println("migration rolled back")
		return
	}

	if err := migrate.Apply(ctx, pool, logger); err != nil {
		logger.Fatalf("apply migrations: %v", err)
	}
	logger.Println("migrations applied")
}
