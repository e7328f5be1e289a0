// Command revenue-report prints revenue rollups for a date range as JSON,
// computed from the transaction ledger. Read-only.
//
//	revenue-report -from 2026-01-01 -to 2026-02-01
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/kestrelpay/fee-engine/internal/config"
	"github.com/kestrelpay/fee-engine/internal/logging"
	"github.com/kestrelpay/fee-engine/internal/repository"
	"github.com/kestrelpay/fee-engine/internal/revenue"
)

func main() {
	_ = godotenv.Load()

	var (
		fromStr = flag.String("from", "", "range start, YYYY-MM-DD (required)")
		toStr   = flag.String("to", "", "range end, YYYY-MM-DD, exclusive (defaults to now)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("revenue-report", cfg.LogLevel, cfg.AppEnv)

	from, err := time.Parse("2006-01-02", *fromStr)
	if err != nil {
		slog.Error("bad -from", "error", err)
		os.Exit(2)
	}
	to := time.Now().UTC()
	if *toStr != "" {
		to, err = time.Parse("2006-01-02", *toStr)
		if err != nil {
			slog.Error("bad -to", "error", err)
			os.Exit(2)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	records, err := repository.NewTransactionRepository(db).ListBetween(ctx, from, to)
	if err != nil {
		slog.Error("load records", "error", err)
		os.Exit(1)
	}
	users, err := repository.NewUserRepository(db).List(ctx)
	if err != nil {
		slog.Error("load users", "error", err)
		os.Exit(1)
	}

	summary := revenue.Summarize(records, users, time.Now().UTC(), revenue.Params{
		SubscriptionPrice: decimal.NewFromFloat(cfg.SubscriptionPrice),
	})

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		slog.Error("encode summary", "error", err)
		os.Exit(1)
	}
}
