// Command transfer prices and settles a transfer against the ledger
// database. One settlement per invocation; the resulting records print as
// JSON.
//
//	transfer -payer <uuid> -sender-account <uuid> -recipient-account <uuid> \
//	    -amount 250 -category send
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/kestrelpay/fee-engine/internal/config"
	"github.com/kestrelpay/fee-engine/internal/domain"
	"github.com/kestrelpay/fee-engine/internal/fx"
	"github.com/kestrelpay/fee-engine/internal/ledger"
	"github.com/kestrelpay/fee-engine/internal/logging"
	"github.com/kestrelpay/fee-engine/internal/repository"
	"github.com/kestrelpay/fee-engine/internal/service"
)

func main() {
	_ = godotenv.Load()

	var (
		payerStr     = flag.String("payer", "", "payer user id (required)")
		senderStr    = flag.String("sender-account", "", "sender account id (required)")
		recipientStr = flag.String("recipient-account", "", "recipient account id (omit for outbound)")
		amountStr    = flag.String("amount", "", "transfer amount (required)")
		category     = flag.String("category", "send", "transaction category")
		from         = flag.String("from", "USD", "source currency")
		to           = flag.String("to", "", "destination currency (defaults to source)")
		instant      = flag.Bool("instant", false, "instant transfer speed")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("transfer", cfg.LogLevel, cfg.AppEnv)

	payerID, err := uuid.Parse(*payerStr)
	if err != nil {
		slog.Error("bad -payer", "error", err)
		os.Exit(2)
	}
	senderAccountID, err := uuid.Parse(*senderStr)
	if err != nil {
		slog.Error("bad -sender-account", "error", err)
		os.Exit(2)
	}
	var recipientAccountID *uuid.UUID
	if *recipientStr != "" {
		id, err := uuid.Parse(*recipientStr)
		if err != nil {
			slog.Error("bad -recipient-account", "error", err)
			os.Exit(2)
		}
		recipientAccountID = &id
	}
	amount, err := decimal.NewFromString(*amountStr)
	if err != nil {
		slog.Error("bad -amount", "error", err)
		os.Exit(2)
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

	fxOpts := []fx.Option{
		fx.WithMarkups(cfg.FXMarkupStandardPct, cfg.FXMarkupPremiumPct),
	}
	if cfg.FXSandboxRates {
		fxOpts = append(fxOpts, fx.WithSandboxRates())
	}

	engine := service.NewEngine(
		repository.NewUserRepository(db),
		fx.NewConverter(fxOpts...),
		ledger.NewService(
			repository.NewAccountRepository(db),
			repository.NewTransactionRepository(db),
			db,
			cfg.PlatformAccountID,
		),
	)

	records, err := engine.Transfer(ctx, payerID, domain.TransferRequest{
		Amount:       amount,
		Category:     domain.Category(*category),
		FromCurrency: domain.Currency(*from),
		ToCurrency:   domain.Currency(*to),
		Instant:      *instant,
	}, senderAccountID, recipientAccountID)
	if err != nil {
		slog.Error("transfer failed", "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		slog.Error("encode records", "error", err)
		os.Exit(1)
	}
}
