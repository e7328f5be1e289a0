package config

import (
	"fmt"

	env "github.com/caarlos0/env/v11"
	"github.com/google/uuid"
)

type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv      string `env:"APP_ENV" envDefault:"production"`

	// All fees post to this ledger account.
	PlatformAccountID uuid.UUID `env:"PLATFORM_ACCOUNT_ID,required"`

	FXMarkupStandardPct float64 `env:"FX_MARKUP_STANDARD_PCT" envDefault:"0.03"`
	FXMarkupPremiumPct  float64 `env:"FX_MARKUP_PREMIUM_PCT" envDefault:"0.015"`
	// Resolve unknown currency codes to rate 1 instead of failing.
	// Demo/sandbox environments only.
	FXSandboxRates bool `env:"FX_SANDBOX_RATES" envDefault:"false"`

	// Monthly premium subscription price, used by revenue projections.
	SubscriptionPrice float64 `env:"SUBSCRIPTION_PRICE" envDefault:"9.99"`

	DBMaxOpenConns     int `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns     int `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	DBConnMaxLifetimeS int `env:"DB_CONN_MAX_LIFETIME_S" envDefault:"300"`
	DBConnMaxIdleTimeS int `env:"DB_CONN_MAX_IDLE_TIME_S" envDefault:"60"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}
