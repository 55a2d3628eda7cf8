package main

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/weblime-studio/fastchain-app/internal/logging"
	"github.com/weblime-studio/fastchain-app/internal/metrics"
	"github.com/weblime-studio/fastchain-app/internal/sale"
	"github.com/weblime-studio/fastchain-app/internal/server"
)

type config struct {
	LogFormat logging.LogFormat `envconfig:"LOG_FORMAT" default:"text"`
	Server    server.Config     `envconfig:"SERVER"`
	Solana    solanaConfig      `envconfig:"SOLANA"`
	Sale      sale.Config       `envconfig:"SALE"`
	Metrics   metrics.Config    `envconfig:"METRICS"`
	Postgres  postgresConfig    `envconfig:"POSTGRES"`
}

type solanaConfig struct {
	RPCURL string `envconfig:"RPC_URL" default:"https://api.mainnet-beta.solana.com"`
}

type postgresConfig struct {
	// DSN enables payout record keeping when set; empty disables it.
	DSN string `envconfig:"DSN"`
}

func newConfig() (config, error) {
	var cfg config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return config{}, fmt.Errorf("failed to process env var: %w", err)
	}
	return cfg, nil
}
