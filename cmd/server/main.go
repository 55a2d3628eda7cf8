package main

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/weblime-studio/fastchain-app/internal/graceful"
	"github.com/weblime-studio/fastchain-app/internal/logging"
	"github.com/weblime-studio/fastchain-app/internal/metrics"
	"github.com/weblime-studio/fastchain-app/internal/sale"
	"github.com/weblime-studio/fastchain-app/internal/server"
	"github.com/weblime-studio/fastchain-app/internal/solana"
	"github.com/weblime-studio/fastchain-app/internal/txrecord"
)

func main() {
	cfg, err := newConfig()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	logger := logging.NewLogger(cfg.LogFormat)

	ctx := graceful.CancelOnSignal(context.Background(), func(sig os.Signal) {
		logger.Infof("received exit signal: %v", sig)
	})

	network, err := solana.NewNetwork(ctx, cfg.Solana.RPCURL)
	if err != nil {
		logger.Fatalf("failed to initialize Solana network: %v", err)
	}

	var recorder txrecord.Recorder = txrecord.Nop{}
	if cfg.Postgres.DSN != "" {
		store, err := txrecord.NewStore(ctx, cfg.Postgres.DSN)
		if err != nil {
			logger.Fatalf("failed to initialize payout store: %v", err)
		}
		defer store.Close()
		recorder = store
	}

	saleService, err := sale.New(cfg.Sale, network, recorder, logger)
	if err != nil {
		logger.Fatalf("failed to initialize sale service: %v", err)
	}
	logger.Infof("service account: %s", saleService.ServiceAccount())

	srv := server.New(cfg.Server, saleService, logger)
	metricsServer := metrics.NewServer(cfg.Metrics, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(gctx)
	})
	g.Go(func() error {
		return metricsServer.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatalf("server exited with error: %v", err)
	}
}
