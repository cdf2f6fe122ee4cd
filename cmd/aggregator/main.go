// Package main is the entry point for the DEX price aggregator.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/joho/godotenv"

	"github.com/alirja123/defi-arbitrage-bot/business/pricing"
	"github.com/alirja123/defi-arbitrage-bot/business/pricing/domain"
	"github.com/alirja123/defi-arbitrage-bot/internal/apm"
	"github.com/alirja123/defi-arbitrage-bot/internal/asset"
	"github.com/alirja123/defi-arbitrage-bot/internal/config"
	"github.com/alirja123/defi-arbitrage-bot/internal/health"
	"github.com/alirja123/defi-arbitrage-bot/internal/logger"
	"github.com/alirja123/defi-arbitrage-bot/internal/metrics"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("dex-price-aggregator %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logLevel := logger.LevelInfo
	switch cfg.App.LogLevel {
	case "debug":
		logLevel = logger.LevelDebug
	case "warn":
		logLevel = logger.LevelWarn
	case "error":
		logLevel = logger.LevelError
	}

	log := logger.New(os.Stderr, logLevel, cfg.App.Name, nil)
	log.Info(ctx, "starting DEX price aggregator",
		"version", version,
		"environment", cfg.App.Environment,
	)

	var traceProvider apm.TraceProvider
	if cfg.Telemetry.Enabled {
		if cfg.Telemetry.ServiceName != "" {
			os.Setenv("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
		}
		if cfg.Telemetry.OTLPEndpoint != "" {
			os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
		}

		traceProvider = apm.NewTraceProvider(log, apm.WithProvider(apm.ZipkinProvider, log))
		log.Info(ctx, "tracing initialized", "provider", "zipkin", "endpoint", cfg.Telemetry.OTLPEndpoint)

		metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithProviderConfig(metrics.ProviderCfg{
				Provider: metrics.PrometheusProvider,
			}),
		)

		port := cfg.Telemetry.PrometheusPort
		if port == 0 {
			port = 9090
		}
		go metrics.ServePrometheusMetrics(metrics.WithPort(strconv.Itoa(port)))
		log.Info(ctx, "prometheus metrics server started", "port", port)
	}
	defer func() {
		if traceProvider != nil {
			traceProvider.Stop()
		}
	}()

	healthServer := health.NewServer(8081, version)
	if err := healthServer.Start(); err != nil {
		log.Warn(ctx, "failed to start health server", "error", err)
	} else {
		log.Info(ctx, "health server started", "port", 8081)
	}
	defer healthServer.Stop(ctx)

	// Swap subscriptions need a WebSocket transport; fall back to HTTP where
	// only polling is possible.
	nodeURL := cfg.Ethereum.WebSocketURL
	if nodeURL == "" {
		nodeURL = cfg.Ethereum.HTTPURL
		log.Warn(ctx, "no websocket url configured, swap event subscriptions may be unavailable")
	}

	client, err := ethclient.DialContext(ctx, nodeURL)
	if err != nil {
		return fmt.Errorf("failed to connect to ethereum node: %w", err)
	}
	defer client.Close()

	log.Info(ctx, "connected to ethereum node", "url", nodeURL)

	engine, err := pricing.NewEngine(cfg, client, asset.DefaultRegistry(), log)
	if err != nil {
		return fmt.Errorf("failed to create pricing engine: %w", err)
	}

	healthServer.RegisterCheck("ethereum", func(ctx context.Context) (bool, string) {
		if _, err := client.ChainID(ctx); err != nil {
			return false, err.Error()
		}
		return true, ""
	})
	healthServer.RegisterCheck("scheduler", func(ctx context.Context) (bool, string) {
		if !engine.Running() {
			return false, "polling scheduler is idle"
		}
		return true, ""
	})

	engine.Start(ctx)
	log.Info(ctx, "pricing engine started",
		"exchanges", len(engine.Exchanges()),
		"poll_interval", cfg.Aggregator.PollInterval(),
	)

	updates, unsubscribe := engine.Subscribe()
	defer unsubscribe()
	go watchUpdates(ctx, engine, updates, log)

	<-ctx.Done()

	log.Info(ctx, "shutting down")
	engine.Stop()

	return nil
}

// watchUpdates prints each price refresh together with the current
// cross-exchange spread for the refreshed pair.
func watchUpdates(ctx context.Context, engine *pricing.Engine, updates <-chan domain.PriceUpdate, log logger.LoggerInterface) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}

			tokenA, tokenB, ok := strings.Cut(update.PairLabel, "/")
			if !ok {
				continue
			}

			log.Info(ctx, "price update",
				"exchange", update.Exchange,
				"pair", update.PairLabel,
				"price", update.Price,
			)

			for _, diff := range engine.Aggregator().DiffForPair(tokenA, tokenB) {
				log.Info(ctx, "cross-exchange difference",
					"pair", update.PairLabel,
					"exchange_a", diff.ExchangeA,
					"exchange_b", diff.ExchangeB,
					"delta", diff.PriceDelta,
					"delta_percent", diff.DeltaPercent,
				)
			}
		}
	}
}
