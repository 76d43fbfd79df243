// Package main runs the wallet backend HTTP service: trending token
// discovery, wallet management, balance and history reconstruction, and
// funded token provisioning, all backed by a Solana RPC gateway.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"solana-wallet-backend/internal/api"
	"solana-wallet-backend/internal/minting"
	"solana-wallet-backend/internal/provisioning"
	"solana-wallet-backend/internal/solana"
	"solana-wallet-backend/internal/storage"
	chstore "solana-wallet-backend/internal/storage/clickhouse"
	"solana-wallet-backend/internal/storage/memory"
	"solana-wallet-backend/internal/storage/migrations"
	pgstore "solana-wallet-backend/internal/storage/postgres"
	"solana-wallet-backend/internal/trending"
	"solana-wallet-backend/internal/wallet"
)

func main() {
	loadEnvFile()

	// Flags with env vars as defaults.
	rpcEndpoint := flag.String("rpc-endpoint", os.Getenv("SOLANA_RPC_ENDPOINT"), "Solana RPC HTTP endpoint")
	wsEndpoint := flag.String("ws-endpoint", os.Getenv("SOLANA_WS_ENDPOINT"), "Solana WebSocket endpoint (optional, enables push confirmations)")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string (optional, enables trending snapshots)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	httpHost := flag.String("http-host", "0.0.0.0", "HTTP listen host")
	httpPort := flag.Int("http-port", 8080, "HTTP listen port")
	airdropSOL := flag.Float64("airdrop-sol", 1.0, "Funding amount per provisioning flow in SOL")
	confirmTimeout := flag.Duration("confirm-timeout", 90*time.Second, "Funding confirmation timeout")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	logger := newLogger(*logLevel)

	if *rpcEndpoint == "" {
		logger.Fatal().Msg("--rpc-endpoint is required")
	}
	if !*useMemory && *postgresDSN == "" {
		logger.Fatal().Msg("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	walletStore, snapshotStore, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatal().Err(err).Msg("store initialization failed")
	}
	defer cleanup()

	rpc := solana.NewHTTPClient(*rpcEndpoint)

	aggregator := trending.NewAggregator(rpc, logger)
	if snapshotStore != nil {
		aggregator.WithSnapshotStore(snapshotStore)
	}

	wallets := wallet.NewService(walletStore, logger)
	balances := wallet.NewBalanceReader(rpc, logger)
	history := wallet.NewHistoryReader(rpc, logger)

	factory := minting.NewFactory(*rpcEndpoint, logger)
	flowOpts := []provisioning.Option{
		provisioning.WithAirdropLamports(uint64(*airdropSOL * float64(1_000_000_000))),
		provisioning.WithConfirmTimeout(*confirmTimeout),
	}
	if *wsEndpoint != "" {
		waiter, err := solana.NewWSSignatureWaiter(ctx, *wsEndpoint, nil)
		if err != nil {
			logger.Warn().Err(err).Msg("websocket connect failed, using polling confirmations only")
		} else {
			defer waiter.Close()
			flowOpts = append(flowOpts, provisioning.WithSignatureWaiter(waiter))
		}
	}
	flow := provisioning.NewFlow(rpc, wallets, factory, logger, flowOpts...)

	handlers := api.NewHandlers(aggregator, flow, wallets, balances, history, logger)
	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = *httpHost
	serverConfig.Port = *httpPort
	server := api.NewServer(serverConfig, handlers, logger)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown error")
		}
		cancel()
	}()

	if err := server.Start(); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
	logger.Info().Msg("shutdown complete")
}

// newLogger builds the process-wide zerolog logger.
func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()
}

// createStores wires the persistence layer. The snapshot store is nil when
// no ClickHouse DSN is configured; trending scans then skip persistence.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (storage.WalletStore, storage.TrendingSnapshotStore, func(), error) {
	if useMemory {
		return memory.NewWalletStore(), nil, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}

	var (
		snapshots storage.TrendingSnapshotStore
		chConn    *chstore.Conn
	)
	if clickhouseDSN != "" {
		chConn, err = migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
		if err != nil {
			pool.Close()
			return nil, nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
		}
		snapshots = chstore.NewTrendingSnapshotStore(chConn)
	}

	cleanup := func() {
		if chConn != nil {
			chConn.Close()
		}
		pool.Close()
	}
	return pgstore.NewWalletStore(pool), snapshots, cleanup, nil
}

// loadEnvFile loads environment variables from .env if present. Existing
// variables are never overridden.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		if os.Getenv(key) == "" {
			os.Setenv(key, strings.TrimSpace(parts[1]))
		}
	}
}
