// Package main runs the snipe engine: it scans streamed entries for token
// launches, enters alongside observed buys whose size lands inside the
// configured trigger window, and releases the positions after a fixed hold
// delay.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/redis/go-redis/v9"

	"solana-snipe-engine/internal/config"
	"solana-snipe-engine/internal/engine"
	"solana-snipe-engine/internal/executor"
	"solana-snipe-engine/internal/journal"
	chstore "solana-snipe-engine/internal/journal/clickhouse"
	"solana-snipe-engine/internal/journal/memory"
	"solana-snipe-engine/internal/journal/migrations"
	"solana-snipe-engine/internal/journal/postgres"
	"solana-snipe-engine/internal/observability"
	"solana-snipe-engine/internal/reserves"
	"solana-snipe-engine/internal/scheduler"
	"solana-snipe-engine/internal/signer"
	"solana-snipe-engine/internal/stream"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default: search ./config.yaml)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory stores and sell queue instead of Postgres/ClickHouse/Redis")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics HTTP address (overrides config)")

	flag.Parse()

	logger := log.New(os.Stdout, "[sniper] ", log.LstdFlags|log.Lshortfile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}

	wallet, err := signer.FromBase58(cfg.Wallet.PrivateKey)
	if err != nil {
		logger.Fatalf("Failed to load wallet: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := observability.NewMetrics("snipe_engine")

	// Stores and sell queue.
	tradeStore, tickStore, cleanup, err := createStores(ctx, cfg, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	queue, queueCleanup, err := createQueue(cfg, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create sell queue: %v", err)
	}
	defer queueCleanup()

	recorder := journal.NewRecorder(tradeStore, tickStore, m, log.New(os.Stdout, "[journal] ", log.LstdFlags|log.Lshortfile))
	defer recorder.Close()

	// Trade path: RPC client, blockhash cache, proxy-program executor.
	rpcClient := rpc.New(cfg.RPC.URL)
	anchors := executor.NewBlockhashCache(rpcClient, cfg.RPC.BlockhashMaxAge, m)
	trader := executor.NewClient(rpcClient, wallet, m, log.New(os.Stdout, "[trade] ", log.LstdFlags|log.Lshortfile))

	snipeCfg := engine.SnipeConfig{
		MinTriggerLamports: config.Lamports(cfg.Snipe.MinTriggerSOL),
		MaxTriggerLamports: config.Lamports(cfg.Snipe.MaxTriggerSOL),
		BuyAmountLamports:  config.Lamports(cfg.Snipe.BuySOL),
		SellDelay:          cfg.Snipe.SellDelay,
	}

	ledger := reserves.NewLedger()
	sniper := engine.NewSniper(snipeCfg, trader, anchors, queue, recorder,
		m, log.New(os.Stdout, "[snipe] ", log.LstdFlags|log.Lshortfile))
	processor := engine.NewProcessor(engine.ProcessorConfig{
		TargetAccount: cfg.Stream.TargetAccount,
		Programs:      []string{executor.PumpProgramID.String(), executor.ProxyProgramID.String()},
	}, ledger, sniper, recorder, m, log.New(os.Stdout, "[scan] ", log.LstdFlags|log.Lshortfile))

	poller := scheduler.NewPoller(scheduler.PollerConfig{
		BuyAmountLamports: snipeCfg.BuyAmountLamports,
	}, queue, trader, anchors, recorder,
		m, log.New(os.Stdout, "[sell] ", log.LstdFlags|log.Lshortfile))
	go poller.Run(ctx)

	go startHTTPServer(cfg.Metrics.Addr, logger)

	logger.Printf("Wallet: %s", wallet.PublicKey())
	logger.Printf("Trigger window: %.4f - %.4f SOL per observed buy", cfg.Snipe.MinTriggerSOL, cfg.Snipe.MaxTriggerSOL)
	logger.Printf("Buy size: %.4f SOL, sell delay: %v", cfg.Snipe.BuySOL, cfg.Snipe.SellDelay)
	logger.Printf("Watching %s via %s", cfg.Stream.TargetAccount, cfg.Stream.URL)

	// Channel to signal completion.
	done := make(chan error, 1)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
			// Normal shutdown completed.
		}
	}()

	client := stream.NewClient(cfg.Stream.URL, m, log.New(os.Stdout, "[stream] ", log.LstdFlags|log.Lshortfile))
	err = client.Run(ctx, processor.ProcessBatch)
	done <- err

	if err != nil && err != context.Canceled {
		logger.Fatalf("Stream error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// createStores builds the trade and price tick stores, running migrations
// when the durable backends are selected.
func createStores(ctx context.Context, cfg *config.Config, useMemory bool) (journal.TradeStore, journal.PriceTickStore, func(), error) {
	if useMemory || cfg.Journal.PostgresDSN == "" || cfg.Journal.ClickhouseDSN == "" {
		return memory.NewTradeStore(), memory.NewPriceTickStore(), func() {}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.Journal.PostgresDSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}

	conn, err := migrations.RunClickhouseMigrations(ctx, cfg.Journal.ClickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
	}

	cleanup := func() {
		conn.Close()
		pool.Close()
	}

	return postgres.NewTradeStore(pool), chstore.NewPriceTickStore(conn), cleanup, nil
}

// createQueue builds the delayed sell queue: Redis-backed by default so
// scheduled exits survive a restart, in-memory when requested.
func createQueue(cfg *config.Config, useMemory bool) (scheduler.Queue, func(), error) {
	if useMemory {
		return scheduler.NewMemoryQueue(), func() {}, nil
	}

	opt, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	return scheduler.NewRedisQueue(client), func() { client.Close() }, nil
}

// startHTTPServer serves health and Prometheus metrics.
func startHTTPServer(addr string, logger *log.Logger) {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.Handle("/metrics", observability.Handler())

	logger.Printf("Starting HTTP server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		logger.Printf("HTTP server error: %v", err)
	}
}
