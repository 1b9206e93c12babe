// Package main runs the feed ingestion pipeline: sample a CSV feed,
// check availability against the registrar, score and estimate each
// candidate, and upsert results into the domain store.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"gopkg.in/natefinch/lumberjack.v2"

	"domainscout/internal/config"
	"domainscout/internal/ingest"
	"domainscout/internal/observability"
	"domainscout/internal/registrar"
	"domainscout/internal/registrar/stub"
	"domainscout/internal/storage"
	chstore "domainscout/internal/storage/clickhouse"
	"domainscout/internal/storage/memory"
	"domainscout/internal/storage/migrations"
	pgstore "domainscout/internal/storage/postgres"
)

func main() {
	cfg := config.Load()

	// Flags override the environment.
	feedPath := flag.String("feed", "", "Path to the CSV feed to ingest (required)")
	acceptedTLD := flag.String("accepted-tld", cfg.AcceptedTLD, "Only domains with this TLD are ingested")
	sampleWindow := flag.Int("sample-window", cfg.SampleWindow, "Feed rows consumed per run")
	maxSelected := flag.Int("max-selected", cfg.MaxSelected, "Candidates selected per run")
	concurrency := flag.Int("concurrency", cfg.Concurrency, "Availability lookups in flight per chunk")
	chunkDelay := flag.Duration("chunk-delay", cfg.ChunkDelay, "Pause between lookup chunks")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	metricsAddr := flag.String("metrics-addr", cfg.MetricsAddr, "Prometheus metrics HTTP address (empty to disable)")
	flag.Parse()

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if *feedPath == "" {
		fmt.Fprintln(os.Stderr, "usage: ingest -feed <file.csv> [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics("domainscout")
	if *metricsAddr != "" {
		go serveMetrics(*metricsAddr, logger)
	}

	store, cleanup, err := buildDomainStore(ctx, cfg, *useMemory)
	if err != nil {
		logger.Error("store setup failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	runStats, statsCleanup, err := buildRunStatStore(ctx, cfg, *useMemory)
	if err != nil {
		logger.Error("run history setup failed", "error", err)
		os.Exit(1)
	}
	defer statsCleanup()

	checker := buildChecker(cfg, logger)

	pipeline := ingest.New(ingest.Options{
		Store:        store,
		Checker:      checker,
		RunStats:     runStats,
		Metrics:      metrics,
		Logger:       logger,
		AcceptedTLD:  *acceptedTLD,
		SampleWindow: *sampleWindow,
		MaxSelected:  *maxSelected,
		Concurrency:  *concurrency,
		ChunkDelay:   *chunkDelay,
	})

	summary, err := pipeline.Run(ctx, ingest.NewFileFeed(*feedPath))
	if err != nil {
		logger.Error("pipeline failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Ingestion complete:\n")
	fmt.Printf("  Checked:  %d\n", summary.Checked)
	fmt.Printf("  Inserted: %d\n", summary.Inserted)
	fmt.Printf("  Updated:  %d\n", summary.Updated)
	fmt.Printf("  Errors:   %d\n", summary.Errors)
}

// newLogger builds the slog logger, teeing to a rotating file when
// LOG_FILE is configured.
func newLogger(cfg config.Config) *slog.Logger {
	var w io.Writer = os.Stdout
	if cfg.LogFile != "" {
		w = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     14, // days
			Compress:   true,
		})
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

func serveMetrics(addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("metrics server failed", "error", err)
	}
}

// buildDomainStore wires PostgreSQL when configured, the in-memory store
// otherwise.
func buildDomainStore(ctx context.Context, cfg config.Config, useMemory bool) (storage.DomainStore, func(), error) {
	if useMemory || cfg.DatabaseURL == "" {
		return memory.NewDomainStore(), func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return pgstore.NewDomainStore(pool), pool.Close, nil
}

// buildRunStatStore wires ClickHouse when configured; run history is
// optional and absent otherwise.
func buildRunStatStore(ctx context.Context, cfg config.Config, useMemory bool) (storage.RunStatStore, func(), error) {
	if useMemory {
		return memory.NewRunStatStore(), func() {}, nil
	}
	if cfg.ClickhouseDSN == "" {
		return nil, func() {}, nil
	}

	conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
	if err != nil {
		return nil, nil, err
	}
	return chstore.NewRunStatStore(conn), func() { conn.Close() }, nil
}

// buildChecker selects the live registrar client (optionally cached) or
// the offline stub when no endpoint is configured.
func buildChecker(cfg config.Config, logger *slog.Logger) registrar.Checker {
	if cfg.RegistrarURL == "" {
		logger.Info("no registrar endpoint configured, using offline stub checker")
		return stub.NewChecker()
	}

	var checker registrar.Checker = registrar.NewHTTPChecker(
		cfg.RegistrarURL,
		cfg.RegistrarKey,
		cfg.RegistrarSecret,
		registrar.WithTimeout(cfg.LookupTimeout),
		registrar.WithRequestRate(cfg.RegistrarRPS),
	)

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		checker = registrar.NewCachedChecker(checker, client, cfg.CacheTTL, logger)
		logger.Info("availability lookups cached", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
	}
	return checker
}
