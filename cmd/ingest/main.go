// Package main loads raw trip archives into storage.
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

	"bike-stock-lab/internal/ingestion"
	"bike-stock-lab/internal/observability"
	"bike-stock-lab/internal/storage"
	"bike-stock-lab/internal/storage/memory"
	"bike-stock-lab/internal/storage/migrations"
	pgstore "bike-stock-lab/internal/storage/postgres"
)

func main() {
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	migrate := flag.Bool("migrate", false, "Apply database migrations before loading")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics HTTP address (empty to disable)")
	flag.Parse()

	logger := log.New(os.Stdout, "[ingest] ", log.LstdFlags|log.Lshortfile)

	files := flag.Args()
	if len(files) == 0 {
		logger.Fatal("No archive files specified. Usage: ingest [flags] <archive.csv> ...")
	}

	metrics := observability.NewMetrics("")
	if *metricsAddr != "" {
		go serveMetrics(logger, *metricsAddr)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, cancelling load...", sig)
		cancel()
	}()

	if !*useMemory && *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}

	var tripStore storage.TripStore = memory.NewTripStore()
	if !*useMemory {
		pool, err := pgstore.NewPool(ctx, *postgresDSN)
		if err != nil {
			logger.Fatalf("Connect to postgres: %v", err)
		}
		defer pool.Close()

		if *migrate {
			if err := migrations.RunPostgres(ctx, pool); err != nil {
				logger.Fatalf("Apply migrations: %v", err)
			}
			logger.Println("Migrations applied")
		}

		tripStore = pgstore.NewTripStore(pool)
	}

	loader := ingestion.NewLoader(tripStore, logger, metrics)

	total, err := loader.LoadFiles(ctx, files)
	if err != nil {
		logger.Fatalf("Load failed after %d rows: %v", total, err)
	}

	fmt.Printf("Loaded %d trips from %d archives\n", total, len(files))
}

func serveMetrics(logger *log.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	logger.Printf("Starting metrics server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		logger.Printf("Metrics server error: %v", err)
	}
}
