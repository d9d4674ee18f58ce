// Package main replays the monitoring pipeline over a historical month.
// Executes: archive read → reconstruction → day-by-day report backfill.
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

	"bike-stock-lab/internal/backfill"
	"bike-stock-lab/internal/domain"
	"bike-stock-lab/internal/ingestion"
	"bike-stock-lab/internal/model"
	"bike-stock-lab/internal/observability"
	"bike-stock-lab/internal/pipeline"
	"bike-stock-lab/internal/report/stub"
	"bike-stock-lab/internal/storage"
	"bike-stock-lab/internal/storage/memory"
	"bike-stock-lab/internal/storage/migrations"
	pgstore "bike-stock-lab/internal/storage/postgres"
)

func main() {
	mode := flag.String("mode", "drift", "Backfill mode: drift or performance")
	year := flag.Int("year", 2024, "Target year")
	month := flag.Int("month", 0, "Target month (1-12)")
	referenceArchive := flag.String("reference", "", "Reference trip archive CSV")
	currentArchive := flag.String("current", "", "Current trip archive CSV")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	migrate := flag.Bool("migrate", false, "Apply database migrations before writing")
	shareThreshold := flag.Float64("share-threshold", backfill.DefaultShareThreshold, "Drifted-share threshold for the dataset drift flag")
	columnThreshold := flag.Float64("column-threshold", backfill.DefaultColumnThreshold, "Per-column drift score threshold")
	tailFraction := flag.Float64("tail-fraction", 0.2, "Trailing reference fraction used in performance mode")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics HTTP address (empty to disable)")
	flag.Parse()

	logger := log.New(os.Stdout, "[backfill] ", log.LstdFlags|log.Lshortfile)

	if *month < 1 || *month > 12 {
		logger.Fatalf("--month must be 1-12, got %d", *month)
	}
	if *referenceArchive == "" || *currentArchive == "" {
		logger.Fatal("--reference and --current are required")
	}
	runMode := backfill.Mode(*mode)
	if runMode != backfill.ModeDrift && runMode != backfill.ModePerformance {
		logger.Fatalf("Unknown mode: %s", *mode)
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
		logger.Printf("Received signal %v, cancelling backfill...", sig)
		cancel()
	}()

	if !*useMemory && *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}

	var (
		driftStore       storage.ColumnDriftStore      = memory.NewColumnDriftStore()
		summaryStore     storage.DatasetSummaryStore   = memory.NewDatasetSummaryStore()
		performanceStore storage.ModelPerformanceStore = memory.NewModelPerformanceStore()
	)
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

		driftStore = pgstore.NewColumnDriftStore(pool)
		summaryStore = pgstore.NewDatasetSummaryStore(pool)
		performanceStore = pgstore.NewModelPerformanceStore(pool)
	}

	reference, current, err := buildDatasets(logger, *referenceArchive, *currentArchive)
	if err != nil {
		logger.Fatalf("Build datasets: %v", err)
	}

	if runMode == backfill.ModePerformance {
		// Score against the reference validation split, with the baseline
		// prediction filled on both sides.
		reference = backfill.TailFraction(reference, *tailFraction)
		model.Apply(model.CarryForward{}, reference)
		model.Apply(model.CarryForward{}, current)
	}

	runner := backfill.NewRunner(backfill.Options{
		Generator:        stub.NewGenerator(),
		Mode:             runMode,
		Anchors:          pipeline.DefaultConfig().Anchors,
		DriftStore:       driftStore,
		SummaryStore:     summaryStore,
		PerformanceStore: performanceStore,
		ShareThreshold:   *shareThreshold,
		ColumnThreshold:  *columnThreshold,
		Logger:           logger,
		Metrics:          metrics,
	})

	start := time.Now()
	if err := runner.Run(ctx, reference, current, *year, time.Month(*month)); err != nil {
		logger.Fatalf("Backfill: %v", err)
	}

	fmt.Printf("Backfilled %s metrics for %04d-%02d in %s\n",
		runMode, *year, *month, time.Since(start).Round(time.Millisecond))
}

// buildDatasets runs the reconstruction pipeline over both archives. The
// station ranking comes from the reference dataset and is reused for the
// current one.
func buildDatasets(logger *log.Logger, referencePath, currentPath string) ([]*domain.FeatureRow, []*domain.FeatureRow, error) {
	p := pipeline.New(pipeline.DefaultConfig())

	rawReference, err := ingestion.ReadEventsFile(referencePath)
	if err != nil {
		return nil, nil, err
	}
	reference, err := p.Run(rawReference, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("reference pipeline: %w", err)
	}
	logger.Printf("Reference: %d rows, stations %v", len(reference.Features), reference.Stations)

	rawCurrent, err := ingestion.ReadEventsFile(currentPath)
	if err != nil {
		return nil, nil, err
	}
	current, err := p.Run(rawCurrent, reference.Stations)
	if err != nil {
		return nil, nil, fmt.Errorf("current pipeline: %w", err)
	}
	logger.Printf("Current: %d rows", len(current.Features))

	return reference.Features, current.Features, nil
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
