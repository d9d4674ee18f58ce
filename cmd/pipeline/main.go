// Package main reconstructs stock series and feature rows from one trip
// archive and persists them.
// Executes: cleaning → flow aggregation → reconstruction → derivation.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"bike-stock-lab/internal/domain"
	"bike-stock-lab/internal/ingestion"
	"bike-stock-lab/internal/observability"
	"bike-stock-lab/internal/pipeline"
	"bike-stock-lab/internal/storage"
	chstore "bike-stock-lab/internal/storage/clickhouse"
	"bike-stock-lab/internal/storage/memory"
	"bike-stock-lab/internal/storage/migrations"
)

func main() {
	archive := flag.String("archive", "", "Trip archive CSV to process")
	out := flag.String("out", "", "Optional path to write the feature table as CSV")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of ClickHouse")
	migrate := flag.Bool("migrate", false, "Apply database migrations before writing")
	topStations := flag.Int("top-stations", 3, "Number of busiest start stations to monitor")
	baseStock := flag.Float64("base-stock", 10, "Synthetic stock level at each midnight reset")
	binWidth := flag.Duration("bin-width", 15*time.Minute, "Resampling bin width")
	flag.Parse()

	logger := log.New(os.Stdout, "[pipeline] ", log.LstdFlags|log.Lshortfile)

	if *archive == "" {
		logger.Fatal("--archive is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, cancelling...", sig)
		cancel()
	}()

	if !*useMemory && *clickhouseDSN == "" {
		logger.Fatal("--clickhouse-dsn is required (use --use-memory for in-memory storage)")
	}

	var stockStore storage.StockTimeseriesStore = memory.NewStockTimeseriesStore()
	var featureStore storage.FeatureRowStore = memory.NewFeatureRowStore()
	if !*useMemory {
		conn, err := chstore.EnsureDatabase(ctx, *clickhouseDSN)
		if err != nil {
			logger.Fatalf("Connect to clickhouse: %v", err)
		}
		defer conn.Close()

		if *migrate {
			if err := migrations.RunClickhouse(ctx, conn); err != nil {
				logger.Fatalf("Apply migrations: %v", err)
			}
			logger.Println("Migrations applied")
		}

		stockStore = chstore.NewStockTimeseriesStore(conn)
		featureStore = chstore.NewFeatureRowStore(conn)
	}

	raw, err := ingestion.ReadEventsFile(*archive)
	if err != nil {
		logger.Fatalf("Read archive: %v", err)
	}
	logger.Printf("Read %d raw trips from %s", len(raw), *archive)

	cfg := pipeline.DefaultConfig()
	cfg.TopStationCount = *topStations
	cfg.BaseStock = *baseStock
	cfg.BinWidth = *binWidth

	metrics := observability.NewMetrics("")
	start := time.Now()

	result, err := pipeline.New(cfg).Run(raw, nil)
	if err != nil {
		logger.Fatalf("Pipeline: %v", err)
	}

	metrics.PipelineRunsTotal.Inc()
	metrics.PipelineDuration.Observe(time.Since(start).Seconds())
	metrics.EventsCleaned.Set(float64(len(result.Cleaned)))
	metrics.FeatureRowsBuilt.Set(float64(len(result.Features)))

	logger.Printf("Monitored stations: %v", result.Stations)
	logger.Printf("Cleaned events: %d, feature rows: %d", len(result.Cleaned), len(result.Features))

	var points []*domain.StockPoint
	if result.Stock != nil {
		points = result.Stock.Points()
	}
	if err := stockStore.InsertBulk(ctx, points); err != nil {
		logger.Fatalf("Persist stock series: %v", err)
	}
	if err := featureStore.InsertBulk(ctx, result.Features); err != nil {
		logger.Fatalf("Persist feature rows: %v", err)
	}

	if *out != "" {
		if err := writeFeatureCSV(*out, result.Features); err != nil {
			logger.Fatalf("Write feature CSV: %v", err)
		}
		logger.Printf("Wrote feature table to %s", *out)
	}

	fmt.Printf("Persisted %d stock points and %d feature rows in %s\n",
		len(points), len(result.Features), time.Since(start).Round(time.Millisecond))
}

// writeFeatureCSV exports the feature table with the declared columns plus
// the raw bin time.
func writeFeatureCSV(path string, rows []*domain.FeatureRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append([]string{"time"}, domain.CategoricalFeatureColumns()...)
	header = append(header, domain.NumericFeatureColumns()...)
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range rows {
		record := []string{
			r.Time.UTC().Format(time.RFC3339),
			r.Station,
			r.RideableType,
			formatFloat(r.Stock),
			formatFloat(r.Hour),
			strconv.Itoa(r.DayOfWeek),
			strconv.Itoa(r.IsRushHour),
			formatFloat(r.Lag15mStock),
			formatFloat(r.Lag30mStock),
			formatFloat(r.Lag45mStock),
			formatFloat(r.Lag60mStock),
			formatFloat(r.TargetNextStock),
			formatFloat(r.Date),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
