package ingestion

import (
	"context"
	"fmt"
	"log"
	"time"

	"bike-stock-lab/internal/observability"
	"bike-stock-lab/internal/storage"
)

// Loader bulk-loads parsed trip archives into a trip store.
type Loader struct {
	store   storage.TripStore
	logger  *log.Logger
	metrics *observability.Metrics
}

// NewLoader creates a Loader. logger and metrics may be nil.
func NewLoader(store storage.TripStore, logger *log.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{store: store, logger: logger, metrics: metrics}
}

// LoadFile parses one archive file and copies its rows into the store.
// Returns the number of rows written.
func (l *Loader) LoadFile(ctx context.Context, path string) (int64, error) {
	start := time.Now()

	events, err := ReadEventsFile(path)
	if err != nil {
		return 0, err
	}

	n, err := l.store.CopyIn(ctx, events)
	if err != nil {
		return 0, fmt.Errorf("copy trips: %w", err)
	}

	if l.metrics != nil {
		l.metrics.TripsLoaded.Add(float64(n))
		l.metrics.IngestionDuration.Observe(time.Since(start).Seconds())
	}
	if l.logger != nil {
		l.logger.Printf("loaded %d trips from %s in %s", n, path, time.Since(start).Round(time.Millisecond))
	}

	return n, nil
}

// LoadFiles loads several archives in order, stopping at the first failure.
func (l *Loader) LoadFiles(ctx context.Context, paths []string) (int64, error) {
	var total int64
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, err := l.LoadFile(ctx, path)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}
