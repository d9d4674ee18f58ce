package inventory

import (
	"time"

	"bike-stock-lab/internal/domain"
)

// Reconstruct turns binned net flow into a synthetic stock level.
//
// Within each calendar day the running cumulative sum of net flow restarts
// from zero, so stock = baseStock + cumulative flow since local midnight
// and resets to baseStock at every midnight boundary. Stock is not clamped;
// it can go negative or arbitrarily high.
//
// The first warmupBins rows are dropped as an incomplete warm-up period
// whose reset boundary cannot be verified. A series shorter than the
// warm-up yields nil.
func Reconstruct(fs *domain.FlowSeries, baseStock float64, warmupBins int) *domain.StockSeries {
	if fs == nil || len(fs.Bins) <= warmupBins {
		return nil
	}

	stock := make(map[domain.SeriesKey][]float64, len(fs.Keys))
	for _, k := range fs.Keys {
		flow := fs.Flow[k]
		values := make([]float64, len(fs.Bins))

		cum := 0
		for i, bin := range fs.Bins {
			if i > 0 && !sameDay(bin, fs.Bins[i-1]) {
				cum = 0
			}
			cum += flow[i]
			values[i] = baseStock + float64(cum)
		}

		stock[k] = values[warmupBins:]
	}

	keys := make([]domain.SeriesKey, len(fs.Keys))
	copy(keys, fs.Keys)

	bins := make([]time.Time, len(fs.Bins)-warmupBins)
	copy(bins, fs.Bins[warmupBins:])

	return &domain.StockSeries{
		Bins:  bins,
		Keys:  keys,
		Stock: stock,
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
