package main

import (
	"log/slog"
	"math"
	"sort"

	"github.com/bmizerany/perks/quantile"

	"github.com/c3sdr/plot"
)

// Quantiles reported for every series.
var summaryQuantiles = []float64{0.05, 0.50, 0.95}

// summary holds streaming quantiles of the unmasked y values of a series.
type summary struct {
	n      int
	stream *quantile.Stream
}

func newSummary(ys []float64, mask []bool) *summary {
	s := &summary{stream: quantile.NewTargeted(summaryQuantiles...)}
	for i, y := range ys {
		if (mask != nil && mask[i]) || math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		s.stream.Insert(y)
		s.n++
	}
	return s
}

// Query returns the approximate q quantile, NaN without samples.
func (s *summary) Query(q float64) float64 {
	if s.n == 0 {
		return math.NaN()
	}
	return s.stream.Query(q)
}

// logSummaries logs y quantiles of every series of the figure.
func logSummaries(logger *slog.Logger, fig *plot.Figure) {
	for _, panel := range fig.Panels() {
		for i, series := range panel.Series {
			s := newSummary(series.Y, series.YMask)
			logger.Debug("series summary",
				"panel", panel.Position.String(),
				"series", i,
				"kind", series.Kind.String(),
				"n", s.n,
				"q05", s.Query(0.05),
				"q50", s.Query(0.50),
				"q95", s.Query(0.95))
		}
	}
}

func sortedKeys(m map[string]uint64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
