package track

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// SpeedQuantiles returns the requested quantiles (in [0, 1]) of the track's
// bounded speed history, or nil when no samples have been recorded.
func (t *Track) SpeedQuantiles(qs ...float64) []float64 {
	if len(t.speedHistory) == 0 {
		return nil
	}
	samples := t.SpeedHistory()
	sort.Float64s(samples)

	out := make([]float64, len(qs))
	for i, q := range qs {
		out[i] = stat.Quantile(q, stat.Empirical, samples, nil)
	}
	return out
}
