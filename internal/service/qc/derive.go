package qc

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"concrete-qc/internal/constants"
	"concrete-qc/internal/dataset"
)

// Derived holds the computed columns for one input row.
type Derived struct {
	dataset.Row
	X     Measure `json:"x"`
	R     Measure `json:"r"`
	Xbar5 Measure `json:"xbar5"`
}

// Derive computes X and R per row and the trailing moving average of X.
// Rows keep their file order; nothing is sorted by date.
func Derive(ds *dataset.Dataset) []Derived {
	out := make([]Derived, len(ds.Rows))
	xs := make([]Measure, len(ds.Rows))

	for i, row := range ds.Rows {
		out[i].Row = row
		vals := row.Values()
		if len(vals) == 0 {
			continue
		}
		out[i].X = some(stat.Mean(vals, nil))
		out[i].R = some(floats.Max(vals) - floats.Min(vals))
		xs[i] = out[i].X
	}

	for i, m := range MovingAverage(xs, constants.MovingWindow) {
		out[i].Xbar5 = m
	}
	return out
}

// MovingAverage returns the trailing mean over window values. The first
// window-1 entries, and any window containing an undefined value, are undefined.
func MovingAverage(xs []Measure, window int) []Measure {
	out := make([]Measure, len(xs))
	if window <= 0 {
		return out
	}

	buf := make([]float64, 0, window)
	for i := window - 1; i < len(xs); i++ {
		buf = buf[:0]
		for _, m := range xs[i-window+1 : i+1] {
			if !m.Valid {
				break
			}
			buf = append(buf, m.Value)
		}
		if len(buf) == window {
			out[i] = some(stat.Mean(buf, nil))
		}
	}
	return out
}
