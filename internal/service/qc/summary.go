package qc

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
)

// zeroMean is the magnitude below which X̄ is treated as zero and ratios
// against it are left undefined.
const zeroMean = 1e-9

var ErrInvalidTargets = errors.New("fc' and fcr' must be positive numbers")

type Targets struct {
	Fc  float64 `json:"fc" yaml:"fc"`
	Fcr float64 `json:"fcr" yaml:"fcr"`
}

func (t Targets) Validate() error {
	for _, v := range []float64{t.Fc, t.Fcr} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return ErrInvalidTargets
		}
	}
	return nil
}

type Summary struct {
	// Count is the number of rows with a defined X.
	Count     int     `json:"count" yaml:"count"`
	Mean      Measure `json:"mean" yaml:"mean"`
	StdDev    Measure `json:"std_dev" yaml:"std_dev"`
	MeanRange Measure `json:"mean_range" yaml:"mean_range"`
	V1        Measure `json:"v1" yaml:"v1"`
	VPercent  Measure `json:"v_percent" yaml:"v_percent"`
	Safety    Measure `json:"safety" yaml:"safety"`
	Economy   Measure `json:"economy" yaml:"economy"`
}

// Summarize aggregates X and R over rows where they are defined.
func Summarize(rows []Derived, t Targets) Summary {
	var xs, rs []float64
	for _, r := range rows {
		if r.X.Valid {
			xs = append(xs, r.X.Value)
		}
		if r.R.Valid {
			rs = append(rs, r.R.Value)
		}
	}

	s := Summary{Count: len(xs)}
	if len(xs) == 0 {
		return s
	}
	s.Mean = some(stat.Mean(xs, nil))
	if len(xs) > 1 {
		s.StdDev = some(stat.StdDev(xs, nil))
	}
	if len(rs) > 0 {
		s.MeanRange = some(stat.Mean(rs, nil))
	}

	if math.Abs(s.Mean.Value) < zeroMean {
		return s
	}
	s.V1 = ratio(s.MeanRange, s.Mean, 100)
	s.VPercent = ratio(s.StdDev, s.Mean, 100)
	s.Safety = ratio(s.Mean, Measure{Value: t.Fc, Valid: t.Fc > 0}, 1)
	s.Economy = ratio(s.Mean, Measure{Value: t.Fcr, Valid: t.Fcr > 0}, 1)
	return s
}

func ratio(num, den Measure, scale float64) Measure {
	if !num.Valid || !den.Valid || den.Value == 0 {
		return Measure{}
	}
	return some(num.Value / den.Value * scale)
}
