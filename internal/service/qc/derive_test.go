package qc

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concrete-qc/internal/dataset"
)

func readings(vals ...float64) []dataset.Reading {
	out := make([]dataset.Reading, len(vals))
	for i, v := range vals {
		if v < 0 {
			continue // negative marks an empty cell in these fixtures
		}
		out[i] = dataset.Reading{Value: v, Valid: true}
	}
	return out
}

func rowOf(date string, vals ...float64) dataset.Row {
	return dataset.Row{SampleDate: date, GroupNo: "1", Location: "A", Readings: readings(vals...)}
}

func measures(vals ...float64) []Measure {
	out := make([]Measure, len(vals))
	for i, v := range vals {
		out[i] = Measure{Value: v, Valid: true}
	}
	return out
}

func TestDerive_MeanAndRange(t *testing.T) {
	ds := &dataset.Dataset{
		Replicates: []string{"X1", "X2", "X3", "X4"},
		Rows: []dataset.Row{
			rowOf("d1", 680, 700, 695, -1),
			rowOf("d2", 720, 735, 710, 715),
			rowOf("d3", -1, 612, -1, -1),
		},
	}

	rows := Derive(ds)
	require.Len(t, rows, 3)

	assert.InDelta(t, 2075.0/3, rows[0].X.Value, 1e-9)
	assert.Equal(t, 20.0, rows[0].R.Value)

	assert.Equal(t, 720.0, rows[1].X.Value)
	assert.Equal(t, 25.0, rows[1].R.Value)

	// single reading
	assert.Equal(t, Measure{Value: 612, Valid: true}, rows[2].X)
	assert.Equal(t, Measure{Value: 0, Valid: true}, rows[2].R)
}

func TestDerive_PreservesOrder(t *testing.T) {
	ds := &dataset.Dataset{Replicates: []string{"X1"}}
	dates := []string{"2024/06/05", "2024/06/01", "2024/06/03", "2024/06/01"}
	for i, d := range dates {
		ds.Rows = append(ds.Rows, rowOf(d, float64(i+1)))
	}

	rows := Derive(ds)
	for i, r := range rows {
		assert.Equal(t, dates[i], r.SampleDate)
		assert.Equal(t, float64(i+1), r.X.Value)
	}
}

func TestDerive_AllMissingRowIsGap(t *testing.T) {
	ds := &dataset.Dataset{
		Replicates: []string{"X1", "X2"},
		Rows: []dataset.Row{
			rowOf("d1", 10, 12),
			rowOf("d2", -1, -1),
		},
	}

	rows := Derive(ds)
	assert.False(t, rows[1].X.Valid)
	assert.False(t, rows[1].R.Valid)

	sum := Summarize(rows, Targets{Fc: 10, Fcr: 10})
	assert.Equal(t, 1, sum.Count)
	assert.Equal(t, 11.0, sum.Mean.Value)
}

func TestMovingAverage(t *testing.T) {
	xs := measures(1, 2, 3, 4, 5, 6, 7, 20)
	got := MovingAverage(xs, 5)
	require.Len(t, got, len(xs))

	for i := 0; i < 4; i++ {
		assert.False(t, got[i].Valid, "index %d", i)
	}
	assert.InDelta(t, 3.0, got[4].Value, 1e-9)
	assert.InDelta(t, 4.0, got[5].Value, 1e-9)
	assert.InDelta(t, 5.0, got[6].Value, 1e-9)
	assert.InDelta(t, (4+5+6+7+20)/5.0, got[7].Value, 1e-9)
}

func TestMovingAverage_GapInvalidatesWindow(t *testing.T) {
	xs := measures(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	xs[3] = Measure{}

	got := MovingAverage(xs, 5)
	for i := 4; i <= 7; i++ {
		assert.False(t, got[i].Valid, "window ending at %d touches the gap", i)
	}
	assert.True(t, got[8].Valid)
	assert.InDelta(t, 7.0, got[8].Value, 1e-9)
}

func TestMovingAverage_ShortInput(t *testing.T) {
	got := MovingAverage(measures(1, 2, 3), 5)
	for _, m := range got {
		assert.False(t, m.Valid)
	}
	assert.Len(t, MovingAverage(nil, 5), 0)
}

func TestDerive_ExampleRoundTrip(t *testing.T) {
	ds, err := dataset.Load(bytes.NewReader(dataset.ExampleCSV()), dataset.ExampleFilename)
	require.NoError(t, err)

	rows := Derive(ds)
	require.Len(t, rows, 3)
	for _, r := range rows {
		assert.True(t, r.X.Valid)
		assert.True(t, r.R.Valid)
		assert.False(t, r.Xbar5.Valid)
	}
	assert.Equal(t, 640.0, rows[2].X.Value)
}
