package controlchart

import (
	"bytes"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concrete-qc/internal/dataset"
	"concrete-qc/internal/service/qc"
)

var targets = qc.Targets{Fc: 420, Fcr: 525}

func derive(t *testing.T, csv string) ([]qc.Derived, qc.Summary) {
	t.Helper()
	ds, err := dataset.Load(strings.NewReader(csv), "in.csv")
	require.NoError(t, err)
	rows := qc.Derive(ds)
	return rows, qc.Summarize(rows, targets)
}

func TestRender_AllKinds(t *testing.T) {
	ds, err := dataset.Load(bytes.NewReader(dataset.ExampleCSV()), dataset.ExampleFilename)
	require.NoError(t, err)
	rows := qc.Derive(ds)
	sum := qc.Summarize(rows, targets)

	r, err := NewRenderer(1000, 320, "")
	require.NoError(t, err)

	for _, kind := range []qc.ChartKind{qc.ChartIndividual, qc.ChartMovingAverage, qc.ChartRange} {
		t.Run(string(kind), func(t *testing.T) {
			svg, err := r.Render(kind, rows, targets, sum)
			require.NoError(t, err)
			out := string(svg)
			assert.Contains(t, out, "<svg")
			assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "</svg>"))
		})
	}
}

func TestRender_SingleFlatRow(t *testing.T) {
	rows, sum := derive(t, "取樣日期,組號,施工部位,X1\n2024/06/01,1,A,500\n")

	r, err := NewRenderer(800, 300, "")
	require.NoError(t, err)

	// R is 0 everywhere and the mean-range line sits on top of it
	_, err = r.Render(qc.ChartRange, rows, targets, sum)
	require.NoError(t, err)

	// no moving average yet, only the target lines are drawn
	_, err = r.Render(qc.ChartMovingAverage, rows, targets, sum)
	require.NoError(t, err)
}

func TestRender_UnknownKind(t *testing.T) {
	rows, sum := derive(t, "取樣日期,組號,施工部位,X1\nd,1,A,500\n")
	r, err := NewRenderer(800, 300, "")
	require.NoError(t, err)

	_, err = r.Render(qc.ChartKind("pareto"), rows, targets, sum)
	assert.Error(t, err)
}

func TestRender_NoRows(t *testing.T) {
	r, err := NewRenderer(800, 300, "")
	require.NoError(t, err)

	_, err = r.Render(qc.ChartIndividual, nil, targets, qc.Summary{})
	assert.ErrorIs(t, err, ErrNoData)
}

func TestNewRenderer_MissingFont(t *testing.T) {
	_, err := NewRenderer(800, 300, filepath.Join(t.TempDir(), "NotoSansTC-Black.ttf"))
	assert.Error(t, err)
}

func datedRows(n int) []qc.Derived {
	rows := make([]qc.Derived, n)
	for i := range rows {
		rows[i].SampleDate = string(rune('a' + i%26))
	}
	return rows
}

func TestDateTicks_Thinned(t *testing.T) {
	ticks := dateTicks(datedRows(45))

	// bounds, 15 thinned labels, and the last row
	require.Len(t, ticks, 18)
	assert.Equal(t, 0.5, ticks[0].Value)
	assert.Empty(t, ticks[0].Label)
	assert.Equal(t, 1.0, ticks[1].Value)
	assert.Equal(t, 4.0, ticks[2].Value)
	assert.Equal(t, 45.0, ticks[len(ticks)-2].Value)
	assert.Equal(t, 45.5, ticks[len(ticks)-1].Value)
	assert.Empty(t, ticks[len(ticks)-1].Label)
}

func TestDateTicks_SpanAllRows(t *testing.T) {
	for _, n := range []int{1, 2, 20, 21, 24, 45, 100} {
		ticks := dateTicks(datedRows(n))

		lo, hi := ticks[0].Value, ticks[0].Value
		for _, tk := range ticks {
			lo = math.Min(lo, tk.Value)
			hi = math.Max(hi, tk.Value)
		}
		assert.Equal(t, 0.5, lo, "n=%d", n)
		assert.Equal(t, float64(n)+0.5, hi, "n=%d", n)
		assert.Equal(t, float64(n), ticks[len(ticks)-2].Value, "n=%d", n)
	}
}

func TestRender_OneRowAllKinds(t *testing.T) {
	rows, sum := derive(t, "取樣日期,組號,施工部位,X1,X2\n2024/06/01,1,A,500,510\n")

	r, err := NewRenderer(800, 300, "")
	require.NoError(t, err)

	for _, kind := range []qc.ChartKind{qc.ChartIndividual, qc.ChartMovingAverage, qc.ChartRange} {
		t.Run(string(kind), func(t *testing.T) {
			svg, err := r.Render(kind, rows, targets, sum)
			require.NoError(t, err)
			assert.Contains(t, string(svg), "<svg")
		})
	}
}

func TestRender_ThinnedRowsStayInRange(t *testing.T) {
	var b strings.Builder
	b.WriteString("取樣日期,組號,施工部位,X1\n")
	for i := 0; i < 24; i++ {
		fmt.Fprintf(&b, "2024/06/%02d,%d,A,%d\n", i+1, i+1, 500+i*3)
	}
	rows, sum := derive(t, b.String())

	r, err := NewRenderer(800, 300, "")
	require.NoError(t, err)

	ch, err := r.build(plot{name: "X", values: xs(rows)}, rows)
	require.NoError(t, err)

	var lo, hi float64 = math.Inf(1), math.Inf(-1)
	for _, tk := range ch.XAxis.Ticks {
		lo = math.Min(lo, tk.Value)
		hi = math.Max(hi, tk.Value)
	}
	assert.Equal(t, 0.5, lo)
	assert.Equal(t, 24.5, hi)

	_, err = r.Render(qc.ChartIndividual, rows, targets, sum)
	require.NoError(t, err)
}

func xs(rows []qc.Derived) []qc.Measure {
	out := make([]qc.Measure, len(rows))
	for i, row := range rows {
		out[i] = row.X
	}
	return out
}

func TestPaddedRange(t *testing.T) {
	lo, hi := paddedRange([]float64{0, 0})
	assert.Equal(t, -1.0, lo)
	assert.Equal(t, 1.0, hi)

	lo, hi = paddedRange([]float64{400, 500})
	assert.InDelta(t, 390, lo, 1e-9)
	assert.InDelta(t, 510, hi, 1e-9)
}
