package controlchart

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"math"
	"os"

	"github.com/golang/freetype/truetype"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"concrete-qc/internal/constants"
	"concrete-qc/internal/service/qc"
)

const maxTickLabels = 20

var ErrNoData = errors.New("controlchart: nothing to plot")

// Renderer draws the three control charts as SVG. It holds no per-request
// state and is safe for concurrent use.
type Renderer struct {
	width  int
	height int
	font   *truetype.Font
}

// NewRenderer loads the optional TrueType font used for CJK labels. An empty
// fontPath keeps go-chart's built-in font.
func NewRenderer(width, height int, fontPath string) (*Renderer, error) {
	const op = "controlchart.NewRenderer"

	r := &Renderer{width: width, height: height}
	if fontPath == "" {
		return r, nil
	}

	b, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("%s: read font: %w", op, err)
	}
	r.font, err = truetype.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: parse font %s: %w", op, fontPath, err)
	}
	return r, nil
}

type refLine struct {
	name  string
	y     float64
	color drawing.Color
}

type plot struct {
	title  string
	yName  string
	name   string
	color  drawing.Color
	values []qc.Measure
	refs   []refLine
}

func (r *Renderer) Render(kind qc.ChartKind, rows []qc.Derived, t qc.Targets, s qc.Summary) ([]byte, error) {
	const op = "controlchart.Render"

	p, err := plotFor(kind, rows, t, s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ch, err := r.build(p, rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, kind, err)
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("%s: render %s: %w", op, kind, err)
	}
	return buf.Bytes(), nil
}

func plotFor(kind qc.ChartKind, rows []qc.Derived, t qc.Targets, s qc.Summary) (plot, error) {
	targets := []refLine{
		{name: "fc'", y: t.Fc, color: chart.ColorRed},
		{name: "fcr'", y: t.Fcr, color: chart.ColorGreen},
	}

	values := make([]qc.Measure, len(rows))
	switch kind {
	case qc.ChartIndividual:
		for i, row := range rows {
			values[i] = row.X
		}
		return plot{
			title:  "個別值強度管制圖",
			yName:  "抗壓強度 (" + constants.StrengthUnit + ")",
			name:   "X (平均)",
			color:  chart.ColorBlue,
			values: values,
			refs:   targets,
		}, nil
	case qc.ChartMovingAverage:
		for i, row := range rows {
			values[i] = row.Xbar5
		}
		return plot{
			title:  fmt.Sprintf("%d 組移動平均管制圖", constants.MovingWindow),
			yName:  "平均強度",
			name:   "X̄5",
			color:  chart.ColorOrange,
			values: values,
			refs:   targets,
		}, nil
	case qc.ChartRange:
		for i, row := range rows {
			values[i] = row.R
		}
		p := plot{
			title:  "組內強度全距圖 (R chart)",
			yName:  "全距 R",
			name:   "R",
			color:  chart.ColorBlack,
			values: values,
		}
		if s.MeanRange.Valid {
			p.refs = []refLine{{name: "R̄", y: s.MeanRange.Value, color: chart.ColorBlue}}
		}
		return p, nil
	default:
		return plot{}, fmt.Errorf("unknown chart kind %q", kind)
	}
}

func (r *Renderer) build(p plot, rows []qc.Derived) (chart.Chart, error) {
	n := len(rows)
	if n == 0 {
		return chart.Chart{}, ErrNoData
	}
	lo, hi := 0.5, float64(n)+0.5

	var (
		series []chart.Series
		ys     []float64
	)

	var xs, vs []float64
	for i, m := range p.values {
		if m.Valid {
			xs = append(xs, float64(i+1))
			vs = append(vs, m.Value)
		}
	}
	if len(xs) > 0 {
		series = append(series, chart.ContinuousSeries{
			Name:    p.name,
			XValues: xs,
			YValues: vs,
			Style: chart.Style{
				StrokeColor: p.color,
				StrokeWidth: 2,
				DotColor:    p.color,
				DotWidth:    4,
			},
		})
		ys = append(ys, vs...)
	}

	for _, ref := range p.refs {
		series = append(series, chart.ContinuousSeries{
			Name:    ref.name,
			XValues: []float64{lo, hi},
			YValues: []float64{ref.y, ref.y},
			Style: chart.Style{
				StrokeColor:     ref.color,
				StrokeWidth:     1.5,
				StrokeDashArray: []float64{6, 4},
			},
		})
		ys = append(ys, ref.y)
	}
	if len(series) == 0 {
		return chart.Chart{}, ErrNoData
	}

	yMin, yMax := paddedRange(ys)

	ch := chart.Chart{
		Title:      p.title,
		Width:      r.width,
		Height:     r.height,
		Font:       r.font,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 70}},
		XAxis: chart.XAxis{
			Name:      "取樣日期",
			Ticks:     dateTicks(rows),
			Range:     &chart.ContinuousRange{Min: lo, Max: hi},
			TickStyle: chart.Style{TextRotationDegrees: 30},
		},
		YAxis: chart.YAxis{
			Name:           p.yName,
			Range:          &chart.ContinuousRange{Min: yMin, Max: yMax},
			ValueFormatter: tickFormatter(yMax - yMin),
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch, nil
}

// dateTicks labels row positions with their sample dates in file order,
// thinning labels for long datasets. go-chart takes the x range from the
// ticks when any are set, so unlabelled ticks pin it to 0.5..n+0.5 and the
// last row is always labelled.
func dateTicks(rows []qc.Derived) []chart.Tick {
	n := len(rows)
	step := int(math.Ceil(float64(n) / maxTickLabels))
	if step < 1 {
		step = 1
	}
	ticks := make([]chart.Tick, 0, n/step+4)
	ticks = append(ticks, chart.Tick{Value: 0.5})
	last := -1
	for i := 0; i < n; i += step {
		ticks = append(ticks, chart.Tick{Value: float64(i + 1), Label: html.EscapeString(rows[i].SampleDate)})
		last = i
	}
	if last != n-1 {
		ticks = append(ticks, chart.Tick{Value: float64(n), Label: html.EscapeString(rows[n-1].SampleDate)})
	}
	return append(ticks, chart.Tick{Value: float64(n) + 0.5})
}

func paddedRange(ys []float64) (float64, float64) {
	lo, hi := ys[0], ys[0]
	for _, y := range ys[1:] {
		lo = math.Min(lo, y)
		hi = math.Max(hi, y)
	}
	pad := (hi - lo) * 0.1
	if pad == 0 {
		pad = math.Max(1, math.Abs(hi)*0.05)
	}
	return lo - pad, hi + pad
}

func tickFormatter(span float64) chart.ValueFormatter {
	format := "%.0f"
	if span < 10 {
		format = "%.1f"
	}
	return func(v interface{}) string {
		if f, ok := v.(float64); ok {
			return fmt.Sprintf(format, f)
		}
		return ""
	}
}
