package qc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"concrete-qc/internal/constants"
	"concrete-qc/internal/dataset"
)

type ChartKind string

const (
	ChartIndividual    ChartKind = "individual"
	ChartMovingAverage ChartKind = "moving_average"
	ChartRange         ChartKind = "range"
)

// ChartRenderer draws one control chart and returns the encoded image.
type ChartRenderer interface {
	Render(kind ChartKind, rows []Derived, t Targets, s Summary) ([]byte, error)
}

type Charts struct {
	Individual    []byte
	MovingAverage []byte
	Range         []byte
}

// Finding is one line of the conclusion block.
type Finding struct {
	Label          string          `json:"label" yaml:"label"`
	Value          string          `json:"value" yaml:"value"`
	Classification *Classification `json:"classification,omitempty" yaml:"classification,omitempty"`
}

type Report struct {
	ID          uuid.UUID `json:"id" yaml:"id"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	Targets     Targets   `json:"targets" yaml:"targets"`
	Replicates  []string  `json:"replicates" yaml:"replicates"`
	Rows        []Derived `json:"rows" yaml:"-"`
	Summary     Summary   `json:"summary" yaml:"summary"`
	Findings    []Finding `json:"findings" yaml:"findings"`
	Charts      Charts    `json:"-" yaml:"-"`
}

type Service struct {
	log    *slog.Logger
	charts ChartRenderer
}

// NewService builds the report pipeline. charts may be nil when only the
// numeric report is needed.
func NewService(log *slog.Logger, charts ChartRenderer) *Service {
	return &Service{log: log, charts: charts}
}

func (s *Service) Analyze(ctx context.Context, ds *dataset.Dataset, t Targets) (*Report, error) {
	const op = "service.qc.Analyze"

	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if ds == nil || len(ds.Rows) == 0 {
		return nil, fmt.Errorf("%s: %w", op, dataset.ErrNoRows)
	}

	rows := Derive(ds)
	sum := Summarize(rows, t)

	rep := &Report{
		ID:          uuid.New(),
		GeneratedAt: time.Now(),
		Targets:     t,
		Replicates:  ds.Replicates,
		Rows:        rows,
		Summary:     sum,
		Findings:    Findings(sum),
	}

	if s.charts != nil {
		charts, err := s.renderCharts(ctx, rows, t, sum)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		rep.Charts = charts
	}

	s.log.Info("report generated",
		slog.String("op", op),
		slog.String("id", rep.ID.String()),
		slog.Int("rows", len(rows)),
		slog.Int("replicates", len(ds.Replicates)),
	)

	return rep, nil
}

func (s *Service) renderCharts(ctx context.Context, rows []Derived, t Targets, sum Summary) (Charts, error) {
	var out Charts

	targets := []struct {
		kind ChartKind
		dst  *[]byte
	}{
		{ChartIndividual, &out.Individual},
		{ChartMovingAverage, &out.MovingAverage},
		{ChartRange, &out.Range},
	}

	g, gCtx := errgroup.WithContext(ctx)
	for _, tg := range targets {
		tg := tg
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			b, err := s.charts.Render(tg.kind, rows, t, sum)
			if err != nil {
				return fmt.Errorf("chart %s: %w", tg.kind, err)
			}
			*tg.dst = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Charts{}, err
	}
	return out, nil
}

// Findings lists the aggregate statistics in report order.
func Findings(s Summary) []Finding {
	classified := func(c Classification) *Classification { return &c }
	unit := " " + constants.StrengthUnit

	return []Finding{
		{Label: "平均強度 X̄", Value: s.Mean.Format("%.1f") + unit},
		{Label: "標準差 S", Value: s.StdDev.Format("%.1f") + unit, Classification: classified(ClassifyStdDev(s.StdDev))},
		{Label: "組內變異係數 V1", Value: s.V1.Format("%.1f%%"), Classification: classified(ClassifyV1(s.V1))},
		{Label: "安全係數 (X̄ / fc')", Value: s.Safety.Format("%.2f"), Classification: classified(ClassifySafety(s.Safety))},
		{Label: "達成率 (X̄ / fcr')", Value: s.Economy.Format("%.2f"), Classification: classified(ClassifyEconomy(s.Economy))},
		{Label: "整體變異係數 V%", Value: s.VPercent.Format("%.1f%%"), Classification: classified(ClassifyVPercent(s.VPercent))},
	}
}
