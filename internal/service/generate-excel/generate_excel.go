package generate_excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"concrete-qc/internal/constants"
	"concrete-qc/internal/dataset"
	"concrete-qc/internal/service/qc"
)

const (
	dataSheet    = "資料"
	summarySheet = "統計"
)

type ReportBuilder interface {
	Analyze(ctx context.Context, ds *dataset.Dataset, t qc.Targets) (*qc.Report, error)
}

type GenerateExcelService struct {
	reports ReportBuilder
}

func NewGenerateService(reports ReportBuilder) *GenerateExcelService {
	return &GenerateExcelService{reports: reports}
}

// GenerateExcel runs the report pipeline and writes the result as a workbook:
// the derived table with a line chart, and a statistics sheet with the
// conclusion and both reference tables.
func (g *GenerateExcelService) GenerateExcel(ctx context.Context, ds *dataset.Dataset, t qc.Targets) ([]byte, error) {
	const op = "service.generate_excel.GenerateExcel"

	rep, err := g.reports.Analyze(ctx, ds, t)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", dataSheet); err != nil {
		return nil, fmt.Errorf("%s: rename sheet: %w", op, err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("%s: new sheet: %w", op, err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: header style: %w", op, err)
	}
	oneDecimal := "0.0"
	numStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &oneDecimal})
	if err != nil {
		return nil, fmt.Errorf("%s: number style: %w", op, err)
	}

	if err := writeData(f, rep, headerStyle, numStyle); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := writeSummary(f, rep, headerStyle); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: write: %w", op, err)
	}
	return buf.Bytes(), nil
}

func writeData(f *excelize.File, rep *qc.Report, headerStyle, numStyle int) error {
	headers := []string{constants.ColSampleDate, constants.ColGroupNo, constants.ColLocation}
	headers = append(headers, rep.Replicates...)
	headers = append(headers, "X", "R", "X̄5", "fc'", "fcr'")

	for i, name := range headers {
		if err := f.SetCellValue(dataSheet, cellName(i+1, 1), name); err != nil {
			return fmt.Errorf("header %s: %w", name, err)
		}
	}
	if err := f.SetCellStyle(dataSheet, "A1", cellName(len(headers), 1), headerStyle); err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	nRep := len(rep.Replicates)
	xCol := 4 + nRep
	for rowIdx, r := range rep.Rows {
		rowNum := rowIdx + 2

		values := []interface{}{r.SampleDate, r.GroupNo, r.Location}
		for _, rd := range r.Readings {
			values = append(values, reading(rd))
		}
		values = append(values, measure(r.X), measure(r.R), measure(r.Xbar5), rep.Targets.Fc, rep.Targets.Fcr)

		if err := f.SetSheetRow(dataSheet, cellName(1, rowNum), &values); err != nil {
			return fmt.Errorf("row %d: %w", rowNum, err)
		}
	}

	last := len(rep.Rows) + 1
	if err := f.SetCellStyle(dataSheet, cellName(xCol, 2), cellName(xCol+2, last), numStyle); err != nil {
		return fmt.Errorf("number style: %w", err)
	}

	if err := f.SetPanes(dataSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
	}); err != nil {
		return fmt.Errorf("panes: %w", err)
	}
	if err := f.SetColWidth(dataSheet, "A", "C", 14); err != nil {
		return fmt.Errorf("col width: %w", err)
	}

	series := func(col int) excelize.ChartSeries {
		colName, _ := excelize.ColumnNumberToName(col)
		return excelize.ChartSeries{
			Name:       fmt.Sprintf("'%s'!$%s$1", dataSheet, colName),
			Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", dataSheet, last),
			Values:     fmt.Sprintf("'%s'!$%s$2:$%s$%d", dataSheet, colName, colName, last),
		}
	}

	return f.AddChart(dataSheet, cellName(len(headers)+2, 1), &excelize.Chart{
		Type:      excelize.Line,
		Series:    []excelize.ChartSeries{series(xCol), series(xCol + 3), series(xCol + 4)},
		Title:     []excelize.RichTextRun{{Text: "個別值強度管制圖"}},
		Legend:    excelize.ChartLegend{Position: "bottom"},
		Dimension: excelize.ChartDimension{Width: 720, Height: 360},
	})
}

func writeSummary(f *excelize.File, rep *qc.Report, headerStyle int) error {
	rowNum := 1
	put := func(values ...interface{}) error {
		err := f.SetSheetRow(summarySheet, cellName(1, rowNum), &values)
		rowNum++
		return err
	}
	header := func(values ...interface{}) error {
		if err := f.SetCellStyle(summarySheet, cellName(1, rowNum), cellName(len(values), rowNum), headerStyle); err != nil {
			return err
		}
		return put(values...)
	}

	steps := []func() error{
		func() error { return put("報告編號", rep.ID.String()) },
		func() error { return put("規定強度 fc'", rep.Targets.Fc) },
		func() error { return put("目標強度 fcr'", rep.Targets.Fcr) },
		func() error { return put("有效組數", rep.Summary.Count) },
		func() error { rowNum++; return header("分析結論", "數值", "評等", "說明") },
	}
	for _, fd := range rep.Findings {
		fd := fd
		steps = append(steps, func() error {
			if fd.Classification == nil {
				return put(fd.Label, fd.Value)
			}
			return put(fd.Label, fd.Value, string(fd.Classification.Tier), fd.Classification.Text)
		})
	}
	for _, table := range []struct {
		title string
		rows  []constants.ReferenceRow
	}{
		{"V₁ (%) 範圍", constants.V1Reference},
		{"V% 範圍", constants.VPercentReference},
	} {
		table := table
		steps = append(steps, func() error { rowNum++; return header(table.title, "評等", "說明") })
		for _, rr := range table.rows {
			rr := rr
			steps = append(steps, func() error { return put(rr.Range, rr.Grade, rr.Note) })
		}
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return fmt.Errorf("summary row %d: %w", rowNum, err)
		}
	}

	return f.SetColWidth(summarySheet, "A", "D", 22)
}

func reading(rd dataset.Reading) interface{} {
	if !rd.Valid {
		return nil
	}
	return rd.Value
}

func measure(m qc.Measure) interface{} {
	if !m.Valid {
		return nil
	}
	return m.Value
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
