package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"concrete-qc/internal/constants"
)

// Load reads a dataset from r. Files named *.xlsx are read from their first
// worksheet, everything else is treated as comma separated UTF-8 text with an
// optional byte-order mark.
func Load(r io.Reader, filename string) (*Dataset, error) {
	const op = "dataset.Load"

	var (
		records [][]string
		err     error
	)
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		records, err = readXLSX(r)
	} else {
		records, err = readCSV(r)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return fromRecords(records)
}

func readCSV(r io.Reader) ([][]string, error) {
	dec := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	cr := csv.NewReader(dec)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var records [][]string
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read csv line %d: %w", len(records)+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

type columns struct {
	date, group, location int
	replicates            []int
	names                 []string
}

func resolveHeader(header []string) (columns, error) {
	cols := columns{date: -1, group: -1, location: -1}

	for i, h := range header {
		name := strings.TrimSpace(h)
		key := strings.ToLower(name)
		switch {
		case constants.SampleDateAliases[key] && cols.date < 0:
			cols.date = i
		case constants.GroupNoAliases[key] && cols.group < 0:
			cols.group = i
		case constants.LocationAliases[key] && cols.location < 0:
			cols.location = i
		case strings.HasPrefix(name, constants.ReplicatePrefix):
			cols.replicates = append(cols.replicates, i)
			cols.names = append(cols.names, name)
		}
	}

	var missing []string
	if cols.date < 0 {
		missing = append(missing, constants.ColSampleDate)
	}
	if cols.group < 0 {
		missing = append(missing, constants.ColGroupNo)
	}
	if cols.location < 0 {
		missing = append(missing, constants.ColLocation)
	}
	if len(cols.replicates) == 0 {
		missing = append(missing, constants.ReplicatePrefix+"1")
	}
	if len(missing) > 0 {
		return cols, &SchemaError{Missing: missing}
	}
	return cols, nil
}

func fromRecords(records [][]string) (*Dataset, error) {
	if len(records) == 0 {
		return nil, &SchemaError{Missing: []string{constants.ColSampleDate, constants.ColGroupNo, constants.ColLocation, constants.ReplicatePrefix + "1"}}
	}

	header := records[0]
	cols, err := resolveHeader(header)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{Replicates: cols.names}
	n := 0
	for _, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		n++
		row, err := parseRow(rec, header, cols, n)
		if err != nil {
			return nil, err
		}
		ds.Rows = append(ds.Rows, row)
	}

	if len(ds.Rows) == 0 {
		return nil, ErrNoRows
	}
	return ds, nil
}

func parseRow(rec, header []string, cols columns, n int) (Row, error) {
	for i := len(header); i < len(rec); i++ {
		if strings.TrimSpace(rec[i]) != "" {
			return Row{}, &RowError{Row: n, Reason: "欄位數多於表頭"}
		}
	}

	field := func(i int) string {
		if i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	row := Row{
		SampleDate: field(cols.date),
		GroupNo:    field(cols.group),
		Location:   field(cols.location),
		Readings:   make([]Reading, len(cols.replicates)),
	}

	required := []struct {
		name, val string
	}{
		{constants.ColSampleDate, row.SampleDate},
		{constants.ColGroupNo, row.GroupNo},
		{constants.ColLocation, row.Location},
	}
	for _, r := range required {
		if r.val == "" {
			return Row{}, &RowError{Row: n, Column: r.name, Reason: "必填欄位空白"}
		}
	}

	present := 0
	for j, idx := range cols.replicates {
		raw := field(idx)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return Row{}, &RowError{Row: n, Column: cols.names[j], Reason: fmt.Sprintf("無法解析數值 %q", raw)}
		}
		row.Readings[j] = Reading{Value: v, Valid: true}
		present++
	}
	if present == 0 {
		return Row{}, &RowError{Row: n, Reason: "至少需要一個強度讀值"}
	}

	return row, nil
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
