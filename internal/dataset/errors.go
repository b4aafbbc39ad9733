package dataset

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSchema = errors.New("dataset: schema mismatch")
	ErrNoRows = errors.New("dataset: no data rows")
)

// SchemaError reports required columns absent from the header.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("需至少有欄位：取樣日期, 組號, 施工部位, 以及 X1~X6 (missing: %s)", strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Is(target error) bool { return target == ErrSchema }

// RowError rejects the whole dataset because of one bad row.
// Row is 1-based and counts data rows only.
type RowError struct {
	Row    int
	Column string
	Reason string
}

func (e *RowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("第 %d 筆資料: %s", e.Row, e.Reason)
	}
	return fmt.Sprintf("第 %d 筆資料, 欄位 %s: %s", e.Row, e.Column, e.Reason)
}

// IsInput reports whether err was caused by the uploaded data rather than the server.
func IsInput(err error) bool {
	var rowErr *RowError
	return errors.Is(err, ErrSchema) || errors.Is(err, ErrNoRows) || errors.As(err, &rowErr)
}
