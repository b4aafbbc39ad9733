package qc

import (
	"encoding/json"
	"fmt"
	"math"
)

// Measure is a statistic that may be undefined (empty row, too few rows,
// zero mean). Invalid measures encode as JSON null.
type Measure struct {
	Value float64
	Valid bool
}

func some(v float64) Measure {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Measure{}
	}
	return Measure{Value: v, Valid: true}
}

func (m Measure) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

func (m *Measure) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*m = Measure{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*m = some(v)
	return nil
}

// MarshalYAML keeps the summarize command output readable.
func (m Measure) MarshalYAML() (interface{}, error) {
	if !m.Valid {
		return nil, nil
	}
	return m.Value, nil
}

// Format renders the value with the given verb, or "—" when undefined.
func (m Measure) Format(verb string) string {
	if !m.Valid {
		return "—"
	}
	return fmt.Sprintf(verb, m.Value)
}
