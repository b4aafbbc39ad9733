package dataset

// Reading is one replicate strength result. Valid is false for an empty cell.
type Reading struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// Row is one sampled batch in file order.
type Row struct {
	SampleDate string    `json:"sample_date"`
	GroupNo    string    `json:"group_no"`
	Location   string    `json:"location"`
	Readings   []Reading `json:"readings"`
}

// Values returns the present readings of the row.
func (r Row) Values() []float64 {
	vals := make([]float64, 0, len(r.Readings))
	for _, rd := range r.Readings {
		if rd.Valid {
			vals = append(vals, rd.Value)
		}
	}
	return vals
}

type Dataset struct {
	// Replicates holds the "X" column names in file order; Rows[i].Readings is aligned with it.
	Replicates []string `json:"replicates"`
	Rows       []Row    `json:"rows"`
}
