package view

import (
	"embed"
	"html/template"
	"io"
	"strconv"

	"concrete-qc/internal/constants"
	"concrete-qc/internal/dataset"
	"concrete-qc/internal/service/qc"
)

//go:embed templates/*.html
var files embed.FS

var page = template.Must(template.New("page.html").Funcs(template.FuncMap{
	// Chart SVG comes from controlchart, which escapes axis labels.
	"svg": func(b []byte) template.HTML { return template.HTML(b) },
	"reading": func(r dataset.Reading) string {
		if !r.Valid {
			return ""
		}
		return strconv.FormatFloat(r.Value, 'f', -1, 64)
	},
}).ParseFS(files, "templates/page.html"))

// Page is everything the single report page shows. Report is nil before the
// first upload or after a rejected one.
type Page struct {
	Defaults qc.Targets
	Report   *qc.Report
	Error    string

	Unit              string
	V1Reference       []constants.ReferenceRow
	VPercentReference []constants.ReferenceRow
}

func NewPage(defaults qc.Targets) Page {
	return Page{
		Defaults:          defaults,
		Unit:              constants.StrengthUnit,
		V1Reference:       constants.V1Reference,
		VPercentReference: constants.VPercentReference,
	}
}

func Render(w io.Writer, p Page) error {
	return page.Execute(w, p)
}
