package get

import (
	"log/slog"
	"net/http"
	"strconv"

	"concrete-qc/internal/dataset"
)

// ExampleCSV serves the bundled example file for download.
func ExampleCSV(log *slog.Logger) http.HandlerFunc {
	body := dataset.ExampleCSV()

	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.example.ExampleCSV"

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", "attachment; filename="+dataset.ExampleFilename)
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		if _, err := w.Write(body); err != nil {
			log.Error("failed to write example", slog.String("op", op), slog.String("error", err.Error()))
		}
	}
}
