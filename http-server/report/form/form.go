package form

import (
	"log/slog"
	"net/http"

	"concrete-qc/internal/service/qc"
	"concrete-qc/internal/view"
)

func ReportForm(log *slog.Logger, defaults qc.Targets) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.report.ReportForm"

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := view.Render(w, view.NewPage(defaults)); err != nil {
			log.Error("failed to render form", slog.String("op", op), slog.String("error", err.Error()))
		}
	}
}
