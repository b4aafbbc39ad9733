package generate

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"concrete-qc/http-server/upload"
	"concrete-qc/internal/dataset"
	"concrete-qc/internal/service/qc"
	"concrete-qc/internal/view"
)

type ReportBuilder interface {
	Analyze(ctx context.Context, ds *dataset.Dataset, t qc.Targets) (*qc.Report, error)
}

// GenerateReport answers the upload form with the full HTML report, or with
// the form and an error message when the upload is rejected.
func GenerateReport(log *slog.Logger, builder ReportBuilder, defaults upload.Defaults, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.report.GenerateReport"

		up, err := upload.Parse(w, r, defaults)
		if err != nil {
			fail(w, log, op, up.Targets, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		rep, err := builder.Analyze(ctx, up.Dataset, up.Targets)
		if err != nil {
			fail(w, log, op, up.Targets, err)
			return
		}

		page := view.NewPage(up.Targets)
		page.Report = rep

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := view.Render(w, page); err != nil {
			log.Error("failed to render report", slog.String("op", op), slog.String("error", err.Error()))
		}
	}
}

func fail(w http.ResponseWriter, log *slog.Logger, op string, targets qc.Targets, err error) {
	status, msg := upload.Status(err)
	if status >= http.StatusInternalServerError {
		log.Error("failed to generate report", slog.String("op", op), slog.String("error", err.Error()))
	} else {
		log.Info("upload rejected", slog.String("op", op), slog.String("error", err.Error()))
	}

	page := view.NewPage(targets)
	page.Error = msg

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := view.Render(w, page); err != nil {
		log.Error("failed to render error page", slog.String("op", op), slog.String("error", err.Error()))
	}
}
