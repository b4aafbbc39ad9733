package analyze

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"concrete-qc/http-server/upload"
	"concrete-qc/internal/dataset"
	"concrete-qc/internal/service/qc"
)

type ReportBuilder interface {
	Analyze(ctx context.Context, ds *dataset.Dataset, t qc.Targets) (*qc.Report, error)
}

type Resp struct {
	Report *qc.Report `json:"report"`
}

type ErrResp struct {
	Error string `json:"error"`
}

// AnalyzeReport returns the report as JSON. Charts are not included.
func AnalyzeReport(log *slog.Logger, builder ReportBuilder, defaults upload.Defaults, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.report.AnalyzeReport"

		up, err := upload.Parse(w, r, defaults)
		if err != nil {
			fail(w, r, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		rep, err := builder.Analyze(ctx, up.Dataset, up.Targets)
		if err != nil {
			fail(w, r, log, op, err)
			return
		}

		render.JSON(w, r, Resp{Report: rep})
	}
}

func fail(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string, err error) {
	status, msg := upload.Status(err)
	if status >= http.StatusInternalServerError {
		log.Error("failed to analyze report", slog.String("op", op), slog.String("error", err.Error()))
	}

	render.Status(r, status)
	render.JSON(w, r, ErrResp{Error: msg})
}
