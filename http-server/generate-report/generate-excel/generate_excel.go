package generate_excel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"

	"concrete-qc/http-server/upload"
	"concrete-qc/internal/dataset"
	"concrete-qc/internal/service/qc"
)

type GenerateExcelHandler interface {
	GenerateExcel(ctx context.Context, ds *dataset.Dataset, t qc.Targets) ([]byte, error)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func GenerateReportExcel(log *slog.Logger, gen GenerateExcelHandler, defaults upload.Defaults, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.report.GenerateReportExcel"

		up, err := upload.Parse(w, r, defaults)
		if err != nil {
			fail(w, r, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		excelBytes, err := gen.GenerateExcel(ctx, up.Dataset, up.Targets)
		if err != nil {
			fail(w, r, log, op, err)
			return
		}

		fileName := fmt.Sprintf("QC_Report_%s.xlsx", time.Now().Format("2006-01-02_150405"))

		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", "attachment; filename="+fileName)
		w.Header().Set("Content-Length", strconv.Itoa(len(excelBytes)))
		if _, err := w.Write(excelBytes); err != nil {
			log.Error("failed to write excel", slog.String("op", op), slog.String("error", err.Error()))
		}
	}
}

func fail(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string, err error) {
	status, msg := upload.Status(err)
	if status >= http.StatusInternalServerError {
		log.Error("failed to generate excel", slog.String("op", op), slog.String("error", err.Error()))
	}

	render.Status(r, status)
	render.PlainText(w, r, msg)
}
