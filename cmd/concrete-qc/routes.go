package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	getexample "concrete-qc/http-server/example/get"
	generate_excel "concrete-qc/http-server/generate-report/generate-excel"
	"concrete-qc/http-server/report/analyze"
	"concrete-qc/http-server/report/form"
	"concrete-qc/http-server/report/generate"
	"concrete-qc/http-server/upload"
	"concrete-qc/internal/config"
	"concrete-qc/internal/middleware/auth"
	generate_excel2 "concrete-qc/internal/service/generate-excel"
	"concrete-qc/internal/service/qc"
)

// routes wires the handlers. reports renders charts for the HTML page; numeric
// skips them and backs the JSON and Excel endpoints.
func routes(cfg config.Config, log *slog.Logger, reports, numeric *qc.Service, genService *generate_excel2.GenerateExcelService) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(auth.BasicAuth(cfg.Auth.Login, cfg.Auth.Password))

	targets := qc.Targets{Fc: cfg.Report.DefaultFc, Fcr: cfg.Report.DefaultFcr}
	defaults := upload.Defaults{
		Targets:  targets,
		MaxBytes: cfg.Report.MaxUploadMB << 20,
	}
	timeout := cfg.HTTPServer.Timeout

	router.Get("/", form.ReportForm(log, targets))
	router.Get("/example.csv", getexample.ExampleCSV(log))
	router.Post("/report", generate.GenerateReport(log, reports, defaults, timeout))
	router.Post("/report/excel", generate_excel.GenerateReportExcel(log, genService, defaults, timeout))

	router.Route("/api", func(r chi.Router) {
		r.Post("/report", analyze.AnalyzeReport(log, numeric, defaults, timeout))
		r.Post("/report/excel", generate_excel.GenerateReportExcel(log, genService, defaults, timeout))
	})

	return router
}
