package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concrete-qc/http-server/upload/uploadtest"
	"concrete-qc/internal/config"
	"concrete-qc/internal/dataset"
	"concrete-qc/internal/service/controlchart"
	generate_excel "concrete-qc/internal/service/generate-excel"
	"concrete-qc/internal/service/qc"
)

func testRouter(t *testing.T, cfg config.Config) http.Handler {
	t.Helper()

	renderer, err := controlchart.NewRenderer(800, 300, "")
	require.NoError(t, err)
	return routerWith(cfg, renderer)
}

func routerWith(cfg config.Config, charts qc.ChartRenderer) http.Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	reports := qc.NewService(log, charts)
	numeric := qc.NewService(log, nil)
	return routes(cfg, log, reports, numeric, generate_excel.NewGenerateService(numeric))
}

type brokenCharts struct{}

func (brokenCharts) Render(qc.ChartKind, []qc.Derived, qc.Targets, qc.Summary) ([]byte, error) {
	return nil, assert.AnError
}

func testConfig() config.Config {
	var cfg config.Config
	cfg.HTTPServer.Timeout = 5 * time.Second
	cfg.Report = config.Report{DefaultFc: 420, DefaultFcr: 525, MaxUploadMB: 1}
	return cfg
}

func TestRoutes(t *testing.T) {
	router := testRouter(t, testConfig())

	tests := []struct {
		name        string
		req         func(t *testing.T) *http.Request
		wantStatus  int
		wantType    string
		wantContain string
	}{
		{
			name:        "form",
			req:         func(*testing.T) *http.Request { return httptest.NewRequest(http.MethodGet, "/", nil) },
			wantStatus:  http.StatusOK,
			wantType:    "text/html",
			wantContain: `name="file"`,
		},
		{
			name:       "example csv",
			req:        func(*testing.T) *http.Request { return httptest.NewRequest(http.MethodGet, "/example.csv", nil) },
			wantStatus: http.StatusOK,
			wantType:   "text/csv",
		},
		{
			name: "html report",
			req: func(t *testing.T) *http.Request {
				return uploadtest.NewRequest(t, "/report", nil, "example.csv", dataset.ExampleCSV())
			},
			wantStatus:  http.StatusOK,
			wantType:    "text/html",
			wantContain: "<svg",
		},
		{
			name: "json report",
			req: func(t *testing.T) *http.Request {
				return uploadtest.NewRequest(t, "/api/report", nil, "example.csv", dataset.ExampleCSV())
			},
			wantStatus:  http.StatusOK,
			wantType:    "application/json",
			wantContain: `"findings"`,
		},
		{
			name: "excel",
			req: func(t *testing.T) *http.Request {
				return uploadtest.NewRequest(t, "/report/excel", nil, "example.csv", dataset.ExampleCSV())
			},
			wantStatus: http.StatusOK,
			wantType:   "spreadsheetml",
		},
		{
			name: "api excel",
			req: func(t *testing.T) *http.Request {
				return uploadtest.NewRequest(t, "/api/report/excel", nil, "example.csv", dataset.ExampleCSV())
			},
			wantStatus: http.StatusOK,
			wantType:   "spreadsheetml",
		},
		{
			name: "schema error",
			req: func(t *testing.T) *http.Request {
				return uploadtest.NewRequest(t, "/report", nil, "bad.csv", []byte("取樣日期,組號\nd,1\n"))
			},
			wantStatus:  http.StatusUnprocessableEntity,
			wantType:    "text/html",
			wantContain: "施工部位",
		},
		{
			name:       "unknown route",
			req:        func(*testing.T) *http.Request { return httptest.NewRequest(http.MethodGet, "/nope", nil) },
			wantStatus: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, tt.req(t))

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantType != "" {
				assert.Contains(t, rr.Header().Get("Content-Type"), tt.wantType)
			}
			if tt.wantContain != "" {
				assert.Contains(t, rr.Body.String(), tt.wantContain)
			}
		})
	}
}

func TestRoutes_BasicAuth(t *testing.T) {
	cfg := testConfig()
	cfg.Auth = config.Auth{Login: "qc", Password: "secret"}
	router := testRouter(t, cfg)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetBasicAuth("qc", "secret")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRoutes_OneRow(t *testing.T) {
	router := testRouter(t, testConfig())
	csv := []byte("取樣日期,組號,施工部位,X1,X2\n2024/06/01,1,A,500,510\n")

	for _, target := range []string{"/report", "/report/excel", "/api/report", "/api/report/excel"} {
		t.Run(target, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, uploadtest.NewRequest(t, target, nil, "one.csv", csv))
			assert.Equal(t, http.StatusOK, rr.Code)
		})
	}
}

func TestRoutes_ChartFailureOnlyAffectsHTML(t *testing.T) {
	router := routerWith(testConfig(), brokenCharts{})

	tests := []struct {
		target string
		want   int
	}{
		{"/report", http.StatusInternalServerError},
		{"/report/excel", http.StatusOK},
		{"/api/report", http.StatusOK},
		{"/api/report/excel", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, uploadtest.NewRequest(t, tt.target, nil, "example.csv", dataset.ExampleCSV()))
			assert.Equal(t, tt.want, rr.Code)
		})
	}
}
