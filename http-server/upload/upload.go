package upload

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"concrete-qc/internal/dataset"
	"concrete-qc/internal/service/qc"
)

const (
	fileField = "file"
	memLimit  = 32 << 20
)

var (
	ErrNoFile      = errors.New("upload: no file")
	ErrTooLarge    = errors.New("upload: file too large")
	ErrBadTarget   = errors.New("upload: invalid target strength")
	errMalformedMP = errors.New("upload: malformed multipart body")
)

// Defaults fill in fc'/fcr' when the form leaves them blank.
type Defaults struct {
	Targets  qc.Targets
	MaxBytes int64
}

type Upload struct {
	Filename string
	Targets  qc.Targets
	Dataset  *dataset.Dataset
}

// Parse reads the multipart form: file plus optional fc and fcr. Targets in
// the result are populated as far as they could be parsed, even on error, so
// the form can be redisplayed.
func Parse(w http.ResponseWriter, r *http.Request, d Defaults) (Upload, error) {
	const op = "upload.Parse"

	up := Upload{Targets: d.Targets}

	if d.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, d.MaxBytes)
	}
	if err := r.ParseMultipartForm(memLimit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return up, fmt.Errorf("%s: %w", op, ErrTooLarge)
		}
		return up, fmt.Errorf("%s: %w: %v", op, errMalformedMP, err)
	}

	var err error
	if up.Targets.Fc, err = target(r, "fc", d.Targets.Fc); err != nil {
		return up, fmt.Errorf("%s: %w", op, err)
	}
	if up.Targets.Fcr, err = target(r, "fcr", d.Targets.Fcr); err != nil {
		return up, fmt.Errorf("%s: %w", op, err)
	}
	if err := up.Targets.Validate(); err != nil {
		return up, fmt.Errorf("%s: %w", op, err)
	}

	file, header, err := r.FormFile(fileField)
	if err != nil {
		return up, fmt.Errorf("%s: %w", op, ErrNoFile)
	}
	defer file.Close()

	up.Filename = header.Filename
	up.Dataset, err = dataset.Load(file, header.Filename)
	if err != nil {
		return up, fmt.Errorf("%s: %w", op, err)
	}
	return up, nil
}

func target(r *http.Request, field string, def float64) (float64, error) {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def, fmt.Errorf("%w: %s=%q", ErrBadTarget, field, raw)
	}
	return v, nil
}

// Status maps a Parse or Analyze error to the HTTP status and the message
// safe to show the user.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge, "檔案過大"
	case dataset.IsInput(err):
		var schemaErr *dataset.SchemaError
		var rowErr *dataset.RowError
		switch {
		case errors.As(err, &schemaErr):
			return http.StatusUnprocessableEntity, schemaErr.Error()
		case errors.As(err, &rowErr):
			return http.StatusUnprocessableEntity, rowErr.Error()
		default:
			return http.StatusUnprocessableEntity, "檔案中沒有資料列"
		}
	case errors.Is(err, ErrNoFile):
		return http.StatusBadRequest, "請上傳 CSV 檔案"
	case errors.Is(err, ErrBadTarget), errors.Is(err, qc.ErrInvalidTargets):
		return http.StatusBadRequest, "fc' 與 fcr' 必須為大於 0 的數值"
	case errors.Is(err, errMalformedMP):
		return http.StatusBadRequest, "表單格式錯誤"
	default:
		return http.StatusInternalServerError, "Internal error"
	}
}
