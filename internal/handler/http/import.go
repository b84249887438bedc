package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/importing"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/punch"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/spreadsheet"
)

// maxUploadSize bounds the multipart form held in memory.
const maxUploadSize = 32 << 20

type ImportHandler interface {
	Import(w http.ResponseWriter, r *http.Request)
	ImportDual(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type importHandlerImpl struct {
	importService importing.ImportService
}

func NewImportHandler(importService importing.ImportService) ImportHandler {
	return &importHandlerImpl{
		importService: importService,
	}
}

// readUpload reads the spreadsheet sent in the given multipart field.
func readUpload(r *http.Request, field string) ([]punch.RawRow, string, error) {
	file, fileHeader, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, "", fmt.Errorf("%w: field '%s'", importing.ErrFileRequired, field)
		}
		return nil, "", err
	}
	defer file.Close()

	rows, err := spreadsheet.ReadRows(fileHeader.Filename, file)
	if err != nil {
		return nil, fileHeader.Filename, err
	}
	return rows, fileHeader.Filename, nil
}

func handleUploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, importing.ErrFileRequired), errors.Is(err, spreadsheet.ErrUnsupportedFormat), errors.Is(err, spreadsheet.ErrNoSheets):
		response.HandleError(w, err)
	default:
		slog.Error("Failed to read uploaded spreadsheet", "error", err)
		response.BadRequest(w, "Failed to read spreadsheet", nil)
	}
}

func optionalFormValue(r *http.Request, key string) *string {
	if v := r.FormValue(key); v != "" {
		return &v
	}
	return nil
}

// Import implements ImportHandler.
func (h *importHandlerImpl) Import(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	rows, fileName, err := readUpload(r, "file")
	if err != nil {
		handleUploadError(w, err)
		return
	}

	req := importing.ImportRequest{
		FileName:    fileName,
		Rows:        rows,
		PeriodStart: optionalFormValue(r, "period_start"),
		PeriodEnd:   optionalFormValue(r, "period_end"),
		Mode:        r.FormValue("mode"),
	}

	result, err := h.importService.Import(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, result.Message, result)
}

// ImportDual implements ImportHandler.
func (h *importHandlerImpl) ImportDual(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	withoutErrors, withoutErrorsName, err := readUpload(r, "file_without_errors")
	if err != nil {
		handleUploadError(w, err)
		return
	}

	withErrors, withErrorsName, err := readUpload(r, "file_with_errors")
	if err != nil {
		handleUploadError(w, err)
		return
	}

	req := importing.DualImportRequest{
		WithoutErrorsFileName: withoutErrorsName,
		WithoutErrorsRows:     withoutErrors,
		WithErrorsFileName:    withErrorsName,
		WithErrorsRows:        withErrors,
		PeriodStart:           optionalFormValue(r, "period_start"),
		PeriodEnd:             optionalFormValue(r, "period_end"),
		Mode:                  r.FormValue("mode"),
	}

	result, err := h.importService.ImportDual(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, result.Message, result)
}

// List implements ImportHandler.
func (h *importHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := importing.ImportFilter{}
	if l := r.URL.Query().Get("limit"); l != "" {
		limit, err := strconv.Atoi(l)
		if err != nil {
			response.BadRequest(w, "limit must be a number", nil)
			return
		}
		filter.Limit = limit
	}

	imports, err := h.importService.ListImports(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.List(w, imports, filter.Limit)
}
