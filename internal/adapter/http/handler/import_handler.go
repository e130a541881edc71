package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/evraktakip/evraktakip/internal/adapter/http/dto"
	"github.com/evraktakip/evraktakip/internal/domain"
	"github.com/evraktakip/evraktakip/internal/usecase"
)

// ImportService defines the behavior needed by ImportHandler.
type ImportService interface {
	ParseWorkbook(ctx context.Context, r io.Reader) (*domain.ImportReport, error)
	CommitRows(ctx context.Context, rows []*domain.ParsedRow, actor string) (*usecase.CommitResult, error)
}

// ImportHandler handles spreadsheet import requests.
type ImportHandler struct {
	importUC       ImportService
	maxUploadBytes int64
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(importUC ImportService, maxUploadBytes int64) *ImportHandler {
	return &ImportHandler{importUC: importUC, maxUploadBytes: maxUploadBytes}
}

// Preview parses and validates an uploaded workbook without persisting
// anything. The report lists every row with its errors and warnings.
func (h *ImportHandler) Preview(w http.ResponseWriter, r *http.Request) {
	file, ok := h.uploadedFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	report, err := h.importUC.ParseWorkbook(r.Context(), file)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to parse workbook", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ImportReportFromDomain(report))
}

// Commit parses an uploaded workbook and persists its valid rows. Invalid
// rows are skipped; a failing insert does not abort the rest.
func (h *ImportHandler) Commit(w http.ResponseWriter, r *http.Request) {
	file, ok := h.uploadedFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	report, err := h.importUC.ParseWorkbook(r.Context(), file)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to parse workbook", err.Error())
		return
	}

	result, err := h.importUC.CommitRows(r.Context(), report.Rows, actorFrom(r))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to commit import", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ImportCommitFromUseCase(result))
}

func (h *ImportHandler) uploadedFile(w http.ResponseWriter, r *http.Request) (io.ReadCloser, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid upload", err.Error())
		return nil, false
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field", err.Error())
		return nil, false
	}

	return file, true
}
