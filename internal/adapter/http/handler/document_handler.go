package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/evraktakip/evraktakip/internal/adapter/http/dto"
	"github.com/evraktakip/evraktakip/internal/domain"
	"github.com/evraktakip/evraktakip/internal/usecase"
)

// DocumentService defines the behavior needed by DocumentHandler.
type DocumentService interface {
	CreateDocument(ctx context.Context, input usecase.CreateDocumentInput) (*domain.Document, error)
	GetDocument(ctx context.Context, id string) (*domain.Document, error)
	ListDocuments(ctx context.Context, filter usecase.DocumentFilter) ([]*domain.Document, error)
	UpdateDocument(ctx context.Context, id string, input usecase.UpdateDocumentInput) (*domain.Document, error)
	DeleteDocument(ctx context.Context, id string, cascade bool) error
	Transition(ctx context.Context, id string, newStatus domain.DocumentStatus, note, actor string) (*usecase.TransitionResult, error)
	GetHistory(ctx context.Context, documentID string) ([]*domain.StatusEntry, error)
}

// ExportFunc renders a document listing as an xlsx workbook.
type ExportFunc func(documents []*domain.Document) ([]byte, error)

// DocumentHandler handles document-related HTTP requests.
type DocumentHandler struct {
	docUC  DocumentService
	export ExportFunc
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(docUC DocumentService, export ExportFunc) *DocumentHandler {
	return &DocumentHandler{docUC: docUC, export: export}
}

// Create creates a new document.
func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	doc, err := h.docUC.CreateDocument(r.Context(), req.ToUseCaseInput(actorFrom(r)))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create document", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.DocumentFromDomain(doc))
}

// Get retrieves a document by ID.
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	doc, err := h.docUC.GetDocument(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get document", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DocumentFromDomain(doc))
}

// List lists documents with optional filters.
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid filter", err.Error())
		return
	}

	documents, err := h.docUC.ListDocuments(r.Context(), filter)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list documents", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListDocumentsResponse{
		Documents: dto.DocumentsFromDomain(documents),
		Total:     int64(len(documents)),
	})
}

// Update applies field updates to a document.
func (h *DocumentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.UpdateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	doc, err := h.docUC.UpdateDocument(r.Context(), id, req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update document", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DocumentFromDomain(doc))
}

// Delete removes a document. With ?cascade=true its history goes too.
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	cascade := r.URL.Query().Get("cascade") == "true"

	if err := h.docUC.DeleteDocument(r.Context(), id, cascade); err != nil {
		writeError(w, mapDomainError(err), "failed to delete document", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Transition moves a document to a new status.
func (h *DocumentHandler) Transition(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	status, ok := domain.ParseDocumentStatus(req.Status)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid status", fmt.Sprintf("unknown status %q", req.Status))
		return
	}

	result, err := h.docUC.Transition(r.Context(), id, status, req.Note, actorFrom(r))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to change status", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransitionResponse{
		Document: dto.DocumentFromDomain(result.Document),
		History:  dto.HistoryEntryFromDomain(result.HistoryEntry),
		Message:  result.Message,
	})
}

// History returns a document's status history, newest first.
func (h *DocumentHandler) History(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	entries, err := h.docUC.GetHistory(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get history", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.HistoryFromDomain(entries))
}

// Export streams the filtered document listing as an xlsx workbook.
func (h *DocumentHandler) Export(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid filter", err.Error())
		return
	}
	filter.Limit = usecase.MaxPageSize

	documents, err := h.docUC.ListDocuments(r.Context(), filter)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list documents", err.Error())
		return
	}

	payload, err := h.export(documents)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build workbook", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="evraklar.xlsx"`)
	w.Write(payload)
}

func filterFromQuery(r *http.Request) (usecase.DocumentFilter, error) {
	q := r.URL.Query()
	filter := usecase.DocumentFilter{
		CustomerID: q.Get("customer_id"),
		BankID:     q.Get("bank_id"),
		Limit:      parseIntQuery(r, "limit", usecase.DefaultPageSize),
		Offset:     parseIntQuery(r, "offset", 0),
	}

	if raw := q.Get("kind"); raw != "" {
		kind, ok := domain.ParseDocumentKind(raw)
		if !ok {
			return filter, fmt.Errorf("unknown document kind %q", raw)
		}
		filter.Kind = kind
	}
	if raw := q.Get("status"); raw != "" {
		status, ok := domain.ParseDocumentStatus(raw)
		if !ok {
			return filter, fmt.Errorf("unknown status %q", raw)
		}
		filter.Status = status
	}
	if raw := q.Get("due_before"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, fmt.Errorf("invalid due_before date %q", raw)
		}
		filter.DueBefore = &t
	}
	if raw := q.Get("due_after"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, fmt.Errorf("invalid due_after date %q", raw)
		}
		filter.DueAfter = &t
	}

	return filter, nil
}
