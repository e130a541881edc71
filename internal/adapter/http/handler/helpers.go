package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/evraktakip/evraktakip/internal/adapter/http/dto"
	"github.com/evraktakip/evraktakip/internal/domain"
)

// actorHeader carries the authenticated user id, set by the gateway in
// front of this service.
const actorHeader = "X-User-ID"

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDocumentNotFound),
		errors.Is(err, domain.ErrLoanNotFound),
		errors.Is(err, domain.ErrInstallmentNotFound),
		errors.Is(err, domain.ErrCustomerNotFound),
		errors.Is(err, domain.ErrBankNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDuplicateNumber),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrSameStatus),
		errors.Is(err, domain.ErrTransitionNotAllowed),
		errors.Is(err, domain.ErrTerminalStatus),
		errors.Is(err, domain.ErrDocumentHasHistory),
		errors.Is(err, domain.ErrLoanNotActive),
		errors.Is(err, domain.ErrInstallmentAlreadyPaid),
		errors.Is(err, domain.ErrInstallmentNotPaid),
		errors.Is(err, domain.ErrNothingToPay):
		return http.StatusConflict
	case errors.Is(err, domain.ErrWorkbookFormat),
		errors.Is(err, domain.ErrWorkbookEmpty):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// actorFrom extracts the acting user id from the request. The service sits
// behind an authenticating gateway, so a missing header means an internal
// caller.
func actorFrom(r *http.Request) string {
	if actor := r.Header.Get(actorHeader); actor != "" {
		return actor
	}
	return "system"
}
