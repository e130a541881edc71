package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/evraktakip/evraktakip/internal/adapter/http/dto"
)

// RateService quotes TRY exchange rates.
type RateService interface {
	Rate(ctx context.Context, currency string) (decimal.Decimal, error)
}

// RatesHandler handles exchange rate lookups.
type RatesHandler struct {
	rates RateService
}

// NewRatesHandler creates a new RatesHandler.
func NewRatesHandler(rates RateService) *RatesHandler {
	return &RatesHandler{rates: rates}
}

// Get quotes the TRY value of one unit of the given currency.
func (h *RatesHandler) Get(w http.ResponseWriter, r *http.Request) {
	currency := strings.ToUpper(chi.URLParam(r, "currency"))

	rate, err := h.rates.Rate(r.Context(), currency)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get rate", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RateResponse{Currency: currency, Rate: rate})
}
