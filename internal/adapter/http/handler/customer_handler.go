package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/evraktakip/evraktakip/internal/adapter/http/dto"
	"github.com/evraktakip/evraktakip/internal/domain"
	"github.com/evraktakip/evraktakip/internal/usecase"
)

// CustomerService defines the behavior needed by CustomerHandler.
type CustomerService interface {
	CreateCustomer(ctx context.Context, input usecase.CreateCustomerInput) (*domain.Customer, error)
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	ListCustomers(ctx context.Context, limit, offset int) ([]*domain.Customer, error)
	UpdateCustomer(ctx context.Context, id string, input usecase.CreateCustomerInput) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
}

// BankService defines the behavior needed for bank endpoints.
type BankService interface {
	CreateBank(ctx context.Context, name, branch, iban string) (*domain.Bank, error)
	ListBanks(ctx context.Context) ([]*domain.Bank, error)
}

// CustomerHandler handles customer and bank HTTP requests.
type CustomerHandler struct {
	customerUC CustomerService
	bankUC     BankService
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(customerUC CustomerService, bankUC BankService) *CustomerHandler {
	return &CustomerHandler{customerUC: customerUC, bankUC: bankUC}
}

// Create creates a new customer.
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	customer, err := h.customerUC.CreateCustomer(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create customer", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.CustomerFromDomain(customer))
}

// Get retrieves a customer by ID.
func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	customer, err := h.customerUC.GetCustomer(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get customer", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CustomerFromDomain(customer))
}

// List lists customers.
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", usecase.DefaultPageSize)
	offset := parseIntQuery(r, "offset", 0)

	customers, err := h.customerUC.ListCustomers(r.Context(), limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list customers", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CustomersFromDomain(customers))
}

// Update rewrites a customer's fields.
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	customer, err := h.customerUC.UpdateCustomer(r.Context(), id, req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update customer", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CustomerFromDomain(customer))
}

// Delete removes a customer.
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.customerUC.DeleteCustomer(r.Context(), id); err != nil {
		writeError(w, mapDomainError(err), "failed to delete customer", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateBank creates a new bank.
func (h *CustomerHandler) CreateBank(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	bank, err := h.bankUC.CreateBank(r.Context(), req.Name, req.Branch, req.IBAN)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create bank", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.BankFromDomain(bank))
}

// ListBanks lists all banks.
func (h *CustomerHandler) ListBanks(w http.ResponseWriter, r *http.Request) {
	banks, err := h.bankUC.ListBanks(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list banks", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BanksFromDomain(banks))
}
