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

// LoanService defines the behavior needed by LoanHandler.
type LoanService interface {
	CreateLoan(ctx context.Context, input usecase.CreateLoanInput) (*domain.Loan, error)
	GetLoan(ctx context.Context, id string) (*domain.Loan, error)
	ListLoans(ctx context.Context, limit, offset int) ([]*domain.Loan, error)
	GetSummary(ctx context.Context, loanID string) (*domain.InstallmentSummary, error)
	PayInstallment(ctx context.Context, input usecase.PayInstallmentInput) (*usecase.PaymentResult, error)
	ReversePayment(ctx context.Context, loanID, installmentID string) (*usecase.PaymentResult, error)
	EarlyPayoff(ctx context.Context, input usecase.EarlyPayoffInput) (*usecase.EarlyPayoffResult, error)
}

// LoanHandler handles loan-related HTTP requests.
type LoanHandler struct {
	loanUC LoanService
}

// NewLoanHandler creates a new LoanHandler.
func NewLoanHandler(loanUC LoanService) *LoanHandler {
	return &LoanHandler{loanUC: loanUC}
}

// Create creates a loan with its installment schedule.
func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	loan, err := h.loanUC.CreateLoan(r.Context(), req.ToUseCaseInput(actorFrom(r)))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create loan", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.LoanFromDomain(loan))
}

// Get retrieves a loan with its schedule.
func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	loan, err := h.loanUC.GetLoan(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get loan", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDomain(loan))
}

// List lists loans.
func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", usecase.DefaultPageSize)
	offset := parseIntQuery(r, "offset", 0)

	loans, err := h.loanUC.ListLoans(r.Context(), limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list loans", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LoansFromDomain(loans))
}

// Summary returns the aggregate payment state of a loan.
func (h *LoanHandler) Summary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	summary, err := h.loanUC.GetSummary(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get summary", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SummaryFromDomain(summary))
}

// Pay records a payment on one installment.
func (h *LoanHandler) Pay(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "id")
	installmentID := chi.URLParam(r, "installmentID")

	var req dto.PayInstallmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.loanUC.PayInstallment(r.Context(), usecase.PayInstallmentInput{
		LoanID:        loanID,
		InstallmentID: installmentID,
		PaymentDate:   req.PaymentDate,
		PaidAmount:    req.PaidAmount,
		Note:          req.Note,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to pay installment", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PaymentResponse{
		Installment: dto.InstallmentFromDomain(result.Installment),
		LoanStatus:  string(result.LoanStatus),
	})
}

// Reverse undoes a recorded installment payment.
func (h *LoanHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "id")
	installmentID := chi.URLParam(r, "installmentID")

	result, err := h.loanUC.ReversePayment(r.Context(), loanID, installmentID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to reverse payment", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PaymentResponse{
		Installment: dto.InstallmentFromDomain(result.Installment),
		LoanStatus:  string(result.LoanStatus),
	})
}

// Payoff settles every unpaid installment and closes the loan early.
func (h *LoanHandler) Payoff(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "id")

	var req dto.EarlyPayoffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.loanUC.EarlyPayoff(r.Context(), usecase.EarlyPayoffInput{
		LoanID:      loanID,
		PaymentDate: req.PaymentDate,
		Note:        req.Note,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to pay off loan", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EarlyPayoffResponse{
		Loan:        dto.LoanFromDomain(result.Loan),
		PaidCount:   result.PaidCount,
		PaidTotal:   result.PaidTotal,
		PaymentDate: result.PaymentDate,
	})
}
