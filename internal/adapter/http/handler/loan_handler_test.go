package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/evraktakip/evraktakip/internal/adapter/http/dto"
	"github.com/evraktakip/evraktakip/internal/domain"
	"github.com/evraktakip/evraktakip/internal/usecase"
)

type loanServiceStub struct {
	createFn  func(ctx context.Context, input usecase.CreateLoanInput) (*domain.Loan, error)
	getFn     func(ctx context.Context, id string) (*domain.Loan, error)
	listFn    func(ctx context.Context, limit, offset int) ([]*domain.Loan, error)
	summaryFn func(ctx context.Context, loanID string) (*domain.InstallmentSummary, error)
	payFn     func(ctx context.Context, input usecase.PayInstallmentInput) (*usecase.PaymentResult, error)
	reverseFn func(ctx context.Context, loanID, installmentID string) (*usecase.PaymentResult, error)
	payoffFn  func(ctx context.Context, input usecase.EarlyPayoffInput) (*usecase.EarlyPayoffResult, error)
}

func (s *loanServiceStub) CreateLoan(ctx context.Context, input usecase.CreateLoanInput) (*domain.Loan, error) {
	return s.createFn(ctx, input)
}

func (s *loanServiceStub) GetLoan(ctx context.Context, id string) (*domain.Loan, error) {
	return s.getFn(ctx, id)
}

func (s *loanServiceStub) ListLoans(ctx context.Context, limit, offset int) ([]*domain.Loan, error) {
	return s.listFn(ctx, limit, offset)
}

func (s *loanServiceStub) GetSummary(ctx context.Context, loanID string) (*domain.InstallmentSummary, error) {
	return s.summaryFn(ctx, loanID)
}

func (s *loanServiceStub) PayInstallment(ctx context.Context, input usecase.PayInstallmentInput) (*usecase.PaymentResult, error) {
	return s.payFn(ctx, input)
}

func (s *loanServiceStub) ReversePayment(ctx context.Context, loanID, installmentID string) (*usecase.PaymentResult, error) {
	return s.reverseFn(ctx, loanID, installmentID)
}

func (s *loanServiceStub) EarlyPayoff(ctx context.Context, input usecase.EarlyPayoffInput) (*usecase.EarlyPayoffResult, error) {
	return s.payoffFn(ctx, input)
}

func newLoanRequest(method, target, loanID, installmentID string, body []byte) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", loanID)
	if installmentID != "" {
		rctx.URLParams.Add("installmentID", installmentID)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestLoanHandler_Create_Success(t *testing.T) {
	loan := &domain.Loan{
		ID:             "loan-1",
		Principal:      decimal.RequireFromString("120000"),
		MonthlyPayment: decimal.RequireFromString("12400"),
		Status:         domain.LoanActive,
	}

	var captured usecase.CreateLoanInput
	handler := NewLoanHandler(&loanServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateLoanInput) (*domain.Loan, error) {
			captured = input
			return loan, nil
		},
	})

	body, _ := json.Marshal(dto.CreateLoanRequest{
		Principal:    decimal.RequireFromString("120000"),
		InterestRate: decimal.RequireFromString("2"),
		TermMonths:   12,
		StartDate:    time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	})

	req := httptest.NewRequest(http.MethodPost, "/loans", bytes.NewReader(body))
	req.Header.Set(actorHeader, "user-7")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.TermMonths != 12 || captured.Actor != "user-7" {
		t.Fatalf("unexpected input %+v", captured)
	}
}

func TestLoanHandler_Pay_Success(t *testing.T) {
	paidAt := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)
	paidAmount := decimal.RequireFromString("12400")

	var captured usecase.PayInstallmentInput
	handler := NewLoanHandler(&loanServiceStub{
		payFn: func(ctx context.Context, input usecase.PayInstallmentInput) (*usecase.PaymentResult, error) {
			captured = input
			return &usecase.PaymentResult{
				Installment: &domain.Installment{
					ID:         input.InstallmentID,
					LoanID:     input.LoanID,
					Status:     domain.InstallmentPaid,
					PaidAt:     &paidAt,
					PaidAmount: &paidAmount,
				},
				LoanStatus: domain.LoanActive,
			}, nil
		},
	})

	body, _ := json.Marshal(dto.PayInstallmentRequest{PaymentDate: &paidAt})
	req := newLoanRequest(http.MethodPost, "/loans/loan-1/installments/inst-3/pay", "loan-1", "inst-3", body)
	rec := httptest.NewRecorder()

	handler.Pay(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.LoanID != "loan-1" || captured.InstallmentID != "inst-3" {
		t.Fatalf("unexpected input %+v", captured)
	}

	var resp dto.PaymentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Installment.Status != "odendi" || resp.LoanStatus != "aktif" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestLoanHandler_Pay_AlreadyPaid(t *testing.T) {
	handler := NewLoanHandler(&loanServiceStub{
		payFn: func(ctx context.Context, input usecase.PayInstallmentInput) (*usecase.PaymentResult, error) {
			return nil, domain.ErrInstallmentAlreadyPaid
		},
	})

	req := newLoanRequest(http.MethodPost, "/loans/loan-1/installments/inst-3/pay", "loan-1", "inst-3", []byte("{}"))
	rec := httptest.NewRecorder()

	handler.Pay(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestLoanHandler_Summary(t *testing.T) {
	handler := NewLoanHandler(&loanServiceStub{
		summaryFn: func(ctx context.Context, loanID string) (*domain.InstallmentSummary, error) {
			return &domain.InstallmentSummary{
				PaidCount:        3,
				PendingCount:     8,
				OverdueCount:     1,
				PaidAmount:       decimal.RequireFromString("37200"),
				RemainingBalance: decimal.RequireFromString("111600"),
				OverdueAmount:    decimal.RequireFromString("12400"),
			}, nil
		},
	})

	req := newLoanRequest(http.MethodGet, "/loans/loan-1/summary", "loan-1", "", nil)
	rec := httptest.NewRecorder()

	handler.Summary(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.SummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.PaidCount != 3 || resp.OverdueCount != 1 || resp.NextInstallment != nil {
		t.Fatalf("unexpected summary %+v", resp)
	}
}

func TestLoanHandler_Payoff_NothingToPay(t *testing.T) {
	handler := NewLoanHandler(&loanServiceStub{
		payoffFn: func(ctx context.Context, input usecase.EarlyPayoffInput) (*usecase.EarlyPayoffResult, error) {
			return nil, domain.ErrNothingToPay
		},
	})

	req := newLoanRequest(http.MethodPost, "/loans/loan-1/payoff", "loan-1", "", []byte("{}"))
	rec := httptest.NewRecorder()

	handler.Payoff(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}
