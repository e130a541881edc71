package integration

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/evraktakip/evraktakip/internal/adapter/http/dto"
	"github.com/evraktakip/evraktakip/tests/testutil"
)

func TestLoanScheduleAndPayments(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	bank := testDB.CreateTestBank(ctx, "İş Bankası")
	srv := newTestServer(t, testDB)

	var loan dto.LoanResponse
	status := doJSON(t, srv, http.MethodPost, "/api/v1/loans", dto.CreateLoanRequest{
		BankID:       &bank.ID,
		Principal:    mustDecimal(t, "120000"),
		InterestRate: mustDecimal(t, "2.5"),
		TermMonths:   12,
		StartDate:    time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	}, &loan)
	if status != http.StatusCreated {
		t.Fatalf("create loan status = %d, want 201", status)
	}

	// 120000 * 2.5% * 12 = 36000 interest
	if loan.TotalPayoff.String() != "156000" {
		t.Fatalf("total payoff = %s, want 156000", loan.TotalPayoff)
	}
	if len(loan.Installments) != 12 {
		t.Fatalf("installments = %d, want 12", len(loan.Installments))
	}
	if !loan.Installments[0].DueDate.Equal(time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("first due date = %s, want 2026-02-15", loan.Installments[0].DueDate)
	}

	first := loan.Installments[0]

	t.Run("pay first installment", func(t *testing.T) {
		var result dto.PaymentResponse
		status := doJSON(t, srv, http.MethodPost,
			"/api/v1/loans/"+loan.ID+"/installments/"+first.ID+"/pay",
			dto.PayInstallmentRequest{Note: "Havale ile"}, &result)
		if status != http.StatusOK {
			t.Fatalf("pay status = %d, want 200", status)
		}
		if result.Installment.Status != "odendi" {
			t.Fatalf("installment status = %s, want odendi", result.Installment.Status)
		}
		if result.LoanStatus != "aktif" {
			t.Fatalf("loan status = %s, want aktif", result.LoanStatus)
		}
	})

	t.Run("double payment is rejected", func(t *testing.T) {
		status := doJSON(t, srv, http.MethodPost,
			"/api/v1/loans/"+loan.ID+"/installments/"+first.ID+"/pay",
			dto.PayInstallmentRequest{}, nil)
		if status != http.StatusConflict {
			t.Fatalf("double pay status = %d, want 409", status)
		}
	})

	t.Run("summary reflects the payment", func(t *testing.T) {
		var summary dto.SummaryResponse
		status := doJSON(t, srv, http.MethodGet, "/api/v1/loans/"+loan.ID+"/summary", nil, &summary)
		if status != http.StatusOK {
			t.Fatalf("summary status = %d, want 200", status)
		}
		if summary.PaidCount != 1 {
			t.Fatalf("paid count = %d, want 1", summary.PaidCount)
		}
		if summary.NextInstallment == nil || summary.NextInstallment.Seq != 2 {
			t.Fatalf("next installment = %+v, want seq 2", summary.NextInstallment)
		}
	})

	t.Run("reverse reopens the installment", func(t *testing.T) {
		var result dto.PaymentResponse
		status := doJSON(t, srv, http.MethodPost,
			"/api/v1/loans/"+loan.ID+"/installments/"+first.ID+"/reverse", nil, &result)
		if status != http.StatusOK {
			t.Fatalf("reverse status = %d, want 200", status)
		}
		if result.Installment.Status == "odendi" {
			t.Fatalf("installment still paid after reverse")
		}
		if result.Installment.PaidAt != nil {
			t.Fatalf("paid_at should be cleared, got %v", result.Installment.PaidAt)
		}
	})

	t.Run("early payoff settles everything", func(t *testing.T) {
		var result dto.EarlyPayoffResponse
		status := doJSON(t, srv, http.MethodPost, "/api/v1/loans/"+loan.ID+"/payoff",
			dto.EarlyPayoffRequest{Note: "Erken kapama"}, &result)
		if status != http.StatusOK {
			t.Fatalf("payoff status = %d, want 200", status)
		}
		if result.Loan.Status != "erken_kapandi" {
			t.Fatalf("loan status = %s, want erken_kapandi", result.Loan.Status)
		}
		if result.PaidCount != 12 {
			t.Fatalf("paid count = %d, want 12", result.PaidCount)
		}
		if result.PaidTotal.String() != "156000" {
			t.Fatalf("paid total = %s, want 156000", result.PaidTotal)
		}
	})

	t.Run("payoff of a closed loan is rejected", func(t *testing.T) {
		status := doJSON(t, srv, http.MethodPost, "/api/v1/loans/"+loan.ID+"/payoff",
			dto.EarlyPayoffRequest{}, nil)
		if status != http.StatusConflict {
			t.Fatalf("second payoff status = %d, want 409", status)
		}
	})
}
