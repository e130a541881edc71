package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus is the aggregate state of a loan.
type LoanStatus string

const (
	LoanActive      LoanStatus = "aktif"
	LoanClosed      LoanStatus = "kapandi"
	LoanClosedEarly LoanStatus = "erken_kapandi"
)

// InstallmentStatus is the state of one scheduled installment.
type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "bekliyor"
	InstallmentPaid    InstallmentStatus = "odendi"
	InstallmentOverdue InstallmentStatus = "gecikti"
)

// Loan represents one bank loan with a fixed installment schedule.
type Loan struct {
	ID             string
	BankID         *string
	Principal      decimal.Decimal
	InterestRate   decimal.Decimal
	TermMonths     int
	StartDate      time.Time
	MonthlyPayment decimal.Decimal
	TotalPayoff    decimal.Decimal
	Currency       string
	Status         LoanStatus
	Notes          string
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Bank         *Bank
	Installments []*Installment
}

// Validate checks the structural invariants of a loan.
func (l *Loan) Validate() error {
	if l.Principal.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: principal must be positive", ErrValidation)
	}
	if l.InterestRate.IsNegative() {
		return fmt.Errorf("%w: interest rate cannot be negative", ErrValidation)
	}
	if l.TermMonths <= 0 {
		return fmt.Errorf("%w: term must be at least one month", ErrValidation)
	}
	if l.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrValidation)
	}
	if !ValidCurrencies[l.Currency] {
		return fmt.Errorf("%w: unknown currency %q", ErrValidation, l.Currency)
	}
	return nil
}

// Installment is one scheduled payment of a loan. A paid installment always
// carries PaidAt and PaidAmount; an unpaid one never does.
type Installment struct {
	ID         string
	LoanID     string
	Seq        int
	DueDate    time.Time
	Amount     decimal.Decimal
	Status     InstallmentStatus
	PaidAt     *time.Time
	PaidAmount *decimal.Decimal
	Notes      string
}

// IsOverdue reports whether the installment counts as overdue on the given
// day: explicitly marked overdue, or still pending past its due date.
func (i *Installment) IsOverdue(today time.Time) bool {
	if i.Status == InstallmentOverdue {
		return true
	}
	return i.Status == InstallmentPending && i.DueDate.Before(today)
}

// InstallmentSummary aggregates the payment state of a loan's schedule.
type InstallmentSummary struct {
	PaidCount    int
	PendingCount int
	OverdueCount int

	PaidAmount       decimal.Decimal
	RemainingBalance decimal.Decimal
	OverdueAmount    decimal.Decimal

	NextInstallment *Installment
}

// ComputeInstallmentSummary partitions a loan's installments as of today and
// derives the aggregate amounts. Sums are rounded to two decimal places at
// the end, not per addend. NextInstallment is the first strictly-pending
// installment in input order.
func ComputeInstallmentSummary(installments []*Installment, today time.Time) InstallmentSummary {
	var s InstallmentSummary

	paid := decimal.Zero
	remaining := decimal.Zero
	overdue := decimal.Zero

	for _, inst := range installments {
		switch {
		case inst.Status == InstallmentPaid:
			s.PaidCount++
			if inst.PaidAmount != nil {
				paid = paid.Add(*inst.PaidAmount)
			} else {
				paid = paid.Add(inst.Amount)
			}
		case inst.IsOverdue(today):
			s.OverdueCount++
			overdue = overdue.Add(inst.Amount)
			remaining = remaining.Add(inst.Amount)
		default:
			s.PendingCount++
			remaining = remaining.Add(inst.Amount)
			if s.NextInstallment == nil && inst.Status == InstallmentPending {
				s.NextInstallment = inst
			}
		}
	}

	s.PaidAmount = paid.Round(2)
	s.RemainingBalance = remaining.Round(2)
	s.OverdueAmount = overdue.Round(2)

	return s
}
