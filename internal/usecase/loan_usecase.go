package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/evraktakip/evraktakip/internal/domain"
	"github.com/evraktakip/evraktakip/internal/infrastructure/metrics"
)

// LoanUseCase handles loan and installment ledger business logic.
type LoanUseCase struct {
	txManager       TransactionManager
	loanRepo        LoanRepository
	installmentRepo InstallmentRepository
	idGen           IDGenerator
	clock           Clock
	metrics         *metrics.Metrics
	retrier         Retrier
}

// NewLoanUseCase creates a new LoanUseCase.
func NewLoanUseCase(
	txManager TransactionManager,
	loanRepo LoanRepository,
	installmentRepo InstallmentRepository,
	idGen IDGenerator,
	clock Clock,
	metrics *metrics.Metrics,
) *LoanUseCase {
	return &LoanUseCase{
		txManager:       txManager,
		loanRepo:        loanRepo,
		installmentRepo: installmentRepo,
		idGen:           idGen,
		clock:           clock,
		metrics:         metrics,
	}
}

// WithRetrier makes the schedule-creation transaction retry on transient
// database failures such as deadlocks.
func (uc *LoanUseCase) WithRetrier(retrier Retrier) *LoanUseCase {
	uc.retrier = retrier
	return uc
}

func (uc *LoanUseCase) withRetry(ctx context.Context, operation func() error) error {
	if uc.retrier == nil {
		return operation()
	}
	return uc.retrier.Retry(ctx, operation)
}

// CreateLoanInput represents input for creating a loan.
type CreateLoanInput struct {
	BankID       *string
	Principal    decimal.Decimal
	InterestRate decimal.Decimal // monthly rate in percent
	TermMonths   int
	StartDate    time.Time
	Currency     string
	Notes        string
	Actor        string
}

// CreateLoan inserts a loan together with its full installment schedule. The
// payoff total uses simple interest over the term; the schedule is equal
// monthly installments due one month apart starting one month after the
// start date.
func (uc *LoanUseCase) CreateLoan(ctx context.Context, input CreateLoanInput) (*domain.Loan, error) {
	now := time.Now().UTC()

	currency := input.Currency
	if currency == "" {
		currency = domain.BaseCurrency
	}

	hundred := decimal.NewFromInt(100)
	months := decimal.NewFromInt(int64(input.TermMonths))
	totalInterest := input.Principal.Mul(input.InterestRate).Div(hundred).Mul(months)
	total := input.Principal.Add(totalInterest).Round(2)

	var monthly decimal.Decimal
	if input.TermMonths > 0 {
		monthly = total.Div(months).Round(2)
	}

	loan := &domain.Loan{
		ID:             uc.idGen.Generate(),
		BankID:         input.BankID,
		Principal:      input.Principal,
		InterestRate:   input.InterestRate,
		TermMonths:     input.TermMonths,
		StartDate:      input.StartDate,
		MonthlyPayment: monthly,
		TotalPayoff:    total,
		Currency:       currency,
		Status:         domain.LoanActive,
		Notes:          input.Notes,
		CreatedBy:      input.Actor,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := loan.Validate(); err != nil {
		return nil, err
	}

	err := uc.withRetry(ctx, func() error {
		loan.Installments = nil

		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := uc.loanRepo.Create(ctx, tx, loan); err != nil {
			return err
		}

		for seq := 1; seq <= input.TermMonths; seq++ {
			inst := &domain.Installment{
				ID:      uc.idGen.Generate(),
				LoanID:  loan.ID,
				Seq:     seq,
				DueDate: input.StartDate.AddDate(0, seq, 0),
				Amount:  monthly,
				Status:  domain.InstallmentPending,
			}
			if err := uc.installmentRepo.Create(ctx, tx, inst); err != nil {
				return err
			}
			loan.Installments = append(loan.Installments, inst)
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.LoansCreated.Inc()
	}

	return loan, nil
}

// GetLoan retrieves a loan with its installments attached.
func (uc *LoanUseCase) GetLoan(ctx context.Context, id string) (*domain.Loan, error) {
	loan, err := uc.loanRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	installments, err := uc.installmentRepo.ListByLoan(ctx, id)
	if err != nil {
		return nil, err
	}
	loan.Installments = installments

	return loan, nil
}

// ListLoans lists loans with pagination.
func (uc *LoanUseCase) ListLoans(ctx context.Context, limit, offset int) ([]*domain.Loan, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	return uc.loanRepo.List(ctx, limit, offset)
}

// GetSummary computes the installment summary of a loan as of today.
func (uc *LoanUseCase) GetSummary(ctx context.Context, loanID string) (*domain.InstallmentSummary, error) {
	if _, err := uc.loanRepo.GetByID(ctx, loanID); err != nil {
		return nil, err
	}

	installments, err := uc.installmentRepo.ListByLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	summary := domain.ComputeInstallmentSummary(installments, uc.clock.Today())

	return &summary, nil
}

// PayInstallmentInput represents input for paying one installment.
type PayInstallmentInput struct {
	LoanID        string
	InstallmentID string
	PaymentDate   *time.Time
	PaidAmount    *decimal.Decimal
	Note          string
}

// PaymentResult is the outcome of a pay or reverse operation.
type PaymentResult struct {
	Installment *domain.Installment
	LoanStatus  domain.LoanStatus
}

// PayInstallment marks one installment as paid and closes the loan when no
// unpaid installments remain.
func (uc *LoanUseCase) PayInstallment(ctx context.Context, input PayInstallmentInput) (*PaymentResult, error) {
	loan, inst, err := uc.loadPair(ctx, input.LoanID, input.InstallmentID)
	if err != nil {
		return nil, err
	}

	if loan.Status != domain.LoanActive {
		return nil, fmt.Errorf("%w: %s", domain.ErrLoanNotActive, loan.Status)
	}
	if inst.Status == domain.InstallmentPaid {
		return nil, fmt.Errorf("%w: taksit %d", domain.ErrInstallmentAlreadyPaid, inst.Seq)
	}

	paidAt := uc.clock.Today()
	if input.PaymentDate != nil {
		paidAt = *input.PaymentDate
	}

	paidAmount := inst.Amount
	if input.PaidAmount != nil {
		paidAmount = *input.PaidAmount
	}
	if paidAmount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: paid amount must be positive", domain.ErrValidation)
	}

	if err := uc.installmentRepo.MarkPaid(ctx, inst.ID, paidAt, paidAmount, input.Note); err != nil {
		return nil, err
	}

	inst.Status = domain.InstallmentPaid
	inst.PaidAt = &paidAt
	inst.PaidAmount = &paidAmount
	if input.Note != "" {
		inst.Notes = input.Note
	}

	if uc.metrics != nil {
		uc.metrics.InstallmentsPaid.Inc()
	}

	status := loan.Status

	unpaid, err := uc.installmentRepo.CountUnpaid(ctx, loan.ID)
	if err != nil {
		return nil, err
	}
	if unpaid == 0 {
		status = domain.LoanClosed
		if err := uc.loanRepo.UpdateStatus(ctx, loan.ID, status, time.Now().UTC()); err != nil {
			return nil, err
		}
	}

	return &PaymentResult{Installment: inst, LoanStatus: status}, nil
}

// ReversePayment undoes a paid installment. The installment goes back to
// pending, or overdue when its due date has already passed, and a closed
// loan reopens unconditionally.
func (uc *LoanUseCase) ReversePayment(ctx context.Context, loanID, installmentID string) (*PaymentResult, error) {
	loan, inst, err := uc.loadPair(ctx, loanID, installmentID)
	if err != nil {
		return nil, err
	}

	if inst.Status != domain.InstallmentPaid {
		return nil, fmt.Errorf("%w: taksit %d", domain.ErrInstallmentNotPaid, inst.Seq)
	}

	status := domain.InstallmentPending
	if inst.DueDate.Before(uc.clock.Today()) {
		status = domain.InstallmentOverdue
	}

	if err := uc.installmentRepo.MarkUnpaid(ctx, inst.ID, status); err != nil {
		return nil, err
	}

	inst.Status = status
	inst.PaidAt = nil
	inst.PaidAmount = nil

	if uc.metrics != nil {
		uc.metrics.PaymentsReversed.Inc()
	}

	loanStatus := loan.Status
	if loan.Status == domain.LoanClosed || loan.Status == domain.LoanClosedEarly {
		loanStatus = domain.LoanActive
		if err := uc.loanRepo.UpdateStatus(ctx, loan.ID, loanStatus, time.Now().UTC()); err != nil {
			return nil, err
		}
	}

	return &PaymentResult{Installment: inst, LoanStatus: loanStatus}, nil
}

// EarlyPayoffInput represents input for paying off a loan early.
type EarlyPayoffInput struct {
	LoanID      string
	PaymentDate *time.Time
	Note        string
}

// EarlyPayoffResult reports what an early payoff settled.
type EarlyPayoffResult struct {
	Loan        *domain.Loan
	PaidCount   int
	PaidTotal   decimal.Decimal
	PaymentDate time.Time
}

// EarlyPayoff settles every unpaid installment at its nominal amount and
// closes the loan as paid-off-early. Installments are updated one by one;
// the loan status update only runs after all of them succeed.
func (uc *LoanUseCase) EarlyPayoff(ctx context.Context, input EarlyPayoffInput) (*EarlyPayoffResult, error) {
	loan, err := uc.loanRepo.GetByID(ctx, input.LoanID)
	if err != nil {
		return nil, err
	}

	if loan.Status != domain.LoanActive {
		return nil, fmt.Errorf("%w: %s", domain.ErrLoanNotActive, loan.Status)
	}

	installments, err := uc.installmentRepo.ListByLoan(ctx, loan.ID)
	if err != nil {
		return nil, err
	}

	paidAt := uc.clock.Today()
	if input.PaymentDate != nil {
		paidAt = *input.PaymentDate
	}

	paidCount := 0
	paidTotal := decimal.Zero
	for _, inst := range installments {
		if inst.Status == domain.InstallmentPaid {
			continue
		}

		if err := uc.installmentRepo.MarkPaid(ctx, inst.ID, paidAt, inst.Amount, input.Note); err != nil {
			return nil, err
		}

		inst.Status = domain.InstallmentPaid
		inst.PaidAt = &paidAt
		amount := inst.Amount
		inst.PaidAmount = &amount

		paidCount++
		paidTotal = paidTotal.Add(inst.Amount)
	}

	if paidCount == 0 {
		return nil, fmt.Errorf("%w", domain.ErrNothingToPay)
	}

	loan.Status = domain.LoanClosedEarly
	loan.UpdatedAt = time.Now().UTC()
	if err := uc.loanRepo.UpdateStatus(ctx, loan.ID, loan.Status, loan.UpdatedAt); err != nil {
		return nil, err
	}
	loan.Installments = installments

	if uc.metrics != nil {
		uc.metrics.EarlyPayoffs.Inc()
		uc.metrics.InstallmentsPaid.Add(float64(paidCount))
	}

	return &EarlyPayoffResult{
		Loan:        loan,
		PaidCount:   paidCount,
		PaidTotal:   paidTotal.Round(2),
		PaymentDate: paidAt,
	}, nil
}

// loadPair fetches a loan and one of its installments, checking ownership.
func (uc *LoanUseCase) loadPair(ctx context.Context, loanID, installmentID string) (*domain.Loan, *domain.Installment, error) {
	loan, err := uc.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, nil, err
	}

	inst, err := uc.installmentRepo.GetByID(ctx, installmentID)
	if err != nil {
		return nil, nil, err
	}

	if inst.LoanID != loan.ID {
		return nil, nil, fmt.Errorf("%w: taksit %s", domain.ErrInstallmentNotFound, installmentID)
	}

	return loan, inst, nil
}
