package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evraktakip/evraktakip/internal/domain"
	"github.com/evraktakip/evraktakip/internal/usecase"
)

// LoanRepository implements usecase.LoanRepository.
type LoanRepository struct {
	pool *pgxpool.Pool
}

// NewLoanRepository creates a new LoanRepository.
func NewLoanRepository(pool *pgxpool.Pool) *LoanRepository {
	return &LoanRepository{pool: pool}
}

const loanColumns = `
	id, bank_id, principal, interest_rate, term_months, start_date,
	monthly_payment, total_payoff, currency, status, notes,
	created_by, created_at, updated_at
`

// Create inserts a loan inside the given transaction so the loan row and its
// installment schedule commit together.
func (r *LoanRepository) Create(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error {
	pgxTx, ok := tx.(*Tx)
	if !ok {
		return fmt.Errorf("invalid transaction type: %T", tx)
	}

	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := pgxTx.PgxTx().Exec(ctx, query,
		loan.ID,
		loan.BankID,
		loan.Principal,
		loan.InterestRate,
		loan.TermMonths,
		loan.StartDate,
		loan.MonthlyPayment,
		loan.TotalPayoff,
		loan.Currency,
		loan.Status,
		loan.Notes,
		loan.CreatedBy,
		loan.CreatedAt,
		loan.UpdatedAt,
	)

	return err
}

// GetByID retrieves a loan by ID.
func (r *LoanRepository) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`

	loan, err := scanLoan(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}

	return loan, nil
}

// List lists loans, newest first.
func (r *LoanRepository) List(ctx context.Context, limit, offset int) ([]*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []*domain.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}

	return loans, rows.Err()
}

// UpdateStatus sets only the loan status and update timestamp.
func (r *LoanRepository) UpdateStatus(ctx context.Context, id string, status domain.LoanStatus, updatedAt time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE loans SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, updatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLoanNotFound
	}

	return nil
}

func scanLoan(row pgx.Row) (*domain.Loan, error) {
	var loan domain.Loan
	err := row.Scan(
		&loan.ID,
		&loan.BankID,
		&loan.Principal,
		&loan.InterestRate,
		&loan.TermMonths,
		&loan.StartDate,
		&loan.MonthlyPayment,
		&loan.TotalPayoff,
		&loan.Currency,
		&loan.Status,
		&loan.Notes,
		&loan.CreatedBy,
		&loan.CreatedAt,
		&loan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &loan, nil
}
