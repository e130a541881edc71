package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/evraktakip/evraktakip/internal/domain"
	"github.com/evraktakip/evraktakip/internal/usecase"
)

// InstallmentRepository implements usecase.InstallmentRepository.
type InstallmentRepository struct {
	pool *pgxpool.Pool
}

// NewInstallmentRepository creates a new InstallmentRepository.
func NewInstallmentRepository(pool *pgxpool.Pool) *InstallmentRepository {
	return &InstallmentRepository{pool: pool}
}

const installmentColumns = `
	id, loan_id, seq, due_date, amount, status, paid_at, paid_amount, notes
`

// Create inserts an installment inside the given transaction.
func (r *InstallmentRepository) Create(ctx context.Context, tx usecase.Transaction, inst *domain.Installment) error {
	pgxTx, ok := tx.(*Tx)
	if !ok {
		return fmt.Errorf("invalid transaction type: %T", tx)
	}

	query := `
		INSERT INTO installments (` + installmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := pgxTx.PgxTx().Exec(ctx, query,
		inst.ID,
		inst.LoanID,
		inst.Seq,
		inst.DueDate,
		inst.Amount,
		inst.Status,
		inst.PaidAt,
		inst.PaidAmount,
		inst.Notes,
	)

	return err
}

// GetByID retrieves an installment by ID.
func (r *InstallmentRepository) GetByID(ctx context.Context, id string) (*domain.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM installments WHERE id = $1`

	inst, err := scanInstallment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInstallmentNotFound
		}
		return nil, err
	}

	return inst, nil
}

// ListByLoan returns a loan's schedule in sequence order.
func (r *InstallmentRepository) ListByLoan(ctx context.Context, loanID string) ([]*domain.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM installments WHERE loan_id = $1 ORDER BY seq ASC`

	rows, err := r.pool.Query(ctx, query, loanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var installments []*domain.Installment
	for rows.Next() {
		inst, err := scanInstallment(rows)
		if err != nil {
			return nil, err
		}
		installments = append(installments, inst)
	}

	return installments, rows.Err()
}

// MarkPaid records a payment on an installment.
func (r *InstallmentRepository) MarkPaid(ctx context.Context, id string, paidAt time.Time, paidAmount decimal.Decimal, note string) error {
	query := `
		UPDATE installments
		SET status = $2, paid_at = $3, paid_amount = $4, notes = $5
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id, domain.InstallmentPaid, paidAt, paidAmount, note)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInstallmentNotFound
	}

	return nil
}

// MarkUnpaid reverses a payment, clearing the payment fields and restoring
// the given unpaid status.
func (r *InstallmentRepository) MarkUnpaid(ctx context.Context, id string, status domain.InstallmentStatus) error {
	query := `
		UPDATE installments
		SET status = $2, paid_at = NULL, paid_amount = NULL
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInstallmentNotFound
	}

	return nil
}

// CountUnpaid counts installments of a loan not yet paid.
func (r *InstallmentRepository) CountUnpaid(ctx context.Context, loanID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM installments WHERE loan_id = $1 AND status <> $2`,
		loanID, domain.InstallmentPaid,
	).Scan(&count)

	return count, err
}

func scanInstallment(row pgx.Row) (*domain.Installment, error) {
	var inst domain.Installment
	err := row.Scan(
		&inst.ID,
		&inst.LoanID,
		&inst.Seq,
		&inst.DueDate,
		&inst.Amount,
		&inst.Status,
		&inst.PaidAt,
		&inst.PaidAmount,
		&inst.Notes,
	)
	if err != nil {
		return nil, err
	}

	return &inst, nil
}
