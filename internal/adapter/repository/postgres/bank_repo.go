package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evraktakip/evraktakip/internal/domain"
)

// BankRepository implements usecase.BankRepository.
type BankRepository struct {
	pool *pgxpool.Pool
}

// NewBankRepository creates a new BankRepository.
func NewBankRepository(pool *pgxpool.Pool) *BankRepository {
	return &BankRepository{pool: pool}
}

// Create inserts a new bank.
func (r *BankRepository) Create(ctx context.Context, bank *domain.Bank) error {
	query := `
		INSERT INTO banks (id, name, branch, iban, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query, bank.ID, bank.Name, bank.Branch, bank.IBAN, bank.CreatedAt)

	return err
}

// GetByID retrieves a bank by ID.
func (r *BankRepository) GetByID(ctx context.Context, id string) (*domain.Bank, error) {
	query := `SELECT id, name, branch, iban, created_at FROM banks WHERE id = $1`

	var bank domain.Bank
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&bank.ID, &bank.Name, &bank.Branch, &bank.IBAN, &bank.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBankNotFound
		}
		return nil, err
	}

	return &bank, nil
}

// List lists all banks alphabetically.
func (r *BankRepository) List(ctx context.Context) ([]*domain.Bank, error) {
	query := `SELECT id, name, branch, iban, created_at FROM banks ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var banks []*domain.Bank
	for rows.Next() {
		var bank domain.Bank
		err := rows.Scan(&bank.ID, &bank.Name, &bank.Branch, &bank.IBAN, &bank.CreatedAt)
		if err != nil {
			return nil, err
		}
		banks = append(banks, &bank)
	}

	return banks, rows.Err()
}
