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

// DocumentRepository implements usecase.DocumentRepository.
type DocumentRepository struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{pool: pool}
}

const documentColumns = `
	id, kind, number, amount, currency, exchange_rate,
	issue_date, due_date, bank_id, bank_name, drawer,
	customer_id, notes, status, created_by, created_at, updated_at
`

// Create inserts a new document.
func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	query := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := r.pool.Exec(ctx, query,
		doc.ID,
		doc.Kind,
		doc.Number,
		doc.Amount,
		doc.Currency,
		doc.ExchangeRate,
		doc.IssueDate,
		doc.DueDate,
		doc.BankID,
		doc.BankName,
		doc.Drawer,
		doc.CustomerID,
		doc.Notes,
		doc.Status,
		doc.CreatedBy,
		doc.CreatedAt,
		doc.UpdatedAt,
	)

	return err
}

// GetByID retrieves a document by ID.
func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`

	doc, err := scanDocument(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, err
	}

	return doc, nil
}

// GetByIDWithRelations retrieves a document with its customer and bank.
func (r *DocumentRepository) GetByIDWithRelations(ctx context.Context, id string) (*domain.Document, error) {
	doc, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if doc.CustomerID != nil {
		query := `SELECT id, name, type, phone, email, notes, created_at, updated_at FROM customers WHERE id = $1`
		var c domain.Customer
		err := r.pool.QueryRow(ctx, query, *doc.CustomerID).Scan(
			&c.ID, &c.Name, &c.Type, &c.Phone, &c.Email, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
		)
		if err == nil {
			doc.Customer = &c
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}

	if doc.BankID != nil {
		query := `SELECT id, name, branch, iban, created_at FROM banks WHERE id = $1`
		var b domain.Bank
		err := r.pool.QueryRow(ctx, query, *doc.BankID).Scan(
			&b.ID, &b.Name, &b.Branch, &b.IBAN, &b.CreatedAt,
		)
		if err == nil {
			doc.Bank = &b
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}

	return doc, nil
}

// ExistsByNumber reports whether any document carries the given number.
func (r *DocumentRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM documents WHERE number = $1)`, number,
	).Scan(&exists)

	return exists, err
}

// List lists documents matching the filter, most recent due date first.
func (r *DocumentRepository) List(ctx context.Context, filter usecase.DocumentFilter) ([]*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE 1=1`
	args := []any{}

	if filter.Kind != "" {
		args = append(args, filter.Kind)
		query += fmt.Sprintf(` AND kind = $%d`, len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if filter.CustomerID != "" {
		args = append(args, filter.CustomerID)
		query += fmt.Sprintf(` AND customer_id = $%d`, len(args))
	}
	if filter.BankID != "" {
		args = append(args, filter.BankID)
		query += fmt.Sprintf(` AND bank_id = $%d`, len(args))
	}
	if filter.DueAfter != nil {
		args = append(args, *filter.DueAfter)
		query += fmt.Sprintf(` AND due_date >= $%d`, len(args))
	}
	if filter.DueBefore != nil {
		args = append(args, *filter.DueBefore)
		query += fmt.Sprintf(` AND due_date <= $%d`, len(args))
	}

	query += ` ORDER BY due_date ASC, created_at DESC`

	args = append(args, filter.Limit)
	query += fmt.Sprintf(` LIMIT $%d`, len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(` OFFSET $%d`, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var documents []*domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		documents = append(documents, doc)
	}

	return documents, rows.Err()
}

// Update rewrites the mutable fields of a document. Status is deliberately
// excluded; UpdateStatus is the only writer for it.
func (r *DocumentRepository) Update(ctx context.Context, doc *domain.Document) error {
	query := `
		UPDATE documents SET
			amount = $2, currency = $3, exchange_rate = $4,
			issue_date = $5, due_date = $6, bank_id = $7, bank_name = $8,
			drawer = $9, customer_id = $10, notes = $11, updated_at = $12
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		doc.ID,
		doc.Amount,
		doc.Currency,
		doc.ExchangeRate,
		doc.IssueDate,
		doc.DueDate,
		doc.BankID,
		doc.BankName,
		doc.Drawer,
		doc.CustomerID,
		doc.Notes,
		doc.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDocumentNotFound
	}

	return nil
}

// UpdateStatus sets only the status and update timestamp.
func (r *DocumentRepository) UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, updatedAt time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE documents SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, updatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDocumentNotFound
	}

	return nil
}

// Delete removes a document.
func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDocumentNotFound
	}

	return nil
}

func scanDocument(row pgx.Row) (*domain.Document, error) {
	var doc domain.Document
	err := row.Scan(
		&doc.ID,
		&doc.Kind,
		&doc.Number,
		&doc.Amount,
		&doc.Currency,
		&doc.ExchangeRate,
		&doc.IssueDate,
		&doc.DueDate,
		&doc.BankID,
		&doc.BankName,
		&doc.Drawer,
		&doc.CustomerID,
		&doc.Notes,
		&doc.Status,
		&doc.CreatedBy,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &doc, nil
}
