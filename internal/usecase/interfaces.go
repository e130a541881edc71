package usecase

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/evraktakip/evraktakip/internal/domain"
)

// DocumentFilter narrows document listings.
type DocumentFilter struct {
	Kind       domain.DocumentKind
	Status     domain.DocumentStatus
	CustomerID string
	BankID     string
	DueBefore  *time.Time
	DueAfter   *time.Time
	Limit      int
	Offset     int
}

// DocumentRepository defines data access for documents.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	GetByIDWithRelations(ctx context.Context, id string) (*domain.Document, error)
	ExistsByNumber(ctx context.Context, number string) (bool, error)
	List(ctx context.Context, filter DocumentFilter) ([]*domain.Document, error)
	Update(ctx context.Context, doc *domain.Document) error
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
}

// HistoryRepository defines data access for status history entries.
type HistoryRepository interface {
	Create(ctx context.Context, entry *domain.StatusEntry) error
	ListByDocument(ctx context.Context, documentID string) ([]*domain.StatusEntry, error)
	DeleteByDocument(ctx context.Context, documentID string) error
}

// LoanRepository defines data access for loans.
type LoanRepository interface {
	Create(ctx context.Context, tx Transaction, loan *domain.Loan) error
	GetByID(ctx context.Context, id string) (*domain.Loan, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Loan, error)
	UpdateStatus(ctx context.Context, id string, status domain.LoanStatus, updatedAt time.Time) error
}

// InstallmentRepository defines data access for loan installments.
type InstallmentRepository interface {
	Create(ctx context.Context, tx Transaction, inst *domain.Installment) error
	GetByID(ctx context.Context, id string) (*domain.Installment, error)
	ListByLoan(ctx context.Context, loanID string) ([]*domain.Installment, error)
	MarkPaid(ctx context.Context, id string, paidAt time.Time, paidAmount decimal.Decimal, note string) error
	MarkUnpaid(ctx context.Context, id string, status domain.InstallmentStatus) error
	CountUnpaid(ctx context.Context, loanID string) (int, error)
}

// CustomerRepository defines data access for counterparties.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	// GetByName matches case-insensitively on the full name.
	GetByName(ctx context.Context, name string) (*domain.Customer, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Customer, error)
	Update(ctx context.Context, customer *domain.Customer) error
	Delete(ctx context.Context, id string) error
}

// BankRepository defines data access for banks.
type BankRepository interface {
	Create(ctx context.Context, bank *domain.Bank) error
	GetByID(ctx context.Context, id string) (*domain.Bank, error)
	List(ctx context.Context) ([]*domain.Bank, error)
}

// ActorDirectory resolves actor ids to display names. Identity itself is
// managed by an external provider; only the name lookup is needed here.
type ActorDirectory interface {
	// GetNames resolves many ids in one call. Unknown ids are simply
	// absent from the result.
	GetNames(ctx context.Context, ids []string) (map[string]string, error)
}

// Notifier dispatches best-effort human-readable notifications.
type Notifier interface {
	Enabled() bool
	Recipients() []string
	Send(ctx context.Context, recipient, text string) error
}

// Clock supplies the current calendar day, injected for testability.
type Clock interface {
	Today() time.Time
}

// SystemClock is the production Clock backed by the wall clock.
type SystemClock struct{}

// Today returns the current UTC calendar day at midnight.
func (SystemClock) Today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Retrier re-runs an operation on transient database failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// WorkbookReader extracts the first worksheet of a spreadsheet as raw cell
// values, one slice of cells per row.
type WorkbookReader interface {
	Rows(r io.Reader) ([][]string, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}
