package mocks

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/evraktakip/evraktakip/internal/domain"
	"github.com/evraktakip/evraktakip/internal/usecase"
)

// MockDocumentRepository is a mock implementation of DocumentRepository.
// Each method delegates to its Func field when set and otherwise falls back
// to an in-memory map.
type MockDocumentRepository struct {
	mu        sync.RWMutex
	documents map[string]*domain.Document

	CreateFunc               func(ctx context.Context, doc *domain.Document) error
	GetByIDFunc              func(ctx context.Context, id string) (*domain.Document, error)
	GetByIDWithRelationsFunc func(ctx context.Context, id string) (*domain.Document, error)
	ExistsByNumberFunc       func(ctx context.Context, number string) (bool, error)
	ListFunc                 func(ctx context.Context, filter usecase.DocumentFilter) ([]*domain.Document, error)
	UpdateFunc               func(ctx context.Context, doc *domain.Document) error
	UpdateStatusFunc         func(ctx context.Context, id string, status domain.DocumentStatus, updatedAt time.Time) error
	DeleteFunc               func(ctx context.Context, id string) error
}

func NewMockDocumentRepository() *MockDocumentRepository {
	return &MockDocumentRepository{documents: make(map[string]*domain.Document)}
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, doc)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents[doc.ID] = doc
	return nil
}

func (m *MockDocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if doc, ok := m.documents[id]; ok {
		return doc, nil
	}
	return nil, domain.ErrDocumentNotFound
}

func (m *MockDocumentRepository) GetByIDWithRelations(ctx context.Context, id string) (*domain.Document, error) {
	if m.GetByIDWithRelationsFunc != nil {
		return m.GetByIDWithRelationsFunc(ctx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockDocumentRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	if m.ExistsByNumberFunc != nil {
		return m.ExistsByNumberFunc(ctx, number)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, doc := range m.documents {
		if doc.Number == number {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockDocumentRepository) List(ctx context.Context, filter usecase.DocumentFilter) ([]*domain.Document, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var docs []*domain.Document
	for _, doc := range m.documents {
		docs = append(docs, doc)
	}
	return docs, nil
}

func (m *MockDocumentRepository) Update(ctx context.Context, doc *domain.Document) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, doc)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.documents[doc.ID]; !ok {
		return domain.ErrDocumentNotFound
	}
	m.documents[doc.ID] = doc
	return nil
}

func (m *MockDocumentRepository) UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, updatedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.documents[id]
	if !ok {
		return domain.ErrDocumentNotFound
	}
	doc.Status = status
	doc.UpdatedAt = updatedAt
	return nil
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.documents, id)
	return nil
}

// MockHistoryRepository is a mock implementation of HistoryRepository.
type MockHistoryRepository struct {
	mu      sync.RWMutex
	entries []*domain.StatusEntry

	CreateFunc           func(ctx context.Context, entry *domain.StatusEntry) error
	ListByDocumentFunc   func(ctx context.Context, documentID string) ([]*domain.StatusEntry, error)
	DeleteByDocumentFunc func(ctx context.Context, documentID string) error
}

func NewMockHistoryRepository() *MockHistoryRepository {
	return &MockHistoryRepository{}
}

func (m *MockHistoryRepository) Create(ctx context.Context, entry *domain.StatusEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockHistoryRepository) ListByDocument(ctx context.Context, documentID string) ([]*domain.StatusEntry, error) {
	if m.ListByDocumentFunc != nil {
		return m.ListByDocumentFunc(ctx, documentID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.StatusEntry
	for _, e := range m.entries {
		if e.DocumentID == documentID {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (m *MockHistoryRepository) DeleteByDocument(ctx context.Context, documentID string) error {
	if m.DeleteByDocumentFunc != nil {
		return m.DeleteByDocumentFunc(ctx, documentID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []*domain.StatusEntry
	for _, e := range m.entries {
		if e.DocumentID != documentID {
			kept = append(kept, e)
		}
	}
	m.entries = kept
	return nil
}

// Entries returns a copy of all recorded entries.
func (m *MockHistoryRepository) Entries() []*domain.StatusEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.StatusEntry(nil), m.entries...)
}

// MockLoanRepository is a mock implementation of LoanRepository.
type MockLoanRepository struct {
	mu    sync.RWMutex
	loans map[string]*domain.Loan

	CreateFunc       func(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error
	GetByIDFunc      func(ctx context.Context, id string) (*domain.Loan, error)
	ListFunc         func(ctx context.Context, limit, offset int) ([]*domain.Loan, error)
	UpdateStatusFunc func(ctx context.Context, id string, status domain.LoanStatus, updatedAt time.Time) error
}

func NewMockLoanRepository() *MockLoanRepository {
	return &MockLoanRepository{loans: make(map[string]*domain.Loan)}
}

func (m *MockLoanRepository) Create(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, loan)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loans[loan.ID] = loan
	return nil
}

func (m *MockLoanRepository) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if loan, ok := m.loans[id]; ok {
		return loan, nil
	}
	return nil, domain.ErrLoanNotFound
}

func (m *MockLoanRepository) List(ctx context.Context, limit, offset int) ([]*domain.Loan, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var loans []*domain.Loan
	for _, l := range m.loans {
		loans = append(loans, l)
	}
	return loans, nil
}

func (m *MockLoanRepository) UpdateStatus(ctx context.Context, id string, status domain.LoanStatus, updatedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	loan, ok := m.loans[id]
	if !ok {
		return domain.ErrLoanNotFound
	}
	loan.Status = status
	loan.UpdatedAt = updatedAt
	return nil
}

// MockInstallmentRepository is a mock implementation of InstallmentRepository.
type MockInstallmentRepository struct {
	mu           sync.RWMutex
	installments map[string]*domain.Installment

	CreateFunc      func(ctx context.Context, tx usecase.Transaction, inst *domain.Installment) error
	GetByIDFunc     func(ctx context.Context, id string) (*domain.Installment, error)
	ListByLoanFunc  func(ctx context.Context, loanID string) ([]*domain.Installment, error)
	MarkPaidFunc    func(ctx context.Context, id string, paidAt time.Time, paidAmount decimal.Decimal, note string) error
	MarkUnpaidFunc  func(ctx context.Context, id string, status domain.InstallmentStatus) error
	CountUnpaidFunc func(ctx context.Context, loanID string) (int, error)
}

func NewMockInstallmentRepository() *MockInstallmentRepository {
	return &MockInstallmentRepository{installments: make(map[string]*domain.Installment)}
}

// Seed loads installments into the in-memory store.
func (m *MockInstallmentRepository) Seed(installments ...*domain.Installment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inst := range installments {
		m.installments[inst.ID] = inst
	}
}

func (m *MockInstallmentRepository) Create(ctx context.Context, tx usecase.Transaction, inst *domain.Installment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, inst)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.installments[inst.ID] = inst
	return nil
}

func (m *MockInstallmentRepository) GetByID(ctx context.Context, id string) (*domain.Installment, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if inst, ok := m.installments[id]; ok {
		return inst, nil
	}
	return nil, domain.ErrInstallmentNotFound
}

func (m *MockInstallmentRepository) ListByLoan(ctx context.Context, loanID string) ([]*domain.Installment, error) {
	if m.ListByLoanFunc != nil {
		return m.ListByLoanFunc(ctx, loanID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var insts []*domain.Installment
	for _, inst := range m.installments {
		if inst.LoanID == loanID {
			insts = append(insts, inst)
		}
	}
	sortInstallments(insts)
	return insts, nil
}

func (m *MockInstallmentRepository) MarkPaid(ctx context.Context, id string, paidAt time.Time, paidAmount decimal.Decimal, note string) error {
	if m.MarkPaidFunc != nil {
		return m.MarkPaidFunc(ctx, id, paidAt, paidAmount, note)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	inst, ok := m.installments[id]
	if !ok {
		return domain.ErrInstallmentNotFound
	}
	inst.Status = domain.InstallmentPaid
	inst.PaidAt = &paidAt
	inst.PaidAmount = &paidAmount
	if note != "" {
		inst.Notes = note
	}
	return nil
}

func (m *MockInstallmentRepository) MarkUnpaid(ctx context.Context, id string, status domain.InstallmentStatus) error {
	if m.MarkUnpaidFunc != nil {
		return m.MarkUnpaidFunc(ctx, id, status)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	inst, ok := m.installments[id]
	if !ok {
		return domain.ErrInstallmentNotFound
	}
	inst.Status = status
	inst.PaidAt = nil
	inst.PaidAmount = nil
	return nil
}

func (m *MockInstallmentRepository) CountUnpaid(ctx context.Context, loanID string) (int, error) {
	if m.CountUnpaidFunc != nil {
		return m.CountUnpaidFunc(ctx, loanID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, inst := range m.installments {
		if inst.LoanID == loanID && inst.Status != domain.InstallmentPaid {
			count++
		}
	}
	return count, nil
}

func sortInstallments(insts []*domain.Installment) {
	for i := 1; i < len(insts); i++ {
		for j := i; j > 0 && insts[j-1].Seq > insts[j].Seq; j-- {
			insts[j-1], insts[j] = insts[j], insts[j-1]
		}
	}
}

// MockCustomerRepository is a mock implementation of CustomerRepository.
type MockCustomerRepository struct {
	mu        sync.RWMutex
	customers map[string]*domain.Customer

	CreateFunc    func(ctx context.Context, customer *domain.Customer) error
	GetByIDFunc   func(ctx context.Context, id string) (*domain.Customer, error)
	GetByNameFunc func(ctx context.Context, name string) (*domain.Customer, error)
	ListFunc      func(ctx context.Context, limit, offset int) ([]*domain.Customer, error)
	UpdateFunc    func(ctx context.Context, customer *domain.Customer) error
	DeleteFunc    func(ctx context.Context, id string) error
}

func NewMockCustomerRepository() *MockCustomerRepository {
	return &MockCustomerRepository{customers: make(map[string]*domain.Customer)}
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, customer)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers[customer.ID] = customer
	return nil
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.customers[id]; ok {
		return c, nil
	}
	return nil, domain.ErrCustomerNotFound
}

func (m *MockCustomerRepository) GetByName(ctx context.Context, name string) (*domain.Customer, error) {
	if m.GetByNameFunc != nil {
		return m.GetByNameFunc(ctx, name)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.customers {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return nil, domain.ErrCustomerNotFound
}

func (m *MockCustomerRepository) List(ctx context.Context, limit, offset int) ([]*domain.Customer, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var customers []*domain.Customer
	for _, c := range m.customers {
		customers = append(customers, c)
	}
	return customers, nil
}

func (m *MockCustomerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, customer)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers[customer.ID] = customer
	return nil
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.customers, id)
	return nil
}

// MockBankRepository is a mock implementation of BankRepository.
type MockBankRepository struct {
	mu    sync.RWMutex
	banks map[string]*domain.Bank

	CreateFunc  func(ctx context.Context, bank *domain.Bank) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.Bank, error)
	ListFunc    func(ctx context.Context) ([]*domain.Bank, error)
}

func NewMockBankRepository() *MockBankRepository {
	return &MockBankRepository{banks: make(map[string]*domain.Bank)}
}

func (m *MockBankRepository) Create(ctx context.Context, bank *domain.Bank) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, bank)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.banks[bank.ID] = bank
	return nil
}

func (m *MockBankRepository) GetByID(ctx context.Context, id string) (*domain.Bank, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.banks[id]; ok {
		return b, nil
	}
	return nil, domain.ErrBankNotFound
}

func (m *MockBankRepository) List(ctx context.Context) ([]*domain.Bank, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var banks []*domain.Bank
	for _, b := range m.banks {
		banks = append(banks, b)
	}
	return banks, nil
}

// MockActorDirectory is a mock implementation of ActorDirectory.
type MockActorDirectory struct {
	Names        map[string]string
	GetNamesFunc func(ctx context.Context, ids []string) (map[string]string, error)

	mu    sync.Mutex
	calls [][]string
}

func NewMockActorDirectory() *MockActorDirectory {
	return &MockActorDirectory{Names: make(map[string]string)}
}

func (m *MockActorDirectory) GetNames(ctx context.Context, ids []string) (map[string]string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, ids)
	m.mu.Unlock()

	if m.GetNamesFunc != nil {
		return m.GetNamesFunc(ctx, ids)
	}

	out := make(map[string]string)
	for _, id := range ids {
		if name, ok := m.Names[id]; ok {
			out[id] = name
		}
	}
	return out, nil
}

// Calls returns every GetNames invocation recorded so far.
func (m *MockActorDirectory) Calls() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]string(nil), m.calls...)
}

// MockTransaction satisfies usecase.Transaction without a database.
type MockTransaction struct {
	Committed  bool
	RolledBack bool
}

func (t *MockTransaction) Commit(ctx context.Context) error   { t.Committed = true; return nil }
func (t *MockTransaction) Rollback(ctx context.Context) error { t.RolledBack = true; return nil }

// MockTxManager satisfies usecase.TransactionManager without a database.
type MockTxManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
	Last      *MockTransaction
}

func NewMockTxManager() *MockTxManager {
	return &MockTxManager{}
}

func (m *MockTxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.Last = &MockTransaction{}
	return m.Last, nil
}

// MockIDGenerator returns sequential IDs.
type MockIDGenerator struct {
	mu           sync.Mutex
	counter      int
	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("test-id-%04d", m.counter)
}

// FixedClock returns a fixed day.
type FixedClock struct {
	Day time.Time
}

func (c FixedClock) Today() time.Time { return c.Day }
