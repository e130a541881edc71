package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/evraktakip/evraktakip/internal/domain"
)

// CustomerUseCase handles counterparty records.
type CustomerUseCase struct {
	customerRepo CustomerRepository
	idGen        IDGenerator
}

// NewCustomerUseCase creates a new CustomerUseCase.
func NewCustomerUseCase(customerRepo CustomerRepository, idGen IDGenerator) *CustomerUseCase {
	return &CustomerUseCase{customerRepo: customerRepo, idGen: idGen}
}

// CreateCustomerInput represents input for creating a customer.
type CreateCustomerInput struct {
	Name  string
	Type  domain.CustomerType
	Phone string
	Email string
	Notes string
}

// CreateCustomer inserts a new counterparty.
func (uc *CustomerUseCase) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*domain.Customer, error) {
	now := time.Now().UTC()
	customer := &domain.Customer{
		ID:        uc.idGen.Generate(),
		Name:      strings.TrimSpace(input.Name),
		Type:      input.Type,
		Phone:     strings.TrimSpace(input.Phone),
		Email:     strings.TrimSpace(input.Email),
		Notes:     domain.Truncate(input.Notes, domain.MaxNotesLength),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := customer.Validate(); err != nil {
		return nil, err
	}

	if err := uc.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// GetCustomer retrieves a customer by ID.
func (uc *CustomerUseCase) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return uc.customerRepo.GetByID(ctx, id)
}

// FindCustomerByName looks a customer up case-insensitively by full name.
func (uc *CustomerUseCase) FindCustomerByName(ctx context.Context, name string) (*domain.Customer, error) {
	return uc.customerRepo.GetByName(ctx, strings.TrimSpace(name))
}

// ListCustomers lists customers with pagination.
func (uc *CustomerUseCase) ListCustomers(ctx context.Context, limit, offset int) ([]*domain.Customer, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	return uc.customerRepo.List(ctx, limit, offset)
}

// UpdateCustomer applies field updates to a customer.
func (uc *CustomerUseCase) UpdateCustomer(ctx context.Context, id string, input CreateCustomerInput) (*domain.Customer, error) {
	customer, err := uc.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	customer.Name = strings.TrimSpace(input.Name)
	customer.Type = input.Type
	customer.Phone = strings.TrimSpace(input.Phone)
	customer.Email = strings.TrimSpace(input.Email)
	customer.Notes = domain.Truncate(input.Notes, domain.MaxNotesLength)
	customer.UpdatedAt = time.Now().UTC()

	if err := customer.Validate(); err != nil {
		return nil, err
	}

	if err := uc.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// DeleteCustomer removes a customer.
func (uc *CustomerUseCase) DeleteCustomer(ctx context.Context, id string) error {
	if _, err := uc.customerRepo.GetByID(ctx, id); err != nil {
		return err
	}

	return uc.customerRepo.Delete(ctx, id)
}

// BankUseCase handles bank reference records.
type BankUseCase struct {
	bankRepo BankRepository
	idGen    IDGenerator
}

// NewBankUseCase creates a new BankUseCase.
func NewBankUseCase(bankRepo BankRepository, idGen IDGenerator) *BankUseCase {
	return &BankUseCase{bankRepo: bankRepo, idGen: idGen}
}

// CreateBank inserts a new bank record.
func (uc *BankUseCase) CreateBank(ctx context.Context, name, branch, iban string) (*domain.Bank, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrValidation
	}

	bank := &domain.Bank{
		ID:        uc.idGen.Generate(),
		Name:      domain.Truncate(name, domain.MaxBankNameLength),
		Branch:    strings.TrimSpace(branch),
		IBAN:      strings.ReplaceAll(strings.ToUpper(iban), " ", ""),
		CreatedAt: time.Now().UTC(),
	}

	if err := uc.bankRepo.Create(ctx, bank); err != nil {
		return nil, err
	}

	return bank, nil
}

// ListBanks lists all banks.
func (uc *BankUseCase) ListBanks(ctx context.Context) ([]*domain.Bank, error) {
	return uc.bankRepo.List(ctx)
}
