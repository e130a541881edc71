package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/evraktakip/evraktakip/internal/domain"
	"github.com/evraktakip/evraktakip/internal/usecase"
)

// CreateDocumentRequest represents a request to create a document.
type CreateDocumentRequest struct {
	Kind         string           `json:"kind"`
	Number       string           `json:"number"`
	Amount       decimal.Decimal  `json:"amount"`
	Currency     string           `json:"currency,omitempty"`
	ExchangeRate *decimal.Decimal `json:"exchange_rate,omitempty"`
	IssueDate    *time.Time       `json:"issue_date,omitempty"`
	DueDate      time.Time        `json:"due_date"`
	BankID       *string          `json:"bank_id,omitempty"`
	BankName     string           `json:"bank_name,omitempty"`
	Drawer       string           `json:"drawer,omitempty"`
	CustomerID   *string          `json:"customer_id,omitempty"`
	Notes        string           `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateDocumentRequest) ToUseCaseInput(actor string) usecase.CreateDocumentInput {
	return usecase.CreateDocumentInput{
		Kind:         r.Kind,
		Number:       r.Number,
		Amount:       r.Amount,
		Currency:     r.Currency,
		ExchangeRate: r.ExchangeRate,
		IssueDate:    r.IssueDate,
		DueDate:      r.DueDate,
		BankID:       r.BankID,
		BankName:     r.BankName,
		Drawer:       r.Drawer,
		CustomerID:   r.CustomerID,
		Notes:        r.Notes,
		Actor:        actor,
	}
}

// UpdateDocumentRequest carries optional field updates; absent fields are
// left untouched.
type UpdateDocumentRequest struct {
	Amount       *decimal.Decimal `json:"amount,omitempty"`
	Currency     *string          `json:"currency,omitempty"`
	ExchangeRate *decimal.Decimal `json:"exchange_rate,omitempty"`
	IssueDate    *time.Time       `json:"issue_date,omitempty"`
	DueDate      *time.Time       `json:"due_date,omitempty"`
	BankID       *string          `json:"bank_id,omitempty"`
	BankName     *string          `json:"bank_name,omitempty"`
	Drawer       *string          `json:"drawer,omitempty"`
	CustomerID   *string          `json:"customer_id,omitempty"`
	Notes        *string          `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateDocumentRequest) ToUseCaseInput() usecase.UpdateDocumentInput {
	return usecase.UpdateDocumentInput{
		Amount:       r.Amount,
		Currency:     r.Currency,
		ExchangeRate: r.ExchangeRate,
		IssueDate:    r.IssueDate,
		DueDate:      r.DueDate,
		BankID:       r.BankID,
		BankName:     r.BankName,
		Drawer:       r.Drawer,
		CustomerID:   r.CustomerID,
		Notes:        r.Notes,
	}
}

// TransitionRequest represents a request to change a document's status.
type TransitionRequest struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}

// CreateLoanRequest represents a request to create a loan.
type CreateLoanRequest struct {
	BankID       *string         `json:"bank_id,omitempty"`
	Principal    decimal.Decimal `json:"principal"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	TermMonths   int             `json:"term_months"`
	StartDate    time.Time       `json:"start_date"`
	Currency     string          `json:"currency,omitempty"`
	Notes        string          `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateLoanRequest) ToUseCaseInput(actor string) usecase.CreateLoanInput {
	return usecase.CreateLoanInput{
		BankID:       r.BankID,
		Principal:    r.Principal,
		InterestRate: r.InterestRate,
		TermMonths:   r.TermMonths,
		StartDate:    r.StartDate,
		Currency:     r.Currency,
		Notes:        r.Notes,
		Actor:        actor,
	}
}

// PayInstallmentRequest represents a request to pay one installment.
type PayInstallmentRequest struct {
	PaymentDate *time.Time       `json:"payment_date,omitempty"`
	PaidAmount  *decimal.Decimal `json:"paid_amount,omitempty"`
	Note        string           `json:"note,omitempty"`
}

// EarlyPayoffRequest represents a request to settle a loan early.
type EarlyPayoffRequest struct {
	PaymentDate *time.Time `json:"payment_date,omitempty"`
	Note        string     `json:"note,omitempty"`
}

// CreateCustomerRequest represents a request to create or update a customer.
type CreateCustomerRequest struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCustomerRequest) ToUseCaseInput() usecase.CreateCustomerInput {
	return usecase.CreateCustomerInput{
		Name:  r.Name,
		Type:  domain.CustomerType(r.Type),
		Phone: r.Phone,
		Email: r.Email,
		Notes: r.Notes,
	}
}

// CreateBankRequest represents a request to create a bank.
type CreateBankRequest struct {
	Name   string `json:"name"`
	Branch string `json:"branch,omitempty"`
	IBAN   string `json:"iban,omitempty"`
}
