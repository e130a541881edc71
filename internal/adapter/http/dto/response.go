package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/evraktakip/evraktakip/internal/domain"
	"github.com/evraktakip/evraktakip/internal/usecase"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// DocumentResponse represents a document in API responses.
type DocumentResponse struct {
	ID           string            `json:"id"`
	Kind         string            `json:"kind"`
	Number       string            `json:"number"`
	Amount       decimal.Decimal   `json:"amount"`
	Currency     string            `json:"currency"`
	ExchangeRate *decimal.Decimal  `json:"exchange_rate,omitempty"`
	AmountInBase decimal.Decimal   `json:"amount_in_base"`
	IssueDate    *time.Time        `json:"issue_date,omitempty"`
	DueDate      time.Time         `json:"due_date"`
	BankID       *string           `json:"bank_id,omitempty"`
	BankName     string            `json:"bank_name,omitempty"`
	Drawer       string            `json:"drawer,omitempty"`
	CustomerID   *string           `json:"customer_id,omitempty"`
	Notes        string            `json:"notes,omitempty"`
	Status       string            `json:"status"`
	CreatedBy    string            `json:"created_by"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	Customer     *CustomerResponse `json:"customer,omitempty"`
	Bank         *BankResponse     `json:"bank,omitempty"`
}

// DocumentFromDomain converts a domain document to a response.
func DocumentFromDomain(d *domain.Document) *DocumentResponse {
	resp := &DocumentResponse{
		ID:           d.ID,
		Kind:         string(d.Kind),
		Number:       d.Number,
		Amount:       d.Amount,
		Currency:     d.Currency,
		ExchangeRate: d.ExchangeRate,
		AmountInBase: d.AmountInBase(),
		IssueDate:    d.IssueDate,
		DueDate:      d.DueDate,
		BankID:       d.BankID,
		BankName:     d.BankName,
		Drawer:       d.Drawer,
		CustomerID:   d.CustomerID,
		Notes:        d.Notes,
		Status:       string(d.Status),
		CreatedBy:    d.CreatedBy,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	if d.Customer != nil {
		resp.Customer = CustomerFromDomain(d.Customer)
	}
	if d.Bank != nil {
		resp.Bank = BankFromDomain(d.Bank)
	}
	return resp
}

// DocumentsFromDomain converts domain documents to responses.
func DocumentsFromDomain(documents []*domain.Document) []*DocumentResponse {
	result := make([]*DocumentResponse, len(documents))
	for i, d := range documents {
		result[i] = DocumentFromDomain(d)
	}
	return result
}

// ListDocumentsResponse wraps a document listing.
type ListDocumentsResponse struct {
	Documents []*DocumentResponse `json:"documents"`
	Total     int64               `json:"total"`
}

// HistoryEntryResponse represents one status history entry.
type HistoryEntryResponse struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	FromStatus *string   `json:"from_status,omitempty"`
	ToStatus   string    `json:"to_status"`
	Note       string    `json:"note,omitempty"`
	ActorID    string    `json:"actor_id"`
	ActorName  string    `json:"actor_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// HistoryEntryFromDomain converts a domain history entry to a response.
func HistoryEntryFromDomain(e *domain.StatusEntry) *HistoryEntryResponse {
	resp := &HistoryEntryResponse{
		ID:         e.ID,
		DocumentID: e.DocumentID,
		ToStatus:   string(e.ToStatus),
		Note:       e.Note,
		ActorID:    e.ActorID,
		ActorName:  e.ActorName,
		CreatedAt:  e.CreatedAt,
	}
	if e.FromStatus != nil {
		from := string(*e.FromStatus)
		resp.FromStatus = &from
	}
	return resp
}

// HistoryFromDomain converts domain history entries to responses.
func HistoryFromDomain(entries []*domain.StatusEntry) []*HistoryEntryResponse {
	result := make([]*HistoryEntryResponse, len(entries))
	for i, e := range entries {
		result[i] = HistoryEntryFromDomain(e)
	}
	return result
}

// TransitionResponse is the outcome of a status transition.
type TransitionResponse struct {
	Document *DocumentResponse     `json:"document"`
	History  *HistoryEntryResponse `json:"history"`
	Message  string                `json:"message"`
}

// CustomerResponse represents a customer in API responses.
type CustomerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CustomerFromDomain converts a domain customer to a response.
func CustomerFromDomain(c *domain.Customer) *CustomerResponse {
	return &CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Type:      string(c.Type),
		Phone:     c.Phone,
		Email:     c.Email,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// CustomersFromDomain converts domain customers to responses.
func CustomersFromDomain(customers []*domain.Customer) []*CustomerResponse {
	result := make([]*CustomerResponse, len(customers))
	for i, c := range customers {
		result[i] = CustomerFromDomain(c)
	}
	return result
}

// BankResponse represents a bank in API responses.
type BankResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Branch    string    `json:"branch,omitempty"`
	IBAN      string    `json:"iban,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// BankFromDomain converts a domain bank to a response.
func BankFromDomain(b *domain.Bank) *BankResponse {
	return &BankResponse{
		ID:        b.ID,
		Name:      b.Name,
		Branch:    b.Branch,
		IBAN:      b.IBAN,
		CreatedAt: b.CreatedAt,
	}
}

// BanksFromDomain converts domain banks to responses.
func BanksFromDomain(banks []*domain.Bank) []*BankResponse {
	result := make([]*BankResponse, len(banks))
	for i, b := range banks {
		result[i] = BankFromDomain(b)
	}
	return result
}

// LoanResponse represents a loan in API responses.
type LoanResponse struct {
	ID             string          `json:"id"`
	BankID         *string         `json:"bank_id,omitempty"`
	Principal      decimal.Decimal `json:"principal"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	TermMonths     int             `json:"term_months"`
	StartDate      time.Time       `json:"start_date"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	TotalPayoff    decimal.Decimal `json:"total_payoff"`
	Currency       string          `json:"currency"`
	Status         string          `json:"status"`
	Notes          string          `json:"notes,omitempty"`
	CreatedBy      string          `json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	Installments []*InstallmentResponse `json:"installments,omitempty"`
}

// LoanFromDomain converts a domain loan to a response.
func LoanFromDomain(l *domain.Loan) *LoanResponse {
	resp := &LoanResponse{
		ID:             l.ID,
		BankID:         l.BankID,
		Principal:      l.Principal,
		InterestRate:   l.InterestRate,
		TermMonths:     l.TermMonths,
		StartDate:      l.StartDate,
		MonthlyPayment: l.MonthlyPayment,
		TotalPayoff:    l.TotalPayoff,
		Currency:       l.Currency,
		Status:         string(l.Status),
		Notes:          l.Notes,
		CreatedBy:      l.CreatedBy,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
	for _, inst := range l.Installments {
		resp.Installments = append(resp.Installments, InstallmentFromDomain(inst))
	}
	return resp
}

// LoansFromDomain converts domain loans to responses.
func LoansFromDomain(loans []*domain.Loan) []*LoanResponse {
	result := make([]*LoanResponse, len(loans))
	for i, l := range loans {
		result[i] = LoanFromDomain(l)
	}
	return result
}

// InstallmentResponse represents an installment in API responses.
type InstallmentResponse struct {
	ID         string           `json:"id"`
	LoanID     string           `json:"loan_id"`
	Seq        int              `json:"seq"`
	DueDate    time.Time        `json:"due_date"`
	Amount     decimal.Decimal  `json:"amount"`
	Status     string           `json:"status"`
	PaidAt     *time.Time       `json:"paid_at,omitempty"`
	PaidAmount *decimal.Decimal `json:"paid_amount,omitempty"`
	Notes      string           `json:"notes,omitempty"`
}

// InstallmentFromDomain converts a domain installment to a response.
func InstallmentFromDomain(i *domain.Installment) *InstallmentResponse {
	return &InstallmentResponse{
		ID:         i.ID,
		LoanID:     i.LoanID,
		Seq:        i.Seq,
		DueDate:    i.DueDate,
		Amount:     i.Amount,
		Status:     string(i.Status),
		PaidAt:     i.PaidAt,
		PaidAmount: i.PaidAmount,
		Notes:      i.Notes,
	}
}

// SummaryResponse represents a loan's installment summary.
type SummaryResponse struct {
	PaidCount        int                  `json:"paid_count"`
	PendingCount     int                  `json:"pending_count"`
	OverdueCount     int                  `json:"overdue_count"`
	PaidAmount       decimal.Decimal      `json:"paid_amount"`
	RemainingBalance decimal.Decimal      `json:"remaining_balance"`
	OverdueAmount    decimal.Decimal      `json:"overdue_amount"`
	NextInstallment  *InstallmentResponse `json:"next_installment,omitempty"`
}

// SummaryFromDomain converts a domain summary to a response.
func SummaryFromDomain(s *domain.InstallmentSummary) *SummaryResponse {
	resp := &SummaryResponse{
		PaidCount:        s.PaidCount,
		PendingCount:     s.PendingCount,
		OverdueCount:     s.OverdueCount,
		PaidAmount:       s.PaidAmount,
		RemainingBalance: s.RemainingBalance,
		OverdueAmount:    s.OverdueAmount,
	}
	if s.NextInstallment != nil {
		resp.NextInstallment = InstallmentFromDomain(s.NextInstallment)
	}
	return resp
}

// PaymentResponse is the outcome of a pay or reverse operation.
type PaymentResponse struct {
	Installment *InstallmentResponse `json:"installment"`
	LoanStatus  string               `json:"loan_status"`
}

// EarlyPayoffResponse is the outcome of an early payoff.
type EarlyPayoffResponse struct {
	Loan        *LoanResponse   `json:"loan"`
	PaidCount   int             `json:"paid_count"`
	PaidTotal   decimal.Decimal `json:"paid_total"`
	PaymentDate time.Time       `json:"payment_date"`
}

// ImportRowResponse represents one validated spreadsheet row.
type ImportRowResponse struct {
	RowNumber    int              `json:"row_number"`
	Kind         string           `json:"kind,omitempty"`
	Number       string           `json:"number,omitempty"`
	Amount       decimal.Decimal  `json:"amount"`
	Currency     string           `json:"currency,omitempty"`
	ExchangeRate *decimal.Decimal `json:"exchange_rate,omitempty"`
	IssueDate    *time.Time       `json:"issue_date,omitempty"`
	DueDate      *time.Time       `json:"due_date,omitempty"`
	BankName     string           `json:"bank_name,omitempty"`
	Drawer       string           `json:"drawer,omitempty"`
	CustomerName string           `json:"customer_name,omitempty"`
	CustomerID   *string          `json:"customer_id,omitempty"`
	Status       string           `json:"status,omitempty"`
	Valid        bool             `json:"valid"`
	Errors       []string         `json:"errors,omitempty"`
	Warnings     []string         `json:"warnings,omitempty"`
}

// ImportRowFromDomain converts a parsed row to a response.
func ImportRowFromDomain(r *domain.ParsedRow) *ImportRowResponse {
	resp := &ImportRowResponse{
		RowNumber:    r.RowNumber,
		Kind:         string(r.Kind),
		Number:       r.Number,
		Amount:       r.Amount,
		Currency:     r.Currency,
		ExchangeRate: r.ExchangeRate,
		IssueDate:    r.IssueDate,
		BankName:     r.BankName,
		Drawer:       r.Drawer,
		CustomerName: r.CustomerName,
		CustomerID:   r.CustomerID,
		Status:       string(r.Status),
		Valid:        r.Valid(),
		Errors:       r.Errors,
		Warnings:     r.Warnings,
	}
	if !r.DueDate.IsZero() {
		due := r.DueDate
		resp.DueDate = &due
	}
	return resp
}

// ImportReportResponse is the result of parsing a workbook.
type ImportReportResponse struct {
	Rows    []*ImportRowResponse `json:"rows"`
	Summary ImportSummaryDTO     `json:"summary"`
}

// ImportSummaryDTO counts parsed rows by outcome.
type ImportSummaryDTO struct {
	Total   int `json:"total"`
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
	Warned  int `json:"warned"`
}

// ImportReportFromDomain converts a domain report to a response.
func ImportReportFromDomain(r *domain.ImportReport) *ImportReportResponse {
	resp := &ImportReportResponse{
		Summary: ImportSummaryDTO{
			Total:   r.Summary.Total,
			Valid:   r.Summary.Valid,
			Invalid: r.Summary.Invalid,
			Warned:  r.Summary.Warned,
		},
	}
	for _, row := range r.Rows {
		resp.Rows = append(resp.Rows, ImportRowFromDomain(row))
	}
	return resp
}

// CommitRowError reports one failed row commit.
type CommitRowError struct {
	RowNumber int    `json:"row_number"`
	Message   string `json:"message"`
}

// ImportCommitResponse is the result of committing an import.
type ImportCommitResponse struct {
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Errors    []CommitRowError `json:"errors,omitempty"`
}

// ImportCommitFromUseCase converts a commit result to a response.
func ImportCommitFromUseCase(r *usecase.CommitResult) *ImportCommitResponse {
	resp := &ImportCommitResponse{
		Succeeded: r.Succeeded,
		Failed:    r.Failed,
	}
	for _, e := range r.Errors {
		resp.Errors = append(resp.Errors, CommitRowError{RowNumber: e.RowNumber, Message: e.Message})
	}
	return resp
}

// RateResponse represents an exchange rate quote.
type RateResponse struct {
	Currency string          `json:"currency"`
	Rate     decimal.Decimal `json:"rate"`
}
