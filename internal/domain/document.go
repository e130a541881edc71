package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DocumentKind distinguishes checks from promissory notes.
type DocumentKind string

const (
	KindCheck DocumentKind = "cek"
	KindNote  DocumentKind = "senet"
)

// ParseDocumentKind normalizes a raw kind value.
func ParseDocumentKind(raw string) (DocumentKind, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "cek", "çek", "check":
		return KindCheck, true
	case "senet", "note":
		return KindNote, true
	}
	return "", false
}

// DocumentStatus is the lifecycle state of a document.
type DocumentStatus string

const (
	StatusInPortfolio DocumentStatus = "portfoyde"
	StatusAtBank      DocumentStatus = "bankada"
	StatusEndorsed    DocumentStatus = "ciro_edildi"
	StatusCollected   DocumentStatus = "tahsil_edildi"
	StatusBounced     DocumentStatus = "karsiliksiz"
)

// AllowedTransitions is the full status machine. A status missing from the
// map, or mapped to an empty slice, is terminal.
var AllowedTransitions = map[DocumentStatus][]DocumentStatus{
	StatusInPortfolio: {StatusAtBank, StatusEndorsed},
	StatusAtBank:      {StatusCollected, StatusBounced, StatusInPortfolio},
	StatusEndorsed:    {StatusCollected, StatusBounced, StatusInPortfolio},
	StatusCollected:   {},
	StatusBounced:     {StatusInPortfolio},
}

// ParseDocumentStatus normalizes a raw status value.
func ParseDocumentStatus(raw string) (DocumentStatus, bool) {
	s := DocumentStatus(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := AllowedTransitions[s]; ok {
		return s, true
	}
	return "", false
}

// CheckTransition validates a from→to status change against the machine.
// Same-status and disallowed moves return ErrConflict-kind sentinels with a
// message naming the allowed destinations.
func CheckTransition(from, to DocumentStatus) error {
	if from == to {
		return fmt.Errorf("%w (%s)", ErrSameStatus, from)
	}

	allowed := AllowedTransitions[from]
	if len(allowed) == 0 {
		return fmt.Errorf("%w: %s", ErrTerminalStatus, from)
	}

	for _, s := range allowed {
		if s == to {
			return nil
		}
	}

	names := make([]string, len(allowed))
	for i, s := range allowed {
		names[i] = string(s)
	}

	return fmt.Errorf("%w: %s -> %s (allowed: %s)",
		ErrTransitionNotAllowed, from, to, strings.Join(names, ", "))
}

// Currency codes accepted on documents and loans. TRY is the base currency;
// every other currency requires an explicit exchange rate.
const BaseCurrency = "TRY"

var ValidCurrencies = map[string]bool{
	"TRY": true, "USD": true, "EUR": true, "GBP": true, "CHF": true,
}

// Field length limits applied on create, update and import.
const (
	MaxDocumentNumberLength = 50
	MaxBankNameLength       = 100
	MaxDrawerNameLength     = 200
	MaxNotesLength          = 1000
)

// Document represents one tracked check or promissory note.
type Document struct {
	ID           string
	Kind         DocumentKind
	Number       string
	Amount       decimal.Decimal
	Currency     string
	ExchangeRate *decimal.Decimal
	IssueDate    *time.Time
	DueDate      time.Time
	BankID       *string
	BankName     string
	Drawer       string
	CustomerID   *string
	Notes        string
	Status       DocumentStatus
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Populated on read when associations are requested.
	Customer *Customer
	Bank     *Bank
}

// Validate checks the structural invariants of a document.
func (d *Document) Validate() error {
	if _, ok := ParseDocumentKind(string(d.Kind)); !ok {
		return fmt.Errorf("%w: unknown document kind %q", ErrValidation, d.Kind)
	}

	number := strings.TrimSpace(d.Number)
	if number == "" {
		return fmt.Errorf("%w: document number is required", ErrValidation)
	}
	if len(number) > MaxDocumentNumberLength {
		return fmt.Errorf("%w: document number exceeds %d characters", ErrValidation, MaxDocumentNumberLength)
	}

	if d.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	if !ValidCurrencies[d.Currency] {
		return fmt.Errorf("%w: unknown currency %q", ErrValidation, d.Currency)
	}
	if d.Currency != BaseCurrency && d.ExchangeRate == nil {
		return fmt.Errorf("%w: exchange rate is required for currency %s", ErrValidation, d.Currency)
	}

	if d.DueDate.IsZero() {
		return fmt.Errorf("%w: due date is required", ErrValidation)
	}

	if _, ok := AllowedTransitions[d.Status]; !ok {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, d.Status)
	}

	return nil
}

// AmountInBase converts the document amount to the base currency using the
// attached exchange rate, or returns the amount as-is for base-currency
// documents.
func (d *Document) AmountInBase() decimal.Decimal {
	if d.Currency == BaseCurrency || d.ExchangeRate == nil {
		return d.Amount
	}
	return d.Amount.Mul(*d.ExchangeRate).Round(2)
}
