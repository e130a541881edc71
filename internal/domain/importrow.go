package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ParsedRow is the outcome of validating one spreadsheet row. It is
// ephemeral: nothing is persisted until a separate commit step.
type ParsedRow struct {
	RowNumber int

	Kind         DocumentKind
	Number       string
	Amount       decimal.Decimal
	Currency     string
	ExchangeRate *decimal.Decimal
	IssueDate    *time.Time
	DueDate      time.Time
	BankName     string
	Drawer       string
	CustomerName string
	CustomerID   *string
	Notes        string
	Status       DocumentStatus

	Errors   []string
	Warnings []string
}

// Valid reports whether the row can be committed. Warnings never affect
// validity.
func (r *ParsedRow) Valid() bool {
	return len(r.Errors) == 0
}

// AddError appends a row-level error.
func (r *ParsedRow) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// AddWarning appends a row-level warning.
func (r *ParsedRow) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// ImportSummary counts the outcome of a parsed workbook.
type ImportSummary struct {
	Total   int
	Valid   int
	Invalid int
	Warned  int
}

// ImportReport is the full result of parsing one workbook.
type ImportReport struct {
	Rows    []*ParsedRow
	Summary ImportSummary
}
