package domain

import "errors"

var (
	// Generic kinds, used by the HTTP layer for status mapping.
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")

	// Document errors
	ErrDocumentNotFound     = errors.New("document not found")
	ErrDuplicateNumber      = errors.New("document number already exists")
	ErrSameStatus           = errors.New("document is already in the requested status")
	ErrTransitionNotAllowed = errors.New("status transition not allowed")
	ErrTerminalStatus       = errors.New("document status is terminal and cannot change")
	ErrDocumentHasHistory   = errors.New("document has history entries")

	// Loan errors
	ErrLoanNotFound           = errors.New("loan not found")
	ErrLoanNotActive          = errors.New("loan is not active")
	ErrInstallmentNotFound    = errors.New("installment not found")
	ErrInstallmentAlreadyPaid = errors.New("installment is already paid")
	ErrInstallmentNotPaid     = errors.New("installment is not paid")
	ErrNothingToPay           = errors.New("loan has no unpaid installments")

	// Lookup errors
	ErrCustomerNotFound = errors.New("customer not found")
	ErrBankNotFound     = errors.New("bank not found")

	// Spreadsheet import errors
	ErrWorkbookFormat = errors.New("workbook format invalid")
	ErrWorkbookEmpty  = errors.New("workbook contains no data rows")
)
