package usecase

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/evraktakip/evraktakip/internal/domain"
	"github.com/evraktakip/evraktakip/internal/infrastructure/metrics"
)

// Canonical import field names. These are what FormatError messages report
// when a required column is missing.
const (
	fieldKind      = "evrak_turu"
	fieldNumber    = "evrak_no"
	fieldAmount    = "tutar"
	fieldDueDate   = "vade_tarihi"
	fieldCurrency  = "para_birimi"
	fieldRate      = "kur"
	fieldIssueDate = "duzenleme_tarihi"
	fieldStatus    = "durum"
	fieldBank      = "banka"
	fieldDrawer    = "kesideci"
	fieldCustomer  = "cari"
	fieldNotes     = "aciklama"
)

// requiredFields must all be mapped to some column before any row is parsed.
var requiredFields = []string{fieldKind, fieldNumber, fieldAmount, fieldDueDate}

// headerSynonyms maps normalized header cells to canonical field names.
// Headers are lower-cased and trimmed, and an optional trailing "*"
// required-marker is stripped, before lookup. Unrecognized headers are
// ignored.
var headerSynonyms = map[string]string{
	"evrak türü": fieldKind, "evrak turu": fieldKind, "tür": fieldKind,
	"tur": fieldKind, "tip": fieldKind, "belge türü": fieldKind,

	"evrak no": fieldNumber, "evrak numarası": fieldNumber, "belge no": fieldNumber,
	"çek no": fieldNumber, "cek no": fieldNumber, "senet no": fieldNumber, "no": fieldNumber,

	"tutar": fieldAmount, "miktar": fieldAmount, "amount": fieldAmount,

	"vade tarihi": fieldDueDate, "vade": fieldDueDate, "son ödeme tarihi": fieldDueDate,

	"para birimi": fieldCurrency, "döviz": fieldCurrency, "doviz": fieldCurrency,
	"currency": fieldCurrency,

	"kur": fieldRate, "döviz kuru": fieldRate, "kur değeri": fieldRate,

	"düzenleme tarihi": fieldIssueDate, "duzenleme tarihi": fieldIssueDate,
	"keşide tarihi": fieldIssueDate, "keside tarihi": fieldIssueDate,
	"tanzim tarihi": fieldIssueDate,

	"durum": fieldStatus, "statü": fieldStatus, "status": fieldStatus,

	"banka": fieldBank, "banka adı": fieldBank, "banka adi": fieldBank,

	"keşideci": fieldDrawer, "kesideci": fieldDrawer, "keşideci adı": fieldDrawer,

	"cari": fieldCustomer, "cari adı": fieldCustomer, "cari adi": fieldCustomer,
	"müşteri": fieldCustomer, "musteri": fieldCustomer, "tedarikçi": fieldCustomer,

	"açıklama": fieldNotes, "aciklama": fieldNotes, "not": fieldNotes, "notlar": fieldNotes,
}

// ImportUseCase handles the spreadsheet import pipeline: parse and validate
// without persistence, then commit valid rows in a second explicit step.
type ImportUseCase struct {
	reader       WorkbookReader
	docRepo      DocumentRepository
	historyRepo  HistoryRepository
	customerRepo CustomerRepository
	idGen        IDGenerator
	metrics      *metrics.Metrics
}

// NewImportUseCase creates a new ImportUseCase.
func NewImportUseCase(
	reader WorkbookReader,
	docRepo DocumentRepository,
	historyRepo HistoryRepository,
	customerRepo CustomerRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *ImportUseCase {
	return &ImportUseCase{
		reader:       reader,
		docRepo:      docRepo,
		historyRepo:  historyRepo,
		customerRepo: customerRepo,
		idGen:        idGen,
		metrics:      metrics,
	}
}

// normalizeHeader prepares one header cell for synonym lookup.
func normalizeHeader(cell string) string {
	h := strings.ToLower(strings.TrimSpace(cell))
	h = strings.TrimSuffix(h, "*")
	return strings.TrimSpace(h)
}

// mapHeader resolves column index -> canonical field name for a header row.
func mapHeader(header []string) map[int]string {
	columns := make(map[int]string)
	for i, cell := range header {
		if field, ok := headerSynonyms[normalizeHeader(cell)]; ok {
			if _, taken := columns[i]; !taken {
				columns[i] = field
			}
		}
	}
	return columns
}

// missingRequired returns the canonical names of required fields that no
// column mapped to, sorted for stable error messages.
func missingRequired(columns map[int]string) []string {
	mapped := make(map[string]bool)
	for _, field := range columns {
		mapped[field] = true
	}

	var missing []string
	for _, field := range requiredFields {
		if !mapped[field] {
			missing = append(missing, field)
		}
	}
	sort.Strings(missing)
	return missing
}

// ParseWorkbook reads a full spreadsheet into parsed rows plus a summary.
// Nothing is persisted; repositories are only consulted for read-only
// duplicate-number and customer-name lookups.
func (uc *ImportUseCase) ParseWorkbook(ctx context.Context, r io.Reader) (*domain.ImportReport, error) {
	start := time.Now()
	if uc.metrics != nil {
		uc.metrics.ImportsStarted.Inc()
	}

	rows, err := uc.reader.Rows(r)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: worksheet has no header row", domain.ErrWorkbookFormat)
	}

	if len(rows)-1 > MaxImportRows {
		return nil, fmt.Errorf("%w: workbook exceeds %d data rows", domain.ErrWorkbookFormat, MaxImportRows)
	}

	columns := mapHeader(rows[0])
	if missing := missingRequired(columns); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required columns: %s",
			domain.ErrWorkbookFormat, strings.Join(missing, ", "))
	}

	report := &domain.ImportReport{}

	for i, cells := range rows[1:] {
		if rowIsEmpty(cells) {
			continue
		}

		raw := make(map[string]string, len(columns))
		for col, field := range columns {
			if col < len(cells) {
				raw[field] = cells[col]
			}
		}

		// Sheet rows are numbered literally: the header is row 1, the
		// first data row is row 2.
		parsed := uc.ValidateRow(ctx, raw)
		parsed.RowNumber = i + 2

		report.Rows = append(report.Rows, parsed)

		report.Summary.Total++
		if parsed.Valid() {
			report.Summary.Valid++
		} else {
			report.Summary.Invalid++
		}
		if len(parsed.Warnings) > 0 {
			report.Summary.Warned++
		}
	}

	if report.Summary.Total == 0 {
		return nil, fmt.Errorf("%w", domain.ErrWorkbookEmpty)
	}

	if uc.metrics != nil {
		uc.metrics.ImportRowsParsed.WithLabelValues("valid").Add(float64(report.Summary.Valid))
		uc.metrics.ImportRowsParsed.WithLabelValues("invalid").Add(float64(report.Summary.Invalid))
		uc.metrics.ImportDuration.Observe(time.Since(start).Seconds())
	}

	return report, nil
}

func rowIsEmpty(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ValidateRow transforms one raw row into a normalized ParsedRow with
// structured diagnostics. Duplicate document numbers and unmatched customer
// names are warnings, not errors; an unparseable issue date and an
// unrecognized status value are likewise downgraded to warnings, the status
// silently falling back to the portfolio default.
func (uc *ImportUseCase) ValidateRow(ctx context.Context, raw map[string]string) *domain.ParsedRow {
	row := &domain.ParsedRow{}

	// Document kind
	if kind, ok := domain.ParseDocumentKind(raw[fieldKind]); ok {
		row.Kind = kind
	} else if strings.TrimSpace(raw[fieldKind]) == "" {
		row.AddError("evrak türü zorunludur")
	} else {
		row.AddError(fmt.Sprintf("geçersiz evrak türü: %q", strings.TrimSpace(raw[fieldKind])))
	}

	// Document number
	number := strings.TrimSpace(raw[fieldNumber])
	switch {
	case number == "":
		row.AddError("evrak no zorunludur")
	case len(number) > domain.MaxDocumentNumberLength:
		row.AddError(fmt.Sprintf("evrak no %d karakteri aşamaz", domain.MaxDocumentNumberLength))
	default:
		row.Number = number
		exists, err := uc.docRepo.ExistsByNumber(ctx, number)
		if err == nil && exists {
			row.AddWarning(fmt.Sprintf("evrak no %q zaten kayıtlı", number))
		}
	}

	// Amount
	if amount, ok := domain.ParseAmount(raw[fieldAmount]); ok && amount.IsPositive() {
		row.Amount = amount
	} else {
		row.AddError(fmt.Sprintf("geçersiz tutar: %q", strings.TrimSpace(raw[fieldAmount])))
	}

	// Due date
	if due, ok := domain.ParseDate(raw[fieldDueDate]); ok {
		row.DueDate = due
	} else {
		row.AddError(fmt.Sprintf("geçersiz vade tarihi: %q", strings.TrimSpace(raw[fieldDueDate])))
	}

	// Currency and exchange rate
	currency := strings.ToUpper(strings.TrimSpace(raw[fieldCurrency]))
	switch {
	case currency == "":
		row.Currency = domain.BaseCurrency
	case !domain.ValidCurrencies[currency]:
		row.AddError(fmt.Sprintf("geçersiz para birimi: %q", currency))
	default:
		row.Currency = currency
		if currency != domain.BaseCurrency {
			if rate, ok := domain.ParseAmount(raw[fieldRate]); ok && rate.IsPositive() {
				row.ExchangeRate = &rate
			} else {
				row.AddError(fmt.Sprintf("%s için kur zorunludur", currency))
			}
		}
	}

	// Issue date: optional, unparseable is only a warning.
	if issueRaw := strings.TrimSpace(raw[fieldIssueDate]); issueRaw != "" {
		if issue, ok := domain.ParseDate(issueRaw); ok {
			row.IssueDate = &issue
		} else {
			row.AddWarning(fmt.Sprintf("düzenleme tarihi okunamadı: %q", issueRaw))
		}
	}

	// Status: optional; unrecognized values fall back to the default with
	// a warning rather than an error.
	row.Status = domain.StatusInPortfolio
	if statusRaw := strings.TrimSpace(raw[fieldStatus]); statusRaw != "" {
		if status, ok := domain.ParseDocumentStatus(statusRaw); ok {
			row.Status = status
		} else {
			row.AddWarning(fmt.Sprintf("bilinmeyen durum %q, %q varsayıldı", statusRaw, domain.StatusInPortfolio))
		}
	}

	// Free text fields: silent truncation.
	row.BankName = domain.Truncate(raw[fieldBank], domain.MaxBankNameLength)
	row.Drawer = domain.Truncate(raw[fieldDrawer], domain.MaxDrawerNameLength)
	row.Notes = domain.Truncate(raw[fieldNotes], domain.MaxNotesLength)

	// Customer: case-insensitive lookup; no match is a warning.
	if name := strings.TrimSpace(raw[fieldCustomer]); name != "" {
		row.CustomerName = name
		customer, err := uc.customerRepo.GetByName(ctx, name)
		if err == nil && customer != nil {
			row.CustomerID = &customer.ID
		} else {
			row.AddWarning(fmt.Sprintf("cari %q bulunamadı", name))
		}
	}

	return row
}

// RowError reports one failed commit.
type RowError struct {
	RowNumber int
	Message   string
}

// CommitResult summarizes a commit batch.
type CommitResult struct {
	Succeeded int
	Failed    int
	Errors    []RowError
}

// CommitRows persists previously-parsed rows. Only valid rows are inserted;
// each one gets a creation history entry with no previous status. A failed
// row is recorded and does not abort the rest of the batch.
func (uc *ImportUseCase) CommitRows(ctx context.Context, rows []*domain.ParsedRow, actor string) (*CommitResult, error) {
	result := &CommitResult{}

	for _, row := range rows {
		if !row.Valid() {
			continue
		}

		if err := uc.commitRow(ctx, row, actor); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, RowError{
				RowNumber: row.RowNumber,
				Message:   err.Error(),
			})
			continue
		}

		result.Succeeded++
		if uc.metrics != nil {
			uc.metrics.DocumentsCreated.Inc()
		}
	}

	return result, nil
}

func (uc *ImportUseCase) commitRow(ctx context.Context, row *domain.ParsedRow, actor string) error {
	now := time.Now().UTC()

	status := row.Status
	if status == "" {
		status = domain.StatusInPortfolio
	}

	rate := row.ExchangeRate
	if row.Currency == domain.BaseCurrency {
		rate = nil
	}

	doc := &domain.Document{
		ID:           uc.idGen.Generate(),
		Kind:         row.Kind,
		Number:       row.Number,
		Amount:       row.Amount,
		Currency:     row.Currency,
		ExchangeRate: rate,
		IssueDate:    row.IssueDate,
		DueDate:      row.DueDate,
		BankName:     row.BankName,
		Drawer:       row.Drawer,
		CustomerID:   row.CustomerID,
		Notes:        row.Notes,
		Status:       status,
		CreatedBy:    actor,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.docRepo.Create(ctx, doc); err != nil {
		return err
	}

	entry := &domain.StatusEntry{
		ID:         uc.idGen.Generate(),
		DocumentID: doc.ID,
		FromStatus: nil,
		ToStatus:   doc.Status,
		Note:       "Excel içe aktarma ile oluşturuldu",
		ActorID:    actor,
		CreatedAt:  now,
	}

	return uc.historyRepo.Create(ctx, entry)
}
