package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/evraktakip/evraktakip/internal/domain"
	"github.com/evraktakip/evraktakip/internal/usecase"
	"github.com/evraktakip/evraktakip/internal/usecase/mocks"
)

// stubReader feeds fixed rows to the import pipeline.
type stubReader struct {
	rows [][]string
	err  error
}

func (s stubReader) Rows(r io.Reader) ([][]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.rows, nil
}

func newImportUseCase(reader usecase.WorkbookReader, docRepo *mocks.MockDocumentRepository, customerRepo *mocks.MockCustomerRepository) (*usecase.ImportUseCase, *mocks.MockHistoryRepository) {
	historyRepo := mocks.NewMockHistoryRepository()
	if docRepo == nil {
		docRepo = mocks.NewMockDocumentRepository()
	}
	if customerRepo == nil {
		customerRepo = mocks.NewMockCustomerRepository()
	}
	return usecase.NewImportUseCase(reader, docRepo, historyRepo, customerRepo, mocks.NewMockIDGenerator(), nil), historyRepo
}

func rawRow(overrides map[string]string) map[string]string {
	raw := map[string]string{
		"evrak_turu":  "cek",
		"evrak_no":    "CK-100",
		"tutar":       "1.234,56 ₺",
		"vade_tarihi": "05.03.2026",
	}
	for k, v := range overrides {
		raw[k] = v
	}
	return raw
}

func TestValidateRow_HappyPath(t *testing.T) {
	uc, _ := newImportUseCase(stubReader{}, nil, nil)

	row := uc.ValidateRow(context.Background(), rawRow(nil))

	if !row.Valid() {
		t.Fatalf("expected valid row, errors: %v", row.Errors)
	}
	if row.Kind != domain.KindCheck {
		t.Errorf("kind = %s", row.Kind)
	}
	if row.Amount.String() != "1234.56" {
		t.Errorf("amount = %s, want 1234.56", row.Amount)
	}
	want := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	if !row.DueDate.Equal(want) {
		t.Errorf("due date = %s, want %s", row.DueDate, want)
	}
	if row.Currency != domain.BaseCurrency {
		t.Errorf("currency = %s, want default %s", row.Currency, domain.BaseCurrency)
	}
	if row.Status != domain.StatusInPortfolio {
		t.Errorf("status = %s, want portfolio default", row.Status)
	}
}

func TestValidateRow_Diagnostics(t *testing.T) {
	tests := []struct {
		name         string
		overrides    map[string]string
		wantValid    bool
		wantErrors   int
		wantWarnings int
	}{
		{"missing kind", map[string]string{"evrak_turu": ""}, false, 1, 0},
		{"bad kind", map[string]string{"evrak_turu": "fatura"}, false, 1, 0},
		{"missing number", map[string]string{"evrak_no": "  "}, false, 1, 0},
		{"number too long", map[string]string{"evrak_no": strings.Repeat("9", 51)}, false, 1, 0},
		{"negative amount", map[string]string{"tutar": "-5"}, false, 1, 0},
		{"zero amount", map[string]string{"tutar": "0"}, false, 1, 0},
		{"unparseable amount", map[string]string{"tutar": "abc"}, false, 1, 0},
		{"missing due date", map[string]string{"vade_tarihi": ""}, false, 1, 0},
		{"bad due date", map[string]string{"vade_tarihi": "yarin"}, false, 1, 0},
		{"unknown currency", map[string]string{"para_birimi": "JPY"}, false, 1, 0},
		{"foreign currency without rate", map[string]string{"para_birimi": "USD"}, false, 1, 0},
		{"foreign currency with rate", map[string]string{"para_birimi": "usd", "kur": "34,50"}, true, 0, 0},
		{"bad issue date is warning only", map[string]string{"duzenleme_tarihi": "belirsiz"}, true, 0, 1},
		{"unknown status is warning and defaults", map[string]string{"durum": "kayboldu"}, true, 0, 1},
		{"known status accepted", map[string]string{"durum": "bankada"}, true, 0, 0},
		{"unmatched customer is warning", map[string]string{"cari": "Tanımsız Ltd"}, true, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _ := newImportUseCase(stubReader{}, nil, nil)

			row := uc.ValidateRow(context.Background(), rawRow(tt.overrides))

			if row.Valid() != tt.wantValid {
				t.Errorf("valid = %v, want %v (errors: %v)", row.Valid(), tt.wantValid, row.Errors)
			}
			if len(row.Errors) != tt.wantErrors {
				t.Errorf("errors = %v, want %d", row.Errors, tt.wantErrors)
			}
			if len(row.Warnings) != tt.wantWarnings {
				t.Errorf("warnings = %v, want %d", row.Warnings, tt.wantWarnings)
			}
		})
	}
}

func TestValidateRow_UnknownStatusFallsBackToDefault(t *testing.T) {
	uc, _ := newImportUseCase(stubReader{}, nil, nil)

	row := uc.ValidateRow(context.Background(), rawRow(map[string]string{"durum": "kayboldu"}))

	if row.Status != domain.StatusInPortfolio {
		t.Errorf("status = %s, want forced portfolio default", row.Status)
	}
}

func TestValidateRow_DuplicateNumberIsWarning(t *testing.T) {
	docRepo := mocks.NewMockDocumentRepository()
	_ = docRepo.Create(context.Background(), &domain.Document{ID: "d1", Number: "CK-100"})

	uc, _ := newImportUseCase(stubReader{}, docRepo, nil)

	row := uc.ValidateRow(context.Background(), rawRow(nil))

	if !row.Valid() {
		t.Fatalf("duplicate must not block, errors: %v", row.Errors)
	}
	if len(row.Warnings) != 1 {
		t.Errorf("warnings = %v, want 1 duplicate warning", row.Warnings)
	}
}

func TestValidateRow_CustomerMatchedCaseInsensitively(t *testing.T) {
	customerRepo := mocks.NewMockCustomerRepository()
	_ = customerRepo.Create(context.Background(), &domain.Customer{ID: "c1", Name: "Yılmaz Ticaret"})

	uc, _ := newImportUseCase(stubReader{}, nil, customerRepo)

	row := uc.ValidateRow(context.Background(), rawRow(map[string]string{"cari": "yılmaz ticaret"}))

	if row.CustomerID == nil || *row.CustomerID != "c1" {
		t.Errorf("customer not linked: %v (warnings: %v)", row.CustomerID, row.Warnings)
	}
	if len(row.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", row.Warnings)
	}
}

func TestValidateRow_FreeTextTruncation(t *testing.T) {
	uc, _ := newImportUseCase(stubReader{}, nil, nil)

	row := uc.ValidateRow(context.Background(), rawRow(map[string]string{
		"banka":    strings.Repeat("b", 150),
		"kesideci": strings.Repeat("k", 250),
		"aciklama": strings.Repeat("n", 1100),
	}))

	if len(row.BankName) != domain.MaxBankNameLength {
		t.Errorf("bank name length = %d", len(row.BankName))
	}
	if len(row.Drawer) != domain.MaxDrawerNameLength {
		t.Errorf("drawer length = %d", len(row.Drawer))
	}
	if len(row.Notes) != domain.MaxNotesLength {
		t.Errorf("notes length = %d", len(row.Notes))
	}
	if !row.Valid() || len(row.Warnings) != 0 {
		t.Errorf("truncation must be silent: errors %v warnings %v", row.Errors, row.Warnings)
	}
}

func TestParseWorkbook_HeaderMapping(t *testing.T) {
	rows := [][]string{
		{"Evrak Türü *", "EVRAK NO", "Tutar *", "Vade Tarihi *", "İlgisiz Kolon"},
		{"cek", "CK-1", "1000", "05.03.2026", "x"},
	}

	uc, _ := newImportUseCase(stubReader{rows: rows}, nil, nil)

	report, err := uc.ParseWorkbook(context.Background(), bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Summary.Valid != 1 {
		t.Errorf("summary = %+v, want 1 valid row", report.Summary)
	}
}

func TestParseWorkbook_MissingRequiredColumn(t *testing.T) {
	rows := [][]string{
		{"Evrak Türü", "Evrak No", "Tutar"}, // no due date column
		{"cek", "CK-1", "1000"},
	}

	uc, _ := newImportUseCase(stubReader{rows: rows}, nil, nil)

	_, err := uc.ParseWorkbook(context.Background(), bytes.NewReader(nil))
	if !errors.Is(err, domain.ErrWorkbookFormat) {
		t.Fatalf("error = %v, want ErrWorkbookFormat", err)
	}
	if !strings.Contains(err.Error(), "vade_tarihi") {
		t.Errorf("error %q must name the missing field vade_tarihi", err.Error())
	}
}

func TestParseWorkbook_EmptyData(t *testing.T) {
	rows := [][]string{
		{"Evrak Türü", "Evrak No", "Tutar", "Vade Tarihi"},
		{"", "  ", "", ""},
	}

	uc, _ := newImportUseCase(stubReader{rows: rows}, nil, nil)

	_, err := uc.ParseWorkbook(context.Background(), bytes.NewReader(nil))
	if !errors.Is(err, domain.ErrWorkbookEmpty) {
		t.Fatalf("error = %v, want ErrWorkbookEmpty", err)
	}
}

func TestParseWorkbook_ReaderFailurePropagates(t *testing.T) {
	uc, _ := newImportUseCase(stubReader{err: domain.ErrWorkbookFormat}, nil, nil)

	_, err := uc.ParseWorkbook(context.Background(), bytes.NewReader(nil))
	if !errors.Is(err, domain.ErrWorkbookFormat) {
		t.Fatalf("error = %v, want ErrWorkbookFormat", err)
	}
}

func TestParseWorkbook_ThreeRowScenario(t *testing.T) {
	// Row 2 invalid amount, row 3 duplicate number (warning), row 4 valid
	// with an unmatched customer (warning).
	rows := [][]string{
		{"Evrak Türü", "Evrak No", "Tutar", "Vade Tarihi", "Cari"},
		{"cek", "CK-1", "-5", "05.03.2026", ""},
		{"cek", "CK-EXISTING", "1000", "05.03.2026", ""},
		{"senet", "CK-3", "1000", "05.03.2026", "Bilinmeyen AŞ"},
	}

	docRepo := mocks.NewMockDocumentRepository()
	_ = docRepo.Create(context.Background(), &domain.Document{ID: "d1", Number: "CK-EXISTING"})

	uc, _ := newImportUseCase(stubReader{rows: rows}, docRepo, nil)

	report, err := uc.ParseWorkbook(context.Background(), bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := report.Summary
	if s.Total != 3 || s.Valid != 2 || s.Invalid != 1 || s.Warned != 2 {
		t.Errorf("summary = %+v, want {3 2 1 2}", s)
	}

	if report.Rows[0].RowNumber != 2 || report.Rows[2].RowNumber != 4 {
		t.Errorf("row numbers = %d..%d, want literal sheet rows 2..4",
			report.Rows[0].RowNumber, report.Rows[2].RowNumber)
	}
}

func TestParseWorkbook_SkipsBlankRowsKeepsNumbering(t *testing.T) {
	rows := [][]string{
		{"Evrak Türü", "Evrak No", "Tutar", "Vade Tarihi"},
		{"", "", "", ""},
		{"cek", "CK-9", "1000", "05.03.2026"},
	}

	uc, _ := newImportUseCase(stubReader{rows: rows}, nil, nil)

	report, err := uc.ParseWorkbook(context.Background(), bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Rows) != 1 || report.Rows[0].RowNumber != 3 {
		t.Fatalf("rows = %d, first row number = %d, want 1 row numbered 3",
			len(report.Rows), report.Rows[0].RowNumber)
	}
}

func TestCommitRows(t *testing.T) {
	docRepo := mocks.NewMockDocumentRepository()
	uc, historyRepo := newImportUseCase(stubReader{}, docRepo, nil)
	ctx := context.Background()

	valid := uc.ValidateRow(ctx, rawRow(nil))
	valid.RowNumber = 2
	invalid := uc.ValidateRow(ctx, rawRow(map[string]string{"tutar": "-1"}))
	invalid.RowNumber = 3

	result, err := uc.CommitRows(ctx, []*domain.ParsedRow{valid, invalid}, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Succeeded != 1 || result.Failed != 0 {
		t.Errorf("result = %+v, want 1 succeeded, invalid row skipped", result)
	}

	entries := historyRepo.Entries()
	if len(entries) != 1 {
		t.Fatalf("history entries = %d, want 1", len(entries))
	}
	if entries[0].FromStatus != nil {
		t.Errorf("import creation entry FromStatus = %v, want nil", entries[0].FromStatus)
	}
	if !strings.Contains(entries[0].Note, "aktarma") {
		t.Errorf("entry note = %q, want import marker", entries[0].Note)
	}
}

func TestCommitRows_ContinuesAfterFailure(t *testing.T) {
	docRepo := mocks.NewMockDocumentRepository()
	calls := 0
	docRepo.CreateFunc = func(ctx context.Context, doc *domain.Document) error {
		calls++
		if calls == 1 {
			return errors.New("insert failed")
		}
		return nil
	}

	uc, _ := newImportUseCase(stubReader{}, docRepo, nil)
	ctx := context.Background()

	first := uc.ValidateRow(ctx, rawRow(map[string]string{"evrak_no": "CK-A"}))
	first.RowNumber = 2
	second := uc.ValidateRow(ctx, rawRow(map[string]string{"evrak_no": "CK-B"}))
	second.RowNumber = 3

	result, err := uc.CommitRows(ctx, []*domain.ParsedRow{first, second}, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Succeeded != 1 || result.Failed != 1 {
		t.Fatalf("result = %+v, want one success and one failure", result)
	}
	if result.Errors[0].RowNumber != 2 {
		t.Errorf("failed row = %d, want 2", result.Errors[0].RowNumber)
	}
}
