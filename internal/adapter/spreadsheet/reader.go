package spreadsheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/evraktakip/evraktakip/internal/domain"
)

// ExcelReader reads .xlsx workbooks via excelize. It implements
// usecase.WorkbookReader.
type ExcelReader struct{}

// NewExcelReader creates a new ExcelReader.
func NewExcelReader() *ExcelReader {
	return &ExcelReader{}
}

// Rows returns the raw cell values of the first worksheet. Raw values keep
// date cells as spreadsheet serial numbers and skip number formatting, which
// is what the import pipeline's own parsers expect.
func (er *ExcelReader) Rows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrWorkbookFormat, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("%w: workbook has no worksheet", domain.ErrWorkbookFormat)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrWorkbookFormat, err)
	}

	return rows, nil
}
