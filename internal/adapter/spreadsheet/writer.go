package spreadsheet

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/evraktakip/evraktakip/internal/domain"
)

var exportHeader = []any{
	"Evrak Türü", "Evrak No", "Tutar", "Para Birimi", "Kur",
	"Düzenleme Tarihi", "Vade Tarihi", "Banka", "Keşideci", "Cari",
	"Durum", "Açıklama",
}

// WriteDocuments renders documents to an .xlsx workbook, mirroring the
// column layout the import pipeline accepts.
func WriteDocuments(documents []*domain.Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return nil, err
	}

	if err := sw.SetRow("A1", exportHeader); err != nil {
		return nil, err
	}

	for i, doc := range documents {
		kindName := "Çek"
		if doc.Kind == domain.KindNote {
			kindName = "Senet"
		}

		rate := ""
		if doc.ExchangeRate != nil {
			rate = doc.ExchangeRate.String()
		}

		issue := ""
		if doc.IssueDate != nil {
			issue = doc.IssueDate.Format("02.01.2006")
		}

		customer := ""
		if doc.Customer != nil {
			customer = doc.Customer.Name
		}

		bank := doc.BankName
		if doc.Bank != nil {
			bank = doc.Bank.Name
		}

		row := []any{
			kindName,
			doc.Number,
			doc.Amount.StringFixed(2),
			doc.Currency,
			rate,
			issue,
			doc.DueDate.Format("02.01.2006"),
			bank,
			doc.Drawer,
			customer,
			string(doc.Status),
			doc.Notes,
		}

		cell := fmt.Sprintf("A%d", i+2)
		if err := sw.SetRow(cell, row); err != nil {
			return nil, err
		}
	}

	if err := sw.Flush(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
