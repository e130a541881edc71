package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a monetary value from a spreadsheet cell. It accepts a
// plain numeric string as well as Turkish locale formatting with currency
// symbols, "." as thousands separator and "," as decimal separator
// ("1.234,56 ₺" -> 1234.56).
func ParseAmount(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, false
	}

	// Strip currency symbols, codes and spaces.
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',', r == '-':
			return r
		}
		return -1
	}, s)

	if s == "" {
		return decimal.Zero, false
	}

	if strings.Contains(s, ",") {
		// Locale form: dots are thousands separators, comma is decimal.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	} else if n := strings.Count(s, "."); n > 1 {
		// Only dots and more than one of them: all thousands separators.
		s = strings.ReplaceAll(s, ".", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// excelEpoch is the spreadsheet serial-date epoch (1899-12-30).
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// dateLayouts are tried in order after serial-number conversion.
var dateLayouts = []string{
	"02.01.2006",
	"02/01/2006",
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02.01.2006 15:04:05",
}

// ParseDate parses a date cell. Numeric values are interpreted as spreadsheet
// serial dates (days since 1899-12-30); strings are tried against the
// supported layouts in order. The result is truncated to the calendar day in
// UTC.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial <= 0 {
			return time.Time{}, false
		}
		t := excelEpoch.AddDate(0, 0, int(serial))
		return t, true
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}

	return time.Time{}, false
}

// Truncate shortens free text to max runes. Truncation is silent.
func Truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if len([]rune(s)) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
