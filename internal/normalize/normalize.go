// Package normalize holds the pure canonicalization helpers shared by the
// bank-file parsers and the reconciliation engine: taxpayer ids, Brazilian
// currency strings, spreadsheet dates and composite document references.
package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TaxID canonicalizes a raw CPF/CNPJ: non-digits are stripped and the result
// is left-padded to 11 digits (CPF) or 14 digits (CNPJ).
//
// Some bank exports zero-pad CPFs into a CNPJ-sized field; a 14-digit value
// starting with "000" is therefore treated as a misencoded CPF.
func TaxID(raw string) string {
	digits := onlyDigits(raw)

	if len(digits) == 14 && strings.HasPrefix(digits, "000") {
		digits = strings.TrimLeft(digits, "0")
	}

	if len(digits) <= 11 {
		return leftPad(digits, 11)
	}

	return leftPad(digits, 14)
}

// Cents rounds a currency amount to the nearest cent and returns it as an
// integer number of cents.
func Cents(amount float64) int64 {
	return decimal.NewFromFloat(amount).
		Mul(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}

// ParseBRLAmount parses a Brazilian-formatted currency string into cents.
// Format examples: "1.234,56" -> 123456, "R$ 10,00" -> 1000, "(5,00)" -> -500.
// Both "1.234,56" and anglo "1,234.56" inputs are handled; the separator that
// appears last is taken as the decimal mark.
func ParseBRLAmount(s string) (int64, error) {
	clean := strings.TrimSpace(s)
	clean = strings.ReplaceAll(clean, "R$", "")
	clean = strings.ReplaceAll(clean, " ", "")
	clean = strings.ReplaceAll(clean, " ", "")

	if clean == "" || clean == "-" {
		return 0, nil
	}

	neg := false

	if strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
		neg = true
		clean = strings.TrimSuffix(strings.TrimPrefix(clean, "("), ")")
	}

	if strings.HasPrefix(clean, "-") {
		neg = true
		clean = strings.TrimPrefix(clean, "-")
	}

	lastDot := strings.LastIndex(clean, ".")
	lastComma := strings.LastIndex(clean, ",")

	switch {
	case lastComma > lastDot:
		// Brazilian: dots are thousands separators, comma is decimal.
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	case lastDot > lastComma:
		// Anglo: commas are thousands separators.
		clean = strings.ReplaceAll(clean, ",", "")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, err
	}

	cents := d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	if neg {
		cents = -cents
	}

	return cents, nil
}

// Spreadsheet serial dates count days from the Excel epoch. Serials outside
// this window are treated as plain numbers, not dates.
const (
	serialMin = 20000 // ~1954
	serialMax = 60000 // ~2064
)

var serialEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// Date parses a cell value into a calendar date. It accepts spreadsheet
// serial numbers, "DD/MM/YYYY", "DD-MM-YYYY" and "YYYY-MM-DD"; any
// time-of-day component is dropped and no timezone shifting is applied.
// Returns false for empty or unparsable values.
func Date(cell string) (time.Time, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return time.Time{}, false
	}

	// "10/01/2024 14:30" -> "10/01/2024"
	if i := strings.IndexByte(s, ' '); i > 0 {
		s = s[:i]
	}

	for _, layout := range []string{"02/01/2006", "2006-01-02", "02-01-2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial > serialMin && serial < serialMax {
			days := int(serial)
			return serialEpoch.AddDate(0, 0, days), true
		}
	}

	return time.Time{}, false
}

// SplitDocumentRef splits a composite document reference like "000123/002"
// into the document number with leading zeros stripped and the installment
// suffix. A missing suffix defaults to installment "001".
func SplitDocumentRef(raw string) (doc, installment string) {
	s := strings.TrimSpace(raw)
	installment = "001"

	if i := strings.IndexByte(s, '/'); i >= 0 {
		if suffix := strings.TrimSpace(s[i+1:]); suffix != "" {
			installment = suffix
		}

		s = s[:i]
	}

	doc = strings.TrimLeft(strings.TrimSpace(s), "0")
	if doc == "" && s != "" {
		doc = "0"
	}

	return doc, installment
}

func onlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	return b.String()
}

func leftPad(s string, width int) string {
	if len(s) >= width {
		return s
	}

	return strings.Repeat("0", width-len(s)) + s
}
