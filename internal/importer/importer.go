// Package importer converts raw bank settlement exports into canonical
// transactions. Each supported bank owns a parser that knows the bank's
// column labels and document conventions; all parsers share one contract.
package importer

import (
	"fmt"

	"github.com/vhrocha/batida/internal/transaction"
)

// Bank identifies a supported bank export format. The set is closed:
// adding a bank means adding a parser package and registering it in the
// service.
type Bank string

const (
	BankItau      Bank = "itau"
	BankBradesco  Bank = "bradesco"
	BankSicredi   Bank = "sicredi"
	BankSantander Bank = "santander"
)

// FileType classifies a whole file as listing open or settled titles.
// The classification decides which column feeds the paid value.
type FileType string

const (
	FileTypeOpen    FileType = "aberto"
	FileTypeSettled FileType = "liquidado"
)

// Input is a decoded bank export: a 2-D cell grid for spreadsheet-based
// banks, or extracted plain text for PDF-based banks. Byte-level decoding
// happens upstream; parsers only see this shape.
type Input struct {
	Grid     [][]string
	Text     string
	Filename string
}

// Stats counts what happened to the data rows of one file. Degraded rows
// (value fell back to 0 or a date to nil) are still parsed, never dropped.
type Stats struct {
	Rows     int `json:"rows"`
	Parsed   int `json:"parsed"`
	Skipped  int `json:"skipped"`
	Degraded int `json:"degraded"`
}

// ParseResult is the outcome of parsing a single file.
type ParseResult struct {
	Records  []transaction.Transaction
	FileType FileType
	Stats    Stats
}

// Parser is implemented once per bank format.
type Parser interface {
	Parse(in Input) (*ParseResult, error)
}

// ErrorKind is the closed taxonomy of fatal per-file parse failures.
type ErrorKind string

const (
	KindHeaderNotFound        ErrorKind = "header_not_found"
	KindEmptyOrInvalidFile    ErrorKind = "empty_or_invalid_file"
	KindRequiredColumnMissing ErrorKind = "required_column_missing"
)

// ParseError is fatal for the originating file only; other files in the
// same batch keep processing.
type ParseError struct {
	Kind     ErrorKind
	Bank     Bank
	Filename string
	Missing  []string // unresolved required fields, for KindRequiredColumnMissing
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case KindHeaderNotFound:
		return fmt.Sprintf("%s (%s): header row not found", e.Filename, e.Bank)
	case KindEmptyOrInvalidFile:
		return fmt.Sprintf("%s (%s): empty or invalid file", e.Filename, e.Bank)
	case KindRequiredColumnMissing:
		return fmt.Sprintf("%s (%s): required columns missing: %v", e.Filename, e.Bank, e.Missing)
	}

	return fmt.Sprintf("%s (%s): parse failed", e.Filename, e.Bank)
}
