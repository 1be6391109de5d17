// Package santander parses Santander cobrança reports. Santander only
// exports these as PDF; the upstream extractor hands us the plain text and
// this parser recovers the title lines with positional regexes instead of
// a column map.
package santander

import (
	"regexp"
	"strings"

	"github.com/vhrocha/batida/internal/importer"
	"github.com/vhrocha/batida/internal/normalize"
	"github.com/vhrocha/batida/internal/transaction"
)

var landmarks = []string{"cobrança", "cobranca", "carteira", "santander"}

var (
	docRe    = regexp.MustCompile(`^\s*(\d+(?:/\d+)?)\s`)
	taxRe    = regexp.MustCompile(`\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}|\d{3}\.\d{3}\.\d{3}-\d{2}`)
	dateRe   = regexp.MustCompile(`\b\d{2}/\d{2}/\d{4}\b`)
	amountRe = regexp.MustCompile(`\d{1,3}(?:\.\d{3})*,\d{2}`)
)

// How many leading lines may hold the report title.
const titleScanLines = 20

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(in importer.Input) (*importer.ParseResult, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, &importer.ParseError{
			Kind: importer.KindEmptyOrInvalidFile, Bank: importer.BankSantander, Filename: in.Filename,
		}
	}

	lines := strings.Split(text, "\n")

	if !hasTitle(lines) {
		return nil, &importer.ParseError{
			Kind: importer.KindHeaderNotFound, Bank: importer.BankSantander, Filename: in.Filename,
		}
	}

	fileType := detectType(lines)
	result := &importer.ParseResult{FileType: fileType}

	for _, line := range lines {
		docMatch := docRe.FindStringSubmatch(line)
		if docMatch == nil {
			continue
		}

		result.Stats.Rows++

		if strings.Contains(strings.ToLower(line), "total") {
			result.Stats.Skipped++
			continue
		}

		dates := dateRe.FindAllString(line, 2)
		amounts := amountRe.FindAllString(line, 2)

		if len(dates) == 0 || len(amounts) == 0 {
			result.Stats.Skipped++
			continue
		}

		degraded := false

		doc, installment := normalize.SplitDocumentRef(docMatch[1])

		original, err := normalize.ParseBRLAmount(amounts[0])
		if err != nil {
			original = 0
			degraded = true
		}

		dueDate, ok := normalize.Date(dates[0])
		if !ok {
			degraded = true
		}

		tx := transaction.Transaction{
			SourceBank:       string(importer.BankSantander),
			DocumentNumber:   doc,
			Installment:      installment,
			TaxID:            taxRe.FindString(line),
			OriginalValue:    original,
			DueDate:          dueDate,
			CounterpartyName: counterpartyName(line, docMatch[0], dates[0]),
			Status:           transaction.StatusOpen,
		}

		if fileType == importer.FileTypeSettled {
			tx.Status = transaction.StatusSettled

			if len(amounts) > 1 {
				paid, err := normalize.ParseBRLAmount(amounts[1])
				if err != nil {
					paid = 0
					degraded = true
				}

				tx.PaidValue = paid
			}

			if len(dates) > 1 {
				if t, ok := normalize.Date(dates[1]); ok {
					tx.PaymentDate = &t
				}
			}
		}

		if degraded {
			result.Stats.Degraded++
		}

		result.Stats.Parsed++
		result.Records = append(result.Records, tx)
	}

	return result, nil
}

func hasTitle(lines []string) bool {
	limit := len(lines)
	if limit > titleScanLines {
		limit = titleScanLines
	}

	for _, line := range lines[:limit] {
		lower := strings.ToLower(line)
		for _, l := range landmarks {
			if strings.Contains(lower, l) {
				return true
			}
		}
	}

	return false
}

func detectType(lines []string) importer.FileType {
	limit := len(lines)
	if limit > titleScanLines {
		limit = titleScanLines
	}

	for _, line := range lines[:limit] {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "liquidado") {
			return importer.FileTypeSettled
		}

		if strings.Contains(lower, "em aberto") {
			return importer.FileTypeOpen
		}
	}

	return importer.FileTypeOpen
}

// counterpartyName recovers the payer name: the text between the document
// reference (plus tax id, when printed) and the first date on the line.
func counterpartyName(line, docToken, firstDate string) string {
	rest := line

	if i := strings.Index(rest, strings.TrimSpace(docToken)); i >= 0 {
		rest = rest[i+len(strings.TrimSpace(docToken)):]
	}

	if loc := taxRe.FindStringIndex(rest); loc != nil {
		rest = rest[loc[1]:]
	}

	if i := strings.Index(rest, firstDate); i >= 0 {
		rest = rest[:i]
	}

	return strings.TrimSpace(rest)
}
