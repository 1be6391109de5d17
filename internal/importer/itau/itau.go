// Package itau parses Itaú collection portfolio exports (relatório de
// cobrança). Itaú ships spreadsheets with the report title and account
// block above the header row and a composite "Seu Número" reference
// carrying the installment suffix.
package itau

import (
	"github.com/vhrocha/batida/internal/importer"
	"github.com/vhrocha/batida/internal/normalize"
	"github.com/vhrocha/batida/internal/transaction"
)

// Header landmarks: any of these appearing in a cell marks the header row.
var landmarks = []string{"seu número", "seu numero", "nosso número", "nosso numero"}

var columns = []importer.Column{
	{Field: importer.FieldDocument, Candidates: []string{"seu número", "seu numero"}, Required: true},
	{Field: importer.FieldDueDate, Candidates: []string{"vencimento"}, Required: true},
	{Field: importer.FieldOriginal, Candidates: []string{"valor título", "valor titulo", "valor nominal"}, Required: true},
	{Field: importer.FieldPaid, Candidates: []string{"valor pago", "valor liquidado", "valor cobrado"}},
	{Field: importer.FieldTaxID, Candidates: []string{"cpf/cnpj", "cnpj/cpf", "inscrição"}},
	{Field: importer.FieldName, Candidates: []string{"sacado", "pagador"}},
	{Field: importer.FieldPaymentDate, Candidates: []string{"data liquidação", "data liquidacao", "data de liquidação"}},
	{Field: importer.FieldSettlement, Candidates: []string{"tipo de liquidação", "tipo de liquidacao", "forma de liquidação"}},
}

const minWidth = 3

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(in importer.Input) (*importer.ParseResult, error) {
	if len(in.Grid) == 0 {
		return nil, &importer.ParseError{
			Kind: importer.KindEmptyOrInvalidFile, Bank: importer.BankItau, Filename: in.Filename,
		}
	}

	headerIdx, ok := importer.FindHeaderRow(in.Grid, landmarks)
	if !ok {
		return nil, &importer.ParseError{
			Kind: importer.KindHeaderNotFound, Bank: importer.BankItau, Filename: in.Filename,
		}
	}

	cols, missing := importer.ResolveColumns(in.Grid[headerIdx], columns)
	if len(missing) > 0 {
		return nil, &importer.ParseError{
			Kind: importer.KindRequiredColumnMissing, Bank: importer.BankItau,
			Filename: in.Filename, Missing: missing,
		}
	}

	fileType := importer.DetectFileType(in.Grid, headerIdx)
	if fileType == "" {
		// Without a title keyword, the presence of a paid-value column is
		// the best signal for a settled-titles report.
		if _, ok := cols[importer.FieldPaid]; ok {
			fileType = importer.FileTypeSettled
		} else {
			fileType = importer.FileTypeOpen
		}
	}

	result := &importer.ParseResult{FileType: fileType}
	idCol := cols[importer.FieldDocument]

	for _, row := range in.Grid[headerIdx+1:] {
		result.Stats.Rows++

		if importer.SkipRow(row, idCol, minWidth) {
			result.Stats.Skipped++
			continue
		}

		degraded := false

		doc, installment := normalize.SplitDocumentRef(importer.Cell(row, idCol))

		original, err := normalize.ParseBRLAmount(importer.Cell(row, cols[importer.FieldOriginal]))
		if err != nil {
			original = 0
			degraded = true
		}

		dueDate, ok := normalize.Date(importer.Cell(row, cols[importer.FieldDueDate]))
		if !ok {
			degraded = true
		}

		tx := transaction.Transaction{
			SourceBank:       string(importer.BankItau),
			DocumentNumber:   doc,
			Installment:      installment,
			TaxID:            importer.Cell(row, importer.Lookup(cols, importer.FieldTaxID)),
			OriginalValue:    original,
			DueDate:          dueDate,
			CounterpartyName: importer.Cell(row, importer.Lookup(cols, importer.FieldName)),
			Status:           transaction.StatusOpen,
		}

		if fileType == importer.FileTypeSettled {
			tx.Status = transaction.StatusSettled
			tx.SettlementDescription = importer.Cell(row, importer.Lookup(cols, importer.FieldSettlement))

			paid, err := normalize.ParseBRLAmount(importer.Cell(row, importer.Lookup(cols, importer.FieldPaid)))
			if err != nil {
				paid = 0
				degraded = true
			}

			tx.PaidValue = paid

			if t, ok := normalize.Date(importer.Cell(row, importer.Lookup(cols, importer.FieldPaymentDate))); ok {
				tx.PaymentDate = &t
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
