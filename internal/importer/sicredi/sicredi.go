// Package sicredi parses Sicredi carteira de cobrança exports. Sicredi
// mixes open and settled titles in a single report, so status is decided
// per row by the presence of a liquidation date instead of per file.
package sicredi

import (
	"github.com/vhrocha/batida/internal/importer"
	"github.com/vhrocha/batida/internal/normalize"
	"github.com/vhrocha/batida/internal/transaction"
)

var landmarks = []string{"seu numero", "seu número", "pagador", "data vencimento"}

var columns = []importer.Column{
	{Field: importer.FieldDocument, Candidates: []string{"seu numero", "seu número", "documento"}, Required: true},
	{Field: importer.FieldDueDate, Candidates: []string{"data vencimento", "vencimento"}, Required: true},
	{Field: importer.FieldOriginal, Candidates: []string{"valor documento", "valor"}, Required: true},
	{Field: importer.FieldPaid, Candidates: []string{"valor liquidado", "valor pago"}},
	{Field: importer.FieldTaxID, Candidates: []string{"cpf/cnpj pagador", "cpf/cnpj", "cnpj"}},
	{Field: importer.FieldName, Candidates: []string{"pagador", "nome"}},
	{Field: importer.FieldPaymentDate, Candidates: []string{"data liquidação", "data liquidacao", "data pagamento"}},
	{Field: importer.FieldSettlement, Candidates: []string{"situação", "situacao", "histórico", "historico"}},
}

const minWidth = 3

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(in importer.Input) (*importer.ParseResult, error) {
	if len(in.Grid) == 0 {
		return nil, &importer.ParseError{
			Kind: importer.KindEmptyOrInvalidFile, Bank: importer.BankSicredi, Filename: in.Filename,
		}
	}

	headerIdx, ok := importer.FindHeaderRow(in.Grid, landmarks)
	if !ok {
		return nil, &importer.ParseError{
			Kind: importer.KindHeaderNotFound, Bank: importer.BankSicredi, Filename: in.Filename,
		}
	}

	cols, missing := importer.ResolveColumns(in.Grid[headerIdx], columns)
	if len(missing) > 0 {
		return nil, &importer.ParseError{
			Kind: importer.KindRequiredColumnMissing, Bank: importer.BankSicredi,
			Filename: in.Filename, Missing: missing,
		}
	}

	fileType := importer.DetectFileType(in.Grid, headerIdx)
	if fileType == "" {
		fileType = importer.FileTypeSettled
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
			SourceBank:            string(importer.BankSicredi),
			DocumentNumber:        doc,
			Installment:           installment,
			TaxID:                 importer.Cell(row, importer.Lookup(cols, importer.FieldTaxID)),
			OriginalValue:         original,
			DueDate:               dueDate,
			CounterpartyName:      importer.Cell(row, importer.Lookup(cols, importer.FieldName)),
			SettlementDescription: importer.Cell(row, importer.Lookup(cols, importer.FieldSettlement)),
			Status:                transaction.StatusOpen,
		}

		// Settled rows carry a liquidation date; open ones leave it blank.
		if t, ok := normalize.Date(importer.Cell(row, importer.Lookup(cols, importer.FieldPaymentDate))); ok {
			tx.Status = transaction.StatusSettled
			tx.PaymentDate = &t

			paid, err := normalize.ParseBRLAmount(importer.Cell(row, importer.Lookup(cols, importer.FieldPaid)))
			if err != nil {
				paid = 0
				degraded = true
			}

			tx.PaidValue = paid
		}

		if degraded {
			result.Stats.Degraded++
		}

		result.Stats.Parsed++
		result.Records = append(result.Records, tx)
	}

	return result, nil
}
