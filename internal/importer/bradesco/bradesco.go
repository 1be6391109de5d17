// Package bradesco parses Bradesco cobrança exports. Unlike Itaú, Bradesco
// keeps the installment in its own "Parcela" column and abbreviates most
// labels ("Seu Nro", "Vencto", "Vlr").
package bradesco

import (
	"github.com/vhrocha/batida/internal/importer"
	"github.com/vhrocha/batida/internal/normalize"
	"github.com/vhrocha/batida/internal/transaction"
)

var landmarks = []string{"seu nro", "nosso nro", "seu número", "nosso número"}

var columns = []importer.Column{
	{Field: importer.FieldDocument, Candidates: []string{"seu nro", "seu número", "seu numero"}, Required: true},
	{Field: importer.FieldDueDate, Candidates: []string{"vencto", "vencimento"}, Required: true},
	{Field: importer.FieldOriginal, Candidates: []string{"vlr título", "vlr titulo", "vlr.título", "valor título", "valor titulo"}, Required: true},
	{Field: importer.FieldPaid, Candidates: []string{"vlr pago", "valor pago"}},
	{Field: importer.FieldTaxID, Candidates: []string{"cnpj/cpf", "cpf/cnpj"}},
	{Field: importer.FieldName, Candidates: []string{"nome do pagador", "pagador", "sacado"}},
	{Field: importer.FieldPaymentDate, Candidates: []string{"dt liquidação", "dt liquidacao", "data liquidação"}},
	{Field: importer.FieldSettlement, Candidates: []string{"ocorrência", "ocorrencia", "motivo"}},
	{Field: fieldInstallment, Candidates: []string{"parcela"}},
}

// fieldInstallment is Bradesco-specific: the installment comes in its own
// column instead of a "/NNN" suffix on the document reference.
const fieldInstallment importer.Field = "installment"

const minWidth = 3

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(in importer.Input) (*importer.ParseResult, error) {
	if len(in.Grid) == 0 {
		return nil, &importer.ParseError{
			Kind: importer.KindEmptyOrInvalidFile, Bank: importer.BankBradesco, Filename: in.Filename,
		}
	}

	headerIdx, ok := importer.FindHeaderRow(in.Grid, landmarks)
	if !ok {
		return nil, &importer.ParseError{
			Kind: importer.KindHeaderNotFound, Bank: importer.BankBradesco, Filename: in.Filename,
		}
	}

	cols, missing := importer.ResolveColumns(in.Grid[headerIdx], columns)
	if len(missing) > 0 {
		return nil, &importer.ParseError{
			Kind: importer.KindRequiredColumnMissing, Bank: importer.BankBradesco,
			Filename: in.Filename, Missing: missing,
		}
	}

	fileType := importer.DetectFileType(in.Grid, headerIdx)
	if fileType == "" {
		fileType = importer.FileTypeOpen
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
		if c, ok := cols[fieldInstallment]; ok {
			if v := importer.Cell(row, c); v != "" {
				installment = v
			}
		}

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
			SourceBank:       string(importer.BankBradesco),
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
