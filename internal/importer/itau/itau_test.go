package itau_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vhrocha/batida/internal/importer"
	"github.com/vhrocha/batida/internal/importer/itau"
	"github.com/vhrocha/batida/internal/transaction"
)

// settledGrid mimics a real export: report title, account block and blank
// rows above the header, which sits at row index 6.
func settledGrid() [][]string {
	return [][]string{
		{"Itaú Empresas - Cobrança"},
		{"Títulos liquidados"},
		{"Agência: 1234", "Conta: 56789-0"},
		{},
		{"Período: 01/01/2024 a 31/01/2024"},
		{},
		{"Seu Número", "Nosso Número", "Sacado", "CPF/CNPJ", "Vencimento", "Valor Título", "Valor Pago", "Data Liquidação", "Tipo de Liquidação"},
		{"000123/002", "109/00012345", "COMERCIO ABC LTDA", "12.345.678/0001-99", "10/01/2024", "1.234,56", "1.233,58", "12/01/2024", "Pago ao cedente"},
		{"000456", "109/00067890", "JOSE DA SILVA", "00012345678901", "15/01/2024", "100,00", "99,02", "16/01/2024", "Debitado na operação"},
		{"TOTAL", "", "", "", "", "1.334,56", "1.332,60", "", ""},
	}
}

func TestParse_Settled(t *testing.T) {
	p := itau.NewParser()

	result, err := p.Parse(importer.Input{Grid: settledGrid(), Filename: "liquidados.xlsx"})
	require.NoError(t, err)

	assert.Equal(t, importer.FileTypeSettled, result.FileType)
	require.Len(t, result.Records, 2)

	first := result.Records[0]
	assert.Equal(t, "itau", first.SourceBank)
	assert.Equal(t, "123", first.DocumentNumber)
	assert.Equal(t, "002", first.Installment)
	assert.Equal(t, "12.345.678/0001-99", first.TaxID)
	assert.Equal(t, int64(123456), first.OriginalValue)
	assert.Equal(t, int64(123358), first.PaidValue)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), first.DueDate)
	require.NotNil(t, first.PaymentDate)
	assert.Equal(t, time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC), *first.PaymentDate)
	assert.Equal(t, "COMERCIO ABC LTDA", first.CounterpartyName)
	assert.Equal(t, "Pago ao cedente", first.SettlementDescription)
	assert.Equal(t, transaction.StatusSettled, first.Status)

	second := result.Records[1]
	assert.Equal(t, "456", second.DocumentNumber)
	assert.Equal(t, "001", second.Installment) // no suffix defaults to 001

	// The TOTAL footer is skipped, not parsed.
	assert.Equal(t, 3, result.Stats.Rows)
	assert.Equal(t, 2, result.Stats.Parsed)
	assert.Equal(t, 1, result.Stats.Skipped)
}

func TestParse_HeaderRowIndex(t *testing.T) {
	p := itau.NewParser()

	result, err := p.Parse(importer.Input{Grid: settledGrid()})
	require.NoError(t, err)

	// Header sits at row 6; data rows start at 7 and the footer at 9 is
	// filtered, leaving exactly the two titles.
	require.Len(t, result.Records, 2)
}

func TestParse_OpenTitles(t *testing.T) {
	grid := [][]string{
		{"Itaú Empresas - Cobrança"},
		{"Títulos em aberto"},
		{"Seu Número", "Sacado", "CPF/CNPJ", "Vencimento", "Valor Título"},
		{"000789/001", "MARIA OLIVEIRA", "987.654.321-00", "20/02/2024", "550,00"},
	}

	p := itau.NewParser()

	result, err := p.Parse(importer.Input{Grid: grid})
	require.NoError(t, err)

	assert.Equal(t, importer.FileTypeOpen, result.FileType)
	require.Len(t, result.Records, 1)

	tx := result.Records[0]
	assert.Equal(t, transaction.StatusOpen, tx.Status)
	assert.Equal(t, int64(55000), tx.OriginalValue)
	assert.Zero(t, tx.PaidValue)
	assert.Nil(t, tx.PaymentDate)
}

func TestParse_SerialDueDate(t *testing.T) {
	grid := [][]string{
		{"Títulos em aberto"},
		{"Seu Número", "Vencimento", "Valor Título"},
		{"000123", "45301", "100,00"}, // serial for 2024-01-10
	}

	p := itau.NewParser()

	result, err := p.Parse(importer.Input{Grid: grid})
	require.NoError(t, err)
	require.Len(t, result.Records, 1)

	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), result.Records[0].DueDate)
}

func TestParse_DegradedValue(t *testing.T) {
	grid := [][]string{
		{"Títulos em aberto"},
		{"Seu Número", "Vencimento", "Valor Título"},
		{"000123", "10/01/2024", "???"},
	}

	p := itau.NewParser()

	result, err := p.Parse(importer.Input{Grid: grid})
	require.NoError(t, err)

	// The row stays: value degrades to 0 and the degradation is counted.
	require.Len(t, result.Records, 1)
	assert.Zero(t, result.Records[0].OriginalValue)
	assert.Equal(t, 1, result.Stats.Degraded)
	assert.Equal(t, 1, result.Stats.Parsed)
}

func TestParse_HeaderNotFound(t *testing.T) {
	grid := [][]string{
		{"algum relatório sem cabeçalho"},
		{"coluna a", "coluna b"},
	}

	p := itau.NewParser()

	_, err := p.Parse(importer.Input{Grid: grid, Filename: "estranho.xlsx"})

	var parseErr *importer.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, importer.KindHeaderNotFound, parseErr.Kind)
	assert.Equal(t, "estranho.xlsx", parseErr.Filename)
}

func TestParse_RequiredColumnMissing(t *testing.T) {
	grid := [][]string{
		{"Seu Número", "Sacado"}, // no due date, no value
		{"000123", "FULANO"},
	}

	p := itau.NewParser()

	_, err := p.Parse(importer.Input{Grid: grid})

	var parseErr *importer.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, importer.KindRequiredColumnMissing, parseErr.Kind)
	assert.Contains(t, parseErr.Missing, "due_date")
	assert.Contains(t, parseErr.Missing, "original_value")
}

func TestParse_EmptyGrid(t *testing.T) {
	p := itau.NewParser()

	_, err := p.Parse(importer.Input{Filename: "vazio.xlsx"})

	var parseErr *importer.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, importer.KindEmptyOrInvalidFile, parseErr.Kind)
}
