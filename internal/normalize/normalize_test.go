package normalize_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vhrocha/batida/internal/normalize"
)

func TestTaxID(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "FormattedCPF", raw: "123.456.789-01", want: "12345678901"},
		{name: "FormattedCNPJ", raw: "12.345.678/0001-99", want: "12345678000199"},
		{name: "ShortCPFPadded", raw: "345678901", want: "00345678901"},
		{name: "MisencodedCPF", raw: "00012345678901", want: "12345678901"},
		{name: "CNPJStaysFourteen", raw: "12345678000199", want: "12345678000199"},
		{name: "Empty", raw: "", want: "00000000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalize.TaxID(tt.raw))
		})
	}
}

func TestParseBRLAmount(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int64
		wantErr bool
	}{
		{name: "Thousands", raw: "1.234,56", want: 123456},
		{name: "Plain", raw: "100,98", want: 10098},
		{name: "CurrencySymbol", raw: "R$ 10,00", want: 1000},
		{name: "Negative", raw: "-588,74", want: -58874},
		{name: "Parentheses", raw: "(5,00)", want: -500},
		{name: "Anglo", raw: "1,234.56", want: 123456},
		{name: "Empty", raw: "", want: 0},
		{name: "Dash", raw: "-", want: 0},
		{name: "Garbage", raw: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalize.ParseBRLAmount(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCents(t *testing.T) {
	assert.Equal(t, int64(10098), normalize.Cents(100.98))
	assert.Equal(t, int64(100), normalize.Cents(1.004)) // rounds to nearest cent
	assert.Equal(t, int64(101), normalize.Cents(1.006))
	assert.Equal(t, int64(0), normalize.Cents(0))
}

func TestDate(t *testing.T) {
	want := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	t.Run("DayFirst", func(t *testing.T) {
		got, ok := normalize.Date("10/01/2024")
		require.True(t, ok)
		assert.Equal(t, want, got)
	})

	t.Run("ISO", func(t *testing.T) {
		got, ok := normalize.Date("2024-01-10")
		require.True(t, ok)
		assert.Equal(t, want, got)
	})

	t.Run("SerialMatchesDayFirst", func(t *testing.T) {
		// 45301 is the spreadsheet serial for 2024-01-10.
		fromSerial, ok := normalize.Date("45301")
		require.True(t, ok)

		fromString, ok := normalize.Date("10/01/2024")
		require.True(t, ok)

		assert.Equal(t, fromString.Format(time.DateOnly), fromSerial.Format(time.DateOnly))
	})

	t.Run("TimeOfDayDropped", func(t *testing.T) {
		got, ok := normalize.Date("10/01/2024 14:30")
		require.True(t, ok)
		assert.Equal(t, want, got)
	})

	t.Run("Unparsable", func(t *testing.T) {
		_, ok := normalize.Date("sem data")
		assert.False(t, ok)
	})

	t.Run("Empty", func(t *testing.T) {
		_, ok := normalize.Date("")
		assert.False(t, ok)
	})
}

func TestSplitDocumentRef(t *testing.T) {
	tests := []struct {
		name            string
		raw             string
		wantDoc         string
		wantInstallment string
	}{
		{name: "Composite", raw: "000123/002", wantDoc: "123", wantInstallment: "002"},
		{name: "NoSuffix", raw: "000456", wantDoc: "456", wantInstallment: "001"},
		{name: "NoLeadingZeros", raw: "789/010", wantDoc: "789", wantInstallment: "010"},
		{name: "AllZeros", raw: "000", wantDoc: "0", wantInstallment: "001"},
		{name: "EmptySuffix", raw: "123/", wantDoc: "123", wantInstallment: "001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, installment := normalize.SplitDocumentRef(tt.raw)
			assert.Equal(t, tt.wantDoc, doc)
			assert.Equal(t, tt.wantInstallment, installment)
		})
	}
}
