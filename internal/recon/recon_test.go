package recon_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vhrocha/batida/internal/ledger"
	"github.com/vhrocha/batida/internal/recon"
	"github.com/vhrocha/batida/internal/transaction"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func entry(taxID string, cents int64, due time.Time) ledger.Entry {
	return ledger.Entry{
		InvoiceNumber: "F-1",
		InvoiceValue:  cents,
		TaxID:         taxID,
		DueDate:       due,
	}
}

func imported(taxID string, cents int64, due time.Time) transaction.Transaction {
	return transaction.Transaction{
		SourceBank:    "itau",
		OriginalValue: cents,
		TaxID:         taxID,
		DueDate:       due,
	}
}

func TestBuildKey_FeeSymmetry(t *testing.T) {
	due := date(2024, 1, 10)

	// Ledger carries 100.00; the bank file shows 100.98 because the bank
	// deducted its 0.98 settlement fee on the internal side only.
	ledgerKey := recon.BuildKey("12345678901", 10000, due, 98)
	importKey := recon.BuildKey("12345678901", 10098, due, 0)

	assert.Equal(t, ledgerKey, importKey)
	assert.Equal(t, "12345678901|10098|2024-01-10", ledgerKey.String())
}

func TestBuildKey_NormalizesComponents(t *testing.T) {
	k := recon.BuildKey("123.456.789-01", 10098, date(2024, 1, 10), 0)

	assert.Equal(t, "12345678901", k.TaxID)
	assert.Equal(t, int64(10098), k.ValueCents)
	assert.Equal(t, "2024-01-10", k.Date)
}

func TestBuildKey_ZeroDate(t *testing.T) {
	k := recon.BuildKey("12345678901", 500, time.Time{}, 0)
	assert.Equal(t, "", k.Date)
}

func TestReconcile_FeeAdjustedMatch(t *testing.T) {
	due := date(2024, 1, 10)

	entries := []ledger.Entry{entry("12345678901", 10000, due)}
	txs := []transaction.Transaction{imported("12345678901", 10098, due)}

	result := recon.Reconcile(entries, txs, 98)

	require.Len(t, result.MatchedLedger, 1)
	require.Len(t, result.MatchedImported, 1)
	assert.Empty(t, result.OnlyLedger)
	assert.Empty(t, result.OnlyImported)
}

func TestReconcile_Partition(t *testing.T) {
	due := date(2024, 2, 1)

	entries := []ledger.Entry{
		entry("11111111111", 5000, due),
		entry("22222222222", 7000, due),
		entry("33333333333", 9000, due),
	}

	txs := []transaction.Transaction{
		imported("11111111111", 5098, due), // matches with fee
		imported("44444444444", 1000, due), // bank-only
	}

	result := recon.Reconcile(entries, txs, 98)

	// Partition completeness: every input lands in exactly one bucket.
	assert.Equal(t, len(entries), len(result.MatchedLedger)+len(result.OnlyLedger))
	assert.Equal(t, len(txs), len(result.MatchedImported)+len(result.OnlyImported))

	require.Len(t, result.MatchedLedger, 1)
	assert.Equal(t, "11111111111", result.MatchedLedger[0].TaxID)

	require.Len(t, result.OnlyImported, 1)
	assert.Equal(t, "44444444444", result.OnlyImported[0].TaxID)
}

func TestReconcile_Idempotent(t *testing.T) {
	due := date(2024, 3, 15)

	entries := []ledger.Entry{
		entry("11111111111", 5000, due),
		entry("22222222222", 7000, due),
	}

	txs := []transaction.Transaction{
		imported("11111111111", 5098, due),
		imported("55555555555", 1234, due),
	}

	first := recon.Reconcile(entries, txs, 98)
	second := recon.Reconcile(entries, txs, 98)

	assert.Equal(t, first, second)
}

func TestReconcile_ExistenceBasedMultiplicity(t *testing.T) {
	due := date(2024, 4, 1)

	// Two distinct receivables share the same key; a single bank record
	// marks both as Matched. The test is membership, not pairing.
	entries := []ledger.Entry{
		{InvoiceNumber: "F-1", InvoiceValue: 5000, TaxID: "11111111111", DueDate: due},
		{InvoiceNumber: "F-2", InvoiceValue: 5000, TaxID: "11111111111", DueDate: due},
	}

	txs := []transaction.Transaction{imported("11111111111", 5098, due)}

	result := recon.Reconcile(entries, txs, 98)

	assert.Len(t, result.MatchedLedger, 2)
	assert.Len(t, result.MatchedImported, 1)
}

func TestAlignForDisplay(t *testing.T) {
	d1 := date(2024, 5, 1)
	d2 := date(2024, 5, 2)

	entries := []ledger.Entry{
		entry("22222222222", 7000, d2),
		entry("11111111111", 5000, d1),
	}

	txs := []transaction.Transaction{
		imported("22222222222", 7098, d2),
		imported("11111111111", 5098, d1),
	}

	result := recon.Reconcile(entries, txs, 98)
	result.AlignForDisplay()

	require.Len(t, result.MatchedLedger, 2)
	require.Len(t, result.MatchedImported, 2)

	// Row i on the ledger side must carry the same key as row i on the
	// imported side.
	for i := range result.MatchedLedger {
		lk := recon.LedgerKey(result.MatchedLedger[i], result.FeeCents)
		ik := recon.TransactionKey(result.MatchedImported[i])
		assert.Equal(t, lk, ik, "row %d misaligned", i)
	}
}
