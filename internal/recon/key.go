// Package recon matches imported bank transactions against ledger
// receivables by a normalized (tax id, value, due date) composite key and
// aggregates the resulting partition.
package recon

import (
	"fmt"
	"time"

	"github.com/vhrocha/batida/internal/ledger"
	"github.com/vhrocha/batida/internal/normalize"
	"github.com/vhrocha/batida/internal/transaction"
)

// Key is the comparison tuple derived from normalized fields. Two records
// with equal keys are treated as the same receivable; this is an
// approximation, not a guaranteed 1:1 identity.
type Key struct {
	TaxID      string
	ValueCents int64
	Date       string // YYYY-MM-DD, empty when the date degraded to nil
}

func (k Key) String() string {
	return fmt.Sprintf("%s|%d|%s", k.TaxID, k.ValueCents, k.Date)
}

// BuildKey normalizes the three components into a Key. feeCents is added
// to the value before normalization; pass 0 for imported transactions.
func BuildKey(taxID string, valueCents int64, due time.Time, feeCents int64) Key {
	v := valueCents + feeCents
	if v < 0 {
		v = -v
	}

	date := ""
	if !due.IsZero() {
		date = due.Format(time.DateOnly)
	}

	return Key{
		TaxID:      normalize.TaxID(taxID),
		ValueCents: v,
		Date:       date,
	}
}

// LedgerKey builds the fee-adjusted key for a receivable. The bank deducts
// a settlement fee that the internal ledger does not carry, so the fee is
// added on this side only.
func LedgerKey(e ledger.Entry, feeCents int64) Key {
	return BuildKey(e.TaxID, e.InvoiceValue, e.DueDate, feeCents)
}

// TransactionKey builds the key for an imported transaction, with no fee
// adjustment.
func TransactionKey(t transaction.Transaction) Key {
	return BuildKey(t.TaxID, t.OriginalValue, t.DueDate, 0)
}
