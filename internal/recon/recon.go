package recon

import (
	"sort"

	"github.com/vhrocha/batida/internal/ledger"
	"github.com/vhrocha/batida/internal/transaction"
)

// Result partitions the ledger entries into Matched/OnlyLedger and the
// imported transactions into Matched/OnlyImported. It is computed fresh
// per (ledger-set, transaction-set) pair and never mutated in place.
type Result struct {
	MatchedLedger   []ledger.Entry
	OnlyLedger      []ledger.Entry
	MatchedImported []transaction.Transaction
	OnlyImported    []transaction.Transaction

	// FeeCents is the adjustment applied to ledger values during this run,
	// kept so aggregation stays consistent with the comparison.
	FeeCents int64
}

// Reconcile computes the three-way partition in O(|L| + |I|).
//
// The match test is existence-based per side, not a strict bijection: if
// two ledger entries share a key that exists among the imports, both are
// Matched. Stricter one-to-one pairing is deliberately not enforced here.
func Reconcile(entries []ledger.Entry, txs []transaction.Transaction, feeCents int64) Result {
	keysI := make(map[Key]struct{}, len(txs))
	for _, t := range txs {
		keysI[TransactionKey(t)] = struct{}{}
	}

	keysL := make(map[Key]struct{}, len(entries))
	for _, e := range entries {
		keysL[LedgerKey(e, feeCents)] = struct{}{}
	}

	result := Result{FeeCents: feeCents}

	for _, e := range entries {
		if _, ok := keysI[LedgerKey(e, feeCents)]; ok {
			result.MatchedLedger = append(result.MatchedLedger, e)
		} else {
			result.OnlyLedger = append(result.OnlyLedger, e)
		}
	}

	for _, t := range txs {
		if _, ok := keysL[TransactionKey(t)]; ok {
			result.MatchedImported = append(result.MatchedImported, t)
		} else {
			result.OnlyImported = append(result.OnlyImported, t)
		}
	}

	return result
}

// AlignForDisplay sorts both matched slices by their shared key string so
// that row i on the ledger side lines up with row i on the imported side.
// This is a rendering contract only; the partition itself is unordered.
func (r *Result) AlignForDisplay() {
	sort.SliceStable(r.MatchedLedger, func(i, j int) bool {
		ki := LedgerKey(r.MatchedLedger[i], r.FeeCents).String()
		kj := LedgerKey(r.MatchedLedger[j], r.FeeCents).String()

		if ki != kj {
			return ki < kj
		}

		return r.MatchedLedger[i].InvoiceNumber < r.MatchedLedger[j].InvoiceNumber
	})

	sort.SliceStable(r.MatchedImported, func(i, j int) bool {
		ki := TransactionKey(r.MatchedImported[i]).String()
		kj := TransactionKey(r.MatchedImported[j]).String()

		if ki != kj {
			return ki < kj
		}

		return r.MatchedImported[i].DocumentNumber < r.MatchedImported[j].DocumentNumber
	})
}
