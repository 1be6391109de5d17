package recon

import (
	"github.com/schollz/closestmatch"

	"github.com/vhrocha/batida/internal/ledger"
	"github.com/vhrocha/batida/internal/transaction"
)

// NearMiss pairs an unmatched imported transaction with the unmatched
// receivable whose key is textually closest, typically a value off by a
// few cents or a shifted due date. Purely an annotation for review; it
// never feeds back into the partition.
type NearMiss struct {
	Imported  transaction.Transaction
	Candidate ledger.Entry
}

// Suggestions proposes near-miss candidates for the unmatched imported
// transactions against the unmatched ledger entries.
func Suggestions(onlyLedger []ledger.Entry, onlyImported []transaction.Transaction, feeCents int64) []NearMiss {
	if len(onlyLedger) == 0 || len(onlyImported) == 0 {
		return nil
	}

	byKey := make(map[string]ledger.Entry, len(onlyLedger))
	keys := make([]string, 0, len(onlyLedger))

	for _, e := range onlyLedger {
		k := LedgerKey(e, feeCents).String()
		if _, seen := byKey[k]; seen {
			continue
		}

		byKey[k] = e
		keys = append(keys, k)
	}

	cm := closestmatch.New(keys, []int{3, 4})

	var misses []NearMiss

	for _, tx := range onlyImported {
		closest := cm.Closest(TransactionKey(tx).String())
		if closest == "" {
			continue
		}

		misses = append(misses, NearMiss{
			Imported:  tx,
			Candidate: byKey[closest],
		})
	}

	return misses
}
