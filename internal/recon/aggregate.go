package recon

import (
	"sort"
	"strings"

	"github.com/vhrocha/batida/internal/transaction"
)

// Bucket is the count and value sum of one partition slot.
type Bucket struct {
	Count    int   `json:"count"`
	SumCents int64 `json:"sum_cents"`
}

// Totals aggregates the partition. Ledger-side sums use the same
// fee-adjusted values used for key comparison, so the matched ledger and
// matched imported totals line up.
type Totals struct {
	Matched      Bucket `json:"matched"`
	OnlyLedger   Bucket `json:"only_ledger"`
	OnlyImported Bucket `json:"only_imported"`
}

// Aggregate computes per-bucket counts and sums for a reconciliation run.
func Aggregate(r Result) Totals {
	var t Totals

	for _, e := range r.MatchedLedger {
		t.Matched.Count++
		t.Matched.SumCents += e.InvoiceValue + r.FeeCents
	}

	for _, e := range r.OnlyLedger {
		t.OnlyLedger.Count++
		t.OnlyLedger.SumCents += e.InvoiceValue + r.FeeCents
	}

	for _, tx := range r.OnlyImported {
		t.OnlyImported.Count++
		t.OnlyImported.SumCents += tx.OriginalValue
	}

	return t
}

// DefaultSettlementKeywords maps a reconciliation category to the
// settlement-description fragments that flag it. Banks phrase these
// freely, so each category carries several variants.
var DefaultSettlementKeywords = map[string][]string{
	"pago_cedente": {"pago ao cedente", "pagto cedente", "pago cedente"},
	"baixa_operacao": {
		"debitado na operação", "debitado na operacao",
		"baixa na operação", "baixa na operacao",
	},
}

// SettlementCategory scans a settlement description against the keyword
// sets and returns the first matching category, or "". Categories are
// tried in sorted order so the scan is deterministic.
func SettlementCategory(description string, keywords map[string][]string) string {
	lower := strings.ToLower(description)

	categories := make([]string, 0, len(keywords))
	for c := range keywords {
		categories = append(categories, c)
	}

	sort.Strings(categories)

	for _, c := range categories {
		for _, kw := range keywords[c] {
			if strings.Contains(lower, kw) {
				return c
			}
		}
	}

	return ""
}

// SettlementClass is the per-category rollup of the sub-classification.
type SettlementClass struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
	SumCents int64  `json:"sum_cents"`
}

// ClassifySettlements annotates imported transactions by settlement
// description. The sub-classification never changes the match partition;
// it exists so a special reconciliation category can be flagged on screen
// independently of the key match.
func ClassifySettlements(txs []transaction.Transaction, keywords map[string][]string) []SettlementClass {
	byCategory := make(map[string]*SettlementClass)

	for _, tx := range txs {
		category := SettlementCategory(tx.SettlementDescription, keywords)
		if category == "" {
			continue
		}

		c, ok := byCategory[category]
		if !ok {
			c = &SettlementClass{Category: category}
			byCategory[category] = c
		}

		c.Count++
		c.SumCents += tx.PaidValue
	}

	classes := make([]SettlementClass, 0, len(byCategory))
	for _, c := range byCategory {
		classes = append(classes, *c)
	}

	sort.Slice(classes, func(i, j int) bool { return classes[i].Category < classes[j].Category })

	return classes
}
