// Package ledger exposes the internally tracked receivables that imported
// bank files are reconciled against. Entries are a read-only snapshot
// fetched per query window.
package ledger

import (
	"time"
)

// Entry is a single accounts-receivable record (one invoice installment).
// Values are in cents.
type Entry struct {
	ClientCode        string
	InvoiceNumber     string
	InstallmentNumber string
	InvoiceValue      int64
	PaidValue         int64
	TaxID             string
	DueDate           time.Time
	PaymentDate       *time.Time
	CompanyCode       string
}

// Window selects entries by due date, inclusive on both ends.
type Window struct {
	From time.Time
	To   time.Time
}
