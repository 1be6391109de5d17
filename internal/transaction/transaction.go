package transaction

import (
	"time"
)

// Status represents whether an imported title is still open in the bank's
// collection portfolio or has already been settled.
type Status string

const (
	StatusOpen    Status = "open"
	StatusSettled Status = "settled"
)

// Transaction is the canonical shape of a title imported from a bank
// settlement file. Values are in cents. A Transaction is immutable once
// parsed; clearing the import discards the whole batch.
type Transaction struct {
	SourceBank            string
	DocumentNumber        string
	Installment           string
	TaxID                 string // counterparty CPF/CNPJ, raw as exported
	OriginalValue         int64  // title face value, cents
	PaidValue             int64  // settled value, cents; zero for open titles
	DueDate               time.Time
	PaymentDate           *time.Time
	CounterpartyName      string
	SettlementDescription string
	Status                Status
}
