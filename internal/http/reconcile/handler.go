// Package reconcile runs the batida de carteira: the ledger window is
// fetched, matched against a previously imported batch and the three-way
// partition is returned with its aggregates.
package reconcile

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vhrocha/batida/internal/batch"
	"github.com/vhrocha/batida/internal/ledger"
	"github.com/vhrocha/batida/internal/recon"
	"github.com/vhrocha/batida/internal/transaction"
)

type Handler struct {
	ledgerSvc *ledger.Service
	batches   *batch.Store
	feeFor    func(bank string) int64
}

func NewHandler(ledgerSvc *ledger.Service, batches *batch.Store, feeFor func(bank string) int64) *Handler {
	return &Handler{
		ledgerSvc: ledgerSvc,
		batches:   batches,
		feeFor:    feeFor,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.run)
}

type runRequest struct {
	BatchID uuid.UUID `json:"batch_id"`
	From    string    `json:"from"` // YYYY-MM-DD
	To      string    `json:"to"`   // YYYY-MM-DD
}

type entryDTO struct {
	ClientCode        string  `json:"client_code"`
	InvoiceNumber     string  `json:"invoice_number"`
	InstallmentNumber string  `json:"installment_number"`
	InvoiceValue      int64   `json:"invoice_value"`
	PaidValue         int64   `json:"paid_value"`
	TaxID             string  `json:"tax_id"`
	DueDate           string  `json:"due_date"`
	PaymentDate       *string `json:"payment_date"`
	CompanyCode       string  `json:"company_code"`
}

type transactionDTO struct {
	SourceBank            string  `json:"source_bank"`
	DocumentNumber        string  `json:"document_number"`
	Installment           string  `json:"installment"`
	TaxID                 string  `json:"tax_id"`
	OriginalValue         int64   `json:"original_value"`
	PaidValue             int64   `json:"paid_value"`
	DueDate               string  `json:"due_date"`
	PaymentDate           *string `json:"payment_date"`
	CounterpartyName      string  `json:"counterparty_name"`
	SettlementDescription string  `json:"settlement_description,omitempty"`
	Status                string  `json:"status"`
}

type nearMissDTO struct {
	Imported  transactionDTO `json:"imported"`
	Candidate entryDTO       `json:"candidate"`
}

type runResponse struct {
	FeeCents          int64                   `json:"fee_cents"`
	MatchedLedger     []entryDTO              `json:"matched_ledger"`
	OnlyLedger        []entryDTO              `json:"only_ledger"`
	MatchedImported   []transactionDTO        `json:"matched_imported"`
	OnlyImported      []transactionDTO        `json:"only_imported"`
	Totals            recon.Totals            `json:"totals"`
	SettlementClasses []recon.SettlementClass `json:"settlement_classes"`
	NearMisses        []nearMissDTO           `json:"near_misses,omitempty"`
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	window, err := parseWindow(req.From, req.To)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	b, err := h.batches.Get(req.BatchID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	entries, err := h.ledgerSvc.ListWindow(r.Context(), window)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	fee := h.fee(b)
	txs := b.Transactions()

	result := recon.Reconcile(entries, txs, fee)
	result.AlignForDisplay()

	resp := runResponse{
		FeeCents:          fee,
		Totals:            recon.Aggregate(result),
		SettlementClasses: recon.ClassifySettlements(txs, recon.DefaultSettlementKeywords),
	}

	for _, e := range result.MatchedLedger {
		resp.MatchedLedger = append(resp.MatchedLedger, toEntryDTO(e))
	}

	for _, e := range result.OnlyLedger {
		resp.OnlyLedger = append(resp.OnlyLedger, toEntryDTO(e))
	}

	for _, tx := range result.MatchedImported {
		resp.MatchedImported = append(resp.MatchedImported, toTransactionDTO(tx))
	}

	for _, tx := range result.OnlyImported {
		resp.OnlyImported = append(resp.OnlyImported, toTransactionDTO(tx))
	}

	for _, m := range recon.Suggestions(result.OnlyLedger, result.OnlyImported, fee) {
		resp.NearMisses = append(resp.NearMisses, nearMissDTO{
			Imported:  toTransactionDTO(m.Imported),
			Candidate: toEntryDTO(m.Candidate),
		})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// fee picks the settlement fee for the run. Batches are usually
// single-bank; mixed batches use the first bank's fee.
func (h *Handler) fee(b *batch.Batch) int64 {
	banks := b.Banks()
	if len(banks) == 0 {
		return h.feeFor("")
	}

	return h.feeFor(string(banks[0]))
}

func parseWindow(from, to string) (ledger.Window, error) {
	f, err := time.Parse(time.DateOnly, from)
	if err != nil {
		return ledger.Window{}, err
	}

	t, err := time.Parse(time.DateOnly, to)
	if err != nil {
		return ledger.Window{}, err
	}

	return ledger.Window{From: f, To: t}, nil
}

func toEntryDTO(e ledger.Entry) entryDTO {
	dto := entryDTO{
		ClientCode:        e.ClientCode,
		InvoiceNumber:     e.InvoiceNumber,
		InstallmentNumber: e.InstallmentNumber,
		InvoiceValue:      e.InvoiceValue,
		PaidValue:         e.PaidValue,
		TaxID:             e.TaxID,
		CompanyCode:       e.CompanyCode,
	}

	if !e.DueDate.IsZero() {
		dto.DueDate = e.DueDate.Format(time.DateOnly)
	}

	if e.PaymentDate != nil {
		d := e.PaymentDate.Format(time.DateOnly)
		dto.PaymentDate = &d
	}

	return dto
}

func toTransactionDTO(tx transaction.Transaction) transactionDTO {
	dto := transactionDTO{
		SourceBank:            tx.SourceBank,
		DocumentNumber:        tx.DocumentNumber,
		Installment:           tx.Installment,
		TaxID:                 tx.TaxID,
		OriginalValue:         tx.OriginalValue,
		PaidValue:             tx.PaidValue,
		CounterpartyName:      tx.CounterpartyName,
		SettlementDescription: tx.SettlementDescription,
		Status:                string(tx.Status),
	}

	if !tx.DueDate.IsZero() {
		dto.DueDate = tx.DueDate.Format(time.DateOnly)
	}

	if tx.PaymentDate != nil {
		d := tx.PaymentDate.Format(time.DateOnly)
		dto.PaymentDate = &d
	}

	return dto
}
