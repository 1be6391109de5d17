// Package importfile exposes the settlement-file upload endpoint. Each
// multipart file field is named after its bank, so one request can carry
// exports from several banks; failures stay isolated per file.
package importfile

import (
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vhrocha/batida/internal/batch"
	enc "github.com/vhrocha/batida/internal/encoding"
	"github.com/vhrocha/batida/internal/importer"
	"github.com/vhrocha/batida/internal/sheet"
	"github.com/vhrocha/batida/internal/transaction"
)

const maxUploadBytes = 32 << 20

type Handler struct {
	importSvc *importer.Service
	batches   *batch.Store
}

func NewHandler(importSvc *importer.Service, batches *batch.Store) *Handler {
	return &Handler{
		importSvc: importSvc,
		batches:   batches,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.upload)
	r.Delete("/{batchID}", h.clear)
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

type fileSummaryDTO struct {
	Filename string           `json:"filename"`
	Bank     string           `json:"bank"`
	FileType string           `json:"file_type,omitempty"`
	Stats    *importer.Stats  `json:"stats,omitempty"`
	Records  []transactionDTO `json:"records,omitempty"`
	Error    string           `json:"error,omitempty"`
}

type uploadResponse struct {
	BatchID uuid.UUID        `json:"batch_id"`
	Files   []fileSummaryDTO `json:"files"`
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	var files []importer.File

	for field, headers := range r.MultipartForm.File {
		bank := importer.Bank(field)

		for _, fh := range headers {
			input, err := decode(bank, fh)
			if err != nil {
				// Undecodable uploads join the batch as failed files so the
				// caller gets one summary per file either way.
				files = append(files, importer.File{Bank: bank, Name: fh.Filename})
				continue
			}

			input.Filename = fh.Filename
			files = append(files, importer.File{Bank: bank, Name: fh.Filename, Input: input})
		}
	}

	if len(files) == 0 {
		http.Error(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	summaries := h.importSvc.ImportBatch(files)
	b := h.batches.Save(summaries)

	resp := uploadResponse{BatchID: b.ID}
	for _, s := range summaries {
		resp.Files = append(resp.Files, toSummaryDTO(s))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "batchID"))
	if err != nil {
		http.Error(w, "invalid batch id", http.StatusBadRequest)
		return
	}

	h.batches.Delete(id)
	w.WriteHeader(http.StatusNoContent)
}

// decode opens an uploaded file and produces the parser input shape:
// extracted text for PDF-based banks, a cell grid for the rest.
func decode(bank importer.Bank, fh *multipart.FileHeader) (importer.Input, error) {
	f, err := fh.Open()
	if err != nil {
		return importer.Input{}, err
	}
	defer f.Close()

	if bank == importer.BankSantander {
		utf8r, err := enc.NewUTF8Reader(f)
		if err != nil {
			return importer.Input{}, err
		}

		text, err := io.ReadAll(utf8r)
		if err != nil {
			return importer.Input{}, err
		}

		return importer.Input{Text: string(text)}, nil
	}

	grid, err := sheet.Grid(f, fh.Filename)
	if err != nil {
		return importer.Input{}, err
	}

	return importer.Input{Grid: grid}, nil
}

func toSummaryDTO(s importer.FileSummary) fileSummaryDTO {
	dto := fileSummaryDTO{
		Filename: s.Filename,
		Bank:     string(s.Bank),
	}

	if s.Err != nil {
		dto.Error = s.Err.Error()
		return dto
	}

	dto.FileType = string(s.Result.FileType)
	dto.Stats = &s.Result.Stats

	for _, tx := range s.Result.Records {
		dto.Records = append(dto.Records, toTransactionDTO(tx))
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
