package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vhrocha/batida/internal/ledger"
	"github.com/vhrocha/batida/internal/normalize"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// ListEntries fetches the receivables snapshot for a due-date window.
// Column names follow the billing schema exposed by the query layer.
func (s *Store) ListEntries(ctx context.Context, w ledger.Window) ([]ledger.Entry, error) {
	query := `
		SELECT cd_cliente, nr_fat, nr_parcela, vl_fatura, vl_pago,
		       dt_vencimento, dt_liq, nr_cpfcnpj, cd_empresa
		FROM faturas
		WHERE dt_vencimento BETWEEN $1 AND $2
		ORDER BY dt_vencimento, nr_fat, nr_parcela
	`

	rows, err := s.db.QueryContext(ctx, query, w.From, w.To)
	if err != nil {
		return nil, fmt.Errorf("querying receivables: %w", err)
	}
	defer rows.Close()

	var entries []ledger.Entry

	for rows.Next() {
		var (
			e         ledger.Entry
			invoice   float64
			paid      sql.NullFloat64
			paymentAt sql.NullTime
		)

		if err := rows.Scan(
			&e.ClientCode, &e.InvoiceNumber, &e.InstallmentNumber,
			&invoice, &paid, &e.DueDate, &paymentAt, &e.TaxID, &e.CompanyCode,
		); err != nil {
			return nil, fmt.Errorf("scanning receivable: %w", err)
		}

		e.InvoiceValue = normalize.Cents(invoice)
		if paid.Valid {
			e.PaidValue = normalize.Cents(paid.Float64)
		}

		if paymentAt.Valid {
			t := paymentAt.Time
			e.PaymentDate = &t
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading receivables: %w", err)
	}

	return entries, nil
}
