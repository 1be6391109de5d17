package importer

import (
	"strings"
)

// Field is a logical column of a settlement file, independent of the label
// any particular bank prints above it.
type Field string

const (
	FieldDocument    Field = "document"
	FieldDueDate     Field = "due_date"
	FieldOriginal    Field = "original_value"
	FieldPaid        Field = "paid_value"
	FieldTaxID       Field = "tax_id"
	FieldName        Field = "counterparty"
	FieldPaymentDate Field = "payment_date"
	FieldSettlement  Field = "settlement_description"
)

// Column maps a logical field to the label variants a bank uses for it,
// in preference order. First substring match wins.
type Column struct {
	Field      Field
	Candidates []string
	Required   bool
}

// headerScanWindow bounds how deep into a file the header row may sit.
// Bank exports put report titles, account info and filters above it.
const headerScanWindow = 20

// FindHeaderRow scans at most the first headerScanWindow rows for a cell
// whose lowercased value contains any of the bank's landmark labels.
// The first matching row is the header row.
func FindHeaderRow(grid [][]string, landmarks []string) (int, bool) {
	limit := len(grid)
	if limit > headerScanWindow {
		limit = headerScanWindow
	}

	for i := 0; i < limit; i++ {
		for _, cell := range grid[i] {
			lower := strings.ToLower(cell)
			for _, l := range landmarks {
				if strings.Contains(lower, l) {
					return i, true
				}
			}
		}
	}

	return 0, false
}

// ResolveColumns resolves each logical field to a column index by
// case-insensitive substring match against the header row. Resolution runs
// once per file; the returned map is reused for every data row. Required
// fields that stay unresolved are reported back by name.
func ResolveColumns(header []string, cols []Column) (map[Field]int, []string) {
	lower := make([]string, len(header))
	for i, h := range header {
		lower[i] = strings.ToLower(strings.TrimSpace(h))
	}

	idx := make(map[Field]int, len(cols))

	var missing []string

	for _, col := range cols {
		found := -1

	candidates:
		for _, cand := range col.Candidates {
			for i, h := range lower {
				if h != "" && strings.Contains(h, cand) {
					found = i
					break candidates
				}
			}
		}

		if found >= 0 {
			idx[col.Field] = found
		} else if col.Required {
			missing = append(missing, string(col.Field))
		}
	}

	return idx, missing
}

// DetectFileType inspects the first rows for the open/settled keywords
// banks print in the report title. Returns "" when neither appears.
func DetectFileType(grid [][]string, maxRows int) FileType {
	if maxRows > len(grid) {
		maxRows = len(grid)
	}

	for i := 0; i < maxRows; i++ {
		for _, cell := range grid[i] {
			lower := strings.ToLower(cell)
			if strings.Contains(lower, "liquidado") {
				return FileTypeSettled
			}

			if strings.Contains(lower, "em aberto") {
				return FileTypeOpen
			}
		}
	}

	return ""
}

// SkipRow reports whether a data row is a footer/summary artifact rather
// than a transaction: empty, shorter than the minimum expected width, or
// carrying "total" in its primary identifier column.
func SkipRow(row []string, idCol, minWidth int) bool {
	if len(row) < minWidth {
		return true
	}

	empty := true

	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			empty = false
			break
		}
	}

	if empty {
		return true
	}

	return strings.Contains(strings.ToLower(Cell(row, idCol)), "total")
}

// Lookup returns the resolved index of a field, or -1 when the column was
// not present in the file. Combined with Cell, absent optional columns read
// as empty cells.
func Lookup(cols map[Field]int, f Field) int {
	if i, ok := cols[f]; ok {
		return i
	}

	return -1
}

// Cell safely returns a trimmed cell value; out-of-range indices yield "".
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
