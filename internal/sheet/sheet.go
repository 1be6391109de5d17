// Package sheet turns uploaded spreadsheet bytes into the 2-D cell grid
// the bank parsers consume. Parsers never see file bytes; this is the only
// place that knows about workbook formats.
package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"

	enc "github.com/vhrocha/batida/internal/encoding"
)

// Grid decodes a workbook or CSV into rows of string cells. The extension
// of the original filename picks the decoder: .xlsx via excelize, legacy
// .xls via xlsReader, .csv through encoding promotion. Only the first
// sheet of a workbook is read; bank exports are single-sheet.
func Grid(r io.Reader, filename string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return xlsxGrid(r)
	case ".xls":
		return xlsGrid(r)
	case ".csv":
		return csvGrid(r)
	default:
		return nil, fmt.Errorf("unsupported file format: %s", filename)
	}
}

func xlsxGrid(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading xlsx rows: %w", err)
	}

	return rows, nil
}

func xlsGrid(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading xls: %w", err)
	}

	workbook, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		// Some systems hand out xlsx files with a .xls name.
		if _, errX := excelize.OpenReader(bytes.NewReader(data)); errX == nil {
			return xlsxGrid(bytes.NewReader(data))
		}

		return nil, fmt.Errorf("opening xls: %w", err)
	}

	sheets := workbook.GetSheets()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xls has no sheets")
	}

	var grid [][]string

	for _, row := range sheets[0].GetRows() {
		var cells []string
		for _, cell := range row.GetCols() {
			cells = append(cells, cell.GetString())
		}

		grid = append(grid, cells)
	}

	return grid, nil
}

func csvGrid(r io.Reader) ([][]string, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}

	return rows, nil
}
