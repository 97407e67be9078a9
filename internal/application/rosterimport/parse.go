package rosterimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/examdesk/examdesk-core/internal/domain/roster"
)

// ══════════════════════════════════════════════════════════════════════════════
// SPREADSHEET PARSING
// Both readers are deliberately lenient: ragged rows and stray cells
// pass through untouched, because the structural filter downstream is
// the single place that decides what a usable row is.
// ══════════════════════════════════════════════════════════════════════════════

// ParseFile picks a reader by file extension. ".xlsx" goes through the
// workbook reader, everything else is treated as CSV.
func ParseFile(path string, r io.Reader) ([]roster.Row, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ParseXLSX(r)
	}
	return ParseCSV(r)
}

// ParseXLSX reads the first sheet of a workbook into raw rows.
func ParseXLSX(r io.Reader) ([]roster.Row, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("rosterimport: open workbook: %w", err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("rosterimport: workbook has no sheets")
	}

	raw, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("rosterimport: read sheet %q: %w", sheets[0], err)
	}

	rows := make([]roster.Row, 0, len(raw))
	for _, cells := range raw {
		rows = append(rows, roster.Row(cells))
	}
	return rows, nil
}

// ParseCSV reads comma-separated rows without enforcing a column count.
func ParseCSV(r io.Reader) ([]roster.Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows []roster.Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("rosterimport: read csv: %w", err)
		}
		rows = append(rows, roster.Row(record))
	}
}
