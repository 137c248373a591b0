// Package source reads tabular transaction data from local files or
// GCS objects. It produces a Table of raw string cells; all typing,
// cleaning and normalization happens downstream in the dataset package.
package source

import "strings"

// Table is a raw tabular source: one header row plus data rows of
// string cells. Rows are padded to the header width so column indexes
// are always valid.
type Table struct {
	Headers []string
	Rows    [][]string
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// ColumnIndex returns the index of the named header, or -1.
// Header comparison trims surrounding whitespace.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Headers {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

// Cell returns the cell at (row, col), or "" when out of range.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// padRows extends every row to the header width.
func padRows(headers []string, rows [][]string) [][]string {
	for i, row := range rows {
		for len(row) < len(headers) {
			row = append(row, "")
		}
		rows[i] = row
	}
	return rows
}
