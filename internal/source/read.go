package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"path"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Read fetches and parses a tabular source. The format is chosen by
// file extension: .xlsx (first sheet) or .csv. Any failure to fetch or
// parse the source as a whole is reported as a *LoadError.
func Read(ctx context.Context, uri string) (*Table, error) {
	data, err := ForURI(uri).Fetch(ctx, uri)
	if err != nil {
		return nil, &LoadError{Source: uri, Err: err}
	}

	table, err := Parse(uri, data)
	if err != nil {
		return nil, &LoadError{Source: uri, Err: err}
	}
	return table, nil
}

// Parse decodes raw source bytes into a Table. The name is only used
// to pick the decoder by extension.
func Parse(name string, data []byte) (*Table, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".xlsx":
		return parseXLSX(data)
	case ".csv":
		return parseCSV(data)
	default:
		return nil, fmt.Errorf("unsupported source format %q", path.Ext(name))
	}
}

func parseXLSX(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %q has no data rows", sheets[0])
	}

	return &Table{
		Headers: rows[0],
		Rows:    padRows(rows[0], rows[1:]),
	}, nil
}

func parseCSV(data []byte) (*Table, error) {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv read: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("csv has no data rows")
	}

	return &Table{
		Headers: records[0],
		Rows:    padRows(records[0], records[1:]),
	}, nil
}
