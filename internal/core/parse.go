package core

// parse.go decodes a raw CSV payload into the {valid records, row errors}
// partition that the orchestrator consumes.
//
// Batch-level preconditions (undecodable payload, no data rows, missing
// required columns) abort the whole batch before any row-level work: without
// them, no row-level semantics are meaningful. Everything after that is
// per-row and never aborts the batch.

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ParseBatch decodes raw bytes into a rectangular table, checks the
// batch-level preconditions, and validates every data row in input order.
// The returned partition is exhaustive: len(Records)+len(RowErrors) equals
// TotalRows, and RowErrors keep row-ordinal order.
func ParseBatch(data []byte) (*ParseResult, error) {
	data = stripBOM(data)
	data = sanitizeUTF8(data)

	rows, err := readCSV(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
	}

	if len(rows) < 2 {
		return nil, ErrEmptyBatch
	}

	header := rows[0]
	headerIdx := MakeHeaderIndex(header)

	var missing []string
	for _, spec := range InvoiceFields {
		if _, ok := headerIdx[strings.ToLower(spec.Name)]; !ok {
			missing = append(missing, spec.Name)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	result := &ParseResult{}

	for i, row := range rows[1:] {
		// Spreadsheet-editor numbering: header is row 1, first data row is 2.
		ordinal := i + 2

		if isEmptyRow(row) {
			continue
		}
		result.TotalRows++

		raw := RawRow{Ordinal: ordinal, Cells: make(map[string]string, len(InvoiceFields))}
		for _, spec := range InvoiceFields {
			pos := headerIdx[strings.ToLower(spec.Name)]
			if pos < len(row) {
				raw.Cells[spec.Name] = CleanCell(row[pos])
			}
		}

		rec, rowErr := ValidateRow(raw)
		if rowErr != nil {
			result.RowErrors = append(result.RowErrors, *rowErr)
			continue
		}
		result.Records = append(result.Records, rec)
	}

	if result.TotalRows == 0 {
		return nil, ErrEmptyBatch
	}

	return result, nil
}

// readCSV parses the payload into rows. Ragged rows are tolerated here
// (short rows surface as per-field validation errors instead), but
// malformed quoting is a decode failure: it maps to the batch-level
// undecodable-payload error.
func readCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

// stripBOM removes a leading UTF-8 byte order mark. Exports from Windows
// spreadsheet tools commonly carry one, and it would otherwise corrupt the
// first header cell.
func stripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
}

// sanitizeUTF8 replaces invalid byte sequences with the Unicode
// replacement character so downstream string handling is safe.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
