// Package fileio turns uploaded nursery datasets (CSV, XLSX, legacy XLS,
// JSON) into ordered rows of header-keyed string maps.
package fileio

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ReadAnyMaps picks a parser by file extension and returns the rows as a
// slice of map[header]value. headerRow is 1-based.
func ReadAnyMaps(r io.Reader, filename string, headerRow int) ([]map[string]string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xlsx":
		return readXLSX(r, headerRow)
	case ".xls":
		return readXLS(r, headerRow)
	case ".csv":
		return readCSV(r, headerRow)
	case ".json":
		return readJSON(r)
	default:
		return nil, fmt.Errorf("unsupported file: %s", filename)
	}
}

// pickHeader selects the header row and substitutes "Kolumn N" for empty
// cells.
func pickHeader(rows [][]string, headerRow int) []string {
	idx := headerRow - 1
	if idx < 0 || idx >= len(rows) {
		idx = 0
	}
	h := rows[idx]
	out := make([]string, len(h))
	for i, v := range h {
		v = strings.TrimSpace(v)
		if v == "" {
			v = fmt.Sprintf("Kolumn %d", i+1)
		}
		out[i] = v
	}
	return out
}

// rowsToMaps converts row arrays into header-keyed maps, dropping fully
// empty rows.
func rowsToMaps(rows [][]string, headers []string, headerRow int) []map[string]string {
	start := headerRow // first row after the headers
	var out []map[string]string
	for r := start; r < len(rows); r++ {
		rec := rows[r]
		m := map[string]string{}
		empty := true
		for c := 0; c < len(headers); c++ {
			var v string
			if c < len(rec) {
				v = rec[c]
			}
			m[headers[c]] = v
			if strings.TrimSpace(v) != "" {
				empty = false
			}
		}
		if !empty {
			out = append(out, m)
		}
	}
	return out
}

// normalizeCell collapses whitespace in a raw spreadsheet cell.
func normalizeCell(v string) string {
	return strings.Join(strings.Fields(v), " ")
}
