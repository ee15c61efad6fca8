// Package survey reads survey exports from local files and published spreadsheets.
package survey

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"gymbooking/internal/domain"
)

// Format of a survey export.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// decodeTable parses r. A UTF-8 or UTF-16 byte order mark, as written by
// spreadsheet exports, is honored and stripped.
func decodeTable(r io.Reader, format Format) (*domain.SurveyTable, error) {
	r = transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	switch format {
	case FormatJSON:
		return decodeJSON(r)
	default:
		return decodeCSV(r)
	}
}

func decodeCSV(r io.Reader) (*domain.SurveyTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	headers, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty csv")
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	table := &domain.SurveyTable{Headers: headers}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		table.Rows = append(table.Rows, rec)
	}
	return table, nil
}

// decodeJSON reads an array of flat objects. Headers are the union of keys, sorted.
func decodeJSON(r io.Reader) (*domain.SurveyTable, error) {
	var records []map[string]any
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}

	seen := make(map[string]bool)
	var headers []string
	for _, rec := range records {
		for k := range rec {
			if !seen[k] {
				seen[k] = true
				headers = append(headers, k)
			}
		}
	}
	sort.Strings(headers)

	table := &domain.SurveyTable{Headers: headers, Rows: make([][]string, 0, len(records))}
	for _, rec := range records {
		row := make([]string, len(headers))
		for i, h := range headers {
			if v, ok := rec[h]; ok && v != nil {
				row[i] = strings.TrimSpace(fmt.Sprint(v))
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
