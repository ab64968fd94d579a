// Package backfill converts historical CSV log files into the flattened
// record shape the remote store expects and slices them into upload batches.
package backfill

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadRows reads a CSV log file into records ready for upload. Presence-flag
// columns are stripped, the timestamp stays a string, empty numerics become
// null, and rows with a non-numeric value in a numeric column are skipped.
// The second return value is the number of skipped rows.
func LoadRows(path string) ([]map[string]any, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("reading header: %w", err)
	}

	var rows []map[string]any
	skipped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil || len(record) != len(header) {
			skipped++
			continue
		}
		row, ok := convertRow(header, record)
		if !ok {
			skipped++
			continue
		}
		rows = append(rows, row)
	}
	return rows, skipped, nil
}

func convertRow(header, record []string) (map[string]any, bool) {
	row := make(map[string]any, len(header))
	for i, key := range header {
		value := record[i]
		switch {
		case key == "":
			continue // blank header cell
		case strings.HasSuffix(key, "_present"):
			continue
		case key == "timestamp":
			row[key] = value
		case key == "co2_source" || key == "errors" || strings.HasSuffix(key, "_error"):
			if value != "" {
				row[key] = value
			}
		case strings.TrimSpace(value) == "":
			row[key] = nil
		default:
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, false
			}
			row[key] = f
		}
	}
	if len(row) == 0 {
		return nil, false
	}
	return row, true
}

// Batches slices rows into consecutive batches of at most size records,
// preserving order. Every row appears in exactly one batch.
func Batches(rows []map[string]any, size int) [][]map[string]any {
	if size <= 0 || len(rows) == 0 {
		return nil
	}
	var out [][]map[string]any
	for start := 0; start < len(rows); start += size {
		end := start + size
		if end > len(rows) {
			end = len(rows)
		}
		out = append(out, rows[start:end])
	}
	return out
}

// Timestamp returns a record's timestamp string, for progress reporting.
func Timestamp(row map[string]any) string {
	if ts, ok := row["timestamp"].(string); ok {
		return ts
	}
	return "N/A"
}
