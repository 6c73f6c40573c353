// Package ingest parses ad-hoc tabular files (CSV, TSV, JSON, plain text)
// into the same tabular shape the query executor produces, so the display
// layer treats uploads and query results identically.
package ingest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/askdb/askdb/internal/datasource"
	"github.com/askdb/askdb/internal/errors"
)

// Format identifies a supported tabular file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// DetectFormat picks a format from the file extension, falling back to
// content sniffing when the extension is unknown.
func DetectFormat(path string, sample []byte) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".tsv":
		return FormatTSV
	case ".json":
		return FormatJSON
	case ".txt", ".log":
		return FormatText
	}

	trimmed := bytes.TrimSpace(sample)
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return FormatJSON
	}

	firstLine := trimmed
	if idx := bytes.IndexByte(trimmed, '\n'); idx >= 0 {
		firstLine = trimmed[:idx]
	}

	if bytes.ContainsRune(firstLine, '\t') {
		return FormatTSV
	}

	if bytes.ContainsRune(firstLine, ',') {
		return FormatCSV
	}

	return FormatText
}

// ParseFile reads and parses a tabular file, detecting its format.
func ParseFile(path string) (*datasource.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTypeParse, "failed to read file %s", path)
	}

	return Parse(bytes.NewReader(data), DetectFormat(path, data))
}

// Parse parses tabular content in the given format.
func Parse(r io.Reader, format Format) (*datasource.Result, error) {
	switch format {
	case FormatCSV:
		return parseDelimited(r, ',')
	case FormatTSV:
		return parseDelimited(r, '\t')
	case FormatJSON:
		return parseJSON(r)
	case FormatText:
		return parseText(r)
	default:
		return nil, errors.Newf(errors.ErrTypeParse, "unsupported format: %s", format)
	}
}

// parseDelimited treats the first record as the header row.
func parseDelimited(r io.Reader, comma rune) (*datasource.Result, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeParse, "failed to parse delimited content")
	}

	if len(records) == 0 {
		return nil, errors.New(errors.ErrTypeParse, "file contains no rows")
	}

	result := &datasource.Result{Columns: records[0]}

	for _, record := range records[1:] {
		row := make([]string, len(result.Columns))

		for i := range result.Columns {
			if i < len(record) {
				row[i] = record[i]
			}
		}

		result.Rows = append(result.Rows, row)
	}

	return result, nil
}

// parseJSON accepts an array of flat objects. Columns are the sorted union
// of keys across all objects; missing keys render as NULL.
func parseJSON(r io.Reader) (*datasource.Result, error) {
	var objects []map[string]interface{}

	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&objects); err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeParse, "failed to parse JSON content (expected an array of objects)")
	}

	if len(objects) == 0 {
		return nil, errors.New(errors.ErrTypeParse, "file contains no rows")
	}

	columnSet := make(map[string]bool)
	for _, obj := range objects {
		for key := range obj {
			columnSet[key] = true
		}
	}

	columns := make([]string, 0, len(columnSet))
	for key := range columnSet {
		columns = append(columns, key)
	}

	sort.Strings(columns)

	result := &datasource.Result{Columns: columns}

	for _, obj := range objects {
		row := make([]string, len(columns))

		for i, col := range columns {
			value, ok := obj[col]
			if !ok || value == nil {
				row[i] = "NULL"
				continue
			}

			row[i] = renderJSONValue(value)
		}

		result.Rows = append(result.Rows, row)
	}

	return result, nil
}

// renderJSONValue converts a decoded JSON value to display text. Numbers
// decoded as float64 keep their shortest lossless representation.
func renderJSONValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		return fmt.Sprintf("%t", val)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}

		return string(data)
	}
}

// parseText renders each line as a single-column row.
func parseText(r io.Reader) (*datasource.Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeParse, "failed to read text content")
	}

	result := &datasource.Result{Columns: []string{"line"}}

	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		result.Rows = append(result.Rows, []string{line})
	}

	return result, nil
}
