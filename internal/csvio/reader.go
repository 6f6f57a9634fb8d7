package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ridgeline-sec/xdrsync/internal/indicator"
)

// RequiredColumns must be present in every input file.
var RequiredColumns = []string{"indicator", "type", "severity"}

// OptionalColumns may be present; anything else is rejected.
var OptionalColumns = []string{"reputation", "expiration_date", "comment", "reliability"}

// LoadRows reads an indicator CSV file, validates its header, and returns
// normalized rows plus the detected file encoding. Rows whose required cells
// are all empty are skipped; a row with some required cells missing is an
// error with its file line number.
func LoadRows(path string) ([]indicator.Row, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	text, encodingName, err := DecodeFile(data)
	if err != nil {
		return nil, encodingName, err
	}

	rows, err := parseRows(text)
	if err != nil {
		return nil, encodingName, err
	}
	return rows, encodingName, nil
}

// LoadRowsLenientTypes reads an indicator CSV file but tolerates empty or
// invalid type cells, substituting FILENAME as a placeholder so the classify
// command can fill types in. Returns the rows, the original raw type cell for
// each row, and the detected encoding.
func LoadRowsLenientTypes(path string) ([]indicator.Row, []string, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	text, encodingName, err := DecodeFile(data)
	if err != nil {
		return nil, nil, encodingName, err
	}

	rows, originalTypes, err := parseRowsLenient(text)
	if err != nil {
		return nil, nil, encodingName, err
	}
	return rows, originalTypes, encodingName, nil
}

// header describes the validated column layout of one file.
type header struct {
	index map[string]int
}

// parseHeader validates the first record against the required and optional
// column sets and returns a lookup from column name to position.
func parseHeader(record []string) (*header, error) {
	index := make(map[string]int, len(record))
	for i, name := range record {
		index[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	known := make(map[string]bool, len(RequiredColumns)+len(OptionalColumns))
	for _, col := range RequiredColumns {
		known[col] = true
	}
	for _, col := range OptionalColumns {
		known[col] = true
	}
	var unexpected []string
	for name := range index {
		if !known[name] {
			unexpected = append(unexpected, name)
		}
	}
	if len(unexpected) > 0 {
		return nil, fmt.Errorf("unexpected columns: %s", strings.Join(unexpected, ", "))
	}

	return &header{index: index}, nil
}

// cell returns the trimmed value of a named column in a record, or "" when
// the column is absent or the record is short.
func (h *header) cell(record []string, name string) string {
	i, ok := h.index[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// rawRow builds an un-normalized row from one CSV record.
func (h *header) rawRow(record []string) indicator.Row {
	return indicator.Row{
		Indicator:   h.cell(record, "indicator"),
		Type:        h.cell(record, "type"),
		Severity:    h.cell(record, "severity"),
		Reputation:  h.cell(record, "reputation"),
		Expiration:  h.cell(record, "expiration_date"),
		Comment:     h.cell(record, "comment"),
		Reliability: h.cell(record, "reliability"),
	}
}

// isBlank reports whether every required cell of a record is empty. Blank
// rows are common trailing artifacts from spreadsheet exports and are skipped
// rather than rejected.
func (h *header) isBlank(record []string) bool {
	for _, col := range RequiredColumns {
		if h.cell(record, col) != "" {
			return false
		}
	}
	return true
}

func parseRows(text string) ([]indicator.Row, error) {
	reader := newCSVReader(text)

	headerRecord, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	h, err := parseHeader(headerRecord)
	if err != nil {
		return nil, err
	}

	var rows []indicator.Row
	lineNum := 1 // header is line 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		lineNum++
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", lineNum, err)
		}
		if h.isBlank(record) {
			continue
		}

		row := h.rawRow(record)
		if err := checkRequired(h, record, lineNum); err != nil {
			return nil, err
		}
		if err := row.Normalize(); err != nil {
			return nil, fmt.Errorf("row %d: %w", lineNum, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRowsLenient(text string) ([]indicator.Row, []string, error) {
	reader := newCSVReader(text)

	headerRecord, err := reader.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("file is empty")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	h, err := parseHeader(headerRecord)
	if err != nil {
		return nil, nil, err
	}

	var rows []indicator.Row
	var originalTypes []string
	lineNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		lineNum++
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", lineNum, err)
		}
		if h.isBlank(record) {
			continue
		}

		// The type column is the one being repaired, so only indicator and
		// severity are enforced here.
		var missing []string
		for _, col := range RequiredColumns {
			if col == "type" {
				continue
			}
			if h.cell(record, col) == "" {
				missing = append(missing, col)
			}
		}
		if len(missing) > 0 {
			return nil, nil, fmt.Errorf("row %d: missing required values for columns: %s", lineNum, strings.Join(missing, ", "))
		}

		row := h.rawRow(record)
		originalType := row.Type
		normalizedType := strings.ToUpper(strings.TrimSpace(originalType))
		if !indicator.ValidTypes[normalizedType] {
			row.Type = indicator.TypeFilename // placeholder until classified
		}

		if err := row.Normalize(); err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", lineNum, err)
		}
		rows = append(rows, row)
		originalTypes = append(originalTypes, originalType)
	}
	return rows, originalTypes, nil
}

// checkRequired reports any empty required cells with the row's line number.
func checkRequired(h *header, record []string, lineNum int) error {
	var missing []string
	for _, col := range RequiredColumns {
		if h.cell(record, col) == "" {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("row %d: missing required values for columns: %s", lineNum, strings.Join(missing, ", "))
	}
	return nil
}

// newCSVReader builds a CSV reader tolerant of ragged records; cell access
// goes through header lookups so short records are safe.
func newCSVReader(text string) *csv.Reader {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	return reader
}
