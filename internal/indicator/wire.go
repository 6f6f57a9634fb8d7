// Wire encodings for the backend ingestion API. The CSV endpoint takes the
// whole dataset as one CSV-formatted string in request_data; the JSON endpoint
// takes a list of objects. Both encodings preserve row order.

package indicator

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

// CSVColumns is the canonical column order for CSV request data and for CSV
// files written back by the file preparation commands.
var CSVColumns = []string{"indicator", "type", "severity", "reputation", "expiration_date", "comment", "reliability"}

// BuildCSVRequestData serializes rows into the CSV payload string for the
// csv ingestion endpoint: canonical header followed by one line per row,
// optional fields rendered as empty cells.
func BuildCSVRequestData(rows []Row) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(CSVColumns); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.Indicator,
			row.Type,
			row.Severity,
			row.Reputation,
			row.Expiration,
			row.Comment,
			row.Reliability,
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV data: %w", err)
	}
	return buf.String(), nil
}

// BuildJSONObjects converts rows into the object list for the json ingestion
// endpoint. PATH indicators are rejected (CSV-only type), "Never" expirations
// are expressed by omitting the field, and unset optional fields are omitted
// so the backend applies its own defaults.
func BuildJSONObjects(rows []Row) ([]map[string]any, error) {
	objects := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		if row.Type == TypePath {
			return nil, fmt.Errorf("type PATH is not supported in JSON mode; use CSV mode")
		}
		if !ValidJSONTypes[row.Type] {
			return nil, fmt.Errorf("unsupported JSON type: %s", row.Type)
		}

		obj := map[string]any{
			"indicator": row.Indicator,
			"type":      row.Type,
			"severity":  row.Severity,
		}
		if row.Reputation != "" {
			obj["reputation"] = row.Reputation
		}
		if row.Expiration != "" && row.Expiration != ExpirationNever {
			ms, err := strconv.ParseInt(row.Expiration, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid expiration_date %q for indicator %s", row.Expiration, row.Indicator)
			}
			obj["expiration_date"] = ms
		}
		if row.Comment != "" {
			obj["comment"] = row.Comment
		}
		if row.Reliability != "" {
			obj["reliability"] = row.Reliability
		}
		objects = append(objects, obj)
	}
	return objects, nil
}
