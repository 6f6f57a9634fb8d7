package fileops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/ridgeline-sec/xdrsync/internal/indicator"
)

// CreateBackup copies path to a sibling .bak file before an in-place edit.
// Existing backups are never overwritten; collisions append a counter
// (.bak, .bak1, .bak2, ...).
func CreateBackup(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s for backup: %w", path, err)
	}

	candidate := path + ".bak"
	for idx := 1; ; idx++ {
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			break
		}
		candidate = fmt.Sprintf("%s.bak%d", path, idx)
	}

	if err := os.WriteFile(candidate, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write backup %s: %w", candidate, err)
	}
	return candidate, nil
}

// WriteRows writes rows to output in canonical column order, using the
// encoding the source file was read with so round-tripping a windows-1252
// file does not silently re-encode it. Unknown encoding names write UTF-8.
func WriteRows(rows []indicator.Row, output string, encodingName string) error {
	data, err := indicator.BuildCSVRequestData(rows)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	payload := []byte(data)
	if strings.EqualFold(encodingName, "windows-1252") {
		encoded, _, err := transform.Bytes(charmap.Windows1252.NewEncoder(), payload)
		if err != nil {
			return fmt.Errorf("failed to encode output as windows-1252: %w", err)
		}
		payload = encoded
	}

	if err := os.WriteFile(output, payload, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	return nil
}

// DefaultOutputPath derives the output path for a file operation when none
// was given: the input name with the operation slug appended before the
// extension, e.g. iocs.csv -> iocs-classify.csv.
func DefaultOutputPath(input, slug string) string {
	ext := filepath.Ext(input)
	if ext == "" {
		ext = ".csv"
	}
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(filepath.Dir(input), fmt.Sprintf("%s-%s%s", stem, slug, ext))
}
