package csvio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ridgeline-sec/xdrsync/internal/indicator"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestDetectEncoding(t *testing.T) {
	utf16le := []byte{0xFF, 0xFE}
	for _, ch := range "indicator" {
		utf16le = append(utf16le, byte(ch), 0x00)
	}
	utf16be := []byte{0xFE, 0xFF}
	for _, ch := range "indicator" {
		utf16be = append(utf16be, 0x00, byte(ch))
	}

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"plain ascii", []byte("indicator,type"), EncodingUTF8},
		{"utf-8 multibyte", []byte("caf\xc3\xa9"), EncodingUTF8},
		{"utf-8 bom", []byte("\xEF\xBB\xBFindicator"), EncodingUTF8BOM},
		{"utf-16 little endian", utf16le, EncodingUTF16LE},
		{"utf-16 big endian", utf16be, EncodingUTF16BE},
		{"legacy bytes", []byte("caf\xe9"), EncodingWindows1252},
	}

	for _, tt := range tests {
		if got, _ := DetectEncoding(tt.data); got != tt.want {
			t.Errorf("%s: DetectEncoding() = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestDecodeFileWindows1252(t *testing.T) {
	// 0xE9 is é in windows-1252 and invalid standalone UTF-8.
	text, name, err := DecodeFile([]byte("r\xe9sum\xe9.doc"))
	if err != nil {
		t.Fatalf("DecodeFile() = %v", err)
	}
	if name != EncodingWindows1252 {
		t.Fatalf("detected %s, want %s", name, EncodingWindows1252)
	}
	if text != "résumé.doc" {
		t.Fatalf("DecodeFile() = %q, want résumé.doc", text)
	}
}

func TestDecodeFileStripsUTF8BOM(t *testing.T) {
	text, name, err := DecodeFile([]byte("\xEF\xBB\xBFindicator"))
	if err != nil {
		t.Fatalf("DecodeFile() = %v", err)
	}
	if name != EncodingUTF8BOM || text != "indicator" {
		t.Fatalf("DecodeFile() = (%q, %s), want BOM stripped", text, name)
	}
}

func TestLoadRows(t *testing.T) {
	path := writeFile(t, "iocs.csv", []byte(
		"indicator,type,severity,reputation,expiration_date,comment\n"+
			"192.0.2.1,ip,low,,never,\n"+
			",,,,,\n"+ // blank export artifact, skipped
			"evil.example.com,domain_name,high,bad,1700000000,c2\n"))

	rows, encoding, err := LoadRows(path)
	if err != nil {
		t.Fatalf("LoadRows() = %v", err)
	}
	if encoding != EncodingUTF8 {
		t.Fatalf("encoding = %s, want %s", encoding, EncodingUTF8)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows with the blank one skipped, got %d", len(rows))
	}
	if rows[0].Type != indicator.TypeIP || rows[0].Severity != "LOW" || rows[0].Expiration != indicator.ExpirationNever {
		t.Fatalf("row not normalized: %+v", rows[0])
	}
	// Epoch seconds scale to milliseconds during normalization.
	if rows[1].Expiration != "1700000000000" {
		t.Fatalf("expiration = %s, want 1700000000000", rows[1].Expiration)
	}
}

func TestLoadRowsHeaderValidation(t *testing.T) {
	missing := writeFile(t, "missing.csv", []byte("indicator,severity\n1.2.3.4,LOW\n"))
	if _, _, err := LoadRows(missing); err == nil || !strings.Contains(err.Error(), "missing required columns: type") {
		t.Fatalf("expected missing column error, got %v", err)
	}

	unexpected := writeFile(t, "extra.csv", []byte("indicator,type,severity,notes\n1.2.3.4,IP,LOW,x\n"))
	if _, _, err := LoadRows(unexpected); err == nil || !strings.Contains(err.Error(), "unexpected columns: notes") {
		t.Fatalf("expected unexpected column error, got %v", err)
	}

	empty := writeFile(t, "empty.csv", nil)
	if _, _, err := LoadRows(empty); err == nil || !strings.Contains(err.Error(), "empty") {
		t.Fatalf("expected empty file error, got %v", err)
	}
}

func TestLoadRowsReportsLineNumbers(t *testing.T) {
	path := writeFile(t, "bad.csv", []byte(
		"indicator,type,severity\n"+
			"192.0.2.1,IP,LOW\n"+
			"evil.example.com,DOMAIN_NAME,urgent\n"))

	_, _, err := LoadRows(path)
	if err == nil || !strings.Contains(err.Error(), "row 3") {
		t.Fatalf("expected the failing line number in the error, got %v", err)
	}
}

func TestLoadRowsLenientTypes(t *testing.T) {
	path := writeFile(t, "untypes.csv", []byte(
		"indicator,type,severity\n"+
			"192.0.2.1,,low\n"+
			"deadbeef.dll,bogus,medium\n"+
			"evil.example.com,domain_name,high\n"))

	rows, originalTypes, _, err := LoadRowsLenientTypes(path)
	if err != nil {
		t.Fatalf("LoadRowsLenientTypes() = %v", err)
	}
	if len(rows) != 3 || len(originalTypes) != 3 {
		t.Fatalf("expected 3 rows and raw types, got %d/%d", len(rows), len(originalTypes))
	}

	// Empty and invalid types get the placeholder; valid ones normalize.
	if rows[0].Type != indicator.TypeFilename || originalTypes[0] != "" {
		t.Fatalf("empty type not tolerated: %+v raw=%q", rows[0], originalTypes[0])
	}
	if rows[1].Type != indicator.TypeFilename || originalTypes[1] != "bogus" {
		t.Fatalf("invalid type not tolerated: %+v raw=%q", rows[1], originalTypes[1])
	}
	if rows[2].Type != indicator.TypeDomain {
		t.Fatalf("valid type must normalize: %+v", rows[2])
	}

	// Strict loading still rejects the same file.
	if _, _, err := LoadRows(path); err == nil {
		t.Fatal("LoadRows must reject rows with missing types")
	}
}
