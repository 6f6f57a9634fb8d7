// Package csvio loads indicator rows from CSV files for the upload pipeline
// and the file preparation commands.
//
// Feed exports arrive in whatever encoding the producing tool used, so the
// loader sniffs byte-order marks, verifies UTF-8, and falls back to
// windows-1252 for legacy exports before parsing. Header validation and
// row-numbered errors keep malformed files out of the upload pipeline with
// messages an operator can act on.
package csvio

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding names reported by DetectEncoding.
const (
	EncodingUTF8        = "utf-8"
	EncodingUTF8BOM     = "utf-8-sig"
	EncodingUTF16LE     = "utf-16le"
	EncodingUTF16BE     = "utf-16be"
	EncodingWindows1252 = "windows-1252"
)

// DetectEncoding inspects raw file content and returns the encoding name plus
// a decoder for it. Detection order: byte-order marks first, then a UTF-8
// validity check, then windows-1252 as the legacy fallback (every byte
// sequence decodes under it, so it never fails, only mangles, which matches
// how spreadsheet tools treat such files).
func DetectEncoding(data []byte) (string, encoding.Encoding) {
	switch {
	case bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}):
		return EncodingUTF8BOM, unicode.UTF8BOM
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}):
		return EncodingUTF16LE, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		return EncodingUTF16BE, unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	}

	if utf8.Valid(data) {
		return EncodingUTF8, unicode.UTF8
	}

	return EncodingWindows1252, charmap.Windows1252
}

// DecodeFile converts raw file content to UTF-8 text using the detected
// encoding. Returns the decoded text and the encoding name for reporting.
func DecodeFile(data []byte) (string, string, error) {
	name, enc := DetectEncoding(data)
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", name, fmt.Errorf("could not decode file with detected encoding %q: %w", name, err)
	}
	return string(decoded), name, nil
}
