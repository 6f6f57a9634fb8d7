// Package indicator defines the threat-indicator data model shared by the
// upload pipeline, file preparation commands, and CSV ingestion.
//
// An indicator row carries one observable (hash, IP, domain, path, or
// filename) plus its metadata fields. The package owns the canonical value
// sets for type, severity, reputation, and reliability, the normalization
// rules that map user input onto those sets, and the wire encodings (CSV
// request data and JSON object lists) accepted by the backend ingestion API.
package indicator

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Indicator types accepted by the backend. TypePath is accepted by the CSV
// endpoint only; the JSON endpoint rejects it.
const (
	TypeHash     = "HASH"
	TypeIP       = "IP"
	TypePath     = "PATH"
	TypeDomain   = "DOMAIN_NAME"
	TypeFilename = "FILENAME"
)

// ExpirationNever is the sentinel the CSV endpoint accepts for indicators
// that never expire. The JSON endpoint expresses the same thing by omitting
// the field entirely.
const ExpirationNever = "Never"

// ValidTypes is the canonical set of indicator types for CSV mode.
var ValidTypes = map[string]bool{
	TypeHash:     true,
	TypeIP:       true,
	TypePath:     true,
	TypeDomain:   true,
	TypeFilename: true,
}

// ValidJSONTypes is the subset of indicator types the JSON endpoint accepts.
var ValidJSONTypes = map[string]bool{
	TypeHash:     true,
	TypeIP:       true,
	TypeDomain:   true,
	TypeFilename: true,
}

// ValidSeverities is the canonical set of severity values.
var ValidSeverities = map[string]bool{
	"INFO":     true,
	"LOW":      true,
	"MEDIUM":   true,
	"HIGH":     true,
	"CRITICAL": true,
}

// ValidReputations is the canonical set of reputation values.
var ValidReputations = map[string]bool{
	"GOOD":       true,
	"BAD":        true,
	"SUSPICIOUS": true,
	"UNKNOWN":    true,
}

// ValidReliabilities is the canonical set of source reliability grades.
var ValidReliabilities = map[string]bool{
	"A": true, "B": true, "C": true, "D": true, "E": true, "F": true, "G": true,
}

// Row is one threat-indicator record. Optional fields use the empty string
// for "unset"; Expiration holds a normalized value ("", "Never", or a decimal
// epoch-milliseconds string).
type Row struct {
	Indicator   string
	Type        string
	Severity    string
	Reputation  string
	Expiration  string
	Comment     string
	Reliability string
}

// NormalizeType uppercases and validates an indicator type value.
func NormalizeType(value string) (string, error) {
	upper := strings.ToUpper(strings.TrimSpace(value))
	if !ValidTypes[upper] {
		return "", fmt.Errorf("invalid type: %s", value)
	}
	return upper, nil
}

// NormalizeSeverity uppercases and validates a severity value. Accepts the
// INFORMATIONAL alias for INFO seen in common feed exports.
func NormalizeSeverity(value string) (string, error) {
	upper := strings.ToUpper(strings.TrimSpace(value))
	if upper == "INFORMATIONAL" {
		upper = "INFO"
	}
	if !ValidSeverities[upper] {
		return "", fmt.Errorf("severity must be one of: %s", joinSorted(ValidSeverities))
	}
	return upper, nil
}

// NormalizeReputation uppercases and validates a reputation value. Empty input
// and the aliases "no reputation", "none", "unset", and "clear" normalize to
// the empty string, meaning the field is cleared.
func NormalizeReputation(value string) (string, error) {
	text := strings.TrimSpace(value)
	if text == "" {
		return "", nil
	}
	switch strings.ToLower(text) {
	case "no reputation", "none", "unset", "clear":
		return "", nil
	}
	upper := strings.ToUpper(text)
	if !ValidReputations[upper] {
		return "", fmt.Errorf("reputation must be one of: %s, or 'no reputation'", joinSorted(ValidReputations))
	}
	return upper, nil
}

// NormalizeReliability uppercases and validates a reliability grade. Empty
// input normalizes to the empty string, meaning the field is cleared.
func NormalizeReliability(value string) (string, error) {
	text := strings.TrimSpace(value)
	if text == "" {
		return "", nil
	}
	upper := strings.ToUpper(text)
	if !ValidReliabilities[upper] {
		return "", fmt.Errorf("reliability must be one of: %s", joinSorted(ValidReliabilities))
	}
	return upper, nil
}

// NormalizeExpiration converts an expiration value into the canonical form:
// "" (unset), "Never", or a decimal epoch-milliseconds string. Accepts epoch
// milliseconds, epoch seconds (scaled up), ISO-8601 timestamps, and the
// literal "never" in any case.
func NormalizeExpiration(value string) (string, error) {
	text := strings.TrimSpace(value)
	if text == "" {
		return "", nil
	}
	if strings.EqualFold(text, ExpirationNever) {
		return ExpirationNever, nil
	}

	if isDigits(text) {
		num, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return "", fmt.Errorf("invalid expiration_date: %s", text)
		}
		// Values above ten billion are already milliseconds; smaller values
		// are whole seconds.
		if num <= 10_000_000_000 {
			num *= 1000
		}
		return strconv.FormatInt(num, 10), nil
	}

	// ISO-8601 to epoch ms
	iso := strings.Replace(text, "Z", "+00:00", 1)
	for _, layout := range []string{"2006-01-02T15:04:05-07:00", "2006-01-02T15:04:05.999999999-07:00", "2006-01-02"} {
		if ts, err := time.Parse(layout, iso); err == nil {
			return strconv.FormatInt(ts.UnixMilli(), 10), nil
		}
	}

	return "", fmt.Errorf("invalid expiration_date; use epoch ms, ISO-8601, or 'Never'")
}

// Normalize validates and canonicalizes every field of a row in place.
// Indicator, type, and severity are required; the remaining fields may be
// empty. Returns the first problem found.
func (r *Row) Normalize() error {
	r.Indicator = strings.TrimSpace(r.Indicator)
	if r.Indicator == "" {
		return fmt.Errorf("indicator cannot be empty")
	}

	typ, err := NormalizeType(r.Type)
	if err != nil {
		return err
	}
	r.Type = typ

	sev, err := NormalizeSeverity(r.Severity)
	if err != nil {
		return err
	}
	r.Severity = sev

	rep, err := NormalizeReputation(r.Reputation)
	if err != nil {
		return err
	}
	r.Reputation = rep

	exp, err := NormalizeExpiration(r.Expiration)
	if err != nil {
		return err
	}
	r.Expiration = exp

	rel, err := NormalizeReliability(r.Reliability)
	if err != nil {
		return err
	}
	r.Reliability = rel

	return nil
}

// isDigits reports whether s is a non-empty run of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}

// joinSorted renders a value set as a stable comma-separated list for error
// messages.
func joinSorted(set map[string]bool) string {
	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	sort.Strings(values)
	return strings.Join(values, ", ")
}
