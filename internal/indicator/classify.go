// Indicator type inference for the file preparation commands. The heuristics
// run in confidence order: hash shapes and IP addresses are unambiguous, path
// separators beat domain checks, and a bare dotted token falls through to
// FILENAME.

package indicator

import (
	"net"
	"regexp"
	"strings"
)

// hashLengths are the hex-digest lengths recognized as hashes (MD5, SHA-1, SHA-256).
var hashLengths = map[int]bool{32: true, 40: true, 64: true}

var (
	windowsDriveRegex = regexp.MustCompile(`^[a-zA-Z]:[\\/]`)
	domainLabelRegex  = regexp.MustCompile(`^[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?$`)
)

// Classify infers the indicator type for a raw observable value. The second
// return value reports whether the match was confident; unrecognized values
// fall back to FILENAME without confidence so callers can skip them unless
// forced.
func Classify(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return TypeFilename, false
	}

	if looksLikeHash(value) {
		return TypeHash, true
	}
	if looksLikeIP(value) {
		return TypeIP, true
	}
	if looksLikePath(value) {
		return TypePath, true
	}
	if looksLikeDomain(value) {
		return TypeDomain, true
	}
	if looksLikeFilename(value) {
		return TypeFilename, true
	}

	return TypeFilename, false
}

func looksLikeHash(value string) bool {
	compact := strings.ReplaceAll(value, " ", "")
	if !hashLengths[len(compact)] {
		return false
	}
	for _, ch := range compact {
		if !isHexDigit(ch) {
			return false
		}
	}
	return true
}

func looksLikeIP(value string) bool {
	return net.ParseIP(value) != nil
}

func looksLikePath(value string) bool {
	if windowsDriveRegex.MatchString(value) {
		return true
	}
	if strings.HasPrefix(value, `\\`) || strings.HasPrefix(value, "//") {
		return true
	}
	if strings.HasPrefix(value, "~/") || strings.HasPrefix(value, `~\`) {
		return true
	}
	return strings.ContainsAny(value, `/\`)
}

func looksLikeDomain(value string) bool {
	if strings.ContainsAny(value, `/\ `) {
		return false
	}

	candidate := strings.TrimRight(value, ".")
	if len(candidate) > 253 || !strings.Contains(candidate, ".") {
		return false
	}

	labels := strings.Split(candidate, ".")
	// An all-numeric TLD means a dotted number, not a domain.
	if isDigits(labels[len(labels)-1]) {
		return false
	}
	for _, label := range labels {
		if !domainLabelRegex.MatchString(label) {
			return false
		}
	}
	return true
}

func looksLikeFilename(value string) bool {
	if strings.ContainsAny(value, `/\`) {
		return false
	}
	if value == "." || value == ".." {
		return false
	}
	return strings.Contains(value, ".")
}

func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}
