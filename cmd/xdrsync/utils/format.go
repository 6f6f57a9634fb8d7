// Package utils provides utility functions for the xdrsync CLI.
// This file contains formatting and flag parsing helpers.
package utils

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
)

// ParseTenantList splits a comma-separated --tenants value into trimmed
// names. An empty value returns nil, which selects every configured tenant.
func ParseTenantList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// FormatCount renders a row count with thousands separators.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// FormatCountMap renders a string-to-int map as stable "key=value" pairs,
// or "-" when empty. Used for summary tables.
func FormatCountMap(m map[string]int) string {
	if len(m) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, m[k])
	}
	return strings.Join(parts, ", ")
}

// Truncate shortens a string to max runes with an ellipsis. Used to keep
// error messages from blowing up table layouts.
func Truncate(s string, max int) string {
	if max <= 3 || len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
