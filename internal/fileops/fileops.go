// Package fileops implements the CSV preparation commands: inferring
// indicator types and bulk-assigning reputation, severity, comment, or
// reliability values before a dataset is uploaded.
//
// Operations are pure over row slices; callers load rows through csvio,
// transform them here, and write the result back through this package's
// I/O helpers. Every operation returns a summary of what it touched so the
// CLI can show operators exactly what changed before anything is uploaded.
package fileops

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ridgeline-sec/xdrsync/internal/indicator"
)

// Field names a row attribute the apply operations can target.
type Field string

const (
	FieldReputation  Field = "reputation"
	FieldSeverity    Field = "severity"
	FieldComment     Field = "comment"
	FieldReliability Field = "reliability"
)

// ClassifySummary reports what a classification pass did.
type ClassifySummary struct {
	TotalRows          int            `json:"total_rows"`
	Updated            int            `json:"updated"`
	Unchanged          int            `json:"unchanged"`
	SkippedOnlyEmpty   int            `json:"skipped_only_empty"`
	Conflicts          int            `json:"conflicts"`
	ConflictsUpdated   int            `json:"conflicts_updated"`
	ConflictsSkipped   int            `json:"conflicts_skipped"`
	ForcedUpdates      int            `json:"forced_updates"`
	Ambiguous          int            `json:"ambiguous_assignments"`
	FilledFromEmpty    int            `json:"filled_from_empty"`
	DetectedTypeCounts map[string]int `json:"detected_type_counts"`
}

// ClassifyRows infers an indicator type for every row and fills or corrects
// the type column. originalTypes carries the raw values from the file, which
// may be empty or invalid; rows themselves always hold a valid placeholder.
//
// With onlyEmpty set, rows that already carry a type are left alone. A
// detected type that disagrees with an existing one is a conflict; low
// confidence conflicts are skipped unless force is set.
func ClassifyRows(rows []indicator.Row, originalTypes []string, onlyEmpty, force bool) ([]indicator.Row, *ClassifySummary) {
	out := make([]indicator.Row, len(rows))
	summary := &ClassifySummary{
		TotalRows:          len(rows),
		DetectedTypeCounts: make(map[string]int),
	}

	for i, row := range rows {
		detected, confident := indicator.Classify(row.Indicator)
		summary.DetectedTypeCounts[detected]++
		if !confident {
			summary.Ambiguous++
		}

		current := row.Type
		if originalTypes != nil {
			current = strings.ToUpper(strings.TrimSpace(originalTypes[i]))
		}
		hasExisting := current != ""

		if onlyEmpty && hasExisting {
			summary.SkippedOnlyEmpty++
			if current == detected {
				summary.Unchanged++
			}
			out[i] = row
			continue
		}

		if hasExisting {
			if current == detected {
				summary.Unchanged++
				out[i] = row
				continue
			}

			summary.Conflicts++
			if !confident && !force {
				summary.ConflictsSkipped++
				out[i] = row
				continue
			}
			if !confident && force {
				summary.ForcedUpdates++
			}

			row.Type = detected
			out[i] = row
			summary.Updated++
			summary.ConflictsUpdated++
			continue
		}

		row.Type = detected
		out[i] = row
		summary.Updated++
		summary.FilledFromEmpty++
	}

	return out, summary
}

// ApplySummary reports what a field assignment pass did.
type ApplySummary struct {
	TotalRows          int            `json:"total_rows"`
	Updated            int            `json:"updated"`
	Unchanged          int            `json:"unchanged"`
	SkippedOnlyEmpty   int            `json:"skipped_only_empty"`
	DefaultAssignments int            `json:"default_assignments"`
	OverridesApplied   map[string]int `json:"overrides_applied"`
	Cleared            int            `json:"cleared"`
}

// ApplyOptions controls a field assignment pass. Overrides map indicator
// types to per-type values; rows whose type has no override get the default
// value when ApplyDefault is set and are left alone otherwise. OnlyEmpty
// restricts the pass to rows with no current value.
type ApplyOptions struct {
	Default      string
	Overrides    map[string]string
	OnlyEmpty    bool
	ApplyDefault bool
}

// ApplyField assigns a value to one field across all rows. Values normalize
// through the field's vocabulary; for clearable fields (reputation, comment,
// reliability) an empty normalized value clears the field. Severity can
// never be cleared.
func ApplyField(rows []indicator.Row, field Field, opts ApplyOptions) ([]indicator.Row, *ApplySummary, error) {
	normalize, clearable, err := fieldNormalizer(field)
	if err != nil {
		return nil, nil, err
	}

	defaultValue, err := normalize(opts.Default)
	if err != nil {
		return nil, nil, err
	}

	overrides := make(map[string]string, len(opts.Overrides))
	for typ, value := range opts.Overrides {
		normType, err := indicator.NormalizeType(typ)
		if err != nil {
			return nil, nil, err
		}
		normValue, err := normalize(value)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", typ, err)
		}
		overrides[normType] = normValue
	}

	if !clearable && defaultValue == "" && len(overrides) == 0 {
		return nil, nil, fmt.Errorf("a non-empty %s value is required", field)
	}

	out := make([]indicator.Row, len(rows))
	summary := &ApplySummary{
		TotalRows:        len(rows),
		OverridesApplied: make(map[string]int),
	}

	for i, row := range rows {
		current := fieldValue(row, field)
		if opts.OnlyEmpty && strings.TrimSpace(current) != "" {
			summary.SkippedOnlyEmpty++
			out[i] = row
			continue
		}

		var target string
		if value, ok := overrides[row.Type]; ok {
			target = value
			summary.OverridesApplied[row.Type]++
		} else {
			if !opts.ApplyDefault {
				summary.Unchanged++
				out[i] = row
				continue
			}
			target = defaultValue
			summary.DefaultAssignments++
		}

		if target == "" && !clearable {
			return nil, nil, fmt.Errorf("%s cannot be cleared", field)
		}

		if current == target {
			summary.Unchanged++
			out[i] = row
			continue
		}
		if target == "" {
			summary.Cleared++
		}

		setFieldValue(&row, field, target)
		out[i] = row
		summary.Updated++
	}

	return out, summary, nil
}

// fieldNormalizer returns the vocabulary normalizer for a field and whether
// an empty value is a legal assignment (clearing).
func fieldNormalizer(field Field) (func(string) (string, error), bool, error) {
	switch field {
	case FieldReputation:
		return indicator.NormalizeReputation, true, nil
	case FieldSeverity:
		return func(v string) (string, error) {
			if strings.TrimSpace(v) == "" {
				return "", nil
			}
			return indicator.NormalizeSeverity(v)
		}, false, nil
	case FieldComment:
		return func(v string) (string, error) { return v, nil }, true, nil
	case FieldReliability:
		return indicator.NormalizeReliability, true, nil
	default:
		return nil, false, fmt.Errorf("unknown field %q", field)
	}
}

func fieldValue(row indicator.Row, field Field) string {
	switch field {
	case FieldReputation:
		return row.Reputation
	case FieldSeverity:
		return row.Severity
	case FieldComment:
		return row.Comment
	case FieldReliability:
		return row.Reliability
	}
	return ""
}

func setFieldValue(row *indicator.Row, field Field, value string) {
	switch field {
	case FieldReputation:
		row.Reputation = value
	case FieldSeverity:
		row.Severity = value
	case FieldComment:
		row.Comment = value
	case FieldReliability:
		row.Reliability = value
	}
}

// SortedTypeCounts renders a detected-type histogram as stable "TYPE=N"
// pairs for logging.
func SortedTypeCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, counts[k])
	}
	return strings.Join(parts, " ")
}
