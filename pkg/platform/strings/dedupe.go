// Package strings provides string manipulation utilities.
package strings

import (
	"strings"
)

// DedupeAndTrim trims each element and drops empties and repeats, keeping the
// first occurrence order. Comparison is case-sensitive: "CS101" and "cs101"
// are distinct course names.
//
//	DedupeAndTrim([]string{" CS101 ", "MTH201", "CS101", ""})
//	// []string{"CS101", "MTH201"}
func DedupeAndTrim(values []string) []string {
	if values == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}

// CollapseSpace trims s and folds internal whitespace runs to a single space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
