// Package strings provides string manipulation utilities.
package strings

import (
	"strings"
)

// SplitList splits raw on sep, trims each element and drops empties and
// repeats. Order of first appearance is preserved.
//
//	SplitList(" a:9092, b:9092,,a:9092", ",") // []string{"a:9092", "b:9092"}
func SplitList(raw, sep string) []string {
	return DedupeAndTrim(strings.Split(raw, sep))
}

// DedupeAndTrim removes duplicates and blank entries after trimming.
// A nil or empty input yields nil.
func DedupeAndTrim(values []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
