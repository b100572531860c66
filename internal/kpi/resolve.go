package kpi

import (
	"strings"

	"insightgen/internal/dataset"
)

// numericColumnsToken expands to every numeric column when it appears in a
// directive's candidate list.
const numericColumnsToken = "numeric_columns"

// resolveColumns maps a directive's candidate column names onto the live
// dataset. Plan references are unverified hints: exact membership is checked
// first, then a case-insensitive substring match in either direction (a
// requested "revenue" binds to an actual "Total_Revenue" and vice versa).
// Unresolvable names are dropped, not errors.
func resolveColumns(ds *dataset.Dataset, requested []string) []string {
	var resolved []string
	seen := make(map[string]bool)

	add := func(col string) {
		if !seen[col] {
			seen[col] = true
			resolved = append(resolved, col)
		}
	}

	for _, want := range requested {
		if want == "" {
			continue
		}
		if want == numericColumnsToken {
			for _, col := range ds.NumericColumns() {
				add(col)
			}
			continue
		}
		if ds.HasColumn(want) {
			add(want)
			continue
		}
		if col, ok := fuzzyMatch(ds, want); ok {
			add(col)
		}
	}
	return resolved
}

func fuzzyMatch(ds *dataset.Dataset, want string) (string, bool) {
	lowerWant := strings.ToLower(want)
	for _, col := range ds.Columns() {
		lowerCol := strings.ToLower(col)
		if strings.Contains(lowerCol, lowerWant) || strings.Contains(lowerWant, lowerCol) {
			return col, true
		}
	}
	return "", false
}
