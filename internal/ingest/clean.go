package ingest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"insightgen/internal/dataset"
	"insightgen/internal/kpi"
)

// buildClean applies the cleaning pass and constructs the final dataset:
// duplicate column names are renamed, exact-duplicate rows removed, numeric
// nulls filled with the column median and categorical nulls with "Unknown".
func buildClean(columns []string, rows [][]string) (*dataset.Dataset, error) {
	columns = dedupeColumns(columns)
	rows = dedupeRows(rows)

	// A provisional dataset supplies the column kinds the null filling
	// depends on.
	provisional, err := dataset.New(columns, rows)
	if err != nil {
		return nil, fmt.Errorf("build dataset: %w", err)
	}
	if provisional.RowCount() == 0 {
		return provisional, nil
	}

	filled := fillNulls(provisional, columns, rows)
	ds, err := dataset.New(columns, filled)
	if err != nil {
		return nil, fmt.Errorf("rebuild dataset: %w", err)
	}
	return ds, nil
}

func dedupeColumns(columns []string) []string {
	seen := make(map[string]int, len(columns))
	out := make([]string, len(columns))
	for i, col := range columns {
		if col == "" {
			col = fmt.Sprintf("column_%d", i+1)
		}
		seen[col]++
		if n := seen[col]; n > 1 {
			col = fmt.Sprintf("%s_%d", col, n)
		}
		out[i] = col
	}
	return out
}

func dedupeRows(rows [][]string) [][]string {
	seen := make(map[string]bool, len(rows))
	out := rows[:0:0]
	for _, row := range rows {
		key := strings.Join(row, "\x1f")
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, row)
	}
	if dropped := len(rows) - len(out); dropped > 0 {
		log.Debug().Int("dropped", dropped).Msg("Removed duplicate rows")
	}
	return out
}

func fillNulls(ds *dataset.Dataset, columns []string, rows [][]string) [][]string {
	fill := make([]string, len(columns))
	for i, col := range columns {
		switch ds.Kind(col) {
		case dataset.KindNumeric:
			if m, ok := kpi.Median(ds.Floats(col)); ok {
				fill[i] = strconv.FormatFloat(m, 'g', -1, 64)
			}
		default:
			fill[i] = "Unknown"
		}
	}

	out := make([][]string, len(rows))
	for r, row := range rows {
		clean := append([]string(nil), row...)
		for i, v := range clean {
			if dataset.IsNull(v) && fill[i] != "" {
				clean[i] = fill[i]
			}
		}
		out[r] = clean
	}
	return out
}
