package schema

import (
	"insightgen/internal/dataset"

	"github.com/rs/zerolog/log"
)

// sampleRowLimit caps how many leading rows are captured in the metadata.
// The sample is what the planner sends to the AI service, so it stays small.
const sampleRowLimit = 5

// Metadata is an immutable structural snapshot of a dataset: column names,
// inferred kinds, null counts, a small row sample, and the numeric/categorical
// partition. It is created once per ingestion and consumed read-only.
type Metadata struct {
	RowCount           int                 `json:"row_count"`
	ColumnCount        int                 `json:"column_count"`
	Columns            []string            `json:"columns"`
	Kinds              map[string]string   `json:"data_types"`
	NullCounts         map[string]int      `json:"null_counts"`
	SampleRows         []map[string]string `json:"sample_rows"`
	NumericColumns     []string            `json:"numeric_columns"`
	CategoricalColumns []string            `json:"categorical_columns"`
}

// Describe extracts structural metadata from a dataset. It never fails: an
// empty dataset yields RowCount 0 and empty partitions, which downstream
// components must handle without error.
func Describe(ds *dataset.Dataset) Metadata {
	cols := ds.Columns()

	meta := Metadata{
		RowCount:           ds.RowCount(),
		ColumnCount:        len(cols),
		Columns:            cols,
		Kinds:              make(map[string]string, len(cols)),
		NullCounts:         make(map[string]int, len(cols)),
		NumericColumns:     ds.NumericColumns(),
		CategoricalColumns: ds.CategoricalColumns(),
	}

	for _, c := range cols {
		meta.Kinds[c] = ds.Kind(c).String()
		meta.NullCounts[c] = ds.NullCount(c)
	}

	limit := ds.RowCount()
	if limit > sampleRowLimit {
		limit = sampleRowLimit
	}
	for r := 0; r < limit; r++ {
		row := ds.Row(r)
		sample := make(map[string]string, len(cols))
		for i, c := range cols {
			sample[c] = row[i]
		}
		meta.SampleRows = append(meta.SampleRows, sample)
	}

	log.Debug().
		Int("rows", meta.RowCount).
		Int("columns", meta.ColumnCount).
		Int("numeric", len(meta.NumericColumns)).
		Int("categorical", len(meta.CategoricalColumns)).
		Msg("Schema described")

	return meta
}
