// Package ingest reads tabular sources into cleaned datasets. It is the
// boundary where file and database errors can still fail a run; past this
// point the pipeline is total.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"insightgen/internal/dataset"
)

// Load reads one source file, picks the parser by extension, and returns the
// cleaned dataset.
func Load(ctx context.Context, path string) (*dataset.Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv", ".txt":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		return LoadCSV(f)

	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return LoadJSON(data)

	case ".db", ".sqlite", ".sqlite3":
		return LoadSQLite(ctx, path, "")

	default:
		return nil, fmt.Errorf("unsupported source format: %s", path)
	}
}

// DatasetName derives the report-facing dataset name from a source path.
func DatasetName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
