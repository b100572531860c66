package schema

import (
	"reflect"
	"testing"

	"insightgen/internal/dataset"
)

func sampleDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(
		[]string{"date", "clicks", "region"},
		[][]string{
			{"2024-01-01", "10", "north"},
			{"2024-01-02", "", "south"},
			{"2024-01-03", "30", "north"},
		},
	)
	if err != nil {
		t.Fatalf("dataset.New: %v", err)
	}
	return ds
}

func TestDescribe(t *testing.T) {
	meta := Describe(sampleDataset(t))

	if meta.RowCount != 3 || meta.ColumnCount != 3 {
		t.Errorf("counts = %d rows, %d cols; want 3, 3", meta.RowCount, meta.ColumnCount)
	}
	if meta.Kinds["clicks"] != "numeric" || meta.Kinds["date"] != "temporal" || meta.Kinds["region"] != "text" {
		t.Errorf("unexpected kinds: %v", meta.Kinds)
	}
	if meta.NullCounts["clicks"] != 1 {
		t.Errorf("NullCounts[clicks] = %d, want 1", meta.NullCounts["clicks"])
	}
	if len(meta.SampleRows) != 3 {
		t.Errorf("sample rows = %d, want 3", len(meta.SampleRows))
	}
	if !reflect.DeepEqual(meta.NumericColumns, []string{"clicks"}) {
		t.Errorf("NumericColumns = %v", meta.NumericColumns)
	}
}

func TestDescribe_EmptyDataset(t *testing.T) {
	ds, err := dataset.New([]string{"a"}, nil)
	if err != nil {
		t.Fatalf("dataset.New: %v", err)
	}

	meta := Describe(ds)
	if meta.RowCount != 0 {
		t.Errorf("RowCount = %d, want 0", meta.RowCount)
	}
	if len(meta.NumericColumns) != 0 || len(meta.SampleRows) != 0 {
		t.Errorf("expected empty partitions and samples, got %v / %v", meta.NumericColumns, meta.SampleRows)
	}
}

func TestDescribe_Idempotent(t *testing.T) {
	ds := sampleDataset(t)
	first := Describe(ds)
	second := Describe(ds)
	if !reflect.DeepEqual(first, second) {
		t.Error("Describe is not idempotent")
	}
}

func TestDescribe_SampleCapped(t *testing.T) {
	rows := make([][]string, 20)
	for i := range rows {
		rows[i] = []string{"v"}
	}
	ds, err := dataset.New([]string{"c"}, rows)
	if err != nil {
		t.Fatalf("dataset.New: %v", err)
	}

	meta := Describe(ds)
	if len(meta.SampleRows) != 5 {
		t.Errorf("sample rows = %d, want 5", len(meta.SampleRows))
	}
}
