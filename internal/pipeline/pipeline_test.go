package pipeline

import (
	"context"
	"errors"
	"testing"

	"insightgen/internal/dataset"
	"insightgen/internal/planner"
	"insightgen/internal/schema"
)

func mustDataset(t *testing.T, cols []string, rows [][]string) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(cols, rows)
	if err != nil {
		t.Fatalf("dataset.New: %v", err)
	}
	return ds
}

type brokenPlanner struct{}

func (brokenPlanner) Plan(context.Context, schema.Metadata) (*planner.AnalysisPlan, error) {
	return nil, errors.New("planner offline")
}

func TestAnalyze_FallbackPlanStillProducesResults(t *testing.T) {
	e := &Engine{Planner: brokenPlanner{}}
	ds := mustDataset(t,
		[]string{"region", "revenue"},
		[][]string{{"north", "100"}, {"south", "200"}},
	)

	res, err := e.Analyze(context.Background(), "sales", ds)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.Plan.DatasetType != planner.TypeGeneric {
		t.Errorf("DatasetType = %q, want fallback", res.Plan.DatasetType)
	}
	if _, ok := res.KPIs["row_count"]; !ok {
		t.Error("KPIs missing row_count")
	}
	if len(res.Bindings) == 0 {
		t.Error("expected at least one chart binding from the fallback plan")
	}
}

func TestAnalyze_NilPlannerAndEmptyDataset(t *testing.T) {
	e := &Engine{}
	ds := mustDataset(t, []string{"a"}, nil)

	res, err := e.Analyze(context.Background(), "empty", ds)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(res.KPIs) != 0 {
		t.Errorf("KPIs = %v, want empty for empty dataset", res.KPIs)
	}
	if len(res.Bindings) != 0 {
		t.Errorf("Bindings = %v, want none", res.Bindings)
	}
	if res.Schema.RowCount != 0 {
		t.Errorf("RowCount = %d", res.Schema.RowCount)
	}
}

func TestAnalyze_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := &Engine{}
	if _, err := e.Analyze(ctx, "x", mustDataset(t, []string{"a"}, [][]string{{"1"}})); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestAnalyzeAll_OrderedByName(t *testing.T) {
	e := &Engine{}
	datasets := map[string]*dataset.Dataset{
		"zeta":  mustDataset(t, []string{"v"}, [][]string{{"1"}}),
		"alpha": mustDataset(t, []string{"v"}, [][]string{{"2"}}),
		"mid":   mustDataset(t, []string{"v"}, [][]string{{"3"}}),
	}

	results, err := e.AnalyzeAll(context.Background(), datasets)
	if err != nil {
		t.Fatalf("AnalyzeAll: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	want := []string{"alpha", "mid", "zeta"}
	for i, r := range results {
		if r.Name != want[i] {
			t.Errorf("results[%d].Name = %q, want %q", i, r.Name, want[i])
		}
	}
}
