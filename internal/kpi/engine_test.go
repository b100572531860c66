package kpi

import (
	"math"
	"testing"

	"insightgen/internal/dataset"
	"insightgen/internal/planner"
)

func mustDataset(t *testing.T, cols []string, rows [][]string) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(cols, rows)
	if err != nil {
		t.Fatalf("dataset.New: %v", err)
	}
	return ds
}

func asFloat(t *testing.T, res Result, name string) float64 {
	t.Helper()
	v, ok := res[name]
	if !ok {
		t.Fatalf("KPI %q missing from result: %v", name, res)
	}
	f, ok := v.(float64)
	if !ok {
		t.Fatalf("KPI %q is %T, want float64", name, v)
	}
	return f
}

func TestCompute_BasicMetricsAlwaysPresent(t *testing.T) {
	ds := mustDataset(t,
		[]string{"region", "sales"},
		[][]string{{"north", "100"}, {"south", ""}},
	)

	res := Compute(ds, planner.FallbackPlan())

	if got := asFloat(t, res, "row_count"); got != 2 {
		t.Errorf("row_count = %v", got)
	}
	if got := asFloat(t, res, "column_count"); got != 2 {
		t.Errorf("column_count = %v", got)
	}
	completeness := asFloat(t, res, "data_completeness")
	if completeness < 0 || completeness > 100 {
		t.Errorf("data_completeness = %v, want within [0,100]", completeness)
	}
	if completeness != 75 {
		t.Errorf("data_completeness = %v, want 75 (1 null of 4 cells)", completeness)
	}
}

func TestCompute_EmptyDataset(t *testing.T) {
	ds := mustDataset(t, []string{"a"}, nil)
	res := Compute(ds, planner.FallbackPlan())
	if len(res) != 0 {
		t.Errorf("expected empty result for empty dataset, got %v", res)
	}
}

func TestCompute_CTRProperty(t *testing.T) {
	ds := mustDataset(t,
		[]string{"clicks", "impressions"},
		[][]string{{"10", "100"}, {"20", "200"}},
	)

	plan := &planner.AnalysisPlan{DatasetType: planner.TypeAdPerformance}
	res := Compute(ds, plan)

	if got := asFloat(t, res, "ctr"); got != 10.0 {
		t.Errorf("ctr = %v, want 10.0", got)
	}
	if got := asFloat(t, res, "total_clicks"); got != 30 {
		t.Errorf("total_clicks = %v, want 30", got)
	}
	if got := asFloat(t, res, "total_impressions"); got != 300 {
		t.Errorf("total_impressions = %v, want 300", got)
	}
}

func TestCompute_AdReturnOnSpend(t *testing.T) {
	ds := mustDataset(t,
		[]string{"clicks", "spend", "conversions"},
		[][]string{{"100", "50", "10"}, {"100", "50", "10"}},
	)

	res := Compute(ds, &planner.AnalysisPlan{DatasetType: planner.TypeAdPerformance})
	if got := asFloat(t, res, "roas"); got != 0.2 {
		t.Errorf("roas = %v, want 0.2 (20 conversions / 100 spend)", got)
	}
}

func TestCompute_FuzzyColumnResolution(t *testing.T) {
	ds := mustDataset(t,
		[]string{"total_revenue_usd", "day"},
		[][]string{{"100", "mon"}, {"250", "tue"}},
	)

	plan := &planner.AnalysisPlan{
		DatasetType: planner.TypeGeneric,
		KPIDirectives: []planner.KPIDirective{
			{Name: "revenue_sum", Calculation: "sum", Columns: []string{"Revenue"}},
		},
	}

	res := Compute(ds, plan)
	if got := asFloat(t, res, "revenue_sum"); got != 350 {
		t.Errorf("revenue_sum = %v, want 350", got)
	}
}

func TestCompute_AllNullMeanSuppressed(t *testing.T) {
	ds := mustDataset(t,
		[]string{"empty_col", "other"},
		[][]string{{"", "1"}, {"", "2"}},
	)

	plan := &planner.AnalysisPlan{
		DatasetType: planner.TypeGeneric,
		KPIDirectives: []planner.KPIDirective{
			{Name: "empty_mean", Calculation: "mean", Columns: []string{"empty_col"}},
		},
	}

	res := Compute(ds, plan)
	if _, ok := res["empty_mean"]; ok {
		t.Errorf("empty_mean should be absent, got %v", res["empty_mean"])
	}
}

func TestCompute_UnresolvableDirectiveSkipped(t *testing.T) {
	ds := mustDataset(t, []string{"a"}, [][]string{{"1"}})

	plan := &planner.AnalysisPlan{
		DatasetType: planner.TypeGeneric,
		KPIDirectives: []planner.KPIDirective{
			{Name: "ghost", Calculation: "sum", Columns: []string{"does_not_exist"}},
		},
	}

	res := Compute(ds, plan)
	if _, ok := res["ghost"]; ok {
		t.Error("directive over a missing column should be skipped")
	}
}

func TestCompute_CorrelationNeedsTwoColumns(t *testing.T) {
	ds := mustDataset(t,
		[]string{"x", "y"},
		[][]string{{"1", "2"}, {"2", "4"}, {"3", "6"}},
	)

	plan := &planner.AnalysisPlan{
		DatasetType: planner.TypeGeneric,
		KPIDirectives: []planner.KPIDirective{
			{Name: "xy_corr", Calculation: "correlation", Columns: []string{"x", "y"}},
			{Name: "solo_corr", Calculation: "correlation", Columns: []string{"x"}},
		},
	}

	res := Compute(ds, plan)
	if got := asFloat(t, res, "xy_corr"); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("xy_corr = %v, want 1.0", got)
	}
	if _, ok := res["solo_corr"]; ok {
		t.Error("correlation with one column should be skipped")
	}
}

func TestCompute_SummaryStatisticsDirective(t *testing.T) {
	ds := mustDataset(t,
		[]string{"v"},
		[][]string{{"1"}, {"2"}, {"3"}, {"4"}},
	)

	plan := planner.FallbackPlan() // basic_stats over "numeric_columns"
	res := Compute(ds, plan)

	stats, ok := res["basic_stats"].(map[string]any)
	if !ok {
		t.Fatalf("basic_stats missing or wrong type: %T", res["basic_stats"])
	}
	d, ok := stats["v"].(map[string]float64)
	if !ok {
		t.Fatalf("per-column describe missing: %v", stats)
	}
	if d["count"] != 4 || d["mean"] != 2.5 || d["median"] != 2.5 || d["min"] != 1 || d["max"] != 4 {
		t.Errorf("describe = %v", d)
	}
}

func TestCompute_UnknownCalculationDefaultsToMean(t *testing.T) {
	ds := mustDataset(t, []string{"v"}, [][]string{{"2"}, {"4"}})

	plan := &planner.AnalysisPlan{
		DatasetType: planner.TypeGeneric,
		KPIDirectives: []planner.KPIDirective{
			{Name: "weird", Calculation: "geometric_flux", Columns: []string{"v"}},
		},
	}

	res := Compute(ds, plan)
	if got := asFloat(t, res, "weird"); got != 3 {
		t.Errorf("unknown calculation = %v, want mean 3", got)
	}
}

func TestCompute_GenericFallbackNeverEmpty(t *testing.T) {
	ds := mustDataset(t,
		[]string{"category"},
		[][]string{{"a"}, {"b"}, {"a"}},
	)

	res := Compute(ds, &planner.AnalysisPlan{DatasetType: "completely_unknown_type"})
	if got := asFloat(t, res, "category_unique_count"); got != 2 {
		t.Errorf("category_unique_count = %v, want 2", got)
	}
}

func TestCompute_DerivedConversionRate(t *testing.T) {
	ds := mustDataset(t,
		[]string{"ad_clicks", "orders"},
		[][]string{{"100", "5"}, {"100", "5"}},
	)

	res := Compute(ds, &planner.AnalysisPlan{DatasetType: planner.TypeGeneric})
	if got := asFloat(t, res, "conversion_rate"); got != 5 {
		t.Errorf("conversion_rate = %v, want 5", got)
	}
}

func TestCompute_DerivedRevenuePerCustomer(t *testing.T) {
	ds := mustDataset(t,
		[]string{"revenue", "customers"},
		[][]string{{"500", "5"}, {"500", "5"}},
	)

	res := Compute(ds, &planner.AnalysisPlan{DatasetType: planner.TypeGeneric})
	if got := asFloat(t, res, "revenue_per_customer"); got != 100 {
		t.Errorf("revenue_per_customer = %v, want 100", got)
	}
}

func TestCompute_ZeroValuesSuppressed(t *testing.T) {
	ds := mustDataset(t,
		[]string{"zeros"},
		[][]string{{"0"}, {"0"}},
	)

	res := Compute(ds, &planner.AnalysisPlan{DatasetType: planner.TypeGeneric})
	if _, ok := res["total_zeros"]; ok {
		t.Error("total over an all-zero column should be suppressed")
	}
	if _, ok := res["avg_zeros"]; ok {
		t.Error("mean over an all-zero column should be suppressed")
	}
	// Structural facts survive suppression.
	if _, ok := res["row_count"]; !ok {
		t.Error("row_count should always be present for non-empty datasets")
	}
}
