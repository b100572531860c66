package planner

import (
	"strings"
	"testing"
)

const validPlanJSON = `{
	"dataset_type": "ad_performance",
	"required_columns": {
		"primary_metric": "clicks",
		"secondary_metric": "impressions",
		"date_column": "date",
		"category_column": null,
		"grouping_column": null
	},
	"chart_specs": [
		{"chart_type": "line_trend", "x_column": "date", "y_column": "clicks", "purpose": "Click trend"}
	],
	"kpi_calculations": [
		{"kpi_name": "total_clicks", "calculation": "sum", "columns_needed": ["clicks"]}
	]
}`

func TestParsePlan_Valid(t *testing.T) {
	plan, err := parsePlan(validPlanJSON)
	if err != nil {
		t.Fatalf("parsePlan: %v", err)
	}
	if plan.DatasetType != TypeAdPerformance {
		t.Errorf("DatasetType = %q", plan.DatasetType)
	}
	if plan.Roles.PrimaryMetric != "clicks" || plan.Roles.CategoryColumn != "" {
		t.Errorf("Roles = %+v", plan.Roles)
	}
	if len(plan.ChartIntents) != 1 || plan.ChartIntents[0].ChartKind != "line_trend" {
		t.Errorf("ChartIntents = %+v", plan.ChartIntents)
	}
	if len(plan.KPIDirectives) != 1 || plan.KPIDirectives[0].Calculation != "sum" {
		t.Errorf("KPIDirectives = %+v", plan.KPIDirectives)
	}
}

func TestParsePlan_StripsCodeFences(t *testing.T) {
	fenced := "```json\n" + validPlanJSON + "\n```"
	plan, err := parsePlan(fenced)
	if err != nil {
		t.Fatalf("parsePlan with fences: %v", err)
	}
	if plan.DatasetType != TypeAdPerformance {
		t.Errorf("DatasetType = %q", plan.DatasetType)
	}
}

func TestParsePlan_Rejects(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"Empty", ""},
		{"NotJSON", "the dataset looks like sales data"},
		{"MissingFields", `{"dataset_type": "sales_data"}`},
		{"WrongFieldType", strings.Replace(validPlanJSON, `"chart_specs": [`, `"chart_specs": "none", "ignored": [`, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parsePlan(tt.text); err == nil {
				t.Error("expected parse error")
			}
		})
	}
}

func TestParsePlan_DefaultsEmptyType(t *testing.T) {
	text := strings.Replace(validPlanJSON, `"ad_performance"`, `""`, 1)
	plan, err := parsePlan(text)
	if err != nil {
		t.Fatalf("parsePlan: %v", err)
	}
	if plan.DatasetType != TypeGeneric {
		t.Errorf("DatasetType = %q, want %q", plan.DatasetType, TypeGeneric)
	}
}
