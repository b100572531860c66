package planner

import (
	"context"

	"insightgen/internal/schema"
)

// FallbackPlanner is the deterministic strategy used whenever the AI-backed
// planner is unavailable or returns unusable output. It is total: it never
// fails and never inspects the dataset beyond what Metadata structurally
// guarantees.
type FallbackPlanner struct{}

// Plan always succeeds with the fixed generic plan.
func (FallbackPlanner) Plan(_ context.Context, _ schema.Metadata) (*AnalysisPlan, error) {
	return FallbackPlan(), nil
}

// FallbackPlan returns the fixed generic plan: generic_tabular type, all-null
// roles, one auto-detected bar comparison, one summary-statistics directive
// over all numeric columns.
func FallbackPlan() *AnalysisPlan {
	return &AnalysisPlan{
		DatasetType: TypeGeneric,
		Roles:       RoleMap{},
		ChartIntents: []ChartIntent{
			{
				ChartKind: "bar_comparison",
				XColumn:   AutoDetect,
				YColumn:   AutoDetect,
				Purpose:   "Compare key metrics",
			},
		},
		KPIDirectives: []KPIDirective{
			{
				Name:        "basic_stats",
				Calculation: "summary_statistics",
				Columns:     []string{"numeric_columns"},
			},
		},
	}
}
