package planner

import (
	"context"

	"insightgen/internal/schema"
)

// Known dataset type tags. The classifier is free to return anything; unknown
// tags fall through to the generic calculator downstream.
const (
	TypeAdPerformance = "ad_performance"
	TypeSales         = "sales_data"
	TypeSurvey        = "survey_feedback"
	TypeFinancial     = "financial_records"
	TypeOperations    = "operations_metrics"
	TypeWeather       = "weather_data"
	TypeScientific    = "scientific_data"
	TypeGeneric       = "generic_tabular"
)

// AutoDetect is the sentinel column value a chart intent uses to request
// auto-detection of an axis instead of naming a concrete column.
const AutoDetect = "auto_detect"

// RoleMap binds abstract semantic roles to concrete column names. Empty means
// the role is unassigned. Every name here is an unverified hint: the planner
// may hallucinate columns, so consumers re-check membership against the live
// dataset before use.
type RoleMap struct {
	PrimaryMetric   string `json:"primary_metric"`
	SecondaryMetric string `json:"secondary_metric"`
	DateColumn      string `json:"date_column"`
	CategoryColumn  string `json:"category_column"`
	GroupingColumn  string `json:"grouping_column"`
}

// ChartIntent is a requested visualization prior to validation against the
// dataset.
type ChartIntent struct {
	ChartKind string `json:"chart_type"`
	XColumn   string `json:"x_column"`
	YColumn   string `json:"y_column"`
	Purpose   string `json:"purpose"`
}

// KPIDirective instructs the KPI engine to compute a named metric from
// candidate columns using a named calculation kind.
type KPIDirective struct {
	Name        string   `json:"kpi_name"`
	Calculation string   `json:"calculation"`
	Columns     []string `json:"columns_needed"`
}

// AnalysisPlan is the resolved decision object for one dataset: a type
// classification, role bindings, chart intents, and KPI directives. Produced
// once per run, consumed read-only, discarded afterwards.
type AnalysisPlan struct {
	DatasetType   string         `json:"dataset_type"`
	Roles         RoleMap        `json:"required_columns"`
	ChartIntents  []ChartIntent  `json:"chart_specs"`
	KPIDirectives []KPIDirective `json:"kpi_calculations"`
}

// Planner classifies a dataset from its schema metadata and produces an
// analysis plan. Implementations backed by an external service may fail;
// callers go through Resolve, which guarantees a usable plan.
type Planner interface {
	Plan(ctx context.Context, meta schema.Metadata) (*AnalysisPlan, error)
}
