package planner

import (
	"encoding/json"
	"fmt"
	"strings"

	"insightgen/internal/schema"
)

// promptSampleRows caps how many sample rows are serialized into the prompt.
const promptSampleRows = 3

// buildPlanningPrompt serializes schema metadata into the classification
// request. The service sees column names, kinds, a few sample rows, and
// counts; never the full dataset.
func buildPlanningPrompt(meta schema.Metadata) string {
	samples := meta.SampleRows
	if len(samples) > promptSampleRows {
		samples = samples[:promptSampleRows]
	}
	sampleJSON, _ := json.Marshal(samples)
	kindsJSON, _ := json.Marshal(meta.Kinds)

	var b strings.Builder
	b.WriteString("Analyze this dataset structure and provide SPECIFIC analysis instructions.\n")
	b.WriteString("Return ONLY valid JSON (no markdown, no explanations):\n\n")

	fmt.Fprintf(&b, "DATASET INFO:\n")
	fmt.Fprintf(&b, "Columns: %s\n", strings.Join(meta.Columns, ", "))
	fmt.Fprintf(&b, "Data Types: %s\n", kindsJSON)
	fmt.Fprintf(&b, "Sample Rows: %s\n", sampleJSON)
	fmt.Fprintf(&b, "Row Count: %d\n", meta.RowCount)
	fmt.Fprintf(&b, "Numeric Columns: %s\n", strings.Join(meta.NumericColumns, ", "))
	fmt.Fprintf(&b, "Categorical Columns: %s\n\n", strings.Join(meta.CategoricalColumns, ", "))

	b.WriteString(`Return JSON with this EXACT structure:
{
    "dataset_type": "<one of: ad_performance, sales_data, survey_feedback, financial_records, operations_metrics, weather_data, scientific_data, generic_tabular>",
    "required_columns": {
        "primary_metric": "<actual_column_name_for_main_metric>",
        "secondary_metric": "<actual_column_name_for_secondary_metric>",
        "date_column": "<actual_date_column_name_or_null>",
        "category_column": "<actual_category_column_name_or_null>",
        "grouping_column": "<actual_grouping_column_name_or_null>"
    },
    "chart_specs": [
        {
            "chart_type": "<chart_type>",
            "x_column": "<actual_column_name_or_auto_detect>",
            "y_column": "<actual_column_name_or_auto_detect>",
            "purpose": "<what_this_chart_shows>"
        }
    ],
    "kpi_calculations": [
        {
            "kpi_name": "<descriptive_name>",
            "calculation": "<one of: sum, mean, correlation, summary_statistics>",
            "columns_needed": ["<actual_column_names>"]
        }
    ]
}

Available chart types:
- line_trend: Time series or sequential trends
- bar_comparison: Compare categories or metrics
- pie_distribution: Show proportions/distributions
- scatter_correlation: Show relationships between 2 variables
- histogram_distribution: Show data distribution
- box_plot_outliers: Detect outliers
- heatmap_correlation: Correlation matrix
- stacked_bar: Composition over categories

Focus on charts that will provide MEANINGFUL insights for this specific data type.
`)

	return b.String()
}
