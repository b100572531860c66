// Package charts resolves the plan's chart intents against a live dataset.
// Intents are unverified hints; resolution checks every referenced column and
// emits a binding only when the chart kind's minimum shape is met.
package charts

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"insightgen/internal/dataset"
	"insightgen/internal/planner"
)

// Binding is a validated, concrete chart specification. Single-axis kinds
// fill XColumn/YColumn; multi-column kinds (metric comparison, box plot,
// heatmap, stacked bar) fill Columns instead. Every named column is a member
// of the dataset the binding was resolved against.
type Binding struct {
	ChartKind   string   `json:"chart_kind"`
	XColumn     string   `json:"x_column,omitempty"`
	YColumn     string   `json:"y_column,omitempty"`
	Columns     []string `json:"columns,omitempty"`
	Aggregation string   `json:"aggregation,omitempty"`
	Title       string   `json:"title"`
	Purpose     string   `json:"purpose,omitempty"`
}

const (
	KindLineTrend  = "line_trend"
	KindBar        = "bar_comparison"
	KindPie        = "pie_distribution"
	KindScatter    = "scatter_correlation"
	KindHeatmap    = "heatmap_correlation"
	KindHistogram  = "histogram_distribution"
	KindBoxPlot    = "box_plot_outliers"
	KindStackedBar = "stacked_bar"
)

// Resolve produces one binding per satisfiable chart intent. Intents that
// cannot meet their kind's minimum shape against the dataset are dropped,
// never emitted with fabricated or missing axes.
func Resolve(ds *dataset.Dataset, plan *planner.AnalysisPlan) []Binding {
	if plan == nil {
		plan = planner.FallbackPlan()
	}

	var bindings []Binding
	for _, intent := range plan.ChartIntents {
		if b, ok := resolveIntent(ds, intent, plan.Roles); ok {
			bindings = append(bindings, b)
		} else {
			log.Debug().
				Str("chartKind", intent.ChartKind).
				Msg("Chart intent dropped: minimum shape not met")
		}
	}
	return bindings
}

func resolveIntent(ds *dataset.Dataset, intent planner.ChartIntent, roles planner.RoleMap) (Binding, bool) {
	x := resolveAxis(ds, intent.XColumn, "x", roles)
	y := resolveAxis(ds, intent.YColumn, "y", roles)

	numeric := ds.NumericColumns()
	categorical := ds.CategoricalColumns()

	switch intent.ChartKind {
	case KindLineTrend:
		dateCol := roleColumn(ds, roles.DateColumn, x)
		metricCol := roleColumn(ds, roles.PrimaryMetric, y)
		if dateCol == "" || metricCol == "" || !isNumeric(ds, metricCol) {
			return Binding{}, false
		}
		return Binding{
			ChartKind: intent.ChartKind,
			XColumn:   dateCol,
			YColumn:   metricCol,
			Title:     fmt.Sprintf("%s - %s Over Time", intent.Purpose, metricCol),
			Purpose:   intent.Purpose,
		}, true

	case KindBar:
		categoryCol := roleColumn(ds, roles.CategoryColumn, x)
		valueCol := roleColumn(ds, roles.PrimaryMetric, y)
		if categoryCol != "" && !isNumeric(ds, categoryCol) && valueCol != "" && isNumeric(ds, valueCol) {
			return Binding{
				ChartKind:   intent.ChartKind,
				XColumn:     categoryCol,
				YColumn:     valueCol,
				Aggregation: "sum",
				Title:       fmt.Sprintf("%s - %s by %s", intent.Purpose, valueCol, categoryCol),
				Purpose:     intent.Purpose,
			}, true
		}
		// No category/value pair: fall back to comparing leading metrics.
		if len(numeric) >= 2 {
			return Binding{
				ChartKind:   intent.ChartKind,
				Columns:     capColumns(numeric, 3),
				Aggregation: "mean",
				Title:       fmt.Sprintf("%s - Metrics Comparison", intent.Purpose),
				Purpose:     intent.Purpose,
			}, true
		}
		return Binding{}, false

	case KindPie:
		categoryCol := roleColumn(ds, roles.CategoryColumn, x)
		if categoryCol == "" || isNumeric(ds, categoryCol) {
			return Binding{}, false
		}
		return Binding{
			ChartKind:   intent.ChartKind,
			XColumn:     categoryCol,
			Aggregation: "count",
			Title:       fmt.Sprintf("%s - %s Distribution", intent.Purpose, categoryCol),
			Purpose:     intent.Purpose,
		}, true

	case KindScatter:
		// Explicitly named columns that are not in the dataset kill the
		// intent; the leading-pair fallback is for auto-detection only.
		if explicitMiss(ds, intent.XColumn) || explicitMiss(ds, intent.YColumn) {
			return Binding{}, false
		}
		xCol := roleColumn(ds, roles.PrimaryMetric, x)
		yCol := roleColumn(ds, roles.SecondaryMetric, y)
		if !isNumeric(ds, xCol) || !isNumeric(ds, yCol) || xCol == yCol {
			// Needs exactly two distinct numeric columns: try the leading
			// pair before giving up.
			if len(numeric) < 2 {
				return Binding{}, false
			}
			xCol, yCol = numeric[0], numeric[1]
		}
		return Binding{
			ChartKind: intent.ChartKind,
			XColumn:   xCol,
			YColumn:   yCol,
			Title:     fmt.Sprintf("%s - %s vs %s", intent.Purpose, xCol, yCol),
			Purpose:   intent.Purpose,
		}, true

	case KindHistogram:
		metricCol := roleColumn(ds, roles.PrimaryMetric, y)
		if !isNumeric(ds, metricCol) {
			return Binding{}, false
		}
		return Binding{
			ChartKind: intent.ChartKind,
			XColumn:   metricCol,
			Title:     fmt.Sprintf("%s - %s Distribution", intent.Purpose, metricCol),
			Purpose:   intent.Purpose,
		}, true

	case KindBoxPlot:
		if len(numeric) < 1 {
			return Binding{}, false
		}
		return Binding{
			ChartKind: intent.ChartKind,
			Columns:   capColumns(numeric, 4),
			Title:     fmt.Sprintf("%s - Outlier Analysis", intent.Purpose),
			Purpose:   intent.Purpose,
		}, true

	case KindHeatmap:
		if len(numeric) < 2 {
			return Binding{}, false
		}
		return Binding{
			ChartKind: intent.ChartKind,
			Columns:   append([]string(nil), numeric...),
			Title:     fmt.Sprintf("%s - Correlation Matrix", intent.Purpose),
			Purpose:   intent.Purpose,
		}, true

	case KindStackedBar:
		if len(numeric) < 2 {
			return Binding{}, false
		}
		categoryCol := roleColumn(ds, roles.CategoryColumn, "")
		if categoryCol == "" && len(categorical) > 0 {
			categoryCol = categorical[0]
		}
		return Binding{
			ChartKind:   intent.ChartKind,
			XColumn:     categoryCol,
			Columns:     capColumns(numeric, 3),
			Aggregation: "sum",
			Title:       fmt.Sprintf("%s - Stacked Composition", intent.Purpose),
			Purpose:     intent.Purpose,
		}, true

	default:
		log.Debug().Str("chartKind", intent.ChartKind).Msg("Unknown chart kind")
		return Binding{}, false
	}
}

// resolveAxis turns an intent's axis hint into a verified column name or "".
// Explicit names are checked for membership; auto_detect applies the fixed
// priority order per axis.
func resolveAxis(ds *dataset.Dataset, hint, axis string, roles planner.RoleMap) string {
	if hint != "" && hint != planner.AutoDetect {
		if ds.HasColumn(hint) {
			return hint
		}
		return ""
	}
	return autoDetect(ds, axis, roles)
}

func autoDetect(ds *dataset.Dataset, axis string, roles planner.RoleMap) string {
	switch axis {
	case "x":
		if roles.DateColumn != "" && ds.HasColumn(roles.DateColumn) {
			return roles.DateColumn
		}
		if roles.CategoryColumn != "" && ds.HasColumn(roles.CategoryColumn) {
			return roles.CategoryColumn
		}
		if cats := ds.CategoricalColumns(); len(cats) > 0 {
			return cats[0]
		}
		if nums := ds.NumericColumns(); len(nums) > 0 {
			return nums[0]
		}
	case "y":
		if roles.PrimaryMetric != "" && ds.HasColumn(roles.PrimaryMetric) {
			return roles.PrimaryMetric
		}
		if nums := ds.NumericColumns(); len(nums) > 0 {
			return nums[0]
		}
	}
	return ""
}

// roleColumn prefers a verified role assignment over the axis fallback.
func roleColumn(ds *dataset.Dataset, role, fallback string) string {
	if role != "" && ds.HasColumn(role) {
		return role
	}
	return fallback
}

// explicitMiss reports whether an axis hint names a concrete column that the
// dataset does not have.
func explicitMiss(ds *dataset.Dataset, hint string) bool {
	return hint != "" && hint != planner.AutoDetect && !ds.HasColumn(hint)
}

func isNumeric(ds *dataset.Dataset, col string) bool {
	return col != "" && ds.Kind(col) == dataset.KindNumeric
}

func capColumns(cols []string, n int) []string {
	if len(cols) > n {
		cols = cols[:n]
	}
	return append([]string(nil), cols...)
}
