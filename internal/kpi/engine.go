package kpi

import (
	"math"

	"github.com/rs/zerolog/log"

	"insightgen/internal/dataset"
	"insightgen/internal/planner"
)

// Result maps KPI names to values: scalar numbers or small nested structures
// such as a per-column describe. KPI names are unique; values are finite and
// non-null.
type Result map[string]any

// basicMetricKeys are structural facts about the dataset. They are exempt
// from zero suppression so the result always carries them for non-empty
// datasets, even when the data itself is degenerate.
var basicMetricKeys = map[string]bool{
	"row_count":                 true,
	"column_count":              true,
	"data_completeness":         true,
	"numeric_columns_count":     true,
	"categorical_columns_count": true,
}

// Compute resolves KPIs for a dataset in four layers: plan-directed
// calculations, dataset-type-specific calculators, the generic statistical
// fallback, and the derived cross-column ratio pass. Earlier layers take
// precedence on name collisions. Zero, NaN, and null values from the
// computed layers are dropped, never stored as placeholders: zero is
// overloaded between "true zero" and "no data", so the policy is to omit
// rather than misrepresent.
func Compute(ds *dataset.Dataset, plan *planner.AnalysisPlan) Result {
	if ds.RowCount() == 0 {
		return Result{}
	}
	if plan == nil {
		plan = planner.FallbackPlan()
	}

	res := Result{}
	addBasicMetrics(res, ds)
	applyPlannedDirectives(res, ds, plan.KPIDirectives)
	calculatorFor(plan.DatasetType)(res, ds)
	applyGenericFallback(res, ds)
	applyDerivedMetrics(res, ds)

	sanitize(res)

	log.Debug().
		Str("datasetType", plan.DatasetType).
		Int("kpis", len(res)).
		Msg("KPIs computed")

	return res
}

// add stores a value only if the name is still free, keeping earlier layers
// authoritative on collisions.
func (r Result) add(name string, value any) {
	if _, exists := r[name]; !exists {
		r[name] = value
	}
}

func addBasicMetrics(res Result, ds *dataset.Dataset) {
	rows := ds.RowCount()
	cols := ds.Columns()

	totalCells := rows * len(cols)
	nullCells := 0
	for _, c := range cols {
		nullCells += ds.NullCount(c)
	}
	completeness := 0.0
	if totalCells > 0 {
		completeness = float64(totalCells-nullCells) / float64(totalCells) * 100
	}

	res.add("row_count", float64(rows))
	res.add("column_count", float64(len(cols)))
	res.add("data_completeness", completeness)
	res.add("numeric_columns_count", float64(len(ds.NumericColumns())))
	res.add("categorical_columns_count", float64(len(ds.CategoricalColumns())))
}

// applyPlannedDirectives executes the plan-directed layer. Directives whose
// columns cannot be resolved are skipped silently.
func applyPlannedDirectives(res Result, ds *dataset.Dataset, directives []planner.KPIDirective) {
	for _, d := range directives {
		name := d.Name
		if name == "" {
			name = "unknown_kpi"
		}

		cols := resolveColumns(ds, d.Columns)
		if len(cols) == 0 {
			log.Debug().Str("kpi", d.Name).Msg("Directive skipped: no resolvable columns")
			continue
		}

		if value, ok := executeCalculation(ds, d.Calculation, cols); ok {
			res.add(name, value)
		}
	}
}

func executeCalculation(ds *dataset.Dataset, calculation string, cols []string) (any, bool) {
	switch calculation {
	case "sum":
		var total float64
		for _, c := range cols {
			total += Sum(ds.Floats(c))
		}
		return total, true

	case "correlation":
		if len(cols) < 2 {
			return nil, false
		}
		xs, ys := ds.FloatPairs(cols[0], cols[1])
		if r, ok := Pearson(xs, ys); ok {
			return r, true
		}
		return nil, false

	case "summary_statistics":
		stats := make(map[string]any)
		for _, c := range cols {
			if d, ok := describeColumn(ds, c); ok {
				stats[c] = d
			}
		}
		if len(stats) == 0 {
			return nil, false
		}
		return stats, true

	default:
		// "mean" and any unknown calculation kind
		return meanAcross(ds, cols)
	}
}

func meanAcross(ds *dataset.Dataset, cols []string) (any, bool) {
	var total float64
	counted := 0
	for _, c := range cols {
		if m, ok := Mean(ds.Floats(c)); ok {
			total += m
			counted++
		}
	}
	if counted == 0 {
		return nil, false
	}
	return total / float64(counted), true
}

// describeColumn produces a per-column describe-style aggregate.
func describeColumn(ds *dataset.Dataset, col string) (map[string]float64, bool) {
	vals := ds.Floats(col)
	if len(vals) == 0 {
		return nil, false
	}

	d := map[string]float64{"count": float64(len(vals))}
	if m, ok := Mean(vals); ok {
		d["mean"] = m
	}
	if s, ok := Std(vals); ok {
		d["std"] = s
	}
	if lo, hi, ok := MinMax(vals); ok {
		d["min"] = lo
		d["max"] = hi
	}
	if p, ok := Percentile(vals, 25); ok {
		d["p25"] = p
	}
	if m, ok := Median(vals); ok {
		d["median"] = m
	}
	if p, ok := Percentile(vals, 75); ok {
		d["p75"] = p
	}
	return d, true
}

// applyGenericFallback always runs last over the leading numeric and
// categorical columns, guaranteeing a non-empty result for any dataset with
// at least one numeric or categorical column.
func applyGenericFallback(res Result, ds *dataset.Dataset) {
	for i, col := range ds.NumericColumns() {
		if i >= 3 {
			break
		}
		vals := ds.Floats(col)
		if m, ok := Mean(vals); ok {
			res.add("avg_"+col, m)
		}
		res.add("total_"+col, Sum(vals))
	}
	for i, col := range ds.CategoricalColumns() {
		if i >= 2 {
			break
		}
		res.add(col+"_unique_count", float64(ds.UniqueCount(col)))
	}
}

// applyDerivedMetrics computes cross-column ratios that are meaningful
// regardless of dataset type. Column selection is first-match-wins over the
// keyword tables.
func applyDerivedMetrics(res Result, ds *dataset.Dataset) {
	if clicksCol, ok := firstMatch(ds, clickKeywords); ok {
		if ordersCol, ok := firstMatch(ds, orderKeywords); ok {
			clicks := Sum(ds.Floats(clicksCol))
			orders := Sum(ds.Floats(ordersCol))
			if clicks > 0 {
				res.add("conversion_rate", orders/clicks*100)
			}
		}
	}

	if revenueCol, ok := firstMatch(ds, []string{"revenue", "sales"}); ok {
		if customerCol, ok := firstMatch(ds, customerKeywords); ok {
			revenue := Sum(ds.Floats(revenueCol))
			customers := Sum(ds.Floats(customerCol))
			if customers > 0 {
				res.add("revenue_per_customer", revenue/customers)
			}
		}
	}
}

// sanitize removes zero, NaN, Inf, null, and empty nested values from the
// computed layers. Basic metrics stay.
func sanitize(res Result) {
	for name, value := range res {
		if basicMetricKeys[name] {
			continue
		}
		if !usable(value) {
			delete(res, name)
		}
	}
}

func usable(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case float64:
		return v != 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
	case int:
		return v != 0
	case map[string]any:
		return len(v) > 0
	case map[string]float64:
		return len(v) > 0
	default:
		return true
	}
}
