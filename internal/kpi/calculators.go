package kpi

import (
	"insightgen/internal/dataset"
	"insightgen/internal/planner"
)

// calculator is one arm of the dataset-type dispatch. Each arm inspects the
// live column names for domain keywords and computes a small fixed set of
// named KPIs; a keyword group that is not found is simply omitted.
type calculator func(Result, *dataset.Dataset)

// calculators is the variant table over dataset types. The generic arm is
// the default for unknown tags.
var calculators = map[string]calculator{
	planner.TypeAdPerformance: calculateAdKPIs,
	planner.TypeSales:         calculateSalesKPIs,
	planner.TypeSurvey:        calculateSurveyKPIs,
	planner.TypeFinancial:     calculateFinancialKPIs,
	planner.TypeOperations:    calculateOperationsKPIs,
	planner.TypeWeather:       calculateWeatherKPIs,
	planner.TypeScientific:    calculateScientificKPIs,
	planner.TypeGeneric:       calculateGenericKPIs,
}

func calculatorFor(datasetType string) calculator {
	if c, ok := calculators[datasetType]; ok {
		return c
	}
	return calculateGenericKPIs
}

func calculateAdKPIs(res Result, ds *dataset.Dataset) {
	clicksCol, hasClicks := firstMatch(ds, clickKeywords)
	impressionsCol, hasImpressions := firstMatch(ds, impressionKeywords)

	var totalClicks float64
	if hasClicks {
		totalClicks = Sum(ds.Floats(clicksCol))
	}

	if hasClicks && hasImpressions {
		totalImpressions := Sum(ds.Floats(impressionsCol))
		if totalImpressions > 0 {
			res.add("ctr", totalClicks/totalImpressions*100)
		}
		res.add("total_clicks", totalClicks)
		res.add("total_impressions", totalImpressions)
	}

	costCol, hasCost := firstMatch(ds, costKeywords)
	var totalSpend float64
	if hasCost {
		costs := ds.Floats(costCol)
		totalSpend = Sum(costs)
		res.add("total_spend", totalSpend)
		if m, ok := Mean(costs); ok {
			res.add("avg_daily_spend", m)
		}
		if hasClicks && totalClicks > 0 {
			res.add("cpc", totalSpend/totalClicks)
		}
	}

	if convCol, ok := firstMatch(ds, conversionKeywords); ok {
		totalConversions := Sum(ds.Floats(convCol))
		res.add("total_conversions", totalConversions)
		if hasClicks && totalClicks > 0 {
			res.add("conversion_rate", totalConversions/totalClicks*100)
		}
		if hasCost && totalSpend > 0 {
			res.add("roas", totalConversions/totalSpend)
		}
	}
}

func calculateSalesKPIs(res Result, ds *dataset.Dataset) {
	if revenueCol, ok := firstMatch(ds, revenueKeywords); ok {
		revenues := ds.Floats(revenueCol)
		res.add("total_revenue", Sum(revenues))
		if m, ok := Mean(revenues); ok {
			res.add("avg_order_value", m)
		}
		if _, hi, ok := MinMax(revenues); ok {
			res.add("max_order_value", hi)
		}
	}

	if qtyCol, ok := firstMatch(ds, quantityKeywords); ok {
		quantities := ds.Floats(qtyCol)
		res.add("total_units_sold", Sum(quantities))
		if m, ok := Mean(quantities); ok {
			res.add("avg_units_per_order", m)
		}
	}

	if customerCol, ok := firstMatch(ds, customerKeywords); ok {
		res.add("unique_customers", float64(ds.UniqueCount(customerCol)))
	}
}

func calculateSurveyKPIs(res Result, ds *dataset.Dataset) {
	res.add("total_responses", float64(ds.RowCount()))

	if ratingCol, ok := firstMatch(ds, ratingKeywords); ok {
		ratings := ds.Floats(ratingCol)
		if m, ok := Mean(ratings); ok {
			res.add("avg_rating", m)
		}
		if s, ok := Std(ratings); ok {
			res.add("rating_std", s)
		}
		high := 0
		for _, r := range ratings {
			if r >= 4 {
				high++
			}
		}
		if ds.RowCount() > 0 {
			res.add("high_ratings_pct", float64(high)/float64(ds.RowCount())*100)
		}
	}

	res.add("completion_rate", completionRate(ds))
}

// completionRate is the share of rows without any null cell.
func completionRate(ds *dataset.Dataset) float64 {
	rows := ds.RowCount()
	if rows == 0 {
		return 0
	}
	complete := 0
	for r := 0; r < rows; r++ {
		full := true
		for _, cell := range ds.Row(r) {
			if dataset.IsNull(cell) {
				full = false
				break
			}
		}
		if full {
			complete++
		}
	}
	return float64(complete) / float64(rows) * 100
}

func calculateFinancialKPIs(res Result, ds *dataset.Dataset) {
	if amountCol, ok := firstMatch(ds, amountKeywords); ok {
		amounts := ds.Floats(amountCol)
		res.add("total_amount", Sum(amounts))
		if m, ok := Mean(amounts); ok {
			res.add("avg_transaction", m)
		}
		if _, hi, ok := MinMax(amounts); ok {
			res.add("max_transaction", hi)
		}
		if s, ok := Std(amounts); ok {
			res.add("transaction_volatility", s)
		}
	}

	if typeCol, ok := firstMatch(ds, typeKeywords); ok {
		res.add("transaction_types_count", float64(ds.UniqueCount(typeCol)))
	}
}

func calculateOperationsKPIs(res Result, ds *dataset.Dataset) {
	for i, col := range ds.NumericColumns() {
		if i >= 5 {
			break
		}
		vals := ds.Floats(col)
		if m, ok := Mean(vals); ok {
			res.add("avg_"+col, m)
		}
		res.add("total_"+col, Sum(vals))
		if _, hi, ok := MinMax(vals); ok {
			res.add("max_"+col, hi)
		}
	}

	if timeCol, ok := firstMatch(ds, timeKeywords); ok {
		times := ds.Floats(timeCol)
		if m, ok := Mean(times); ok {
			res.add("avg_processing_time", m)
		}
		if _, hi, ok := MinMax(times); ok {
			res.add("max_processing_time", hi)
		}
	}
}

func calculateWeatherKPIs(res Result, ds *dataset.Dataset) {
	if tempCol, ok := firstMatch(ds, tempKeywords); ok {
		temps := ds.Floats(tempCol)
		if m, ok := Mean(temps); ok {
			res.add("avg_temperature", m)
		}
		if lo, hi, ok := MinMax(temps); ok {
			res.add("max_temperature", hi)
			res.add("min_temperature", lo)
			res.add("temperature_range", hi-lo)
		}
	}

	if precipCol, ok := firstMatch(ds, precipKeywords); ok {
		precip := ds.Floats(precipCol)
		if m, ok := Mean(precip); ok {
			res.add("avg_precipitation", m)
		}
		rainy := 0
		for _, p := range precip {
			if p > 0 {
				rainy++
			}
		}
		res.add("rainy_days", float64(rainy))
	}
}

func calculateScientificKPIs(res Result, ds *dataset.Dataset) {
	numeric := ds.NumericColumns()

	for i, col := range numeric {
		if i >= 3 {
			break
		}
		vals := ds.Floats(col)
		if m, ok := Mean(vals); ok {
			res.add(col+"_mean", m)
		}
		if s, ok := Std(vals); ok {
			res.add(col+"_std", s)
		}
		if m, ok := Median(vals); ok {
			res.add(col+"_median", m)
		}
		if lo, hi, ok := MinMax(vals); ok {
			res.add(col+"_range", hi-lo)
		}
	}

	// Strongest absolute pairwise correlation across the leading numeric
	// columns.
	if len(numeric) >= 2 {
		limit := len(numeric)
		if limit > 5 {
			limit = 5
		}
		maxCorr := 0.0
		for i := 0; i < limit; i++ {
			for j := i + 1; j < limit; j++ {
				xs, ys := ds.FloatPairs(numeric[i], numeric[j])
				if r, ok := Pearson(xs, ys); ok {
					if abs := absFloat(r); abs > maxCorr {
						maxCorr = abs
					}
				}
			}
		}
		res.add("max_correlation", maxCorr)
	}
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func calculateGenericKPIs(res Result, ds *dataset.Dataset) {
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
