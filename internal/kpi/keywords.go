package kpi

import (
	"strings"

	"insightgen/internal/dataset"
)

// Keyword-to-role rules are represented as data rather than branching code so
// each rule is independently testable. The FIRST column (in dataset order)
// matching any keyword wins.

var (
	clickKeywords      = []string{"click"}
	impressionKeywords = []string{"impression"}
	costKeywords       = []string{"cost", "spend", "budget"}
	conversionKeywords = []string{"conversion"}
	orderKeywords      = []string{"order", "conversion"}
	revenueKeywords    = []string{"revenue", "sales", "amount", "total", "price"}
	quantityKeywords   = []string{"quantity"}
	customerKeywords   = []string{"customer", "user"}
	ratingKeywords     = []string{"rating", "score", "satisfaction"}
	amountKeywords     = []string{"amount", "value", "balance", "total"}
	typeKeywords       = []string{"type", "category"}
	timeKeywords       = []string{"time", "duration", "latency"}
	tempKeywords       = []string{"temp"}
	precipKeywords     = []string{"rain", "precip", "humidity"}
)

// firstMatch returns the first column whose lowercase name contains any of
// the keywords, in dataset column order.
func firstMatch(ds *dataset.Dataset, keywords []string) (string, bool) {
	for _, col := range ds.Columns() {
		lower := strings.ToLower(col)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return col, true
			}
		}
	}
	return "", false
}
