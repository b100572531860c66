// Package visuals renders resolved chart bindings as Mermaid blocks for
// embedding in markdown reports.
package visuals

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"insightgen/internal/charts"
	"insightgen/internal/dataset"
	"insightgen/internal/kpi"
)

const maxPoints = 50

// GenerateChart renders one binding against its dataset. Unsupported kinds
// and degenerate data produce an empty string, never a broken block.
func GenerateChart(ds *dataset.Dataset, b charts.Binding) string {
	switch b.ChartKind {
	case charts.KindLineTrend:
		return lineChart(ds, b)
	case charts.KindBar:
		return barChart(ds, b)
	case charts.KindPie:
		return pieChart(ds, b)
	default:
		return ""
	}
}

func lineChart(ds *dataset.Dataset, b charts.Binding) string {
	xs := ds.Values(b.XColumn)
	ys := ds.Values(b.YColumn)

	var labels []string
	var values []string
	maxY := 0.0
	for i := range xs {
		if i >= len(ys) || len(labels) >= maxPoints {
			break
		}
		y, ok := dataset.ParseNumber(ys[i])
		if !ok {
			continue
		}
		labels = append(labels, fmt.Sprintf("%q", xs[i]))
		values = append(values, fmt.Sprintf("%.1f", y))
		if y > maxY {
			maxY = y
		}
	}
	if len(labels) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title %q\n", b.Title))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis %q 0 --> %d\n", b.YColumn, axisCeil(maxY)))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

func barChart(ds *dataset.Dataset, b charts.Binding) string {
	var labels []string
	var values []float64

	if b.XColumn != "" && b.YColumn != "" {
		labels, values = groupSum(ds, b.XColumn, b.YColumn)
	} else {
		for _, col := range b.Columns {
			if m, ok := kpi.Mean(ds.Floats(col)); ok {
				labels = append(labels, col)
				values = append(values, m)
			}
		}
	}
	if len(labels) == 0 {
		return ""
	}

	maxY := 0.0
	var quoted []string
	var formatted []string
	for i, v := range values {
		quoted = append(quoted, fmt.Sprintf("%q", labels[i]))
		formatted = append(formatted, fmt.Sprintf("%.1f", v))
		if v > maxY {
			maxY = v
		}
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title %q\n", b.Title))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(quoted, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis %q 0 --> %d\n", valueAxisLabel(b), axisCeil(maxY)))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(formatted, ", ")))
	sb.WriteString("```")
	return sb.String()
}

func pieChart(ds *dataset.Dataset, b charts.Binding) string {
	counts := make(map[string]int)
	for _, v := range ds.Values(b.XColumn) {
		if !dataset.IsNull(v) {
			counts[v]++
		}
	}
	if len(counts) == 0 {
		return ""
	}

	type slice struct {
		label string
		count int
	}
	slices := make([]slice, 0, len(counts))
	for label, count := range counts {
		slices = append(slices, slice{label, count})
	}
	sort.Slice(slices, func(i, j int) bool {
		if slices[i].count != slices[j].count {
			return slices[i].count > slices[j].count
		}
		return slices[i].label < slices[j].label
	})
	if len(slices) > 10 {
		slices = slices[:10]
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("pie showData\n")
	sb.WriteString(fmt.Sprintf("    title %q\n", b.Title))
	for _, s := range slices {
		sb.WriteString(fmt.Sprintf("    %q : %d\n", s.label, s.count))
	}
	sb.WriteString("```")
	return sb.String()
}

// groupSum aggregates the value column per category, largest first, capped
// at 10 categories.
func groupSum(ds *dataset.Dataset, categoryCol, valueCol string) ([]string, []float64) {
	cats := ds.Values(categoryCol)
	vals := ds.Values(valueCol)

	sums := make(map[string]float64)
	for i, cat := range cats {
		if i >= len(vals) || dataset.IsNull(cat) {
			continue
		}
		if f, ok := dataset.ParseNumber(vals[i]); ok {
			sums[cat] += f
		}
	}

	keys := make([]string, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if sums[keys[i]] != sums[keys[j]] {
			return sums[keys[i]] > sums[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > 10 {
		keys = keys[:10]
	}

	values := make([]float64, len(keys))
	for i, k := range keys {
		values[i] = sums[k]
	}
	return keys, values
}

func valueAxisLabel(b charts.Binding) string {
	if b.YColumn != "" {
		return b.YColumn
	}
	return "Value"
}

func axisCeil(maxY float64) int {
	scaled := maxY * 1.2
	if scaled < 1 {
		scaled = 1
	}
	return int(math.Ceil(scaled))
}
