// Package report writes analysis results as markdown and JSON files.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"insightgen/internal/dataset"
	"insightgen/internal/pipeline"
	"insightgen/internal/visuals"
)

// Write renders all results into one markdown report plus a machine-readable
// JSON file under dir. It returns the markdown path.
func Write(dir string, results []*pipeline.Result, datasets map[string]*dataset.Dataset) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	stamp := time.Now().Format("2006-01-02_150405")
	mdPath := filepath.Join(dir, fmt.Sprintf("report_%s.md", stamp))
	jsonPath := filepath.Join(dir, fmt.Sprintf("report_%s.json", stamp))

	md := renderMarkdown(results, datasets)
	if err := os.WriteFile(mdPath, []byte(md), 0644); err != nil {
		return "", fmt.Errorf("write markdown report: %w", err)
	}

	raw, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal results: %w", err)
	}
	if err := os.WriteFile(jsonPath, raw, 0644); err != nil {
		return "", fmt.Errorf("write json report: %w", err)
	}

	log.Info().Str("markdown", mdPath).Str("json", jsonPath).Msg("Report written")
	return mdPath, nil
}

func renderMarkdown(results []*pipeline.Result, datasets map[string]*dataset.Dataset) string {
	var sb strings.Builder
	sb.WriteString("# Data Analysis Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", time.Now().Format(time.RFC1123)))

	for _, res := range results {
		sb.WriteString(fmt.Sprintf("## %s\n\n", res.Name))
		sb.WriteString(fmt.Sprintf("Dataset type: `%s` | Rows: %d | Columns: %d\n\n",
			res.Plan.DatasetType, res.Schema.RowCount, res.Schema.ColumnCount))

		writeNarrative(&sb, res)
		writeKPIs(&sb, res)
		writeCharts(&sb, res, datasets[res.Name])
	}
	return sb.String()
}

func writeNarrative(sb *strings.Builder, res *pipeline.Result) {
	n := res.Narrative
	if n.Summary == "" && n.KeyFindings == "" {
		return
	}
	if n.Summary != "" {
		sb.WriteString("### Executive Summary\n\n")
		sb.WriteString(strings.TrimSpace(n.Summary) + "\n\n")
	}
	if n.KeyFindings != "" {
		sb.WriteString("### Key Findings\n\n")
		sb.WriteString(strings.TrimSpace(n.KeyFindings) + "\n\n")
	}
	if n.Trends != "" {
		sb.WriteString("### Trends\n\n")
		sb.WriteString(strings.TrimSpace(n.Trends) + "\n\n")
	}
	if n.Recommendations != "" {
		sb.WriteString("### Recommendations\n\n")
		sb.WriteString(strings.TrimSpace(n.Recommendations) + "\n\n")
	}
}

func writeKPIs(sb *strings.Builder, res *pipeline.Result) {
	if len(res.KPIs) == 0 {
		return
	}
	sb.WriteString("### Key Metrics\n\n")
	sb.WriteString("| Metric | Value |\n|---|---|\n")

	names := make([]string, 0, len(res.KPIs))
	for name := range res.KPIs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		sb.WriteString(fmt.Sprintf("| %s | %s |\n", displayName(name), formatValue(res.KPIs[name])))
	}
	sb.WriteString("\n")
}

func writeCharts(sb *strings.Builder, res *pipeline.Result, ds *dataset.Dataset) {
	if ds == nil {
		return
	}
	wrote := false
	for _, b := range res.Bindings {
		chart := visuals.GenerateChart(ds, b)
		if chart == "" {
			continue
		}
		if !wrote {
			sb.WriteString("### Charts\n\n")
			wrote = true
		}
		sb.WriteString(chart + "\n\n")
	}
}

func displayName(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func formatValue(v any) string {
	switch val := v.(type) {
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%.2f", val)
	case map[string]float64:
		return fmt.Sprintf("%d statistics", len(val))
	case map[string]any:
		return fmt.Sprintf("%d entries", len(val))
	default:
		return fmt.Sprintf("%v", val)
	}
}
