// Package insight turns a KPI result and its plan into executive narrative
// text via the Gemini API, with a deterministic fallback when the call fails.
package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"insightgen/internal/gemini"
	"insightgen/internal/kpi"
	"insightgen/internal/planner"
)

// Narrative holds the parsed sections of the generated report text.
type Narrative struct {
	KeyFindings     string `json:"key_findings"`
	Trends          string `json:"trends"`
	Recommendations string `json:"recommendations"`
	Summary         string `json:"summary"`
}

// Usage accumulates per-generator API consumption. Counters belong to one
// Generator instance and are read through Usage(), never shared globally.
type Usage struct {
	Requests         int
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Generator produces narratives. Safe for concurrent use; a nil client makes
// every call take the fallback path.
type Generator struct {
	client *gemini.Client

	mu    sync.Mutex
	usage Usage
}

func New(client *gemini.Client) *Generator {
	return &Generator{client: client}
}

// Usage returns a snapshot of the accumulated API consumption.
func (g *Generator) Usage() Usage {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.usage
}

// Generate writes the executive narrative for a KPI result. Failures of the
// external call degrade to fixed fallback text and are never returned as
// errors.
func (g *Generator) Generate(ctx context.Context, kpis kpi.Result, plan *planner.AnalysisPlan) Narrative {
	if g.client == nil {
		return fallbackNarrative(kpis)
	}

	text, usage, err := g.client.Generate(ctx, buildInsightPrompt(kpis, plan))
	if err != nil {
		log.Warn().Err(err).Msg("Insight generation failed, using fallback narrative")
		return fallbackNarrative(kpis)
	}

	g.mu.Lock()
	g.usage.Requests++
	if usage != nil {
		g.usage.PromptTokens += usage.PromptTokenCount
		g.usage.CompletionTokens += usage.CandidatesTokenCount
		g.usage.TotalTokens += usage.TotalTokenCount
	}
	g.mu.Unlock()

	return parseNarrative(text)
}

func buildInsightPrompt(kpis kpi.Result, plan *planner.AnalysisPlan) string {
	datasetType := planner.TypeGeneric
	if plan != nil && plan.DatasetType != "" {
		datasetType = plan.DatasetType
	}

	kpiJSON, err := json.MarshalIndent(kpis, "", "  ")
	if err != nil {
		kpiJSON = []byte("{}")
	}

	var b strings.Builder
	b.WriteString("You are a senior business analyst creating an executive report. Analyze this data:\n\n")
	fmt.Fprintf(&b, "Dataset type: %s\n", datasetType)
	fmt.Fprintf(&b, "KPIs: %s\n\n", kpiJSON)
	b.WriteString("Create a professional executive report with:\n\n")
	b.WriteString("1. KEY FINDINGS (3 most important discoveries with specific numbers)\n")
	b.WriteString("2. TRENDS ANALYSIS (growth patterns, anomalies, correlations)\n")
	b.WriteString("3. RECOMMENDATIONS (3 specific actionable steps for management)\n")
	b.WriteString("4. EXECUTIVE SUMMARY (2-sentence overview highlighting biggest opportunity and risk)\n\n")
	b.WriteString("Use business language. Include percentages and specific metrics.")
	return b.String()
}

// parseNarrative splits the response into sections by heading keywords. Lines
// before the first recognized heading are discarded; headings match
// case-insensitively anywhere in the line.
func parseNarrative(content string) Narrative {
	var n Narrative
	var current *string

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)

		switch {
		case strings.Contains(lower, "key findings"):
			current = &n.KeyFindings
		case strings.Contains(lower, "trends"):
			current = &n.Trends
		case strings.Contains(lower, "recommendations"):
			current = &n.Recommendations
		case strings.Contains(lower, "summary"):
			current = &n.Summary
		case line != "" && current != nil:
			*current += line + "\n"
		}
	}
	return n
}

func fallbackNarrative(kpis kpi.Result) Narrative {
	return Narrative{
		KeyFindings:     "Data analysis completed successfully",
		Trends:          "Performance indicators computed from available metrics",
		Recommendations: "Continue monitoring key metrics",
		Summary:         fmt.Sprintf("Analysis generated from %d KPIs", len(kpis)),
	}
}
