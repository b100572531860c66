package planner

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"insightgen/internal/gemini"
	"insightgen/internal/schema"
)

// GeminiPlanner is the AI-backed planning strategy. It is an untrusted,
// best-effort oracle: any transport error, timeout, or malformed response is
// surfaced as an error for Resolve to convert into the fallback plan.
type GeminiPlanner struct {
	client *gemini.Client
}

// NewGemini creates an AI-backed planner on top of a gemini client.
func NewGemini(client *gemini.Client) *GeminiPlanner {
	return &GeminiPlanner{client: client}
}

// Plan classifies the dataset via one generateContent exchange and parses the
// constrained JSON response into an AnalysisPlan.
func (g *GeminiPlanner) Plan(ctx context.Context, meta schema.Metadata) (*AnalysisPlan, error) {
	text, _, err := g.client.Generate(ctx, buildPlanningPrompt(meta))
	if err != nil {
		return nil, fmt.Errorf("gemini call: %w", err)
	}

	plan, err := parsePlan(text)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("datasetType", plan.DatasetType).
		Int("chartIntents", len(plan.ChartIntents)).
		Int("kpiDirectives", len(plan.KPIDirectives)).
		Msg("Analysis plan created")

	return plan, nil
}
