// Package pipeline wires schema introspection, planning, KPI computation,
// chart binding, and narrative generation into one run per dataset. Each run
// owns its intermediate objects; nothing is cached across runs, so concurrent
// invocations over independent datasets are safe.
package pipeline

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"insightgen/internal/charts"
	"insightgen/internal/dataset"
	"insightgen/internal/insight"
	"insightgen/internal/kpi"
	"insightgen/internal/planner"
	"insightgen/internal/schema"
)

// Result is the complete output for one dataset run.
type Result struct {
	Name      string                `json:"name"`
	Schema    schema.Metadata       `json:"schema"`
	Plan      *planner.AnalysisPlan `json:"plan"`
	KPIs      kpi.Result            `json:"kpis"`
	Bindings  []charts.Binding      `json:"chart_bindings"`
	Narrative insight.Narrative     `json:"narrative"`
}

// Engine runs the analysis pipeline. Planner and Insights may be nil: a nil
// Planner always resolves to the deterministic fallback plan, and a nil
// Insights skips narrative generation entirely.
type Engine struct {
	Planner  planner.Planner
	Insights *insight.Generator
}

// Analyze runs the full pipeline over one dataset. It never fails for
// degenerate input; the only error source is a cancelled context.
func (e *Engine) Analyze(ctx context.Context, name string, ds *dataset.Dataset) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	meta := schema.Describe(ds)
	plan := planner.Resolve(ctx, e.Planner, meta)
	kpis := kpi.Compute(ds, plan)
	bindings := charts.Resolve(ds, plan)

	res := &Result{
		Name:     name,
		Schema:   meta,
		Plan:     plan,
		KPIs:     kpis,
		Bindings: bindings,
	}
	if e.Insights != nil {
		res.Narrative = e.Insights.Generate(ctx, kpis, plan)
	}

	log.Info().
		Str("dataset", name).
		Str("datasetType", plan.DatasetType).
		Int("kpis", len(kpis)).
		Int("charts", len(bindings)).
		Msg("Analysis complete")

	return res, nil
}

// AnalyzeAll runs the pipeline over several named datasets concurrently.
// Results are ordered by dataset name. A failure on any dataset cancels the
// rest.
func (e *Engine) AnalyzeAll(ctx context.Context, datasets map[string]*dataset.Dataset) ([]*Result, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	var mu sync.Mutex
	results := make(map[string]*Result, len(datasets))

	for name, ds := range datasets {
		g.Go(func() error {
			res, err := e.Analyze(ctx, name, ds)
			if err != nil {
				return fmt.Errorf("analyze %s: %w", name, err)
			}
			mu.Lock()
			results[name] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	slices.Sort(names)

	ordered := make([]*Result, 0, len(results))
	for _, name := range names {
		ordered = append(ordered, results[name])
	}
	return ordered, nil
}
