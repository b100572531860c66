package planner

import (
	"context"

	"github.com/rs/zerolog/log"

	"insightgen/internal/schema"
)

// Resolve produces an analysis plan from the primary strategy, falling back
// to the deterministic plan on any failure. It is a total function from
// schema to plan: the primary's absence or misbehavior never aborts the
// pipeline, and no error is ever returned to the caller.
func Resolve(ctx context.Context, primary Planner, meta schema.Metadata) *AnalysisPlan {
	if primary == nil {
		return FallbackPlan()
	}

	plan, err := primary.Plan(ctx, meta)
	if err != nil || plan == nil {
		log.Warn().Err(err).Msg("Planner failed, using deterministic fallback plan")
		return FallbackPlan()
	}
	return plan
}
