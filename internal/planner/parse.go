package planner

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

// planSchema is the structural contract for the classifier's response. All
// four top-level fields must be present; anything less is treated as failure.
var planSchema = mustResolve(&jsonschema.Schema{
	Type:     "object",
	Required: []string{"dataset_type", "required_columns", "chart_specs", "kpi_calculations"},
	Properties: map[string]*jsonschema.Schema{
		"dataset_type":     {Type: "string"},
		"required_columns": {Type: "object"},
		"chart_specs":      {Type: "array"},
		"kpi_calculations": {Type: "array"},
	},
})

func mustResolve(s *jsonschema.Schema) *jsonschema.Resolved {
	resolved, err := s.Resolve(nil)
	if err != nil {
		panic(fmt.Sprintf("planner: invalid plan schema: %v", err))
	}
	return resolved
}

// stripCodeFences removes surrounding markdown code-block markers, the only
// formatting noise tolerated in a response.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// parsePlan extracts a validated AnalysisPlan from raw response text. Any
// deviation from the expected shape is an error; the caller converts it into
// the deterministic fallback plan.
func parsePlan(text string) (*AnalysisPlan, error) {
	cleaned := stripCodeFences(text)
	if cleaned == "" {
		return nil, fmt.Errorf("empty response")
	}

	var raw any
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("parse plan response: %w (response: %.200s)", err, cleaned)
	}
	if err := planSchema.Validate(raw); err != nil {
		return nil, fmt.Errorf("plan response failed validation: %w", err)
	}

	var plan AnalysisPlan
	if err := json.Unmarshal([]byte(cleaned), &plan); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	if plan.DatasetType == "" {
		plan.DatasetType = TypeGeneric
	}
	return &plan, nil
}
