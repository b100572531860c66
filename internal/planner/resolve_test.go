package planner

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"insightgen/internal/gemini"
	"insightgen/internal/schema"
)

type failingPlanner struct{}

func (failingPlanner) Plan(context.Context, schema.Metadata) (*AnalysisPlan, error) {
	return nil, errors.New("service unavailable")
}

func TestResolve_FallsBackOnError(t *testing.T) {
	plan := Resolve(context.Background(), failingPlanner{}, schema.Metadata{})

	if plan.DatasetType != TypeGeneric {
		t.Errorf("DatasetType = %q, want %q", plan.DatasetType, TypeGeneric)
	}
	if len(plan.ChartIntents) != 1 || plan.ChartIntents[0].XColumn != AutoDetect {
		t.Errorf("fallback chart intents = %+v", plan.ChartIntents)
	}
	if len(plan.KPIDirectives) != 1 || plan.KPIDirectives[0].Calculation != "summary_statistics" {
		t.Errorf("fallback directives = %+v", plan.KPIDirectives)
	}
}

func TestResolve_NilPlanner(t *testing.T) {
	plan := Resolve(context.Background(), nil, schema.Metadata{})
	if plan.DatasetType != TypeGeneric {
		t.Errorf("DatasetType = %q, want %q", plan.DatasetType, TypeGeneric)
	}
}

func geminiTextResponse(text string) string {
	return `{"candidates":[{"content":{"parts":[{"text":` + jsonString(text) + `}]}}]}`
}

func jsonString(s string) string {
	out := `"`
	for _, r := range s {
		switch r {
		case '"':
			out += `\"`
		case '\\':
			out += `\\`
		case '\n':
			out += `\n`
		case '\t':
			out += `\t`
		default:
			out += string(r)
		}
	}
	return out + `"`
}

func TestGeminiPlanner_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(geminiTextResponse(validPlanJSON)))
	}))
	defer srv.Close()

	p := NewGemini(gemini.NewClient(gemini.Config{APIKey: "k", Endpoint: srv.URL}))
	plan, err := p.Plan(context.Background(), schema.Metadata{Columns: []string{"clicks"}})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if plan.DatasetType != TypeAdPerformance {
		t.Errorf("DatasetType = %q", plan.DatasetType)
	}
}

func TestGeminiPlanner_MalformedResponseIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(geminiTextResponse("not json at all")))
	}))
	defer srv.Close()

	p := NewGemini(gemini.NewClient(gemini.Config{APIKey: "k", Endpoint: srv.URL}))
	if _, err := p.Plan(context.Background(), schema.Metadata{}); err == nil {
		t.Error("expected error for malformed plan text")
	}
}

func TestGeminiPlanner_TimeoutResolvesToFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	p := NewGemini(gemini.NewClient(gemini.Config{
		APIKey:   "k",
		Endpoint: srv.URL,
		Timeout:  20 * time.Millisecond,
	}))

	plan := Resolve(context.Background(), p, schema.Metadata{})
	if plan.DatasetType != TypeGeneric {
		t.Errorf("DatasetType = %q, want fallback %q", plan.DatasetType, TypeGeneric)
	}
}
