package report

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

// stubLLM scripts Complete responses for tests. When fn is set it decides the
// response per call; otherwise resp/err are returned verbatim.
type stubLLM struct {
	resp  string
	err   error
	fn    func(prompt string, options map[string]interface{}) (string, error)
	calls []string
}

func (s *stubLLM) Complete(ctx context.Context, prompt string, options map[string]interface{}) (string, error) {
	s.calls = append(s.calls, prompt)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.fn != nil {
		return s.fn(prompt, options)
	}
	return s.resp, s.err
}

func TestParseSectionList(t *testing.T) {
	raw := "Here is a plan:\n1. A\nsome commentary\n2. B\n\n3. C\nthe end"
	got := ParseSectionList(raw)
	want := []string{"A", "B", "C"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseSectionList = %v, want %v", got, want)
	}
}

func TestParseSectionListMalformed(t *testing.T) {
	cases := map[string]string{
		"no delimiter":   "Overview\nAnalysis\nConclusion",
		"empty response": "",
		"only numbering": "1. \n2. ",
	}
	for name, raw := range cases {
		if got := ParseSectionList(raw); len(got) != 0 {
			t.Errorf("%s: ParseSectionList = %v, want empty", name, got)
		}
	}
}

func TestPlanSetsSections(t *testing.T) {
	llm := &stubLLM{resp: "1. Market Trends\n2. Competition"}
	planner := NewPlanner(llm, 0, nil)
	state := NewResearchState("Electric Vehicle Market")

	if err := planner.Plan(context.Background(), state); err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	want := []string{"Market Trends", "Competition"}
	if !reflect.DeepEqual(state.Sections, want) {
		t.Fatalf("sections = %v, want %v", state.Sections, want)
	}
}

func TestPlanFallsBackToDefaults(t *testing.T) {
	llm := &stubLLM{resp: "I could not come up with a plan"}
	planner := NewPlanner(llm, 0, nil)
	state := NewResearchState("theme")

	if err := planner.Plan(context.Background(), state); err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if !reflect.DeepEqual(state.Sections, DefaultSections) {
		t.Fatalf("sections = %v, want defaults %v", state.Sections, DefaultSections)
	}
}

func TestPlanWrapsUpstreamFailure(t *testing.T) {
	llm := &stubLLM{err: errors.New("rate limited")}
	planner := NewPlanner(llm, 0, nil)
	state := NewResearchState("theme")

	err := planner.Plan(context.Background(), state)
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("Plan error = %v, want UpstreamError", err)
	}
	if ue.Service != ServiceLLM || ue.Stage != StagePlan {
		t.Fatalf("unexpected error detail: service=%s stage=%s", ue.Service, ue.Stage)
	}
	if state.Sections != nil {
		t.Fatalf("sections set despite failure: %v", state.Sections)
	}
}
