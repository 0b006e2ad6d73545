package report

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func researchedState() *ResearchState {
	state := plannedState("Electric Vehicle Market", "Market Trends", "Competition")
	state.Summaries["Market Trends"] = "trends summary"
	state.Summaries["Competition"] = "competition summary"
	state.References["Market Trends"] = []Reference{{Title: "t", Link: "l"}}
	state.References["Competition"] = []Reference{}
	return state
}

func TestCompileWritesReservedKey(t *testing.T) {
	llm := &stubLLM{resp: "the integrated report"}
	c := NewCompiler(llm, 0, 0.3, 10000, nil)
	state := researchedState()

	if err := c.Compile(context.Background(), state); err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if state.FinalReport() != "the integrated report" {
		t.Fatalf("final report = %q", state.FinalReport())
	}
	if len(state.Summaries) != 3 {
		t.Fatalf("Compile added extra keys: %v", state.Summaries)
	}
}

func TestCompilePromptEmbedsSummariesInOrder(t *testing.T) {
	llm := &stubLLM{resp: "FINAL"}
	c := NewCompiler(llm, 0, 0.3, 10000, nil)
	state := researchedState()

	if err := c.Compile(context.Background(), state); err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	prompt := llm.calls[0]
	trends := strings.Index(prompt, "trends summary")
	competition := strings.Index(prompt, "competition summary")
	if trends < 0 || competition < 0 {
		t.Fatalf("summaries missing from prompt:\n%s", prompt)
	}
	if trends > competition {
		t.Fatal("summaries embedded out of section order")
	}
}

func TestCompileOptionsLowerRandomness(t *testing.T) {
	var got map[string]interface{}
	llm := &stubLLM{fn: func(prompt string, options map[string]interface{}) (string, error) {
		got = options
		return "FINAL", nil
	}}
	c := NewCompiler(llm, 0, 0.3, 10000, nil)

	if err := c.Compile(context.Background(), researchedState()); err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if got["temperature"] != 0.3 || got["max_tokens"] != 10000 {
		t.Fatalf("options = %v", got)
	}
}

func TestCompileWrapsUpstreamFailure(t *testing.T) {
	llm := &stubLLM{err: errors.New("timeout")}
	c := NewCompiler(llm, 0, 0.3, 10000, nil)
	state := researchedState()

	err := c.Compile(context.Background(), state)
	var ue *UpstreamError
	if !errors.As(err, &ue) || ue.Stage != StageCompile {
		t.Fatalf("Compile error = %v, want compile UpstreamError", err)
	}
	if _, ok := state.Summaries[FinalReportKey]; ok {
		t.Fatal("final report written despite failure")
	}
}

func TestCompileRequiresSummaries(t *testing.T) {
	c := NewCompiler(&stubLLM{resp: "x"}, 0, 0.3, 10000, nil)
	if err := c.Compile(context.Background(), plannedState("theme", "A")); err == nil {
		t.Fatal("Compile accepted a state without summaries")
	}
}
