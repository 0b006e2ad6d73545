package report

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mohammad-safakhou/reportgen/internal/telemetry"
	"github.com/mohammad-safakhou/reportgen/provider"
)

const compilePrompt = `You are a professional researcher.
Write one integrated business report from the per-section summaries below.

Structure:
1. Introduction: explain the background and purpose of the research theme
2. Body: integrate the section summaries into one logical analysis
3. Conclusion: overall insights and recommendations

Research theme: %s

Section summaries:
---
%s
---

Final report:`

// Compiler merges per-section summaries into the final report.
type Compiler struct {
	llm       provider.Provider
	timeout   time.Duration
	options   map[string]interface{}
	telemetry *telemetry.Telemetry
	logger    *log.Logger
}

func NewCompiler(llm provider.Provider, timeout time.Duration, temperature float64, maxTokens int, tel *telemetry.Telemetry) *Compiler {
	return &Compiler{
		llm:     llm,
		timeout: timeout,
		options: map[string]interface{}{
			"temperature": temperature,
			"max_tokens":  maxTokens,
		},
		telemetry: tel,
		logger:    log.New(log.Writer(), "[COMPILER] ", log.LstdFlags),
	}
}

// Compile writes the final document under FinalReportKey. Summaries are fed
// to the model in section order so the compiled report is deterministic in
// structure.
func (c *Compiler) Compile(ctx context.Context, state *ResearchState) error {
	if len(state.Summaries) == 0 {
		return errors.New("compile requires section summaries")
	}

	var body strings.Builder
	for _, section := range state.Sections {
		summary, ok := state.Summaries[section]
		if !ok {
			continue
		}
		fmt.Fprintf(&body, "## %s\n%s\n\n", section, summary)
	}

	cctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()
	start := time.Now()
	out, err := c.llm.Complete(cctx, fmt.Sprintf(compilePrompt, state.Theme, body.String()), c.options)
	c.telemetry.RecordLLMCall(StageCompile, time.Since(start), err)
	if err != nil {
		return upstream(ServiceLLM, StageCompile, err)
	}

	state.Summaries[FinalReportKey] = out
	c.logger.Printf("compiled final report (%d chars) from %d section summaries", len(out), len(state.Sections))
	return nil
}
