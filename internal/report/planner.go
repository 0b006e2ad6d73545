package report

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mohammad-safakhou/reportgen/internal/telemetry"
	"github.com/mohammad-safakhou/reportgen/provider"
)

// DefaultSections is the fallback plan used when the model response yields
// no parseable section titles.
var DefaultSections = []string{"Overview", "Detailed Analysis", "Conclusion"}

const planPrompt = `Research theme: %s
Considering the relevant perspectives for this theme, propose 5 to 7 detailed report sections.
Output each section as a numbered list item, for example: 1. Market Trends`

// Planner turns a research theme into an ordered list of section titles.
type Planner struct {
	llm       provider.Provider
	timeout   time.Duration
	telemetry *telemetry.Telemetry
	logger    *log.Logger
}

func NewPlanner(llm provider.Provider, timeout time.Duration, tel *telemetry.Telemetry) *Planner {
	return &Planner{
		llm:       llm,
		timeout:   timeout,
		telemetry: tel,
		logger:    log.New(log.Writer(), "[PLANNER] ", log.LstdFlags),
	}
}

// Plan fills state.Sections. When the model response contains no numbered
// list items the fixed DefaultSections plan is used instead, which is logged
// but not treated as an error.
func (p *Planner) Plan(ctx context.Context, state *ResearchState) error {
	cctx, cancel := withTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	raw, err := p.llm.Complete(cctx, fmt.Sprintf(planPrompt, state.Theme), nil)
	p.telemetry.RecordLLMCall(StagePlan, time.Since(start), err)
	if err != nil {
		return upstream(ServiceLLM, StagePlan, err)
	}

	sections := ParseSectionList(raw)
	if len(sections) == 0 {
		p.logger.Printf("no sections parsed from model response, falling back to defaults")
		sections = append([]string(nil), DefaultSections...)
	}
	state.Sections = sections
	return nil
}

// ParseSectionList extracts section titles from a raw model response. A line
// contributes a title when it contains ". "; the text after the first
// occurrence is the title, with the numbering prefix discarded. Malformed
// input yields an empty slice, never an error.
func ParseSectionList(raw string) []string {
	var sections []string
	for _, line := range strings.Split(raw, "\n") {
		_, title, found := strings.Cut(line, ". ")
		if !found {
			continue
		}
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		sections = append(sections, title)
	}
	return sections
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
