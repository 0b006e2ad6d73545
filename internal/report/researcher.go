package report

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mark3labs/flyt"

	"github.com/mohammad-safakhou/reportgen/config"
	"github.com/mohammad-safakhou/reportgen/internal/telemetry"
	"github.com/mohammad-safakhou/reportgen/provider"
	"github.com/mohammad-safakhou/reportgen/tools/web_search"
)

const keywordPrompt = `Research theme: %s
Section: %s
Based on the above, generate 3 detailed search keyword phrases.`

const summaryPrompt = `You are a professional researcher.
Write a detailed business report based on the information below.

Structure:
1. Introduction: outline what this section covers
2. Body: detailed analysis of the search results (market trends, competition, risks)
3. Conclusion: insights and recommendations drawn from the research

Reference data:
---
%s
---

Final report:`

// Researcher runs the evidence-gathering stage: for every planned section it
// generates search keywords, retrieves web results, and summarizes them.
type Researcher struct {
	llm             provider.Provider
	search          web_search.WebSearcher
	maxResults      int
	workers         int
	continueOnError bool
	timeout         time.Duration
	summaryOptions  map[string]interface{}
	progress        ProgressSink
	telemetry       *telemetry.Telemetry
	logger          *log.Logger
}

func NewResearcher(llm provider.Provider, search web_search.WebSearcher, cfg *config.Config, progress ProgressSink, tel *telemetry.Telemetry) *Researcher {
	if progress == nil {
		progress = NopSink{}
	}
	return &Researcher{
		llm:             llm,
		search:          search,
		maxResults:      cfg.Search.MaxResults,
		workers:         cfg.Report.SectionWorkers,
		continueOnError: cfg.Report.ContinueOnError,
		timeout:         cfg.General.DefaultTimeout,
		summaryOptions: map[string]interface{}{
			"temperature": cfg.Report.SummaryTemperature,
			"max_tokens":  cfg.Report.SummaryMaxTokens,
		},
		progress:  progress,
		telemetry: tel,
		logger:    log.New(log.Writer(), "[RESEARCHER] ", log.LstdFlags),
	}
}

// sectionResult holds one section's research output so that workers never
// touch the shared state directly; results are merged in section order.
type sectionResult struct {
	summary string
	refs    []Reference
	err     error
}

// Research fills state.Summaries and state.References, one entry per planned
// section. With continue_on_error enabled a failed section is marked and the
// remaining sections still run; otherwise the first failure aborts the stage
// before any results are merged.
func (r *Researcher) Research(ctx context.Context, state *ResearchState) error {
	if len(state.Sections) == 0 {
		return errors.New("research requires a planned section list")
	}

	results := make([]sectionResult, len(state.Sections))
	if r.workers > 1 {
		pool := flyt.NewWorkerPool(r.workers)
		for i, section := range state.Sections {
			pool.Submit(func() {
				r.progress.Progress("Processing section: %s", section)
				summary, refs, err := r.researchSection(ctx, state.Theme, section)
				results[i] = sectionResult{summary: summary, refs: refs, err: err}
			})
		}
		pool.Wait()
		pool.Close()
	} else {
		for i, section := range state.Sections {
			r.progress.Progress("Processing section: %s", section)
			summary, refs, err := r.researchSection(ctx, state.Theme, section)
			results[i] = sectionResult{summary: summary, refs: refs, err: err}
			if err != nil && !r.continueOnError {
				break
			}
		}
	}

	if !r.continueOnError {
		for _, res := range results {
			if res.err != nil {
				return res.err
			}
		}
	}

	var firstErr error
	failed := 0
	for i, res := range results {
		section := state.Sections[i]
		if res.err != nil {
			failed++
			if firstErr == nil {
				firstErr = res.err
			}
			r.logger.Printf("section %q failed, continuing: %v", section, res.err)
			state.Summaries[section] = fmt.Sprintf("Research for this section failed: %v", res.err)
			state.References[section] = []Reference{}
			continue
		}
		state.Summaries[section] = res.summary
		state.References[section] = res.refs
	}
	if failed == len(results) {
		return firstErr
	}
	return nil
}

func (r *Researcher) researchSection(ctx context.Context, theme, section string) (string, []Reference, error) {
	keywords, err := r.complete(ctx, fmt.Sprintf(keywordPrompt, theme, section), nil)
	if err != nil {
		return "", nil, err
	}

	sctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()
	start := time.Now()
	found, err := r.search.Search(sctx, keywords, r.maxResults)
	r.telemetry.RecordSearch(time.Since(start), len(found), err)
	if err != nil {
		return "", nil, upstream(ServiceSearch, StageResearch, err)
	}

	refs := make([]Reference, 0, len(found))
	var evidence strings.Builder
	for _, res := range found {
		refs = append(refs, Reference{Title: res.Title, Link: res.URL})
		fmt.Fprintf(&evidence, "- %s (%s): %s\n", res.Title, res.URL, res.Snippet)
	}
	if len(found) == 0 {
		evidence.WriteString("(no search results were found for this section)\n")
	}

	summary, err := r.complete(ctx, fmt.Sprintf(summaryPrompt, evidence.String()), r.summaryOptions)
	if err != nil {
		return "", nil, err
	}
	return summary, refs, nil
}

func (r *Researcher) complete(ctx context.Context, prompt string, options map[string]interface{}) (string, error) {
	cctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()
	start := time.Now()
	out, err := r.llm.Complete(cctx, prompt, options)
	r.telemetry.RecordLLMCall(StageResearch, time.Since(start), err)
	if err != nil {
		return "", upstream(ServiceLLM, StageResearch, err)
	}
	return out, nil
}
