package report

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/flyt"

	"github.com/mohammad-safakhou/reportgen/internal/telemetry"
	"github.com/mohammad-safakhou/reportgen/utils"
)

const stateKey = "research_state"

// ErrEmptyTheme is returned for a run request without a research theme.
var ErrEmptyTheme = errors.New("research theme must not be empty")

// Run lifecycle markers, each naming the last stage that completed.
const (
	RunStarted    = "started"
	RunPlanned    = "planned"
	RunResearched = "researched"
	RunCompiled   = "compiled"
	RunFailed     = "failed"
)

// RunStatus is the externally visible record of one pipeline run.
type RunStatus struct {
	ID         string         `json:"id"`
	Theme      string         `json:"theme"`
	Stage      string         `json:"stage"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at,omitempty"`
	Error      string         `json:"error,omitempty"`
	State      *ResearchState `json:"state,omitempty"`
}

// Pipeline wires the three stages into a fixed flow and tracks run status.
// Stages execute strictly in order; a stage failure aborts the run and the
// partial state stays readable through GetStatus.
type Pipeline struct {
	planner    *Planner
	researcher *Researcher
	compiler   *Compiler
	telemetry  *telemetry.Telemetry
	logger     *log.Logger

	mu   sync.RWMutex
	runs map[string]*RunStatus
}

func NewPipeline(planner *Planner, researcher *Researcher, compiler *Compiler, tel *telemetry.Telemetry) *Pipeline {
	return &Pipeline{
		planner:    planner,
		researcher: researcher,
		compiler:   compiler,
		telemetry:  tel,
		logger:     log.New(log.Writer(), "[PIPELINE] ", log.LstdFlags),
		runs:       make(map[string]*RunStatus),
	}
}

// Run generates a report for the theme. It returns the run ID together with
// the final state; on failure the state carries whatever the completed
// stages produced.
func (p *Pipeline) Run(ctx context.Context, theme string) (string, *ResearchState, error) {
	theme = strings.TrimSpace(theme)
	if theme == "" {
		return "", nil, ErrEmptyTheme
	}

	runID := uuid.New().String()
	state := NewResearchState(theme)
	p.track(&RunStatus{ID: runID, Theme: theme, Stage: RunStarted, StartedAt: time.Now(), State: state})

	shared := flyt.NewSharedStore()
	shared.Set(stateKey, state)

	planNode := p.stageNode(runID, StagePlan, RunPlanned, p.planner.Plan)
	researchNode := p.stageNode(runID, StageResearch, RunResearched, p.researcher.Research)
	compileNode := p.stageNode(runID, StageCompile, RunCompiled, p.compiler.Compile)

	flow := flyt.NewFlow(planNode)
	flow.Connect(planNode, flyt.DefaultAction, researchNode)
	flow.Connect(researchNode, flyt.DefaultAction, compileNode)

	start := time.Now()
	err := flow.Run(ctx, shared)
	p.telemetry.RecordRun(time.Since(start), err)
	if err != nil {
		p.finish(runID, RunFailed, err)
		p.logger.Printf("run %s failed: %v", runID, err)
		return runID, state, err
	}
	p.finish(runID, RunCompiled, nil)
	p.logger.Printf("run %s compiled report for theme %q", runID, utils.Truncate(theme, 80))
	return runID, state, nil
}

// GetStatus returns a snapshot of a run's status.
func (p *Pipeline) GetStatus(runID string) (RunStatus, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	status, ok := p.runs[runID]
	if !ok {
		return RunStatus{}, false
	}
	return *status, true
}

func (p *Pipeline) stageNode(runID, stage, reached string, fn func(context.Context, *ResearchState) error) flyt.Node {
	return flyt.NewNode(
		flyt.WithPrepFunc(func(ctx context.Context, shared *flyt.SharedStore) (any, error) {
			v, ok := shared.Get(stateKey)
			if !ok {
				return nil, fmt.Errorf("%s: research state missing from store", stage)
			}
			return v, nil
		}),
		flyt.WithExecFunc(func(ctx context.Context, prepResult any) (any, error) {
			state, ok := prepResult.(*ResearchState)
			if !ok {
				return nil, fmt.Errorf("%s: unexpected state type %T", stage, prepResult)
			}
			start := time.Now()
			err := fn(ctx, state)
			p.telemetry.RecordStage(stage, time.Since(start))
			return nil, err
		}),
		flyt.WithPostFunc(func(ctx context.Context, shared *flyt.SharedStore, prepResult, execResult any) (flyt.Action, error) {
			p.advance(runID, reached)
			return flyt.DefaultAction, nil
		}),
	)
}

func (p *Pipeline) track(status *RunStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.runs[status.ID] = status
}

func (p *Pipeline) advance(runID, stage string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if status, ok := p.runs[runID]; ok {
		status.Stage = stage
	}
}

func (p *Pipeline) finish(runID, stage string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	status, ok := p.runs[runID]
	if !ok {
		return
	}
	status.Stage = stage
	status.FinishedAt = time.Now()
	if err != nil {
		status.Error = err.Error()
	}
}
