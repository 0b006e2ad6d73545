package report

import "fmt"

// Upstream service names used in UpstreamError.
const (
	ServiceLLM    = "llm"
	ServiceSearch = "search"
)

// Pipeline stage names, also used as telemetry labels.
const (
	StagePlan     = "plan"
	StageResearch = "research"
	StageCompile  = "compile"
)

// UpstreamError marks a failure of an external dependency (chat model or
// web search) so callers can distinguish it from local errors, typically
// via errors.As.
type UpstreamError struct {
	Service string // ServiceLLM or ServiceSearch
	Stage   string // pipeline stage where the call happened
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s call failed during %s: %v", e.Service, e.Stage, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func upstream(service, stage string, err error) *UpstreamError {
	return &UpstreamError{Service: service, Stage: stage, Err: err}
}
