package report

// FinalReportKey is the reserved summaries key holding the compiled report.
// Section titles never collide with it because the compiler writes it last.
const FinalReportKey = "final_report"

// Reference is a single piece of web evidence backing a section summary.
type Reference struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// ResearchState is the shared state threaded through the pipeline stages.
// The planner fills Sections, the researcher fills Summaries and References
// (one entry each per section), and the compiler adds the final report under
// FinalReportKey.
type ResearchState struct {
	Theme      string                 `json:"theme"`
	Sections   []string               `json:"sections"`
	Summaries  map[string]string      `json:"summaries"`
	References map[string][]Reference `json:"references"`
}

// NewResearchState creates a state for a theme with empty accumulators.
func NewResearchState(theme string) *ResearchState {
	return &ResearchState{
		Theme:      theme,
		Summaries:  map[string]string{},
		References: map[string][]Reference{},
	}
}

// FinalReport returns the compiled report text, or "" before compilation.
func (s *ResearchState) FinalReport() string {
	return s.Summaries[FinalReportKey]
}
