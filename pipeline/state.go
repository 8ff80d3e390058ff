package pipeline

import (
	"fmt"

	"github.com/saxenashivang/interactive-learning/core"
)

// Stage identifies a single step of a pipeline state machine.
type Stage int

// Conversation pipeline stages. StageDone is shared by both machines as the
// terminal stage.
const (
	StageRoute Stage = iota
	StageGenerate
	StageExtract
	StageDone
)

// Research pipeline stages.
const (
	StagePlan Stage = iota + 100
	StageSearch
	StageSynthesize
)

// String returns the stage name for status and log output.
func (s Stage) String() string {
	switch s {
	case StageRoute:
		return "route"
	case StageGenerate:
		return "generate"
	case StageExtract:
		return "extract"
	case StagePlan:
		return "plan"
	case StageSearch:
		return "search"
	case StageSynthesize:
		return "synthesize"
	case StageDone:
		return "done"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// RoutingPolicy selects how the conversation pipeline decides whether a
// response should target interactive output.
type RoutingPolicy int

const (
	// RouteAlwaysInteractive skips classification and always requests
	// interactive output.
	RouteAlwaysInteractive RoutingPolicy = iota
	// RouteClassify issues a lightweight model call and matches the token
	// "interactive" in its lowercased reply.
	RouteClassify
)

// InlineRef is the sentinel placed in the structured output marker when the
// packaged document is delivered inline instead of via a storage reference.
const InlineRef = "inline"

// State is the working state of one conversation pipeline execution. It is
// created fresh per inbound message, mutated only by pipeline stages in
// sequence, never concurrently, and discarded after the pipeline terminates;
// final values are projected into Output for the caller.
type State struct {
	Messages        []core.Message
	Provider        string
	PlanTier        string
	ContextSnippets []string
	Interactive     bool
	Trail           []string
	ArtifactRef     string
	InlineDocument  string
}

// appendTrail records a human-readable status entry.
func (s *State) appendTrail(format string, args ...any) {
	s.Trail = append(s.Trail, fmt.Sprintf(format, args...))
}

// Input is the pipeline invocation boundary consumed by the hosting layer.
type Input struct {
	// Messages is the full conversation history, latest user turn last.
	Messages []core.Message
	// Provider selects the model backend by logical name.
	Provider string
	// PlanTier is the caller-supplied access-level flag. Gate enforcement
	// happens outside this core; the value is carried for status output.
	PlanTier string
	// ContextSnippets are optional pre-fetched retrieval results.
	ContextSnippets []string
}

// Output is the structured result returned to the caller. External
// persistence of the final record is the caller's responsibility and happens
// exactly once, after the pipeline returns.
type Output struct {
	// Text is the final narrative, including the structured artifact marker
	// when interactive output was produced.
	Text string
	// Interactive reports whether the response carried an interactive block.
	Interactive bool
	// ArtifactRef is the storage reference, empty when storage failed or no
	// artifact was produced.
	ArtifactRef string
	// InlineDocument carries the packaged document when storage failed or
	// was not configured.
	InlineDocument string
	// Trail is the ordered human-readable status trail of the run.
	Trail []string
}

// ResearchState is the working state of one research pipeline execution.
// Same ownership and lifecycle rules as State.
type ResearchState struct {
	Query         string
	Provider      string
	Plan          []string
	Results       []core.SearchResult
	Synthesis     string
	ArtifactRef   string
	InlineDoc     string
	Trail         []string
	Iteration     int
	MaxIterations int
}

// appendTrail records a human-readable status entry.
func (s *ResearchState) appendTrail(format string, args ...any) {
	s.Trail = append(s.Trail, fmt.Sprintf(format, args...))
}

// ResearchOutput is the structured result of a research run.
type ResearchOutput struct {
	// Report is the synthesized report text, including the artifact marker
	// when a visualization was produced.
	Report string
	// Plan is the executed sub-query plan, in order.
	Plan []string
	// Results are the collected search hits, in plan order.
	Results []core.SearchResult
	// ArtifactRef is the storage reference of the report visualization.
	ArtifactRef string
	// InlineDocument carries the packaged document when storage failed.
	InlineDocument string
	// Trail is the ordered status trail of the run.
	Trail []string
}
