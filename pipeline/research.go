package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/saxenashivang/interactive-learning/artifact"
	"github.com/saxenashivang/interactive-learning/core"
	"github.com/saxenashivang/interactive-learning/logging"
	"github.com/saxenashivang/interactive-learning/model"
	"github.com/saxenashivang/interactive-learning/search"
)

// ResearchOptions configure a Research pipeline.
type ResearchOptions struct {
	// Store persists packaged report visualizations. When nil, documents
	// are delivered inline.
	Store core.ArtifactStore
	// MaxResultsPerQuery bounds each sub-query search call.
	MaxResultsPerQuery int
	// MaxIterations bounds the run; carried in state for callers that
	// drive iterative deepening on top of the linear machine.
	MaxIterations int
	// PlanTemperature is the sampling temperature for the planner call.
	PlanTemperature float64
	// SynthesisTemperature is the sampling temperature for the synthesis call.
	SynthesisTemperature float64
	// Logger receives diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Research is the multi-step web research state machine:
// plan -> search -> synthesize. One instance can serve many requests.
type Research struct {
	registry *model.Registry
	searcher search.Client
	opts     ResearchOptions
}

// NewResearch creates a research pipeline over the given registry and search client.
func NewResearch(registry *model.Registry, searcher search.Client, optFns ...func(o *ResearchOptions)) *Research {
	opts := ResearchOptions{
		MaxResultsPerQuery:   5,
		MaxIterations:        3,
		PlanTemperature:      0.2,
		SynthesisTemperature: 0.3,
		Logger:               logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Research{registry: registry, searcher: searcher, opts: opts}
}

// Run executes the research pipeline for one query. Planning-parse failures
// and per-sub-query search failures are recovered locally; only the synthesis
// call's failure propagates, alongside an Output carrying a degraded
// narrative and the status trail.
func (p *Research) Run(ctx context.Context, query, provider string) (*ResearchOutput, error) {
	state := &ResearchState{
		Query:         query,
		Provider:      provider,
		MaxIterations: p.opts.MaxIterations,
	}

	stage := StagePlan
	for stage != StageDone {
		p.opts.Logger.Debug("research.stage", "stage", stage.String())
		next, err := p.step(ctx, state, stage)
		if err != nil {
			state.appendTrail("error: research failed during %s: %v", stage, err)
			p.opts.Logger.Error("research.failed", "stage", stage.String(), "error", err)
			return &ResearchOutput{
				Report: fmt.Sprintf("Research could not be completed: %v", err),
				Plan:   state.Plan,
				Trail:  state.Trail,
			}, err
		}
		stage = next
	}

	return &ResearchOutput{
		Report:         state.Synthesis,
		Plan:           state.Plan,
		Results:        state.Results,
		ArtifactRef:    state.ArtifactRef,
		InlineDocument: state.InlineDoc,
		Trail:          state.Trail,
	}, nil
}

// step advances the state machine by one stage.
func (p *Research) step(ctx context.Context, state *ResearchState, stage Stage) (Stage, error) {
	switch stage {
	case StagePlan:
		return p.plan(ctx, state)
	case StageSearch:
		return p.searchAll(ctx, state)
	case StageSynthesize:
		return p.synthesize(ctx, state)
	default:
		return StageDone, fmt.Errorf("unexpected stage %s", stage)
	}
}

// plan decomposes the query into sub-queries. A planner reply that is not a
// valid JSON array falls back to a single-element plan with the original
// query; planning never fails the pipeline.
func (p *Research) plan(ctx context.Context, state *ResearchState) (Stage, error) {
	state.Iteration++

	m, err := p.registry.Resolve(state.Provider)
	if err != nil {
		return StageDone, err
	}

	temp := p.opts.PlanTemperature
	reply, err := model.Invoke(ctx, m, model.Request{
		Messages:    []core.Message{core.UserMessage(fmt.Sprintf(plannerPrompt, state.Query))},
		Temperature: &temp,
	})
	if err != nil {
		state.Plan = []string{state.Query}
		state.appendTrail("warning: planner unavailable, searching the original query directly")
		p.opts.Logger.Warn("research.plan.failed", "error", err)
		return StageSearch, nil
	}

	state.Plan = parsePlan(reply, state.Query)
	state.appendTrail("planned %d research sub-queries", len(state.Plan))
	return StageSearch, nil
}

// parsePlan extracts a JSON string array from the planner reply, falling back
// to [query] when the reply is not parseable.
func parsePlan(reply, query string) []string {
	var queries []string
	if err := json.Unmarshal([]byte(strings.TrimSpace(reply)), &queries); err != nil || len(queries) == 0 {
		return []string{query}
	}
	return queries
}

// searchAll fans the planned sub-queries out to the search client. Sub-query
// calls run concurrently but results are aggregated in plan order, tagged
// with the sub-query that produced them. One sub-query's failure cannot
// affect another's result: a failing call simply contributes nothing.
func (p *Research) searchAll(ctx context.Context, state *ResearchState) (Stage, error) {
	perQuery := make([][]core.SearchResult, len(state.Plan))
	failed := make([]bool, len(state.Plan))

	g, gctx := errgroup.WithContext(ctx)
	for i, q := range state.Plan {
		g.Go(func() error {
			results, err := p.searcher.Search(gctx, q,
				search.WithMaxResults(p.opts.MaxResultsPerQuery),
				search.WithDepth(search.DepthAdvanced),
			)
			if err != nil {
				// Best effort: skip this sub-query, keep the rest.
				failed[i] = true
				p.opts.Logger.Warn("research.search.subquery_failed", "query", q, "error", err)
				return nil
			}
			perQuery[i] = results
			return nil
		})
	}
	// Workers only ever return nil; Wait is for completion.
	_ = g.Wait()

	for i, q := range state.Plan {
		// The search boundary returns bare tuples; tagging each result
		// with its originating sub-query happens here.
		for _, r := range perQuery[i] {
			r.Query = q
			state.Results = append(state.Results, r)
		}
	}

	var failures int
	for _, f := range failed {
		if f {
			failures++
		}
	}
	if failures > 0 {
		state.appendTrail("warning: %d of %d sub-query searches failed and were skipped", failures, len(state.Plan))
	}
	state.appendTrail("collected %d search results across %d sub-queries", len(state.Results), len(state.Plan))
	return StageSynthesize, nil
}

// synthesize turns the collected results into a report with one interactive
// visualization, applying the same extraction/packaging/storage logic as the
// conversation pipeline. Synthesis on zero results is well-defined: the model
// is invoked with an empty results block.
func (p *Research) synthesize(ctx context.Context, state *ResearchState) (Stage, error) {
	m, err := p.registry.Resolve(state.Provider)
	if err != nil {
		return StageDone, err
	}

	temp := p.opts.SynthesisTemperature
	reply, err := model.Invoke(ctx, m, model.Request{
		Messages: []core.Message{
			core.UserMessage(fmt.Sprintf(synthesisPrompt, formatResults(state.Results), state.Query)),
		},
		Temperature: &temp,
	})
	if err != nil {
		return StageDone, err
	}

	state.Synthesis = reply
	state.appendTrail("synthesized report (%d chars)", len(reply))

	if !artifact.HasMarker(reply) {
		return StageDone, nil
	}

	ex := artifact.Extract(reply)
	if ex.Malformed {
		state.appendTrail("warning: interactive marker present but block is malformed, keeping raw report")
		return StageDone, nil
	}

	doc := artifact.Package(reportTitle(state.Query), ex.Code)
	ref := storeDocument(ctx, p.opts.Store, doc, state, p.opts.Logger)

	marker := ref
	if marker == "" {
		marker = InlineRef
		state.InlineDoc = doc
	}
	state.ArtifactRef = ref
	state.Synthesis = fmt.Sprintf("%s\n\n<!-- INTERACTIVE_OUTPUT: %s -->", ex.Narrative, marker)
	return StageDone, nil
}

// formatResults renders collected results as one block of titled, sourced
// excerpts for the synthesis prompt.
func formatResults(results []core.SearchResult) string {
	blocks := make([]string, 0, len(results))
	for _, r := range results {
		blocks = append(blocks, fmt.Sprintf("### %s\nSource: %s\n%s", r.Title, r.URL, r.Content))
	}
	return strings.Join(blocks, "\n\n")
}

// reportTitle derives the artifact page title from the query, truncated the
// way report names are displayed.
func reportTitle(query string) string {
	if r := []rune(query); len(r) > 50 {
		query = string(r[:50])
	}
	return "Research: " + query
}
