package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saxenashivang/interactive-learning/artifact"
	"github.com/saxenashivang/interactive-learning/core"
	"github.com/saxenashivang/interactive-learning/model"
	"github.com/saxenashivang/interactive-learning/search"
)

const synthesisReply = "## Executive Summary\nFindings here.\n\n```interactive\nconst App = () => <div>chart</div>;\n```"

func planReply(queries ...string) string {
	out := "["
	for i, q := range queries {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%q", q)
	}
	return out + "]"
}

func researchModel(query string, plannerReply string, results []core.SearchResult, synthesis string) *model.MockModel {
	m := model.NewMockModel("mock-1", "mock")
	m.AddResponse(fmt.Sprintf(plannerPrompt, query), plannerReply)
	m.AddResponse(fmt.Sprintf(synthesisPrompt, formatResults(results), query), synthesis)
	return m
}

func TestResearch_HappyPath(t *testing.T) {
	query := "impact of remote work"
	subA := core.SearchResult{Title: "A", URL: "https://a", Content: "alpha", Query: "remote work productivity"}
	subB := core.SearchResult{Title: "B", URL: "https://b", Content: "beta", Query: "remote work hiring"}

	searcher := search.NewMockClient()
	searcher.AddResults("remote work productivity", subA)
	searcher.AddResults("remote work hiring", subB)

	m := researchModel(query,
		planReply("remote work productivity", "remote work hiring"),
		[]core.SearchResult{subA, subB},
		synthesisReply,
	)
	store := artifact.NewInMemoryStore()

	p := NewResearch(newRegistry(m), searcher, func(o *ResearchOptions) { o.Store = store })
	out, err := p.Run(context.Background(), query, "mock")
	require.NoError(t, err)

	assert.Equal(t, []string{"remote work productivity", "remote work hiring"}, out.Plan)
	assert.Equal(t, []core.SearchResult{subA, subB}, out.Results)
	assert.NotEmpty(t, out.ArtifactRef)
	assert.Contains(t, out.Report, "Executive Summary")
	assert.NotContains(t, out.Report, "```interactive")
	assert.Contains(t, out.Report, "<!-- INTERACTIVE_OUTPUT: "+out.ArtifactRef+" -->")
	assert.Equal(t, 1, store.Len())
}

func TestResearch_PlannerFallbackToOriginalQuery(t *testing.T) {
	query := "impact of X"
	searcher := search.NewMockClient()

	// Planner replies with prose, not a JSON array.
	m := researchModel(query, "I think you should look into several aspects of X.", nil, "report text")

	p := NewResearch(newRegistry(m), searcher)
	out, err := p.Run(context.Background(), query, "mock")
	require.NoError(t, err)

	// The plan equals [originalQuery] exactly.
	assert.Equal(t, []string{query}, out.Plan)
}

func TestResearch_PartialSearchFailure(t *testing.T) {
	query := "impact of X"
	hitOne := core.SearchResult{Title: "one", URL: "https://1", Content: "c1", Query: "q1"}
	hitThree := core.SearchResult{Title: "three", URL: "https://3", Content: "c3", Query: "q3"}

	searcher := search.NewMockClient()
	searcher.AddResults("q1", hitOne)
	searcher.FailQuery("q2", errors.New("rate limited"))
	searcher.AddResults("q3", hitThree)

	m := researchModel(query,
		planReply("q1", "q2", "q3"),
		[]core.SearchResult{hitOne, hitThree},
		"report text",
	)

	p := NewResearch(newRegistry(m), searcher)
	out, err := p.Run(context.Background(), query, "mock")
	require.NoError(t, err)

	// Only tuples from the succeeding subset, in plan order.
	assert.Equal(t, []core.SearchResult{hitOne, hitThree}, out.Results)
	assert.True(t, trailContains(out.Trail, "1 of 3 sub-query searches failed"), "trail: %v", out.Trail)
}

// bareClient returns results without the Query field set, like a backend
// that only knows titles, URLs and content.
type bareClient struct {
	results map[string][]core.SearchResult
}

func (c *bareClient) Search(_ context.Context, query string, _ ...func(o *search.QueryOptions)) ([]core.SearchResult, error) {
	return c.results[query], nil
}

func TestResearch_ResultsTaggedWithOriginatingSubQuery(t *testing.T) {
	query := "impact of X"
	searcher := &bareClient{results: map[string][]core.SearchResult{
		"q1": {{Title: "one", URL: "https://1", Content: "c1"}},
		"q2": {{Title: "two", URL: "https://2", Content: "c2"}},
	}}

	tagged := []core.SearchResult{
		{Title: "one", URL: "https://1", Content: "c1", Query: "q1"},
		{Title: "two", URL: "https://2", Content: "c2", Query: "q2"},
	}
	m := researchModel(query, planReply("q1", "q2"), tagged, "report text")

	p := NewResearch(newRegistry(m), searcher)
	out, err := p.Run(context.Background(), query, "mock")
	require.NoError(t, err)

	// Tagging is the pipeline's job, not the client's.
	assert.Equal(t, tagged, out.Results)
}

func TestResearch_AllSearchesFailStillSynthesizes(t *testing.T) {
	// End-to-end scenario C: all four planned sub-query searches fail.
	query := "impact of X"
	searcher := search.NewMockClient()
	for _, q := range []string{"q1", "q2", "q3", "q4"} {
		searcher.FailQuery(q, errors.New("down"))
	}

	m := researchModel(query,
		planReply("q1", "q2", "q3", "q4"),
		nil, // synthesis sees an empty results block
		"No sources could be consulted; the following is based on general knowledge.",
	)

	p := NewResearch(newRegistry(m), searcher)
	out, err := p.Run(context.Background(), query, "mock")
	require.NoError(t, err)

	assert.Empty(t, out.Results)
	assert.Contains(t, out.Report, "No sources could be consulted")
	assert.True(t, trailContains(out.Trail, "4 of 4 sub-query searches failed"), "trail: %v", out.Trail)
}

func TestResearch_SynthesisFailurePropagates(t *testing.T) {
	query := "impact of X"
	searcher := search.NewMockClient()
	searcher.AddResults("q1", core.SearchResult{Title: "t", URL: "u", Content: "c", Query: "q1"})

	inner := model.NewMockModel("mock-1", "mock")
	inner.AddResponse(fmt.Sprintf(plannerPrompt, query), planReply("q1"))
	// Planning succeeds, then every later call fails.
	flaky := &flakyModel{inner: inner, failFrom: 1, cause: fmt.Errorf("upstream 500")}
	registry := model.NewRegistry()
	registry.Register("mock", flaky)

	p := NewResearch(registry, searcher)
	out, err := p.Run(context.Background(), query, "mock")
	var pe *core.ProviderError
	require.True(t, errors.As(err, &pe))
	require.NotNil(t, out)
	assert.Contains(t, out.Report, "could not be completed")
}

func TestResearch_StorageFailureDeliversInline(t *testing.T) {
	query := "impact of X"
	searcher := search.NewMockClient()

	m := researchModel(query, "not json", nil, synthesisReply)

	p := NewResearch(newRegistry(m), searcher, func(o *ResearchOptions) { o.Store = failingStore{} })
	out, err := p.Run(context.Background(), query, "mock")
	require.NoError(t, err)

	assert.Empty(t, out.ArtifactRef)
	assert.Contains(t, out.InlineDocument, "const App")
	assert.Contains(t, out.Report, "<!-- INTERACTIVE_OUTPUT: inline -->")
}

func TestResearch_PlannerUnavailableSearchesOriginalQuery(t *testing.T) {
	query := "impact of X"
	searcher := search.NewMockClient()
	searcher.AddResults(query, core.SearchResult{Title: "t", URL: "u", Content: "c", Query: query})

	// Model fails on the first (planner) call, then recovers.
	inner := model.NewMockModel("mock-1", "mock")
	inner.AddResponse(
		fmt.Sprintf(synthesisPrompt, formatResults([]core.SearchResult{{Title: "t", URL: "u", Content: "c", Query: query}}), query),
		"report",
	)
	flaky := &flakyModel{inner: inner, failFrom: 0, failUntil: 1, cause: fmt.Errorf("timeout")}
	registry := model.NewRegistry()
	registry.Register("mock", flaky)

	p := NewResearch(registry, searcher)
	out, err := p.Run(context.Background(), query, "mock")
	require.NoError(t, err)

	assert.Equal(t, []string{query}, out.Plan)
	assert.Equal(t, "report", out.Report)
}

func TestReportTitle_TruncatesOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("é", 60)
	title := reportTitle(long)

	assert.True(t, utf8.ValidString(title))
	assert.Equal(t, "Research: "+strings.Repeat("é", 50), title)

	assert.Equal(t, "Research: short", reportTitle("short"))
}

// flakyModel fails calls whose zero-based index i satisfies
// failFrom <= i < failUntil (failUntil 0 means "forever").
type flakyModel struct {
	inner     *model.MockModel
	calls     int
	failFrom  int
	failUntil int
	cause     error
}

func (f *flakyModel) Generate(ctx context.Context, req model.Request) (<-chan model.Response, <-chan error) {
	call := f.calls
	f.calls++
	if call >= f.failFrom && (f.failUntil == 0 || call < f.failUntil) {
		respCh := make(chan model.Response)
		errCh := make(chan error, 1)
		errCh <- f.cause
		close(respCh)
		close(errCh)
		return respCh, errCh
	}
	return f.inner.Generate(ctx, req)
}

func (f *flakyModel) Info() model.Info { return f.inner.Info() }
