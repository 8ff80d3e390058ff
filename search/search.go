package search

import (
	"context"
	"sync"

	"github.com/saxenashivang/interactive-learning/core"
)

// Search depths supported by the boundary. Advanced trades latency for
// better-ranked content extraction.
const (
	DepthBasic    = "basic"
	DepthAdvanced = "advanced"
)

// QueryOptions bound a single search call.
type QueryOptions struct {
	MaxResults int
	Depth      string
}

// Client issues a ranked web search for a query.
type Client interface {
	Search(ctx context.Context, query string, optFns ...func(o *QueryOptions)) ([]core.SearchResult, error)
}

// WithMaxResults bounds the result count.
func WithMaxResults(n int) func(o *QueryOptions) {
	return func(o *QueryOptions) { o.MaxResults = n }
}

// WithDepth selects the search depth.
func WithDepth(depth string) func(o *QueryOptions) {
	return func(o *QueryOptions) { o.Depth = depth }
}

// MockClient is an in-memory Client for tests. Results are keyed by query;
// queries registered with FailQuery return a *core.SearchError instead.
type MockClient struct {
	mu       sync.Mutex
	results  map[string][]core.SearchResult
	failures map[string]error
	calls    []string
}

// NewMockClient returns an empty mock search client.
func NewMockClient() *MockClient {
	return &MockClient{
		results:  make(map[string][]core.SearchResult),
		failures: make(map[string]error),
	}
}

// AddResults registers canned results for a query.
func (m *MockClient) AddResults(query string, results ...core.SearchResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[query] = results
}

// FailQuery makes searches for the query fail with the given cause.
func (m *MockClient) FailQuery(query string, cause error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[query] = cause
}

// Calls returns the queries seen so far, in call order.
func (m *MockClient) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// Search implements Client.
func (m *MockClient) Search(_ context.Context, query string, _ ...func(o *QueryOptions)) ([]core.SearchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, query)
	if cause, ok := m.failures[query]; ok {
		return nil, &core.SearchError{Query: query, Cause: cause}
	}
	return m.results[query], nil
}
