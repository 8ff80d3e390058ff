package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/saxenashivang/interactive-learning/core"
)

const defaultTavilyBaseURL = "https://api.tavily.com"

// TavilyOptions configures the Tavily client.
type TavilyOptions struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	MaxResults int
	Depth      string
}

// Tavily is a Client backed by the Tavily search API.
type Tavily struct {
	opts TavilyOptions
}

// NewTavily creates a Tavily search client.
func NewTavily(apiKey string, optFns ...func(o *TavilyOptions)) *Tavily {
	opts := TavilyOptions{
		APIKey:     apiKey,
		BaseURL:    defaultTavilyBaseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		MaxResults: 5,
		Depth:      DepthAdvanced,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Tavily{opts: opts}
}

// tavilyRequest is the wire shape of a Tavily search call.
type tavilyRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth"`
}

// tavilyResponse mirrors the subset of the response the core consumes.
type tavilyResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// Search implements Client against the Tavily REST API. Transport failures,
// non-2xx statuses and malformed bodies all surface as *core.SearchError.
func (t *Tavily) Search(ctx context.Context, query string, optFns ...func(o *QueryOptions)) ([]core.SearchResult, error) {
	qo := QueryOptions{MaxResults: t.opts.MaxResults, Depth: t.opts.Depth}
	for _, fn := range optFns {
		fn(&qo)
	}

	body, err := json.Marshal(tavilyRequest{
		APIKey:      t.opts.APIKey,
		Query:       query,
		MaxResults:  qo.MaxResults,
		SearchDepth: qo.Depth,
	})
	if err != nil {
		return nil, &core.SearchError{Query: query, Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.opts.BaseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, &core.SearchError{Query: query, Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.opts.HTTPClient.Do(req)
	if err != nil {
		return nil, &core.SearchError{Query: query, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &core.SearchError{
			Query: query,
			Cause: fmt.Errorf("tavily returned status %d: %s", resp.StatusCode, msg),
		}
	}

	var parsed tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &core.SearchError{Query: query, Cause: err}
	}

	results := make([]core.SearchResult, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		results = append(results, core.SearchResult{
			Title:   r.Title,
			URL:     r.URL,
			Content: r.Content,
			Query:   query,
		})
	}
	return results, nil
}
