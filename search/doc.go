// Package search defines the web search boundary consumed by the research
// pipeline and provides a Tavily-backed implementation. Searches are treated
// as best effort: a failed call yields a *core.SearchError the caller is
// expected to recover from by omission.
package search
