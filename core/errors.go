package core

import "fmt"

// ConfigurationError signals an unknown provider name or a missing required
// setting. It is fatal to the single pipeline invocation and never retried.
type ConfigurationError struct {
	Setting string
	Reason  string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Setting, e.Reason)
}

// ProviderError wraps a failed model backend call (timeout, auth, rate limit,
// malformed response). The original cause is always attached.
type ProviderError struct {
	Provider string
	Cause    error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %q call failed: %v", e.Provider, e.Cause)
}

// Unwrap exposes the original cause for errors.Is / errors.As.
func (e *ProviderError) Unwrap() error { return e.Cause }

// StorageError wraps a failed artifact persistence attempt. Pipelines recover
// from it by falling back to inline document delivery.
type StorageError struct {
	Op    string
	Cause error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("artifact storage %s failed: %v", e.Op, e.Cause)
}

// Unwrap exposes the original cause.
func (e *StorageError) Unwrap() error { return e.Cause }

// SearchError wraps a failed web search call for a single sub-query. The
// research pipeline recovers from it by omitting that sub-query's results.
type SearchError struct {
	Query string
	Cause error
}

// Error implements the error interface.
func (e *SearchError) Error() string {
	return fmt.Sprintf("search for %q failed: %v", e.Query, e.Cause)
}

// Unwrap exposes the original cause.
func (e *SearchError) Unwrap() error { return e.Cause }
