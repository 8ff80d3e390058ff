package core

import "context"

// ArtifactStore persists packaged documents and hands back a retrievable
// reference. Implementations should be safe for concurrent use. Failures are
// reported as *StorageError so callers can degrade to inline delivery.
type ArtifactStore interface {
	// Put stores the document and returns a stable reference (URL or key).
	Put(ctx context.Context, data []byte) (string, error)
	// Get resolves a reference previously returned by Put.
	Get(ctx context.Context, ref string) ([]byte, error)
}

// Retriever returns ranked context snippets for a query. An empty slice means
// "no context"; the pipelines treat the absence of a retrieval call the same
// way.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]string, error)
}
