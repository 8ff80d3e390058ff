package retrieval

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// Embedder turns text into dense vectors for similarity search.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Index is an in-memory cosine-similarity store implementing core.Retriever.
// It is safe for concurrent use. Suitable for tests and single-process
// deployments; larger corpora belong in a dedicated vector database behind
// the same Retriever contract.
type Index struct {
	embedder Embedder
	topK     int

	mu      sync.RWMutex
	entries []indexEntry
}

type indexEntry struct {
	text   string
	vector []float32
}

// IndexOptions configure an Index.
type IndexOptions struct {
	// TopK bounds how many snippets Retrieve returns. Defaults to 5.
	TopK int
}

// NewIndex creates an empty index backed by the given embedder.
func NewIndex(embedder Embedder, optFns ...func(o *IndexOptions)) *Index {
	opts := IndexOptions{TopK: 5}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Index{embedder: embedder, topK: opts.TopK}
}

// Add embeds and stores the given chunks.
func (i *Index) Add(ctx context.Context, chunks []string) error {
	if len(chunks) == 0 {
		return nil
	}
	vectors, err := i.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return fmt.Errorf("embedding chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	for n, chunk := range chunks {
		i.entries = append(i.entries, indexEntry{text: chunk, vector: vectors[n]})
	}
	return nil
}

// Retrieve implements core.Retriever: it returns the topK most similar stored
// snippets for the query, best first. An empty index yields an empty slice.
func (i *Index) Retrieve(ctx context.Context, query string) ([]string, error) {
	i.mu.RLock()
	empty := len(i.entries) == 0
	i.mu.RUnlock()
	if empty {
		return nil, nil
	}

	queryVec, err := i.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	type scored struct {
		text  string
		score float64
	}
	ranked := make([]scored, 0, len(i.entries))
	for _, entry := range i.entries {
		ranked = append(ranked, scored{text: entry.text, score: cosine(queryVec, entry.vector)})
	}
	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].score > ranked[b].score })

	limit := i.topK
	if limit > len(ranked) {
		limit = len(ranked)
	}
	snippets := make([]string, 0, limit)
	for _, r := range ranked[:limit] {
		snippets = append(snippets, r.text)
	}
	return snippets, nil
}

// Len reports the number of indexed chunks.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.entries)
}

// cosine computes cosine similarity between two vectors. Mismatched lengths
// or zero vectors score 0.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for n := range a {
		dot += float64(a[n]) * float64(b[n])
		normA += float64(a[n]) * float64(a[n])
		normB += float64(b[n]) * float64(b[n])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
