package artifact

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/saxenashivang/interactive-learning/core"
)

// memScheme prefixes references handed out by the in-memory store.
const memScheme = "mem://"

// InMemoryStore is a trivial in-process ArtifactStore implementation useful
// for tests, examples and single-process prototypes. Documents live in a map
// guarded by an RWMutex and are copied on save / retrieval to avoid accidental
// external mutation of internal buffers.
//
// This implementation is intentionally minimal; it does not enforce retention
// limits, size quotas, or eviction. For production, prefer a durable
// implementation (e.g. the GCS-backed store) that survives process restarts.
type InMemoryStore struct {
	mu        sync.RWMutex
	documents map[string][]byte // artifact id -> raw document bytes
}

// NewInMemoryStore returns an empty in-memory artifact store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{documents: make(map[string][]byte)}
}

// Put stores the document under a fresh id and returns a mem:// reference.
// The input slice is copied before storage.
func (s *InMemoryStore) Put(_ context.Context, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.documents[id] = cp
	return memScheme + id, nil
}

// Get returns a copy of the stored document bytes or a *core.StorageError
// wrapping ErrNotFound.
func (s *InMemoryStore) Get(_ context.Context, ref string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id := strings.TrimPrefix(ref, memScheme)
	data, ok := s.documents[id]
	if !ok {
		return nil, &core.StorageError{Op: "get", Cause: ErrNotFound}
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

// Len reports the number of stored documents.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.documents)
}
