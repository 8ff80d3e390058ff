package model

import (
	"fmt"
	"sort"
	"sync"

	"github.com/saxenashivang/interactive-learning/core"
)

// Logical provider names accepted by the registry. Backends register under
// one of these and callers select by name per invocation.
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Registry maps logical provider names to Model implementations. It is safe
// for concurrent use; registrations are expected to happen at startup.
type Registry struct {
	mu     sync.RWMutex
	models map[string]Model
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{models: make(map[string]Model)}
}

// Register adds (or replaces) a model under the given provider name.
func (r *Registry) Register(name string, m Model) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models[name] = m
}

// Resolve returns the model registered under name, or a *core.ConfigurationError
// when the name is unknown.
func (r *Registry) Resolve(name string) (Model, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.models[name]
	if !ok {
		return nil, &core.ConfigurationError{
			Setting: "provider",
			Reason:  fmt.Sprintf("unknown provider %q (registered: %v)", name, r.namesLocked()),
		}
	}
	return m, nil
}

// Names returns the registered provider names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
