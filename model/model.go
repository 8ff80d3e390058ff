package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/saxenashivang/interactive-learning/core"
)

// Request captures the normalized model input produced by pipelines.
type Request struct {
	Messages    []core.Message `json:"messages"`              // Ordered conversation, including system turns
	Temperature *float64       `json:"temperature,omitempty"` // nil takes the backend default
	Stream      bool           `json:"stream,omitempty"`
}

// Response is a (partial or final) chunk emitted by a model backend.
type Response struct {
	Partial      bool         `json:"partial"`
	Message      core.Message `json:"message"`
	FinishReason string       `json:"finish_reason,omitempty"` // "stop", "length", etc.
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "gemini", "openai", "anthropic", ...
}

// Model is the minimal interface required by pipelines to drive generation.
type Model interface {
	Generate(ctx context.Context, req Request) (<-chan Response, <-chan error)

	// Info returns information about the model implementation.
	Info() Info
}

// Invoke drives a Model to completion and returns the final assistant text.
// Partial chunks are accumulated; any backend failure is surfaced as a
// *core.ProviderError with the original cause attached.
func Invoke(ctx context.Context, m Model, req Request) (string, error) {
	respCh, errCh := m.Generate(ctx, req)

	var sb strings.Builder
	var final string
	for {
		select {
		case <-ctx.Done():
			return "", &core.ProviderError{Provider: m.Info().Provider, Cause: ctx.Err()}
		case resp, ok := <-respCh:
			if !ok {
				select {
				case err, open := <-errCh:
					if open && err != nil {
						return "", &core.ProviderError{Provider: m.Info().Provider, Cause: err}
					}
				default:
				}
				if final != "" {
					return final, nil
				}
				return sb.String(), nil
			}
			if resp.Partial {
				sb.WriteString(resp.Message.Text)
				continue
			}
			final = resp.Message.Text
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if err != nil {
				return "", &core.ProviderError{Provider: m.Info().Provider, Cause: err}
			}
		}
	}
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
// Responses are keyed by the text of the last user turn.
type MockModel struct {
	info      Info
	responses map[string]string
	err       error
	requests  []Request
}

// NewMockModel constructs a MockModel identified by name and provider.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: provider},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *MockModel) AddResponse(prompt, response string) { m.responses[prompt] = response }

// FailWith makes every subsequent Generate call emit the given error.
func (m *MockModel) FailWith(err error) { m.err = err }

// Requests returns the requests seen so far, in call order.
func (m *MockModel) Requests() []Request { return m.requests }

// Generate implements Model; emits optional streaming char chunks then the
// final response.
func (m *MockModel) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response, 16)
	errCh := make(chan error, 1)
	m.requests = append(m.requests, req)

	go func() {
		defer close(respCh)
		defer close(errCh)
		if m.err != nil {
			errCh <- m.err
			return
		}
		if len(req.Messages) == 0 {
			errCh <- fmt.Errorf("no messages provided")
			return
		}
		inputText := core.LastUserText(req.Messages)
		full := m.responses[inputText]
		if full == "" {
			full = fmt.Sprintf("Mock response to: %s", inputText)
		}
		if req.Stream {
			for _, r := range full {
				select {
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				case respCh <- Response{Partial: true, Message: core.AssistantMessage(string(r))}:
				}
			}
		}
		respCh <- Response{Message: core.AssistantMessage(full), FinishReason: "stop"}
	}()
	return respCh, errCh
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
