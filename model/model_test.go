package model

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saxenashivang/interactive-learning/core"
)

func TestInvoke_NonStreaming(t *testing.T) {
	m := NewMockModel("mock-1", "mock")
	m.AddResponse("Explain binary search", "Binary search halves the interval.")

	text, err := Invoke(context.Background(), m, Request{
		Messages: []core.Message{core.UserMessage("Explain binary search")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Binary search halves the interval.", text)
}

func TestInvoke_StreamingAccumulates(t *testing.T) {
	m := NewMockModel("mock-1", "mock")
	m.AddResponse("hi", "hello there")

	text, err := Invoke(context.Background(), m, Request{
		Messages: []core.Message{core.UserMessage("hi")},
		Stream:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, "hello there", text)
}

func TestInvoke_BackendErrorBecomesProviderError(t *testing.T) {
	m := NewMockModel("mock-1", "mock")
	cause := fmt.Errorf("429 too many requests")
	m.FailWith(cause)

	_, err := Invoke(context.Background(), m, Request{
		Messages: []core.Message{core.UserMessage("hi")},
	})
	var pe *core.ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "mock", pe.Provider)
	assert.ErrorIs(t, err, cause)
}

func TestInvoke_GatewayIsStateless(t *testing.T) {
	m := NewMockModel("mock-1", "mock")
	m.AddResponse("first", "one")
	m.AddResponse("second", "two")

	_, err := Invoke(context.Background(), m, Request{Messages: []core.Message{core.UserMessage("first")}})
	require.NoError(t, err)
	text, err := Invoke(context.Background(), m, Request{Messages: []core.Message{core.UserMessage("second")}})
	require.NoError(t, err)

	// No hidden conversation memory: the second call sees only what the
	// caller supplied.
	assert.Equal(t, "two", text)
	require.Len(t, m.Requests(), 2)
	assert.Len(t, m.Requests()[1].Messages, 1)
}

func TestRegistry_Resolve(t *testing.T) {
	r := NewRegistry()
	mock := NewMockModel("mock-1", ProviderGemini)
	r.Register(ProviderGemini, mock)

	got, err := r.Resolve(ProviderGemini)
	require.NoError(t, err)
	assert.Equal(t, mock, got)
}

func TestRegistry_UnknownProvider(t *testing.T) {
	r := NewRegistry()
	r.Register(ProviderOpenAI, NewMockModel("mock-1", ProviderOpenAI))

	_, err := r.Resolve("mistral")
	var ce *core.ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Contains(t, ce.Error(), "mistral")
}

func TestRegistry_Names(t *testing.T) {
	r := NewRegistry()
	r.Register(ProviderOpenAI, NewMockModel("a", ProviderOpenAI))
	r.Register(ProviderAnthropic, NewMockModel("b", ProviderAnthropic))

	assert.Equal(t, []string{ProviderAnthropic, ProviderOpenAI}, r.Names())
}
