package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saxenashivang/interactive-learning/artifact"
	"github.com/saxenashivang/interactive-learning/core"
	"github.com/saxenashivang/interactive-learning/model"
)

const interactiveReply = "Binary search halves the interval each step.\n\n```interactive\nconst App = () => <div className=\"glass\">search</div>;\nReactDOM.createRoot(document.getElementById('root')).render(<App />);\n```"

// failingStore always rejects Put.
type failingStore struct{}

func (failingStore) Put(context.Context, []byte) (string, error) {
	return "", &core.StorageError{Op: "put", Cause: fmt.Errorf("bucket gone")}
}

func (failingStore) Get(context.Context, string) ([]byte, error) {
	return nil, &core.StorageError{Op: "get", Cause: fmt.Errorf("bucket gone")}
}

// staticRetriever returns fixed snippets for every query.
type staticRetriever struct{ snippets []string }

func (r staticRetriever) Retrieve(context.Context, string) ([]string, error) {
	return r.snippets, nil
}

func newRegistry(m model.Model) *model.Registry {
	r := model.NewRegistry()
	r.Register("mock", m)
	return r
}

func TestConversation_InteractiveResponseStored(t *testing.T) {
	// End-to-end scenario A with a working store.
	m := model.NewMockModel("mock-1", "mock")
	m.AddResponse("Explain binary search", interactiveReply)
	store := artifact.NewInMemoryStore()

	p := NewConversation(newRegistry(m), func(o *ConversationOptions) {
		o.Store = store
		o.Policy = RouteAlwaysInteractive
	})

	out, err := p.Run(context.Background(), Input{
		Messages: []core.Message{core.UserMessage("Explain binary search")},
		Provider: "mock",
	})
	require.NoError(t, err)

	assert.True(t, out.Interactive)
	assert.NotEmpty(t, out.ArtifactRef)
	assert.Empty(t, out.InlineDocument)
	assert.NotContains(t, out.Text, "```interactive")
	assert.Contains(t, out.Text, "Binary search halves the interval")
	assert.Contains(t, out.Text, "<!-- INTERACTIVE_OUTPUT: "+out.ArtifactRef+" -->")
	assert.Equal(t, 1, store.Len())

	// Status trail records the upload attempt.
	assert.True(t, trailContains(out.Trail, "uploading interactive artifact"), "trail: %v", out.Trail)
}

func TestConversation_NoStoreDeliversInline(t *testing.T) {
	// End-to-end scenario A: no store configured, document delivered inline.
	m := model.NewMockModel("mock-1", "mock")
	m.AddResponse("Explain binary search", interactiveReply)

	p := NewConversation(newRegistry(m), func(o *ConversationOptions) {
		o.Policy = RouteAlwaysInteractive
	})

	out, err := p.Run(context.Background(), Input{
		Messages: []core.Message{core.UserMessage("Explain binary search")},
		Provider: "mock",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, out.InlineDocument)
	assert.Empty(t, out.ArtifactRef)
	assert.Contains(t, out.Text, "<!-- INTERACTIVE_OUTPUT: inline -->")
	assert.NotContains(t, out.Text, "```interactive")
	assert.True(t, trailContains(out.Trail, "uploading interactive artifact"), "trail: %v", out.Trail)
}

func TestConversation_StorageFailureDegradesToInline(t *testing.T) {
	// End-to-end scenario B: put fails, pipeline still succeeds.
	m := model.NewMockModel("mock-1", "mock")
	m.AddResponse("Explain binary search", interactiveReply)

	p := NewConversation(newRegistry(m), func(o *ConversationOptions) {
		o.Store = failingStore{}
		o.Policy = RouteAlwaysInteractive
	})

	out, err := p.Run(context.Background(), Input{
		Messages: []core.Message{core.UserMessage("Explain binary search")},
		Provider: "mock",
	})
	require.NoError(t, err)

	assert.Empty(t, out.ArtifactRef)
	assert.Contains(t, out.InlineDocument, "const App")
	assert.True(t, trailContains(out.Trail, "artifact storage failed"), "trail: %v", out.Trail)
}

func TestConversation_PlainTextSkipsExtract(t *testing.T) {
	m := model.NewMockModel("mock-1", "mock")
	m.AddResponse("What is 2+2?", "4")

	p := NewConversation(newRegistry(m), func(o *ConversationOptions) {
		o.Policy = RouteAlwaysInteractive
	})

	out, err := p.Run(context.Background(), Input{
		Messages: []core.Message{core.UserMessage("What is 2+2?")},
		Provider: "mock",
	})
	require.NoError(t, err)

	// Narrative equals the full raw response verbatim.
	assert.Equal(t, "4", out.Text)
	assert.Empty(t, out.ArtifactRef)
	assert.Empty(t, out.InlineDocument)
}

func TestConversation_MalformedBlockKeepsRawText(t *testing.T) {
	raw := "Look:\n```interactive\nconst App = () => <div/>;"
	m := model.NewMockModel("mock-1", "mock")
	m.AddResponse("show me", raw)

	p := NewConversation(newRegistry(m), func(o *ConversationOptions) {
		o.Policy = RouteAlwaysInteractive
		o.Store = artifact.NewInMemoryStore()
	})

	out, err := p.Run(context.Background(), Input{
		Messages: []core.Message{core.UserMessage("show me")},
		Provider: "mock",
	})
	require.NoError(t, err)

	assert.Equal(t, raw, out.Text)
	assert.Empty(t, out.ArtifactRef)
	assert.True(t, trailContains(out.Trail, "malformed"), "trail: %v", out.Trail)
}

func TestConversation_ClassifierSubstringMatch(t *testing.T) {
	cases := []struct {
		reply       string
		interactive bool
	}{
		{"interactive", true},
		{"INTERACTIVE", true},
		{"I would say interactive fits best here.", true},
		{"text", false},
		{"research", false},
	}
	for _, tc := range cases {
		m := model.NewMockModel("mock-1", "mock")
		m.AddResponse(fmt.Sprintf(routingPrompt, "draw a map"), tc.reply)
		m.AddResponse("draw a map", "a map description")

		p := NewConversation(newRegistry(m))
		out, err := p.Run(context.Background(), Input{
			Messages: []core.Message{core.UserMessage("draw a map")},
			Provider: "mock",
		})
		require.NoError(t, err)
		assert.Equal(t, tc.interactive, out.Interactive, "classifier reply %q", tc.reply)
	}
}

func TestConversation_ContextSnippetsInjected(t *testing.T) {
	m := model.NewMockModel("mock-1", "mock")
	m.AddResponse("summarize the doc", "a summary")

	p := NewConversation(newRegistry(m), func(o *ConversationOptions) {
		o.Policy = RouteAlwaysInteractive
	})

	_, err := p.Run(context.Background(), Input{
		Messages:        []core.Message{core.UserMessage("summarize the doc")},
		Provider:        "mock",
		ContextSnippets: []string{"snippet one", "snippet two"},
	})
	require.NoError(t, err)

	// The generation request carries the fixed instruction plus a secondary
	// system block with delimited snippets, then the history.
	reqs := m.Requests()
	require.Len(t, reqs, 1)
	msgs := reqs[0].Messages
	require.GreaterOrEqual(t, len(msgs), 3)
	assert.Equal(t, core.RoleSystem, msgs[0].Role)
	assert.Equal(t, core.RoleSystem, msgs[1].Role)
	assert.Contains(t, msgs[1].Text, "snippet one\n\n---\n\nsnippet two")
	assert.Equal(t, core.RoleUser, msgs[len(msgs)-1].Role)
}

func TestConversation_RetrieverUsedWhenNoSnippetsProvided(t *testing.T) {
	m := model.NewMockModel("mock-1", "mock")
	m.AddResponse("question", "answer")

	p := NewConversation(newRegistry(m), func(o *ConversationOptions) {
		o.Policy = RouteAlwaysInteractive
		o.Retriever = staticRetriever{snippets: []string{"retrieved snippet"}}
	})

	out, err := p.Run(context.Background(), Input{
		Messages: []core.Message{core.UserMessage("question")},
		Provider: "mock",
	})
	require.NoError(t, err)
	assert.True(t, trailContains(out.Trail, "retrieved 1 context snippets"), "trail: %v", out.Trail)

	reqs := m.Requests()
	require.Len(t, reqs, 1)
	assert.Contains(t, reqs[0].Messages[1].Text, "retrieved snippet")
}

func TestConversation_UnknownProviderFails(t *testing.T) {
	p := NewConversation(model.NewRegistry(), func(o *ConversationOptions) {
		o.Policy = RouteAlwaysInteractive
	})

	out, err := p.Run(context.Background(), Input{
		Messages: []core.Message{core.UserMessage("hi")},
		Provider: "nope",
	})

	var ce *core.ConfigurationError
	require.True(t, errors.As(err, &ce))
	require.NotNil(t, out)
	assert.True(t, trailContains(out.Trail, "error:"), "trail: %v", out.Trail)
}

func TestConversation_ProviderErrorDegrades(t *testing.T) {
	m := model.NewMockModel("mock-1", "mock")
	m.FailWith(fmt.Errorf("upstream timeout"))

	p := NewConversation(newRegistry(m), func(o *ConversationOptions) {
		o.Policy = RouteAlwaysInteractive
	})

	out, err := p.Run(context.Background(), Input{
		Messages: []core.Message{core.UserMessage("hi")},
		Provider: "mock",
	})

	var pe *core.ProviderError
	require.True(t, errors.As(err, &pe))

	// The caller still gets a renderable degraded narrative and the trail.
	require.NotNil(t, out)
	assert.Contains(t, out.Text, "problem")
	assert.True(t, trailContains(out.Trail, "error:"), "trail: %v", out.Trail)
}

func TestConversation_HistoryReplacedWithAssistantTurn(t *testing.T) {
	m := model.NewMockModel("mock-1", "mock")
	m.AddResponse("second question", "second answer")

	p := NewConversation(newRegistry(m), func(o *ConversationOptions) {
		o.Policy = RouteAlwaysInteractive
	})

	out, err := p.Run(context.Background(), Input{
		Messages: []core.Message{
			core.UserMessage("first question"),
			core.AssistantMessage("first answer"),
			core.UserMessage("second question"),
		},
		Provider: "mock",
	})
	require.NoError(t, err)

	// History is not duplicated back into the final text.
	assert.Equal(t, "second answer", out.Text)
}

func trailContains(trail []string, substr string) bool {
	for _, entry := range trail {
		if strings.Contains(entry, substr) {
			return true
		}
	}
	return false
}
