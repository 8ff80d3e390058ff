package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/saxenashivang/interactive-learning/artifact"
	"github.com/saxenashivang/interactive-learning/core"
	"github.com/saxenashivang/interactive-learning/logging"
	"github.com/saxenashivang/interactive-learning/model"
)

// artifactTitle is the fixed page title of packaged conversation artifacts.
const artifactTitle = "Interactive Learning Output"

// ConversationOptions configure a Conversation pipeline.
type ConversationOptions struct {
	// Store persists packaged documents. When nil, documents are always
	// delivered inline.
	Store core.ArtifactStore
	// Retriever supplies context snippets when the caller did not prefetch
	// any. Optional.
	Retriever core.Retriever
	// Policy selects the routing behavior. Defaults to RouteClassify.
	Policy RoutingPolicy
	// Temperature is the sampling temperature for the main generation call.
	Temperature float64
	// RouteTemperature is the sampling temperature for the classifier call.
	RouteTemperature float64
	// Logger receives diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Conversation is the chat state machine: route -> generate -> (extract | done).
// One instance can serve many requests; all per-request data lives in State.
type Conversation struct {
	registry *model.Registry
	opts     ConversationOptions
}

// NewConversation creates a conversation pipeline over the given model registry.
func NewConversation(registry *model.Registry, optFns ...func(o *ConversationOptions)) *Conversation {
	opts := ConversationOptions{
		Policy:           RouteClassify,
		Temperature:      0.7,
		RouteTemperature: 0.1,
		Logger:           logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Conversation{registry: registry, opts: opts}
}

// Run executes the pipeline to completion for one inbound message.
//
// A model backend failure terminates the run: the returned error is the
// *core.ProviderError and the Output still carries a degraded error narrative
// plus the status trail, so the hosting layer can render something without
// crashing. Storage failures never fail the run; the packaged document is
// delivered inline instead.
func (p *Conversation) Run(ctx context.Context, in Input) (*Output, error) {
	state := &State{
		Messages:        append([]core.Message(nil), in.Messages...),
		Provider:        in.Provider,
		PlanTier:        in.PlanTier,
		ContextSnippets: append([]string(nil), in.ContextSnippets...),
	}

	if len(state.ContextSnippets) == 0 && p.opts.Retriever != nil {
		if query := core.LastUserText(state.Messages); query != "" {
			snippets, err := p.opts.Retriever.Retrieve(ctx, query)
			if err != nil {
				p.opts.Logger.Warn("pipeline.retrieval.failed", "error", err)
				state.appendTrail("warning: context retrieval failed, continuing without context")
			} else if len(snippets) > 0 {
				state.ContextSnippets = snippets
				state.appendTrail("retrieved %d context snippets", len(snippets))
			}
		}
	}

	stage := StageRoute
	for stage != StageDone {
		p.opts.Logger.Debug("pipeline.stage", "stage", stage.String())
		next, err := p.step(ctx, state, stage)
		if err != nil {
			state.appendTrail("error: pipeline failed during %s: %v", stage, err)
			p.opts.Logger.Error("pipeline.failed", "stage", stage.String(), "error", err)
			return &Output{
				Text:  fmt.Sprintf("I ran into a problem answering this: %v", err),
				Trail: state.Trail,
			}, err
		}
		stage = next
	}

	return &Output{
		Text:           lastText(state.Messages),
		Interactive:    state.Interactive,
		ArtifactRef:    state.ArtifactRef,
		InlineDocument: state.InlineDocument,
		Trail:          state.Trail,
	}, nil
}

// step advances the state machine by one stage and returns the next stage.
func (p *Conversation) step(ctx context.Context, state *State, stage Stage) (Stage, error) {
	switch stage {
	case StageRoute:
		return p.route(ctx, state)
	case StageGenerate:
		return p.generate(ctx, state)
	case StageExtract:
		return p.extract(ctx, state)
	default:
		return StageDone, fmt.Errorf("unexpected stage %s", stage)
	}
}

// route decides whether the response should target interactive output.
func (p *Conversation) route(ctx context.Context, state *State) (Stage, error) {
	if p.opts.Policy == RouteAlwaysInteractive {
		state.Interactive = true
		state.appendTrail("routing: always-interactive policy, targeting interactive output")
		return StageGenerate, nil
	}

	m, err := p.registry.Resolve(state.Provider)
	if err != nil {
		return StageDone, err
	}

	temp := p.opts.RouteTemperature
	reply, err := model.Invoke(ctx, m, model.Request{
		Messages:    []core.Message{core.UserMessage(fmt.Sprintf(routingPrompt, core.LastUserText(state.Messages)))},
		Temperature: &temp,
	})
	if err != nil {
		// Classification is best effort: an unusable classifier answer
		// falls back to a plain text response.
		state.Interactive = false
		state.appendTrail("warning: routing classifier unavailable, defaulting to text response")
		p.opts.Logger.Warn("pipeline.route.classifier_failed", "error", err)
		return StageGenerate, nil
	}

	state.Interactive = strings.Contains(strings.ToLower(reply), "interactive")
	state.appendTrail("routing: classifier chose %s output", responseKind(state.Interactive))
	return StageGenerate, nil
}

// generate builds the prompt and replaces the working message list with
// exactly the new assistant turn.
func (p *Conversation) generate(ctx context.Context, state *State) (Stage, error) {
	m, err := p.registry.Resolve(state.Provider)
	if err != nil {
		return StageDone, err
	}

	messages := []core.Message{core.SystemMessage(systemPrompt)}
	if len(state.ContextSnippets) > 0 {
		joined := strings.Join(state.ContextSnippets, contextDelimiter)
		messages = append(messages, core.SystemMessage(fmt.Sprintf(contextBlock, joined)))
	}
	messages = append(messages, state.Messages...)

	temp := p.opts.Temperature
	reply, err := model.Invoke(ctx, m, model.Request{Messages: messages, Temperature: &temp})
	if err != nil {
		return StageDone, err
	}

	state.Messages = []core.Message{core.AssistantMessage(reply)}
	state.appendTrail("generated response via %s (%d chars)", state.Provider, len(reply))

	if artifact.HasMarker(reply) {
		return StageExtract, nil
	}
	return StageDone, nil
}

// extract splits out the interactive block, packages it and stores the
// resulting document, degrading to inline delivery on storage failure.
func (p *Conversation) extract(ctx context.Context, state *State) (Stage, error) {
	raw := lastText(state.Messages)
	ex := artifact.Extract(raw)
	if ex.Malformed {
		state.appendTrail("warning: interactive marker present but block is malformed, keeping raw text")
		p.opts.Logger.Warn("pipeline.extract.malformed")
		return StageDone, nil
	}

	doc := artifact.Package(artifactTitle, ex.Code)
	ref := storeDocument(ctx, p.opts.Store, doc, state, p.opts.Logger)

	marker := ref
	if marker == "" {
		marker = InlineRef
		state.InlineDocument = doc
	}
	state.ArtifactRef = ref
	state.Interactive = true
	state.Messages = []core.Message{core.AssistantMessage(
		fmt.Sprintf("%s\n\n<!-- INTERACTIVE_OUTPUT: %s -->", ex.Narrative, marker),
	)}
	return StageDone, nil
}

// storeDocument attempts persistence and records the attempt in the trail.
// An empty return means the caller must deliver the document inline.
func storeDocument(ctx context.Context, store core.ArtifactStore, doc string, state interface {
	appendTrail(format string, args ...any)
}, logger logging.Logger) string {
	state.appendTrail("uploading interactive artifact (%d bytes)", len(doc))
	if store == nil {
		state.appendTrail("warning: no artifact store configured, delivering document inline")
		return ""
	}
	ref, err := store.Put(ctx, []byte(doc))
	if err != nil {
		state.appendTrail("warning: artifact storage failed, delivering document inline: %v", err)
		logger.Warn("pipeline.storage.failed", "error", err)
		return ""
	}
	state.appendTrail("stored interactive artifact at %s", ref)
	return ref
}

// lastText returns the text of the last message, or "".
func lastText(messages []core.Message) string {
	if len(messages) == 0 {
		return ""
	}
	return messages[len(messages)-1].Text
}

func responseKind(interactive bool) string {
	if interactive {
		return "interactive"
	}
	return "text"
}
