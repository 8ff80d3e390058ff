// Package learning provides a high-level façade over the conversation and
// research pipelines plus the services behind them (model registry, artifact
// storage, web search, context retrieval & logging). Most applications
// interact with this package by:
//  1. Creating a Platform via New() (configured from the environment, a YAML
//     file, or explicit overrides)
//  2. Registering extra model backends if the built-in providers are not enough
//  3. Calling Chat for conversational turns or Research for deep research runs
//
// The façade delegates the actual work to the pipeline package while keeping
// setup concise. All defaults are safe for local development and testing;
// production deployments typically supply a bucket-backed artifact store and
// a structured logger.
package learning

import (
	"context"
	"fmt"

	"github.com/saxenashivang/interactive-learning/artifact"
	"github.com/saxenashivang/interactive-learning/artifact/gcs"
	"github.com/saxenashivang/interactive-learning/config"
	"github.com/saxenashivang/interactive-learning/core"
	"github.com/saxenashivang/interactive-learning/logging"
	"github.com/saxenashivang/interactive-learning/model"
	"github.com/saxenashivang/interactive-learning/model/anthropic"
	"github.com/saxenashivang/interactive-learning/model/gemini"
	"github.com/saxenashivang/interactive-learning/model/openai"
	"github.com/saxenashivang/interactive-learning/pipeline"
	"github.com/saxenashivang/interactive-learning/search"
)

// Options configure the Platform instance.
type Options struct {
	// Config supplies provider credentials and tuning. Defaults to the
	// environment-derived configuration.
	Config *config.Config

	// ArtifactStore persists packaged HTML documents. Defaults to the GCS
	// store when Config names a bucket, otherwise to an in-memory store.
	ArtifactStore core.ArtifactStore

	// Searcher backs the research pipeline. Defaults to Tavily when Config
	// carries a Tavily API key; research is unavailable without one.
	Searcher search.Client

	// Retriever supplies context snippets for conversation turns. Optional.
	Retriever core.Retriever

	// RoutingPolicy selects how conversations decide between plain text and
	// interactive output. Defaults to classifier-based routing.
	RoutingPolicy pipeline.RoutingPolicy

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Platform is the high-level façade aggregating the pipelines and services.
type Platform struct {
	opts         Options
	cfg          *config.Config
	registry     *model.Registry
	conversation *pipeline.Conversation
	research     *pipeline.Research
}

// New creates a Platform with optional overrides. Model backends are
// registered for every provider whose credential is configured; a custom
// backend can be added afterwards via RegisterModel.
func New(ctx context.Context, optFns ...func(o *Options)) (*Platform, error) {
	opts := Options{
		RoutingPolicy: pipeline.RouteClassify,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Config == nil {
		opts.Config = config.FromEnv()
	}
	cfg := opts.Config

	registry := model.NewRegistry()
	if cfg.Providers.GoogleAPIKey != "" {
		m, err := gemini.NewModel(ctx, func(o *gemini.Options) {
			o.APIKey = cfg.Providers.GoogleAPIKey
			o.Temperature = cfg.Providers.Temperature
		})
		if err != nil {
			return nil, fmt.Errorf("initialize gemini backend: %w", err)
		}
		registry.Register(model.ProviderGemini, m)
	}
	if cfg.Providers.OpenAIAPIKey != "" {
		registry.Register(model.ProviderOpenAI, openai.NewModel(func(o *openai.Options) {
			o.APIKey = cfg.Providers.OpenAIAPIKey
			o.Temperature = cfg.Providers.Temperature
		}))
	}
	if cfg.Providers.AnthropicKey != "" {
		registry.Register(model.ProviderAnthropic, anthropic.NewModel(func(o *anthropic.Options) {
			o.APIKey = cfg.Providers.AnthropicKey
			o.Temperature = cfg.Providers.Temperature
		}))
	}

	if opts.ArtifactStore == nil {
		if cfg.Artifacts.Bucket != "" {
			store, err := gcs.NewStore(ctx, func(o *gcs.Options) {
				o.Bucket = cfg.Artifacts.Bucket
				o.Prefix = cfg.Artifacts.Prefix
			})
			if err != nil {
				return nil, fmt.Errorf("initialize artifact store: %w", err)
			}
			opts.ArtifactStore = store
		} else {
			opts.ArtifactStore = artifact.NewInMemoryStore()
		}
	}

	if opts.Searcher == nil && cfg.Research.TavilyAPIKey != "" {
		opts.Searcher = search.NewTavily(cfg.Research.TavilyAPIKey)
	}

	p := &Platform{opts: opts, cfg: cfg, registry: registry}

	p.conversation = pipeline.NewConversation(registry, func(o *pipeline.ConversationOptions) {
		o.Store = opts.ArtifactStore
		o.Retriever = opts.Retriever
		o.Policy = opts.RoutingPolicy
		o.Temperature = cfg.Providers.Temperature
		o.Logger = opts.Logger
	})
	if opts.Searcher != nil {
		p.research = pipeline.NewResearch(registry, opts.Searcher, func(o *pipeline.ResearchOptions) {
			o.Store = opts.ArtifactStore
			o.MaxResultsPerQuery = cfg.Research.MaxResultsPerQuery
			o.MaxIterations = cfg.Research.MaxIterations
			o.Logger = opts.Logger
		})
	}

	return p, nil
}

// RegisterModel adds a model backend under the given provider name.
func (p *Platform) RegisterModel(name string, m model.Model) { p.registry.Register(name, m) }

// Registry exposes the underlying model registry.
func (p *Platform) Registry() *model.Registry { return p.registry }

// Chat runs one conversation turn over the full message history using the
// configured default provider.
func (p *Platform) Chat(ctx context.Context, messages []core.Message) (*pipeline.Output, error) {
	return p.ChatWith(ctx, messages, p.cfg.Providers.Default)
}

// ChatWith runs one conversation turn against a specific provider.
func (p *Platform) ChatWith(ctx context.Context, messages []core.Message, provider string) (*pipeline.Output, error) {
	return p.conversation.Run(ctx, pipeline.Input{
		Messages: messages,
		Provider: provider,
	})
}

// Research runs the multi-step research pipeline for one query using the
// configured default provider. It fails fast when no search client is
// configured.
func (p *Platform) Research(ctx context.Context, query string) (*pipeline.ResearchOutput, error) {
	if p.research == nil {
		return nil, &core.ConfigurationError{
			Setting: "research.tavily_api_key",
			Reason:  "no search client configured",
		}
	}
	return p.research.Run(ctx, query, p.cfg.Providers.Default)
}
