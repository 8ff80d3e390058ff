// Package gemini provides an implementation of model.Model using the Google
// Gemini API via the official google.golang.org/genai SDK.
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/saxenashivang/interactive-learning/core"
	"github.com/saxenashivang/interactive-learning/model"
)

// Options configures the Gemini model adapter.
type Options struct {
	Model           string
	Temperature     float64
	MaxOutputTokens int32
	APIKey          string
}

// Model wraps the Gemini GenerateContent API behind the generic model.Model interface.
type Model struct {
	client *genai.Client
	opts   Options
}

// NewModel creates a new Gemini model. The client performs network setup, so
// construction can fail.
func NewModel(ctx context.Context, optFns ...func(o *Options)) (*Model, error) {
	opts := Options{
		Model:           "gemini-2.0-flash",
		Temperature:     0.7,
		MaxOutputTokens: 8192,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: opts.APIKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Model{client: client, opts: opts}, nil
}

// NewModelFromClient creates a new Gemini model from an existing client.
func NewModelFromClient(client *genai.Client, optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:           "gemini-2.0-flash",
		Temperature:     0.7,
		MaxOutputTokens: 8192,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts}
}

// Generate implements text generation against the Gemini API. Streaming
// requests fall back to a single final chunk.
func (m *Model) Generate(ctx context.Context, req model.Request) (<-chan model.Response, <-chan error) {
	out := make(chan model.Response, 32)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		contents, system := buildContents(req.Messages)

		temperature := m.opts.Temperature
		if req.Temperature != nil {
			temperature = *req.Temperature
		}

		config := &genai.GenerateContentConfig{
			Temperature:     genai.Ptr(float32(temperature)),
			MaxOutputTokens: m.opts.MaxOutputTokens,
		}
		if system != "" {
			config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
		}

		resp, err := m.client.Models.GenerateContent(ctx, m.opts.Model, contents, config)
		if err != nil {
			errCh <- fmt.Errorf("gemini api error: %w", err)
			return
		}

		out <- model.Response{
			Message:      core.AssistantMessage(resp.Text()),
			FinishReason: "stop",
		}
	}()

	return out, errCh
}

// buildContents converts conversation turns to Gemini contents. System turns
// are concatenated into a single system instruction.
func buildContents(messages []core.Message) ([]*genai.Content, string) {
	var contents []*genai.Content
	var system string
	for _, msg := range messages {
		if msg.Text == "" {
			continue
		}
		switch msg.Role {
		case core.RoleSystem:
			if system != "" {
				system += "\n\n"
			}
			system += msg.Text
		case core.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(msg.Text, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Text, genai.RoleUser))
		}
	}
	return contents, system
}

// Info returns metadata describing this Gemini model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:     m.opts.Model,
		Provider: "gemini",
	}
}
