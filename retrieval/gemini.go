package retrieval

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiEmbedder generates embeddings using the Google Gemini API.
type GeminiEmbedder struct {
	client *genai.Client
	model  string
}

// GeminiEmbedderOptions configure a GeminiEmbedder.
type GeminiEmbedderOptions struct {
	Model  string
	APIKey string
}

// NewGeminiEmbedder creates a Gemini embedding client.
func NewGeminiEmbedder(ctx context.Context, optFns ...func(o *GeminiEmbedderOptions)) (*GeminiEmbedder, error) {
	opts := GeminiEmbedderOptions{Model: "gemini-embedding-001"}
	for _, fn := range optFns {
		fn(&opts)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: opts.APIKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiEmbedder{client: client, model: opts.Model}, nil
}

// NewGeminiEmbedderFromClient creates an embedder from an existing client.
func NewGeminiEmbedderFromClient(client *genai.Client, optFns ...func(o *GeminiEmbedderOptions)) *GeminiEmbedder {
	opts := GeminiEmbedderOptions{Model: "gemini-embedding-001"}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &GeminiEmbedder{client: client, model: opts.Model}
}

// Embed implements Embedder for a single text.
func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch implements Embedder; the Gemini API has native batch support.
func (e *GeminiEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	result, err := e.client.Models.EmbedContent(ctx, e.model, contents, &genai.EmbedContentConfig{
		TaskType: "RETRIEVAL_DOCUMENT",
	})
	if err != nil {
		return nil, fmt.Errorf("gemini embed failed: %w", err)
	}
	if len(result.Embeddings) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(result.Embeddings))
	}

	vectors := make([][]float32, len(result.Embeddings))
	for i, emb := range result.Embeddings {
		vectors[i] = emb.Values
	}
	return vectors, nil
}
