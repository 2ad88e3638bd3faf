// Package ollama talks to a local Ollama server for chat and embeddings.
package ollama

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

const (
	DefaultHost           = "http://localhost:11434"
	defaultModel          = "llama3.1"
	defaultEmbeddingModel = "nomic-embed-text"
)

type Client struct {
	client         *api.Client
	model          string
	embeddingModel string
}

// NewClient connects to the Ollama server at host. Empty model names fall
// back to defaults.
func NewClient(host, model, embeddingModel string, httpClient *http.Client) (*Client, error) {
	if host = strings.TrimSpace(host); host == "" {
		host = DefaultHost
	}

	parsed, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("parse ollama host %q: %w", host, err)
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if embeddingModel = strings.TrimSpace(embeddingModel); embeddingModel == "" {
		embeddingModel = defaultEmbeddingModel
	}

	return &Client{
		client:         api.NewClient(parsed, httpClient),
		model:          model,
		embeddingModel: embeddingModel,
	}, nil
}

// GenerateContent runs a non-streaming chat with an optional system message.
func (c *Client) GenerateContent(ctx context.Context, system, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	messages := make([]api.Message, 0, 2)
	if system = strings.TrimSpace(system); system != "" {
		messages = append(messages, api.Message{Role: "system", Content: system})
	}
	messages = append(messages, api.Message{Role: "user", Content: prompt})

	stream := false
	req := &api.ChatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   &stream,
	}

	var response api.ChatResponse
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		response = resp
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat: %w", err)
	}

	output := strings.TrimSpace(response.Message.Content)
	if output == "" {
		return "", errors.New("ollama returned empty response")
	}

	return output, nil
}

// Embed embeds all texts in one request.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, errors.New("no texts provided for embedding")
	}

	resp, err := c.client.Embed(ctx, &api.EmbedRequest{
		Model: c.embeddingModel,
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("ollama embed: %w", err)
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama returned %d embeddings for %d texts", len(resp.Embeddings), len(texts))
	}

	return resp.Embeddings, nil
}

func (c *Client) Model() string {
	return c.model
}
