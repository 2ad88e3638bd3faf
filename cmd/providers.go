package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/career-interviewer/internal/ai"
	"github.com/spigell/career-interviewer/internal/ai/gemini"
	"github.com/spigell/career-interviewer/internal/ai/ollama"
	"github.com/spigell/career-interviewer/internal/ai/openai"
	"github.com/spigell/career-interviewer/internal/coursera"
	"github.com/spigell/career-interviewer/internal/logger"
	"github.com/spigell/career-interviewer/internal/secrets"
)

const (
	providerGemini = "gemini"
	providerOllama = "ollama"
	providerOpenAI = "openai"
)

func normalizeProvider(name string) string {
	return strings.TrimSpace(strings.ToLower(name))
}

func newGenerator(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Generator, error) {
	switch normalizeProvider(cfg.Provider) {
	case "", providerGemini:
		gcfg := cfg.Gemini
		if gcfg == nil {
			gcfg = &GeminiConfig{}
		}

		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			Value: gcfg.APIKey,
			File:  gcfg.APIKeyFile,
			Env:   "GEMINI_API_KEY",
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
		}

		generator, err := gemini.NewGenerator(ctx, apiKey, gcfg.Model, gcfg.MaxRetries, log.With(zap.Int("ai_retry_attempts", gcfg.MaxRetries)))
		if err != nil {
			return nil, err
		}
		generator.SetMaxLogLength(gcfg.MaxLogLength)

		return generator, nil
	case providerOllama:
		client, err := newOllama(cfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	case providerOpenAI:
		client, err := newOpenAI(cfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

// newEmbedder returns nil when resume indexing is not configured.
func newEmbedder(cfg *AIConfig) (ai.Embedder, error) {
	switch normalizeProvider(cfg.Embeddings) {
	case "":
		return nil, nil
	case providerOllama:
		client, err := newOllama(cfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	case providerOpenAI:
		client, err := newOpenAI(cfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported embeddings provider: %s", cfg.Embeddings)
	}
}

func newOllama(cfg *AIConfig) (*ollama.Client, error) {
	ocfg := cfg.Ollama
	if ocfg == nil {
		ocfg = &OllamaConfig{}
	}
	return ollama.NewClient(ocfg.Host, ocfg.Model, ocfg.EmbeddingModel, nil)
}

func newOpenAI(cfg *AIConfig) (*openai.Client, error) {
	ocfg := cfg.OpenAI
	if ocfg == nil {
		ocfg = &OpenAIConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "openai api key",
		Value: ocfg.APIKey,
		File:  ocfg.APIKeyFile,
		Env:   "OPENAI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.openai.api-key-file or OPENAI_API_KEY_FILE)", err)
	}

	return openai.NewClient(apiKey, ocfg.BaseURL, ocfg.Model, ocfg.EmbeddingModel)
}

// newCoursera returns nil when no credentials are configured.
func newCoursera(ctx context.Context, cfg *CourseraConfig, log *zap.Logger) (*coursera.Client, error) {
	if cfg == nil || (strings.TrimSpace(cfg.Credentials) == "" && strings.TrimSpace(cfg.CredentialsFile) == "") {
		return nil, nil
	}

	key, secret, err := secrets.LoadPair(secrets.Source{
		Name:  "coursera credentials",
		Value: cfg.Credentials,
		File:  cfg.CredentialsFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set coursera.credentials-file or COURSERA_CREDENTIALS_FILE)", err)
	}

	client := coursera.New(ctx, logger.WithFields(log, zap.String("component", "coursera")), coursera.Credentials{Key: key, Secret: secret})
	client.SetRequestsPerSecond(cfg.RequestsPerSecond)

	return client, nil
}
