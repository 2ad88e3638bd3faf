package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/career-interviewer/internal/career"
	"github.com/spigell/career-interviewer/internal/logger"
	"github.com/spigell/career-interviewer/internal/utils"
)

const (
	DefaultSuggestionAttempts   = 3
	DefaultSuggestionRetryDelay = 2 * time.Second
)

type HandoffConfig struct {
	Attempts   int
	RetryDelay time.Duration
}

type HandoffDeps struct {
	Conversations ConversationStore
	Generator     SuggestionGenerator
	Suggestions   SuggestionStore
	Logger        *zap.Logger
}

// Handoff assembles the transcript of a completed session from the durable
// store and turns it into persisted career suggestions.
type Handoff struct {
	conversations ConversationStore
	generator     SuggestionGenerator
	suggestions   SuggestionStore
	logger        *zap.Logger
	attempts      int
	delay         time.Duration

	wait func(ctx context.Context, d time.Duration) error
}

func NewHandoff(cfg *HandoffConfig, deps *HandoffDeps) (*Handoff, error) {
	if deps == nil || deps.Conversations == nil || deps.Generator == nil || deps.Suggestions == nil {
		return nil, errors.New("conversation store, suggestion generator and suggestion store are required")
	}

	attempts := DefaultSuggestionAttempts
	delay := DefaultSuggestionRetryDelay
	if cfg != nil {
		if cfg.Attempts > 0 {
			attempts = cfg.Attempts
		}
		if cfg.RetryDelay > 0 {
			delay = cfg.RetryDelay
		}
	}

	return &Handoff{
		conversations: deps.Conversations,
		generator:     deps.Generator,
		suggestions:   deps.Suggestions,
		logger:        logger.WithFields(deps.Logger),
		attempts:      attempts,
		delay:         delay,
		wait:          utils.WaitFor,
	}, nil
}

// BuildTranscript renders turns as "role: text" lines in the given order.
func BuildTranscript(turns []*Record) string {
	lines := make([]string, 0, len(turns))
	for _, turn := range turns {
		lines = append(lines, fmt.Sprintf("%s: %s", turn.Role, turn.Text))
	}
	return strings.Join(lines, "\n")
}

// Transcript reads every durable turn of the session and renders it.
func (h *Handoff) Transcript(ctx context.Context, s *Session) (string, error) {
	turns, err := h.conversations.ListTurns(ctx, s.userID, s.id)
	if err != nil {
		return "", fmt.Errorf("%w: list turns: %w", ErrPersistenceFailed, err)
	}
	return BuildTranscript(turns), nil
}

// Run generates and persists suggestions for a completed session. Generation
// is attempted up to the configured number of times with a fixed delay in
// between; nothing is persisted unless an attempt succeeds.
func (h *Handoff) Run(ctx context.Context, s *Session, resume ResumeContext) ([]career.Suggestion, error) {
	if !s.Complete() {
		return nil, ErrSessionNotComplete
	}

	log := logger.WithFields(h.logger, logger.SessionFields(s.userID, s.id)...)

	transcript, err := h.Transcript(ctx, s)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(transcript) == "" {
		return nil, ErrEmptyTranscript
	}

	var (
		suggestions []career.Suggestion
		lastErr     error
	)

	for attempt := 1; attempt <= h.attempts; attempt++ {
		suggestions, lastErr = h.generator.Generate(ctx, transcript, resume)
		if lastErr == nil && len(suggestions) == 0 {
			lastErr = errors.New("generator returned no suggestions")
		}
		if lastErr == nil {
			break
		}

		log.Warn("career suggestion attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", h.attempts),
			zap.Error(lastErr),
		)

		if attempt == h.attempts {
			break
		}

		if err := h.wait(ctx, h.delay); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSuggestionGenerationFailed, err)
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w after %d attempts: %w", ErrSuggestionGenerationFailed, h.attempts, lastErr)
	}

	if err := h.suggestions.SaveSuggestions(ctx, s.userID, s.id, suggestions); err != nil {
		return nil, fmt.Errorf("%w: save suggestions: %w", ErrPersistenceFailed, err)
	}

	log.Info("career suggestions saved", zap.Int("count", len(suggestions)))

	return suggestions, nil
}
