// Package counselor implements the interview collaborators on top of a text
// generation model: primary questions, follow-ups and career suggestions.
package counselor

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/career-interviewer/internal/ai"
	"github.com/spigell/career-interviewer/internal/career"
	"github.com/spigell/career-interviewer/internal/filtering"
	"github.com/spigell/career-interviewer/internal/interview"
	"github.com/spigell/career-interviewer/internal/logger"
	"github.com/spigell/career-interviewer/internal/utils"
)

const (
	systemInstruction   = "You are a career counsellor."
	defaultMaxLogLength = 200
)

var (
	//go:embed prompts/questions.md
	questionsTemplate string
	//go:embed prompts/followup.md
	followupTemplate string
	//go:embed prompts/suggestions.md
	suggestionsTemplate string
	//go:embed prompts/example_questions.txt
	defaultExampleQuestions string

	listMarker = regexp.MustCompile(`^\s*(?:\d+[.)]|[-*]|Q:)\s*`)
)

// DefaultExampleQuestions is used when no example questions file is configured.
func DefaultExampleQuestions() string {
	return defaultExampleQuestions
}

type prompter struct {
	generator ai.Generator
	logger    *zap.Logger
	maxLogLen int
}

func newPrompter(generator ai.Generator, log *zap.Logger, maxLogLength int) prompter {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	return prompter{
		generator: generator,
		logger:    logger.WithFields(log),
		maxLogLen: maxLogLength,
	}
}

func (p prompter) generate(ctx context.Context, kind, prompt string) (string, error) {
	if p.generator == nil {
		return "", errors.New("generator is not configured")
	}

	log := logger.WithCommonFields(p.logger, "", p.generator.Model()).With(zap.String("prompt_kind", kind))
	log.Debug("generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, p.maxLogLen)),
	)

	raw, err := p.generator.GenerateContent(ctx, systemInstruction, prompt)
	if err != nil {
		return "", err
	}

	log.Debug("generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, p.maxLogLen)),
	)

	return raw, nil
}

func render(template string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for key, value := range values {
		pairs = append(pairs, "{{"+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

func queryResume(ctx context.Context, resume interview.ResumeContext, query string) (string, error) {
	if resume == nil {
		return "", nil
	}
	text, err := resume.Query(ctx, query)
	if err != nil {
		return "", fmt.Errorf("query resume: %w", err)
	}
	return text, nil
}

// QuestionSource asks the model for the primary interview questions.
type QuestionSource struct {
	prompter
}

func NewQuestionSource(generator ai.Generator, log *zap.Logger, maxLogLength int) *QuestionSource {
	return &QuestionSource{prompter: newPrompter(generator, log, maxLogLength)}
}

func (q *QuestionSource) Generate(ctx context.Context, workExperience string, resume interview.ResumeContext, exampleQuestions string) ([]string, error) {
	resumeContext, err := queryResume(ctx, resume, workExperience)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(exampleQuestions) == "" {
		exampleQuestions = defaultExampleQuestions
	}

	prompt := render(questionsTemplate, map[string]string{
		"USER_INPUT":        strings.TrimSpace(workExperience),
		"RESUME_CONTEXT":    strings.TrimSpace(resumeContext),
		"EXAMPLE_QUESTIONS": strings.TrimSpace(exampleQuestions),
	})

	raw, err := q.generate(ctx, "questions", prompt)
	if err != nil {
		return nil, err
	}

	return interview.ExtractQuestions(raw), nil
}

// FollowupGenerator asks the model for one follow-up about an answer.
type FollowupGenerator struct {
	prompter
}

func NewFollowupGenerator(generator ai.Generator, log *zap.Logger, maxLogLength int) *FollowupGenerator {
	return &FollowupGenerator{prompter: newPrompter(generator, log, maxLogLength)}
}

func (f *FollowupGenerator) Generate(ctx context.Context, answer string) (string, error) {
	prompt := render(followupTemplate, map[string]string{"ANSWER": strings.TrimSpace(answer)})

	raw, err := f.generate(ctx, "followup", prompt)
	if err != nil {
		return "", err
	}

	question := cleanFollowup(raw)
	if question == "" {
		return "", errors.New("model returned no follow-up question")
	}
	return question, nil
}

// cleanFollowup keeps the first line that reads like a question, without list
// markers or wrapping quotes.
func cleanFollowup(raw string) string {
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(listMarker.ReplaceAllString(line, ""))
		line = strings.Trim(line, `"'“”*`)
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	for _, line := range lines {
		if strings.HasSuffix(line, "?") {
			return line
		}
	}
	return strings.Join(lines, " ")
}

// SuggestionGenerator turns an interview transcript into career suggestions.
type SuggestionGenerator struct {
	prompter
	filters      []filtering.Filter
	filterConfig *filtering.Config
}

func NewSuggestionGenerator(generator ai.Generator, log *zap.Logger, maxLogLength int, filterConfig *filtering.Config) *SuggestionGenerator {
	return &SuggestionGenerator{
		prompter:     newPrompter(generator, log, maxLogLength),
		filters:      filtering.Default(),
		filterConfig: filterConfig,
	}
}

// DisableFilter turns off the named filtering step.
func (g *SuggestionGenerator) DisableFilter(name, reason string) {
	filtering.DisableByName(g.filters, name, reason)
}

// Filters reports the filtering steps applied to generated suggestions.
func (g *SuggestionGenerator) Filters() []filtering.Status {
	return filtering.Describe(g.filters)
}

// Generate returns bounded, de-duplicated suggestions. An unparseable reply
// yields the placeholder suggestion; a parseable reply without any usable
// suggestion is an error so the caller may retry.
func (g *SuggestionGenerator) Generate(ctx context.Context, transcript string, resume interview.ResumeContext) ([]career.Suggestion, error) {
	resumeContext, err := queryResume(ctx, resume, transcript)
	if err != nil {
		return nil, err
	}

	prompt := render(suggestionsTemplate, map[string]string{
		"CHAT_HISTORY":   strings.TrimSpace(transcript),
		"RESUME_CONTEXT": strings.TrimSpace(resumeContext),
	})

	raw, err := g.generate(ctx, "suggestions", prompt)
	if err != nil {
		return nil, err
	}

	suggestions, err := parseSuggestions(raw)
	if err != nil {
		g.logger.Warn("career suggestions are not valid JSON, using placeholder",
			zap.Error(err),
			zap.String("response_preview", utils.TruncateForLog(raw, g.maxLogLen)),
		)
		return []career.Suggestion{career.Placeholder()}, nil
	}

	filtered, err := filtering.Run(ctx, g.filterConfig, filtering.Deps{Logger: g.logger}, g.filters, suggestions)
	if err != nil {
		return nil, fmt.Errorf("filter suggestions: %w", err)
	}
	if len(filtered) == 0 {
		return nil, errors.New("model returned no usable career suggestions")
	}

	return filtered, nil
}
