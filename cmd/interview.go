package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/career-interviewer/internal/ai"
	"github.com/spigell/career-interviewer/internal/ai/counselor"
	"github.com/spigell/career-interviewer/internal/career"
	"github.com/spigell/career-interviewer/internal/filtering"
	"github.com/spigell/career-interviewer/internal/interview"
	"github.com/spigell/career-interviewer/internal/logger"
	"github.com/spigell/career-interviewer/internal/resume"
	"github.com/spigell/career-interviewer/internal/store"
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Run an adaptive career interview and generate career suggestions",
	Run: func(cmd *cobra.Command, _ []string) {
		runInterview(cmd)
	},
}

func init() {
	rootCmd.AddCommand(interviewCmd)

	interviewCmd.Flags().StringP("resume", "r", "", "path to a .txt or .pdf resume (default is the one from the questionnaire)")
	interviewCmd.Flags().Bool("courses", false, "look up Coursera courses for the suggested skills")
}

func runInterview(cmd *cobra.Command) {
	s := openSession("interview")
	defer s.close()

	userID, _ := s.login()
	ctx := s.ctx
	config := s.config

	questionnaire := askQuestionnaire(s, userID, cmd.Flag("resume").Value.String())

	generator, err := newGenerator(ctx, config.AI, logger.WithFields(s.logger))
	if err != nil {
		s.logger.Fatal("building ai generator", zap.Error(err), zap.String("provider", config.AI.Provider))
	}

	aiLogger := logger.WithCommonFields(s.logger, normalizeProvider(config.AI.Provider), generator.Model())

	resumeContext := loadResume(s, questionnaire.ResumePath)

	examples, err := exampleQuestions(config.ExampleQuestionsFile)
	if err != nil {
		s.logger.Fatal("reading example questions", zap.Error(err))
	}

	machine, err := interview.NewMachine(&interview.Config{
		MaxFollowups: config.Interview.MaxFollowups,
		MaxLogLength: config.AI.MaxLogLength,
	}, &interview.Deps{
		Questions: counselor.NewQuestionSource(generator, aiLogger, config.AI.MaxLogLength),
		Followups: counselor.NewFollowupGenerator(generator, aiLogger, config.AI.MaxLogLength),
		Store:     s.store,
		Logger:    s.logger,
	})
	if err != nil {
		s.logger.Fatal("building the interview", zap.Error(err))
	}

	handoff, err := interview.NewHandoff(&interview.HandoffConfig{
		Attempts:   config.Interview.SuggestionAttempts,
		RetryDelay: config.Interview.SuggestionRetryDelay,
	}, &interview.HandoffDeps{
		Conversations: s.store,
		Generator:     newSuggestionGenerator(generator, aiLogger, config),
		Suggestions:   s.store,
		Logger:        s.logger,
	})
	if err != nil {
		s.logger.Fatal("building the handoff", zap.Error(err))
	}

	s.logger.Info("generating interview questions")

	interviewSession, err := machine.Start(ctx, userID, questionnaire.WorkExperience, resumeContext, examples)
	if err != nil {
		s.logger.Fatal("starting the interview", zap.Error(err))
	}
	sessionID := zap.String(logger.FieldSessionID, interviewSession.ID())

	if err := converse(s, machine, interviewSession); err != nil {
		s.logger.Fatal("interview interrupted", zap.Error(err), sessionID)
	}

	s.logger.Info("interview complete, analysing your responses", sessionID)

	suggestions, err := finishInterview(ctx, s.logger.With(sessionID), os.Stdout, handoff, interviewSession, resumeContext)
	if err != nil {
		s.logger.Fatal("generating career suggestions", zap.Error(err), sessionID)
	}

	if len(suggestions) > 0 && cmd.Flag("courses").Value.String() == "true" {
		printCourses(s, suggestions)
	}
}

// converse asks questions until the session is complete.
func converse(s *session, machine *interview.Machine, is *interview.Session) error {
	for !is.Complete() {
		question, err := is.CurrentQuestion()
		if err != nil {
			return err
		}

		current, total := is.Progress()
		fmt.Println()
		fmt.Printf("Question %d of %d\n", current, total)
		for _, turn := range is.History() {
			fmt.Printf("  %s: %s\n", turn.Role, turn.Text)
		}
		fmt.Printf("Interviewer: %s\n", question)

		answer, err := (&promptui.Prompt{Label: "Your answer"}).Run()
		if err != nil {
			return err
		}

		_, err = machine.SubmitAnswer(s.ctx, is, answer)
		switch {
		case errors.Is(err, interview.ErrInvalidInput):
			s.logger.Warn("please provide an answer before continuing")
		case errors.Is(err, interview.ErrGenerationFailed):
			// Nothing was recorded; the same question is asked again.
			s.logger.Warn("could not generate a follow-up question, please answer again", zap.Error(err))
		case err != nil:
			return err
		}
	}

	return nil
}

type suggestionRunner interface {
	Run(ctx context.Context, s *interview.Session, resume interview.ResumeContext) ([]career.Suggestion, error)
}

// finishInterview hands a completed session over to the suggestion generator
// and prints the result. An interview without answers is only warned about.
func finishInterview(ctx context.Context, log *zap.Logger, w io.Writer, runner suggestionRunner, is *interview.Session, resume interview.ResumeContext) ([]career.Suggestion, error) {
	suggestions, err := runner.Run(ctx, is, resume)
	if errors.Is(err, interview.ErrEmptyTranscript) {
		log.Warn("no answers were recorded, so there is nothing to analyse",
			zap.String("hint", "describe your work experience in more detail and start a new interview"))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	printSuggestions(w, suggestions)

	return suggestions, nil
}

func newSuggestionGenerator(generator ai.Generator, log *zap.Logger, config *Config) *counselor.SuggestionGenerator {
	sg := counselor.NewSuggestionGenerator(generator, log, config.AI.MaxLogLength, &filtering.Config{
		MaxSuggestions:      config.Suggestions.Max,
		ExcludedOccupations: config.Suggestions.ExcludeOccupations,
	})

	for _, name := range config.Suggestions.Disable {
		sg.DisableFilter(strings.TrimSpace(name), "disabled in config")
	}

	log.Debug("suggestion filters", zap.Any("filters", sg.Filters()))

	return sg
}

// askQuestionnaire collects the intake answers, prefilled with the stored ones.
func askQuestionnaire(s *session, userID int64, resumePath string) *store.Questionnaire {
	q, err := s.store.GetQuestionnaire(s.ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		q = &store.Questionnaire{UserID: userID}
	} else if err != nil {
		s.logger.Fatal("loading the questionnaire", zap.Error(err))
	}

	age := ""
	if q.Age > 0 {
		age = strconv.Itoa(q.Age)
	}

	fields := []struct {
		label    string
		target   *string
		validate promptui.ValidateFunc
	}{
		{label: "Name", target: &q.Name, validate: required("name")},
		{label: "Age", target: &age, validate: validateAge},
		{label: "Describe your personality", target: &q.Personality},
		{label: "Describe your work experience", target: &q.WorkExperience, validate: required("work experience")},
	}

	for _, f := range fields {
		prompt := promptui.Prompt{Label: f.label, Default: *f.target, AllowEdit: true, Validate: f.validate}
		value, err := prompt.Run()
		if err != nil {
			s.logger.Fatal("exiting", zap.Error(err))
		}
		*f.target = strings.TrimSpace(value)
	}

	q.Age, _ = strconv.Atoi(age)
	if resumePath = strings.TrimSpace(resumePath); resumePath != "" {
		q.ResumePath = resumePath
	}

	if err := s.store.SaveQuestionnaire(s.ctx, q); err != nil {
		s.logger.Fatal("saving the questionnaire", zap.Error(err))
	}

	return q
}

func validateAge(input string) error {
	age, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || age < 1 || age > 120 {
		return errors.New("age must be a number between 1 and 120")
	}
	return nil
}

// loadResume indexes the resume at path. Interviews continue without resume
// context when there is no resume or no embeddings provider.
func loadResume(s *session, path string) interview.ResumeContext {
	if strings.TrimSpace(path) == "" {
		return resume.Empty()
	}

	embedder, err := newEmbedder(s.config.AI)
	if err != nil {
		s.logger.Fatal("building the embeddings provider", zap.Error(err))
	}
	if embedder == nil {
		s.logger.Warn("resume is ignored", zap.String("resume", path), zap.String("hint", "set ai.embeddings to ollama or openai"))
		return resume.Empty()
	}

	cfg := s.config.Resume
	index, err := resume.Build(s.ctx, path, resume.NewTikaExtractor(cfg.TikaURL, 0), embedder, resume.Options{
		ChunkSize:    cfg.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap,
		TopK:         cfg.TopK,
	})
	if err != nil {
		s.logger.Warn("continuing without the resume", zap.Error(err), zap.String("resume", path))
		return resume.Empty()
	}

	s.logger.Info("resume indexed", zap.String("resume", path), zap.Int("chunks", index.Len()))

	return index
}

func exampleQuestions(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return counselor.DefaultExampleQuestions(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return string(data), nil
}
