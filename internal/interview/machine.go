// Package interview drives an adaptive career interview: a fixed list of
// primary questions, each followed by a bounded number of generated follow-ups.
// Every answer and follow-up is written to the durable conversation store in
// the same step that adds it to the session display history.
package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/career-interviewer/internal/logger"
	"github.com/spigell/career-interviewer/internal/utils"
)

const defaultMaxLogLength = 120

type Config struct {
	// MaxFollowups is the follow-up budget per primary question. Zero means DefaultMaxFollowups.
	MaxFollowups int
	MaxLogLength int
}

type Deps struct {
	Questions QuestionSource
	Followups FollowupGenerator
	Store     ConversationStore
	Logger    *zap.Logger
}

// Machine holds the collaborators of the interview. It keeps no per-session
// state; sessions are passed into every call.
type Machine struct {
	questions    QuestionSource
	followups    FollowupGenerator
	store        ConversationStore
	logger       *zap.Logger
	maxFollowups int
	maxLogLen    int

	now   func() time.Time
	newID func() string
}

// Result describes the outcome of an accepted answer.
type Result struct {
	State State
	// Question is the next question to ask. Empty when the interview completed.
	Question string
	// Advanced is set when the answer resolved the current primary question.
	Advanced bool
	// Completed is set when the last primary question was resolved and the
	// transcript can be handed to the suggestion generator.
	Completed bool
}

func NewMachine(cfg *Config, deps *Deps) (*Machine, error) {
	if deps == nil || deps.Questions == nil || deps.Followups == nil || deps.Store == nil {
		return nil, errors.New("question source, follow-up generator and conversation store are required")
	}

	maxFollowups := DefaultMaxFollowups
	maxLogLen := defaultMaxLogLength
	if cfg != nil {
		if cfg.MaxFollowups > 0 {
			maxFollowups = cfg.MaxFollowups
		}
		if cfg.MaxLogLength > 0 {
			maxLogLen = cfg.MaxLogLength
		}
	}

	return &Machine{
		questions:    deps.Questions,
		followups:    deps.Followups,
		store:        deps.Store,
		logger:       logger.WithFields(deps.Logger),
		maxFollowups: maxFollowups,
		maxLogLen:    maxLogLen,
		now:          func() time.Time { return time.Now().UTC() },
		newID:        func() string { return uuid.New().String() },
	}, nil
}

func (m *Machine) MaxFollowups() int { return m.maxFollowups }

// Start generates the primary questions and returns a new session. A session
// without questions is complete right away.
func (m *Machine) Start(ctx context.Context, userID int64, workExperience string, resume ResumeContext, exampleQuestions string) (*Session, error) {
	generated, err := m.questions.Generate(ctx, workExperience, resume, exampleQuestions)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	questions := make([]string, 0, len(generated))
	for _, q := range generated {
		if q = strings.TrimSpace(q); q != "" {
			questions = append(questions, q)
		}
	}

	session := NewSession(m.newID(), userID, workExperience, questions)

	m.sessionLogger(session).Info("interview started",
		zap.Int("primary_questions", len(questions)),
		zap.Int("max_followups", m.maxFollowups),
		zap.Bool("complete", session.Complete()),
	)

	return session, nil
}

// SubmitAnswer records the answer and either asks a follow-up or moves to the
// next primary question. An answer and the follow-up it triggers are stored as
// a pair: the follow-up is generated first and the display history changes only
// after both turns are durable. On any error the session state and its display
// history are left as they were, so the same answer can be submitted again
// without being stored twice.
func (m *Machine) SubmitAnswer(ctx context.Context, s *Session, answer string) (Result, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return Result{State: s.State()}, ErrInvalidInput
	}

	if s.Complete() {
		return Result{State: StateComplete}, ErrSessionAlreadyComplete
	}

	if s.followupCount < m.maxFollowups {
		return m.askFollowup(ctx, s, answer)
	}

	answeredAt := m.now()
	if err := m.recordAnswer(ctx, s, answer); err != nil {
		return Result{State: s.State()}, err
	}
	s.appendTurn(RoleRespondent, answer, answeredAt)
	m.logAnswer(s, answer)

	log := m.sessionLogger(s)
	s.advance()

	if s.Complete() {
		log.Info("interview completed", zap.Int("primary_questions", len(s.primaryQuestions)))
		return Result{State: StateComplete, Advanced: true, Completed: true}, nil
	}

	question, _ := s.CurrentQuestion()
	log.Debug("advanced to next question", zap.Int("question_index", s.currentQuestionIndex))

	return Result{State: s.State(), Question: question, Advanced: true}, nil
}

func (m *Machine) askFollowup(ctx context.Context, s *Session, answer string) (Result, error) {
	followup, err := m.followups.Generate(ctx, answer)
	if err != nil {
		return Result{State: s.State()}, fmt.Errorf("%w: follow-up: %w", ErrGenerationFailed, err)
	}

	followup = strings.TrimSpace(followup)
	if followup == "" {
		return Result{State: s.State()}, fmt.Errorf("%w: follow-up generator returned an empty question", ErrGenerationFailed)
	}

	answeredAt := m.now()
	if err := m.recordAnswer(ctx, s, answer); err != nil {
		return Result{State: s.State()}, err
	}

	askedAt := m.now()
	if _, err := m.store.AppendTurn(ctx, s.userID, s.id, RoleInterviewer, followup); err != nil {
		return Result{State: s.State()}, fmt.Errorf("%w: append follow-up: %w", ErrPersistenceFailed, err)
	}

	s.storedAnswer = ""
	s.appendTurn(RoleRespondent, answer, answeredAt)
	s.appendTurn(RoleInterviewer, followup, askedAt)
	s.askFollowup(followup)
	m.logAnswer(s, answer)

	m.sessionLogger(s).Debug("follow-up asked",
		zap.Int("question_index", s.currentQuestionIndex),
		zap.Int("followup_count", s.followupCount),
		zap.String("followup_preview", utils.TruncateForLog(followup, m.maxLogLen)),
	)

	return Result{State: StateAwaitingFollowup, Question: followup}, nil
}

// recordAnswer appends the respondent turn unless the same answer is already
// durable from an attempt whose follow-up could not be stored.
func (m *Machine) recordAnswer(ctx context.Context, s *Session, answer string) error {
	if s.storedAnswer == answer {
		return nil
	}

	if _, err := m.store.AppendTurn(ctx, s.userID, s.id, RoleRespondent, answer); err != nil {
		return fmt.Errorf("%w: append answer: %w", ErrPersistenceFailed, err)
	}
	s.storedAnswer = answer

	return nil
}

func (m *Machine) logAnswer(s *Session, answer string) {
	m.sessionLogger(s).Debug("answer accepted",
		zap.Int("question_index", s.currentQuestionIndex),
		zap.Int("followup_count", s.followupCount),
		zap.String("answer_preview", utils.TruncateForLog(answer, m.maxLogLen)),
	)
}

func (m *Machine) sessionLogger(s *Session) *zap.Logger {
	return logger.WithFields(m.logger, logger.SessionFields(s.userID, s.id)...)
}
