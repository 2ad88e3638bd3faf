package interview

import (
	"fmt"
	"time"
)

// DefaultMaxFollowups is the number of follow-up questions asked per primary question.
const DefaultMaxFollowups = 3

type Role string

const (
	RoleInterviewer Role = "interviewer"
	RoleRespondent  Role = "respondent"
)

// Turn is a single entry of the per-question display history.
type Turn struct {
	Role      Role
	Text      string
	Timestamp time.Time
}

// Record is a turn as it is kept by the durable conversation store.
type Record struct {
	ID        int64
	UserID    int64
	SessionID string
	Role      Role
	Text      string
	CreatedAt time.Time
}

type State int

const (
	StateAwaitingPrimary State = iota
	StateAwaitingFollowup
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateAwaitingPrimary:
		return "awaiting_primary"
	case StateAwaitingFollowup:
		return "awaiting_followup"
	case StateComplete:
		return "complete"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Session is the progression of one user through one interview. It is owned
// by the caller and changed only by Machine.SubmitAnswer.
type Session struct {
	id             string
	userID         int64
	workExperience string

	primaryQuestions     []string
	currentQuestionIndex int
	followupCount        int
	pendingFollowups     []string
	awaitingFollowup     bool
	turnLog              []Turn

	// storedAnswer is an answer already in the durable store whose follow-up
	// was not stored yet.
	storedAnswer string
}

// NewSession creates a session positioned at the first of the given questions.
// The questions are copied and never changed afterwards.
func NewSession(id string, userID int64, workExperience string, questions []string) *Session {
	primary := make([]string, len(questions))
	copy(primary, questions)

	return &Session{
		id:               id,
		userID:           userID,
		workExperience:   workExperience,
		primaryQuestions: primary,
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) UserID() int64 { return s.userID }

func (s *Session) WorkExperience() string { return s.workExperience }

// PrimaryQuestions returns a copy of the primary questions.
func (s *Session) PrimaryQuestions() []string {
	out := make([]string, len(s.primaryQuestions))
	copy(out, s.primaryQuestions)
	return out
}

func (s *Session) CurrentQuestionIndex() int { return s.currentQuestionIndex }

func (s *Session) FollowupCount() int { return s.followupCount }

func (s *Session) AwaitingFollowup() bool { return s.awaitingFollowup }

// PendingFollowups returns a copy of the follow-ups asked for the current primary question.
func (s *Session) PendingFollowups() []string {
	out := make([]string, len(s.pendingFollowups))
	copy(out, s.pendingFollowups)
	return out
}

// History returns a copy of the display history of the current primary question.
func (s *Session) History() []Turn {
	out := make([]Turn, len(s.turnLog))
	copy(out, s.turnLog)
	return out
}

// Complete reports whether every primary question was resolved.
func (s *Session) Complete() bool {
	return s.currentQuestionIndex >= len(s.primaryQuestions)
}

func (s *Session) State() State {
	switch {
	case s.Complete():
		return StateComplete
	case s.awaitingFollowup:
		return StateAwaitingFollowup
	default:
		return StateAwaitingPrimary
	}
}

// CurrentQuestion returns the question the user has to answer next.
func (s *Session) CurrentQuestion() (string, error) {
	if s.Complete() {
		return "", ErrNoCurrentQuestion
	}

	if s.awaitingFollowup {
		return s.pendingFollowups[len(s.pendingFollowups)-1], nil
	}

	return s.primaryQuestions[s.currentQuestionIndex], nil
}

// Progress returns the 1-based number of the current primary question and the total.
func (s *Session) Progress() (int, int) {
	total := len(s.primaryQuestions)
	if s.Complete() {
		return total, total
	}
	return s.currentQuestionIndex + 1, total
}

// Validate checks the session invariants against the follow-up budget.
func (s *Session) Validate(maxFollowups int) error {
	if s.currentQuestionIndex < 0 || s.currentQuestionIndex > len(s.primaryQuestions) {
		return fmt.Errorf("question index %d out of range [0, %d]", s.currentQuestionIndex, len(s.primaryQuestions))
	}

	if s.followupCount < 0 || s.followupCount > maxFollowups {
		return fmt.Errorf("follow-up count %d out of range [0, %d]", s.followupCount, maxFollowups)
	}

	if s.awaitingFollowup {
		if len(s.pendingFollowups) == 0 {
			return fmt.Errorf("awaiting a follow-up without pending follow-ups")
		}
		if s.followupCount != len(s.pendingFollowups) {
			return fmt.Errorf("follow-up count %d does not match %d pending follow-ups", s.followupCount, len(s.pendingFollowups))
		}
	}

	if s.Complete() && (s.awaitingFollowup || s.followupCount != 0 || len(s.pendingFollowups) != 0) {
		return fmt.Errorf("completed session still tracks follow-ups")
	}

	return nil
}

func (s *Session) appendTurn(role Role, text string, at time.Time) {
	s.turnLog = append(s.turnLog, Turn{Role: role, Text: text, Timestamp: at})
}

func (s *Session) askFollowup(text string) {
	s.pendingFollowups = append(s.pendingFollowups, text)
	s.awaitingFollowup = true
	s.followupCount++
}

func (s *Session) advance() {
	s.followupCount = 0
	s.pendingFollowups = nil
	s.turnLog = nil
	s.awaitingFollowup = false
	s.storedAnswer = ""
	s.currentQuestionIndex++
}
