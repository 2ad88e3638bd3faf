package interview

import (
	"context"

	"github.com/spigell/career-interviewer/internal/career"
)

// ResumeContext answers natural-language queries with relevant resume content.
type ResumeContext interface {
	Query(ctx context.Context, query string) (string, error)
}

// QuestionSource produces the ordered primary questions of a session.
type QuestionSource interface {
	Generate(ctx context.Context, workExperience string, resume ResumeContext, exampleQuestions string) ([]string, error)
}

// FollowupGenerator produces a single follow-up question probing an answer.
type FollowupGenerator interface {
	Generate(ctx context.Context, answer string) (string, error)
}

// ConversationStore is the durable, append-only turn log shared by all sessions.
// ListTurns returns turns in append order; an empty sessionID lists every
// session of the user.
type ConversationStore interface {
	AppendTurn(ctx context.Context, userID int64, sessionID string, role Role, text string) (*Record, error)
	ListTurns(ctx context.Context, userID int64, sessionID string) ([]*Record, error)
}

// SuggestionGenerator turns a full transcript into career suggestions.
type SuggestionGenerator interface {
	Generate(ctx context.Context, transcript string, resume ResumeContext) ([]career.Suggestion, error)
}

// SuggestionStore persists the suggestions of a completed session.
type SuggestionStore interface {
	SaveSuggestions(ctx context.Context, userID int64, sessionID string, suggestions []career.Suggestion) error
}
