package interview

import "errors"

var (
	// ErrInvalidInput is returned for empty or whitespace-only answers. The
	// session is left untouched and the user should be asked again.
	ErrInvalidInput = errors.New("answer must not be empty")
	// ErrNoCurrentQuestion is returned when a completed session is asked for its question.
	ErrNoCurrentQuestion = errors.New("interview has no current question")
	// ErrSessionAlreadyComplete is returned when answering a completed session.
	ErrSessionAlreadyComplete = errors.New("interview session is already complete")
	// ErrGenerationFailed wraps question source and follow-up generator failures.
	ErrGenerationFailed = errors.New("question generation failed")
	// ErrPersistenceFailed wraps conversation and suggestion store failures.
	ErrPersistenceFailed = errors.New("persisting interview data failed")
	// ErrSuggestionGenerationFailed is returned once every suggestion attempt failed.
	ErrSuggestionGenerationFailed = errors.New("career suggestion generation failed")
	// ErrSessionNotComplete is returned when the handoff is requested too early.
	ErrSessionNotComplete = errors.New("interview session is not complete yet")
	// ErrEmptyTranscript is returned when no turns were stored for the session.
	ErrEmptyTranscript = errors.New("no conversation history found for the session")
)
