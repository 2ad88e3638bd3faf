package interview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spigell/career-interviewer/internal/career"
)

type memoryStore struct {
	mu        sync.Mutex
	records   []*Record
	failNext  error
	failRoles map[Role]error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{failRoles: make(map[Role]error)}
}

func (m *memoryStore) AppendTurn(_ context.Context, userID int64, sessionID string, role Role, text string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failNext; err != nil {
		m.failNext = nil
		return nil, err
	}
	if err := m.failRoles[role]; err != nil {
		return nil, err
	}

	rec := &Record{
		ID:        int64(len(m.records) + 1),
		UserID:    userID,
		SessionID: sessionID,
		Role:      role,
		Text:      text,
		CreatedAt: time.Unix(int64(len(m.records)), 0).UTC(),
	}
	m.records = append(m.records, rec)
	return rec, nil
}

func (m *memoryStore) ListTurns(_ context.Context, userID int64, sessionID string) ([]*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*Record
	for _, rec := range m.records {
		if rec.UserID != userID {
			continue
		}
		if sessionID != "" && rec.SessionID != sessionID {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (m *memoryStore) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

func (m *memoryStore) countRole(sessionID string, role Role) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, rec := range m.records {
		if rec.SessionID == sessionID && rec.Role == role {
			n++
		}
	}
	return n
}

type staticQuestions struct {
	questions    []string
	err          error
	calls        int
	lastExamples string
}

func (s *staticQuestions) Generate(_ context.Context, _ string, _ ResumeContext, examples string) ([]string, error) {
	s.calls++
	s.lastExamples = examples
	if s.err != nil {
		return nil, s.err
	}
	return s.questions, nil
}

// numberedFollowups returns f1, f2, ... and records the answers it was asked about.
type numberedFollowups struct {
	answers []string
	err     error
}

func (n *numberedFollowups) Generate(_ context.Context, answer string) (string, error) {
	if n.err != nil {
		return "", n.err
	}
	n.answers = append(n.answers, answer)
	return fmt.Sprintf("f%d", len(n.answers)), nil
}

type scriptedSuggestions struct {
	results        [][]career.Suggestion
	errs           []error
	calls          int
	lastTranscript string
}

func (s *scriptedSuggestions) Generate(_ context.Context, transcript string, _ ResumeContext) ([]career.Suggestion, error) {
	idx := s.calls
	s.calls++
	s.lastTranscript = transcript

	if idx < len(s.errs) && s.errs[idx] != nil {
		return nil, s.errs[idx]
	}
	if idx < len(s.results) {
		return s.results[idx], nil
	}
	return nil, errors.New("unexpected call")
}

type savedSuggestions struct {
	saved map[string][]career.Suggestion
	err   error
}

func (s *savedSuggestions) SaveSuggestions(_ context.Context, _ int64, sessionID string, suggestions []career.Suggestion) error {
	if s.err != nil {
		return s.err
	}
	if s.saved == nil {
		s.saved = make(map[string][]career.Suggestion)
	}
	s.saved[sessionID] = append(s.saved[sessionID], suggestions...)
	return nil
}

type emptyResume struct{}

func (emptyResume) Query(context.Context, string) (string, error) { return "", nil }
