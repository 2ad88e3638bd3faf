package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/career-interviewer/internal/career"
	"github.com/spigell/career-interviewer/internal/interview"
)

var (
	_ interview.ConversationStore = (*Store)(nil)
	_ interview.SuggestionStore   = (*Store)(nil)
)

func setupStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	return s
}

func createUser(t *testing.T, s *Store, username string) *User {
	t.Helper()

	u := &User{Username: username, Email: username + "@example.com", PasswordHash: "hash"}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(context.Background(), " ")
	require.Error(t, err)
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	u := createUser(t, s, "ana")
	assert.NotZero(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	got, err := s.GetUserByUsername(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "ana@example.com", got.Email)
	assert.True(t, u.CreatedAt.Equal(got.CreatedAt))

	_, err = s.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.CreateUser(ctx, &User{Username: "ana", Email: "other@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, ErrDuplicate)

	err = s.CreateUser(ctx, &User{Username: "bob", Email: "ana@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestConversationTurnsAreOrdered(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	u := createUser(t, s, "ana")

	turns := []struct {
		session string
		role    interview.Role
		text    string
	}{
		{"s1", interview.RoleRespondent, "I teach maths"},
		{"s1", interview.RoleInterviewer, "What do you like about it?"},
		{"s2", interview.RoleRespondent, "other session"},
		{"s1", interview.RoleRespondent, "Explaining things"},
	}

	var lastID int64
	for _, turn := range turns {
		rec, err := s.AppendTurn(ctx, u.ID, turn.session, turn.role, turn.text)
		require.NoError(t, err)
		assert.Greater(t, rec.ID, lastID)
		lastID = rec.ID
	}

	got, err := s.ListTurns(ctx, u.ID, "s1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "I teach maths", got[0].Text)
	assert.Equal(t, interview.RoleInterviewer, got[1].Role)
	assert.Equal(t, "Explaining things", got[2].Text)
	assert.True(t, got[0].CreatedAt.Before(got[2].CreatedAt))

	all, err := s.ListTurns(ctx, u.ID, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	assert.Equal(t,
		"respondent: I teach maths\ninterviewer: What do you like about it?\nrespondent: Explaining things",
		interview.BuildTranscript(got),
	)
}

func TestAppendTurnRequiresKnownUser(t *testing.T) {
	s := setupStore(t)

	_, err := s.AppendTurn(context.Background(), 999, "s1", interview.RoleRespondent, "hello")
	require.Error(t, err)
}

func TestListSessionsAndDelete(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	ana := createUser(t, s, "ana")
	bob := createUser(t, s, "bob")

	for _, session := range []string{"first", "first", "second"} {
		_, err := s.AppendTurn(ctx, ana.ID, session, interview.RoleRespondent, "answer")
		require.NoError(t, err)
	}
	_, err := s.AppendTurn(ctx, bob.ID, "bobs", interview.RoleRespondent, "answer")
	require.NoError(t, err)

	sessions, err := s.ListSessions(ctx, ana.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "first", sessions[0].SessionID)
	assert.Equal(t, 2, sessions[0].Turns)
	assert.True(t, sessions[0].LastAt.After(sessions[0].StartedAt))
	assert.Equal(t, "second", sessions[1].SessionID)

	deleted, err := s.DeleteConversations(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	left, err := s.ListTurns(ctx, ana.ID, "")
	require.NoError(t, err)
	assert.Empty(t, left)

	bobs, err := s.ListTurns(ctx, bob.ID, "")
	require.NoError(t, err)
	assert.Len(t, bobs, 1)
}

func TestSuggestions(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	u := createUser(t, s, "ana")

	first := []career.Suggestion{
		{Occupation: "Data Engineer", Skills: "SQL, Python", GrowthPotential: career.GrowthHigh, SalaryRange: "$90k-$130k"},
		{Occupation: "Teacher", Skills: "Communication"},
	}
	require.NoError(t, s.SaveSuggestions(ctx, u.ID, "s1", first))
	require.NoError(t, s.SaveSuggestions(ctx, u.ID, "s2", []career.Suggestion{{Occupation: "Analyst", Skills: "Excel"}}))

	bySession, err := s.ListSuggestionsBySession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, bySession, 2)
	assert.Equal(t, first[0], bySession[0].Suggestion)
	assert.Equal(t, "s1", bySession[0].SessionID)
	assert.Equal(t, u.ID, bySession[1].UserID)

	byUser, err := s.ListSuggestionsByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, byUser, 3)
	assert.Equal(t, "Analyst", byUser[2].Occupation)
}

func TestSaveSuggestionsIsAtomic(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	// The unknown user violates the foreign key on the first insert.
	err := s.SaveSuggestions(ctx, 42, "s1", []career.Suggestion{{Occupation: "A"}, {Occupation: "B"}})
	require.Error(t, err)

	got, err := s.ListSuggestionsBySession(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestQuestionnaireUpsert(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	u := createUser(t, s, "ana")

	_, err := s.GetQuestionnaire(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	q := &Questionnaire{UserID: u.ID, Name: "Ana", Age: 31, Personality: "curious", WorkExperience: "teacher"}
	require.NoError(t, s.SaveQuestionnaire(ctx, q))

	q.WorkExperience = "teacher, then analyst"
	q.ResumePath = "/tmp/cv.pdf"
	require.NoError(t, s.SaveQuestionnaire(ctx, q))

	got, err := s.GetQuestionnaire(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)
	assert.Equal(t, 31, got.Age)
	assert.Equal(t, "teacher, then analyst", got.WorkExperience)
	assert.Equal(t, "/tmp/cv.pdf", got.ResumePath)
	assert.True(t, q.UpdatedAt.Equal(got.UpdatedAt))
}
