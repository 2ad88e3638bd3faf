package store

import (
	"context"
	"fmt"
	"time"

	"github.com/spigell/career-interviewer/internal/career"
)

// StoredSuggestion is a persisted career suggestion.
type StoredSuggestion struct {
	career.Suggestion

	ID        int64
	UserID    int64
	SessionID string
	CreatedAt time.Time
}

// SaveSuggestions stores all suggestions of a session atomically.
func (s *Store) SaveSuggestions(ctx context.Context, userID int64, sessionID string, suggestions []career.Suggestion) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO career_suggestions
			(user_id, session_id, occupation, skills, reasoning, growth_potential, salary_range, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	_, stamp := s.timestamp()
	for _, sg := range suggestions {
		if _, err := stmt.ExecContext(ctx,
			userID, sessionID, sg.Occupation, sg.Skills, sg.Reasoning, sg.GrowthPotential, sg.SalaryRange, stamp,
		); err != nil {
			return fmt.Errorf("insert suggestion %q: %w", sg.Occupation, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

// ListSuggestionsBySession returns the suggestions produced for one session.
func (s *Store) ListSuggestionsBySession(ctx context.Context, sessionID string) ([]StoredSuggestion, error) {
	return s.listSuggestions(ctx, `WHERE session_id = ?`, sessionID)
}

// ListSuggestionsByUser returns every suggestion of a user, oldest first.
func (s *Store) ListSuggestionsByUser(ctx context.Context, userID int64) ([]StoredSuggestion, error) {
	return s.listSuggestions(ctx, `WHERE user_id = ?`, userID)
}

func (s *Store) listSuggestions(ctx context.Context, where string, arg any) ([]StoredSuggestion, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, session_id, occupation, skills, reasoning, growth_potential, salary_range, created_at
		 FROM career_suggestions `+where+` ORDER BY id`,
		arg,
	)
	if err != nil {
		return nil, fmt.Errorf("query suggestions: %w", err)
	}
	defer rows.Close()

	var out []StoredSuggestion
	for rows.Next() {
		var (
			sg      StoredSuggestion
			created string
		)
		if err := rows.Scan(
			&sg.ID, &sg.UserID, &sg.SessionID,
			&sg.Occupation, &sg.Skills, &sg.Reasoning, &sg.GrowthPotential, &sg.SalaryRange,
			&created,
		); err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		if sg.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		out = append(out, sg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate suggestions: %w", err)
	}

	return out, nil
}
