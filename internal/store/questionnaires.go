package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Questionnaire holds the intake answers a user gives before an interview.
type Questionnaire struct {
	UserID         int64
	Name           string
	Age            int
	Personality    string
	WorkExperience string
	ResumePath     string
	UpdatedAt      time.Time
}

// SaveQuestionnaire inserts or replaces the questionnaire of q.UserID.
func (s *Store) SaveQuestionnaire(ctx context.Context, q *Questionnaire) error {
	updated, stamp := s.timestamp()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO questionnaires (user_id, name, age, personality, work_experience, resume_path, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			name = excluded.name,
			age = excluded.age,
			personality = excluded.personality,
			work_experience = excluded.work_experience,
			resume_path = excluded.resume_path,
			updated_at = excluded.updated_at`,
		q.UserID, q.Name, q.Age, q.Personality, q.WorkExperience, q.ResumePath, stamp,
	)
	if err != nil {
		return fmt.Errorf("upsert questionnaire: %w", err)
	}

	q.UpdatedAt = updated
	return nil
}

// GetQuestionnaire returns ErrNotFound when the user has not filled one in.
func (s *Store) GetQuestionnaire(ctx context.Context, userID int64) (*Questionnaire, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT user_id, name, age, personality, work_experience, resume_path, updated_at
		 FROM questionnaires WHERE user_id = ?`,
		userID,
	)

	var (
		q       Questionnaire
		updated string
	)
	err := row.Scan(&q.UserID, &q.Name, &q.Age, &q.Personality, &q.WorkExperience, &q.ResumePath, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("questionnaire of user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan questionnaire: %w", err)
	}

	if q.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}

	return &q, nil
}
