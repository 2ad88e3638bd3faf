package store

import (
	"context"
	"fmt"
	"time"

	"github.com/spigell/career-interviewer/internal/interview"
)

// SessionSummary describes one interview session of a user.
type SessionSummary struct {
	SessionID string
	Turns     int
	StartedAt time.Time
	LastAt    time.Time
}

// AppendTurn durably stores one conversation turn. Row ids grow monotonically
// and define the order of turns.
func (s *Store) AppendTurn(ctx context.Context, userID int64, sessionID string, role interview.Role, text string) (*interview.Record, error) {
	created, stamp := s.timestamp()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO conversations (user_id, session_id, role, content, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		userID, sessionID, string(role), text, stamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert turn: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("turn id: %w", err)
	}

	return &interview.Record{
		ID:        id,
		UserID:    userID,
		SessionID: sessionID,
		Role:      role,
		Text:      text,
		CreatedAt: created,
	}, nil
}

// ListTurns returns the turns of a user in insertion order. An empty
// sessionID selects every session of the user.
func (s *Store) ListTurns(ctx context.Context, userID int64, sessionID string) ([]*interview.Record, error) {
	query := `SELECT id, user_id, session_id, role, content, created_at
		FROM conversations WHERE user_id = ?`
	args := []any{userID}
	if sessionID != "" {
		query += ` AND session_id = ?`
		args = append(args, sessionID)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer rows.Close()

	var records []*interview.Record
	for rows.Next() {
		var (
			rec     interview.Record
			role    string
			created string
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.SessionID, &role, &rec.Text, &created); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}

		rec.Role = interview.Role(role)
		if rec.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turns: %w", err)
	}

	return records, nil
}

// ListSessions summarises the sessions of a user, oldest first.
func (s *Store) ListSessions(ctx context.Context, userID int64) ([]SessionSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, COUNT(*), MIN(created_at), MAX(created_at)
		 FROM conversations WHERE user_id = ?
		 GROUP BY session_id
		 ORDER BY MIN(id)`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []SessionSummary
	for rows.Next() {
		var (
			summary       SessionSummary
			first, latest string
		)
		if err := rows.Scan(&summary.SessionID, &summary.Turns, &first, &latest); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if summary.StartedAt, err = parseTime(first); err != nil {
			return nil, err
		}
		if summary.LastAt, err = parseTime(latest); err != nil {
			return nil, err
		}
		sessions = append(sessions, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return sessions, nil
}

// DeleteConversations removes every turn of a user and reports how many
// rows were deleted.
func (s *Store) DeleteConversations(ctx context.Context, userID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM conversations WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete conversations: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deleted rows: %w", err)
	}

	return n, nil
}
