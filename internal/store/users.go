package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// User is a registered respondent.
type User struct {
	ID           int64
	Username     string
	Email        string
	Phone        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// CreateUser inserts u and fills in its ID and CreatedAt. A taken username or
// email yields ErrDuplicate.
func (s *Store) CreateUser(ctx context.Context, u *User) error {
	created, stamp := s.timestamp()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, email, phone, name, password_hash, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.Username, u.Email, u.Phone, u.Name, u.PasswordHash, stamp,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %q: %w", u.Username, ErrDuplicate)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("user id: %w", err)
	}

	u.ID = id
	u.CreatedAt = created
	return nil
}

// GetUserByUsername returns ErrNotFound when no such user exists.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, email, phone, name, password_hash, created_at
		 FROM users WHERE username = ?`,
		username,
	)

	var (
		u       User
		created string
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Phone, &u.Name, &u.PasswordHash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}

	if u.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}

	return &u, nil
}
