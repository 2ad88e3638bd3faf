// Package accounts registers respondents and checks their passwords.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spigell/career-interviewer/internal/store"
)

const MinPasswordLength = 8

var (
	ErrInvalidRegistration = errors.New("invalid registration")
	ErrUsernameTaken       = errors.New("username already exists")
	ErrInvalidCredentials  = errors.New("invalid username or password")

	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)
	phonePattern = regexp.MustCompile(`^\d{10}$`)
)

// Users is the persistence the service needs.
type Users interface {
	CreateUser(ctx context.Context, u *store.User) error
	GetUserByUsername(ctx context.Context, username string) (*store.User, error)
}

type Registration struct {
	Name            string
	Email           string
	Phone           string
	Username        string
	Password        string
	ConfirmPassword string
}

// Validate reports the first problem with r, wrapped in ErrInvalidRegistration.
func (r Registration) Validate() error {
	switch {
	case strings.TrimSpace(r.Name) == "":
		return fmt.Errorf("%w: full name is required", ErrInvalidRegistration)
	case !emailPattern.MatchString(strings.TrimSpace(r.Email)):
		return fmt.Errorf("%w: invalid email format", ErrInvalidRegistration)
	case !phonePattern.MatchString(strings.TrimSpace(r.Phone)):
		return fmt.Errorf("%w: phone must be 10 digits", ErrInvalidRegistration)
	case strings.TrimSpace(r.Username) == "":
		return fmt.Errorf("%w: username is required", ErrInvalidRegistration)
	case len(r.Password) < MinPasswordLength:
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidRegistration, MinPasswordLength)
	case r.Password != r.ConfirmPassword:
		return fmt.Errorf("%w: passwords don't match", ErrInvalidRegistration)
	}
	return nil
}

type Service struct {
	users  Users
	logger *zap.Logger
	cost   int
}

func New(users Users, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{users: users, logger: logger, cost: bcrypt.DefaultCost}
}

// Register validates r, hashes the password and stores the user.
func (s *Service) Register(ctx context.Context, r Registration) (*store.User, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	username := strings.TrimSpace(r.Username)
	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(r.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &store.User{
		Username:     username,
		Email:        strings.TrimSpace(r.Email),
		Phone:        strings.TrimSpace(r.Phone),
		Name:         strings.TrimSpace(r.Name),
		PasswordHash: string(hash),
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %w", ErrUsernameTaken, err)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", zap.Int64("user_id", u.ID), zap.String("username", u.Username))

	return u, nil
}

// Verify returns the id of the user when the password matches.
func (s *Service) Verify(ctx context.Context, username, password string) (int64, error) {
	u, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, store.ErrNotFound) {
		return 0, ErrInvalidCredentials
	}
	if err != nil {
		return 0, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return 0, ErrInvalidCredentials
	}

	return u.ID, nil
}
