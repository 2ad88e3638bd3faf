package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/career-interviewer/internal/accounts"
	"github.com/spigell/career-interviewer/internal/logger"
	"github.com/spigell/career-interviewer/internal/store"
)

// session bundles what every data command needs: a logger, the decoded
// config and the open store.
type session struct {
	ctx      context.Context
	logger   *zap.Logger
	config   *Config
	store    *store.Store
	accounts *accounts.Service
}

func openSession(command string) *session {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Debug("starting "+command, zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(redacted(config), "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	db, err := store.Open(ctx, config.Database)
	if err != nil {
		logger.Fatal("opening the database", zap.Error(err), zap.String("database", config.Database))
	}

	return &session{
		ctx:      ctx,
		logger:   logger,
		config:   config,
		store:    db,
		accounts: accounts.New(db, logger),
	}
}

func (s *session) close() {
	if err := s.store.Close(); err != nil {
		s.logger.Warn("closing the database", zap.Error(err))
	}
	_ = s.logger.Sync()
}

// login resolves the configured username and verifies the password typed by
// the user.
func (s *session) login() (int64, string) {
	username := strings.TrimSpace(s.config.User)
	if username == "" {
		var err error
		username, err = (&promptui.Prompt{Label: "Username", Validate: required("username")}).Run()
		if err != nil {
			s.logger.Fatal("exiting", zap.Error(err))
		}
		username = strings.TrimSpace(username)
	}

	password, err := (&promptui.Prompt{Label: "Password", Mask: '*'}).Run()
	if err != nil {
		s.logger.Fatal("exiting", zap.Error(err))
	}

	userID, err := s.accounts.Verify(s.ctx, username, password)
	if err != nil {
		if errors.Is(err, accounts.ErrInvalidCredentials) {
			s.logger.Fatal("login failed", zap.String("username", username), zap.String("hint", "register first with the register command"))
		}
		s.logger.Fatal("login failed", zap.Error(err))
	}

	s.logger.Debug("logged in", zap.String("username", username), zap.Int64(logger.FieldUserID, userID))

	return userID, username
}

func required(field string) promptui.ValidateFunc {
	return func(input string) error {
		if strings.TrimSpace(input) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// redacted returns a copy of config without inline secrets.
func redacted(config *Config) Config {
	out := *config
	if config.AI != nil {
		ai := *config.AI
		if ai.Gemini != nil {
			g := *ai.Gemini
			g.APIKey = mask(g.APIKey)
			ai.Gemini = &g
		}
		if ai.OpenAI != nil {
			o := *ai.OpenAI
			o.APIKey = mask(o.APIKey)
			ai.OpenAI = &o
		}
		out.AI = &ai
	}
	if config.Coursera != nil {
		c := *config.Coursera
		c.Credentials = mask(c.Credentials)
		out.Coursera = &c
	}
	return out
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "***"
}
