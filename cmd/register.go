package cmd

import (
	"errors"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/career-interviewer/internal/accounts"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new respondent",
	Run: func(_ *cobra.Command, _ []string) {
		register()
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
}

func register() {
	s := openSession("register")
	defer s.close()

	var (
		r   accounts.Registration
		err error
	)

	fields := []struct {
		label  string
		target *string
		mask   rune
	}{
		{label: "Full name", target: &r.Name},
		{label: "Email", target: &r.Email},
		{label: "Phone (10 digits)", target: &r.Phone},
		{label: "Username", target: &r.Username},
		{label: "Password", target: &r.Password, mask: '*'},
		{label: "Confirm password", target: &r.ConfirmPassword, mask: '*'},
	}

	for _, f := range fields {
		prompt := promptui.Prompt{Label: f.label, Mask: f.mask}
		if *f.target, err = prompt.Run(); err != nil {
			s.logger.Fatal("exiting", zap.Error(err))
		}
	}

	user, err := s.accounts.Register(s.ctx, r)
	switch {
	case errors.Is(err, accounts.ErrInvalidRegistration), errors.Is(err, accounts.ErrUsernameTaken):
		s.logger.Fatal("registration rejected", zap.Error(err))
	case err != nil:
		s.logger.Fatal("registration failed", zap.Error(err))
	}

	s.logger.Info("registration successful", zap.String("username", user.Username))
}
