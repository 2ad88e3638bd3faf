package cmd

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/career-interviewer/internal/interview"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"

	historyTimeLayout = "2006-01-02 15:04"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List your interview sessions or print the transcript of one",
	Run: func(cmd *cobra.Command, _ []string) {
		history(cmd)
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringP("session", "s", "", "print the transcript of this session")
	historyCmd.Flags().Bool("delete", false, "delete your whole conversation history")
}

func history(cmd *cobra.Command) {
	s := openSession("history")
	defer s.close()

	userID, _ := s.login()

	if cmd.Flag("delete").Value.String() == "true" {
		deleteHistory(s, userID)
		return
	}

	if sessionID := strings.TrimSpace(cmd.Flag("session").Value.String()); sessionID != "" {
		turns, err := s.store.ListTurns(s.ctx, userID, sessionID)
		if err != nil {
			s.logger.Fatal("listing the transcript", zap.Error(err))
		}
		if len(turns) == 0 {
			s.logger.Info("no conversation found", zap.String("session_id", sessionID))
			return
		}
		fmt.Println(interview.BuildTranscript(turns))
		return
	}

	sessions, err := s.store.ListSessions(s.ctx, userID)
	if err != nil {
		s.logger.Fatal("listing sessions", zap.Error(err))
	}

	if len(sessions) == 0 {
		s.logger.Info("no interview sessions yet")
		return
	}

	for _, sess := range sessions {
		fmt.Printf("%s  %s - %s  %d turns\n",
			sess.SessionID,
			sess.StartedAt.Local().Format(historyTimeLayout),
			sess.LastAt.Local().Format(historyTimeLayout),
			sess.Turns,
		)
	}
}

func deleteHistory(s *session, userID int64) {
	confirm := promptui.Select{
		Label: "Delete your whole conversation history?",
		Items: []string{PromptNo, PromptYes},
	}

	_, answer, err := confirm.Run()
	if err != nil {
		s.logger.Fatal("exiting", zap.Error(err))
	}

	if answer != PromptYes {
		s.logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return
	}

	deleted, err := s.store.DeleteConversations(s.ctx, userID)
	if err != nil {
		s.logger.Fatal("deleting conversation history", zap.Error(err))
	}

	s.logger.Info("conversation history deleted", zap.Int64("turns", deleted))
}
