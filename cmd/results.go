package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/career-interviewer/internal/career"
	"github.com/spigell/career-interviewer/internal/coursera"
	"github.com/spigell/career-interviewer/internal/store"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Show career suggestions of a session or of all your sessions",
	Run: func(cmd *cobra.Command, _ []string) {
		results(cmd)
	},
}

func init() {
	rootCmd.AddCommand(resultsCmd)

	resultsCmd.Flags().StringP("session", "s", "", "session id (default is every session)")
	resultsCmd.Flags().Bool("compare", false, "print a side-by-side comparison ordered by growth potential")
	resultsCmd.Flags().Bool("courses", false, "look up Coursera courses for the suggested skills")
}

func results(cmd *cobra.Command) {
	s := openSession("results")
	defer s.close()

	userID, _ := s.login()

	var (
		stored []store.StoredSuggestion
		err    error
	)

	sessionID := strings.TrimSpace(cmd.Flag("session").Value.String())
	if sessionID != "" {
		stored, err = s.store.ListSuggestionsBySession(s.ctx, sessionID)
	} else {
		stored, err = s.store.ListSuggestionsByUser(s.ctx, userID)
	}
	if err != nil {
		s.logger.Fatal("listing suggestions", zap.Error(err))
	}

	suggestions := make([]career.Suggestion, 0, len(stored))
	for _, st := range stored {
		if st.UserID != userID {
			continue
		}
		suggestions = append(suggestions, st.Suggestion)
	}

	if len(suggestions) == 0 {
		s.logger.Info("no career suggestions found", zap.String("hint", "complete an interview first"))
		return
	}

	printSuggestions(os.Stdout, suggestions)

	if cmd.Flag("compare").Value.String() == "true" {
		printComparison(os.Stdout, suggestions)
	}

	if cmd.Flag("courses").Value.String() == "true" {
		printCourses(s, suggestions)
	}
}

func printSuggestions(w io.Writer, suggestions []career.Suggestion) {
	for i, sg := range suggestions {
		fmt.Fprintf(w, "\nOption %d: %s\n", i+1, sg.Occupation)
		fmt.Fprintf(w, "  Growth potential: %s\n", orNotSpecified(sg.GrowthPotential))
		fmt.Fprintf(w, "  Salary range: %s\n", orNotSpecified(sg.SalaryRange))
		if reasoning := strings.TrimSpace(sg.Reasoning); reasoning != "" {
			fmt.Fprintf(w, "  Why: %s\n", reasoning)
		}
		fmt.Fprintln(w, "  Skills to develop:")
		for _, skill := range sg.SkillList() {
			fmt.Fprintf(w, "    - %s\n", skill)
		}
	}
}

func printComparison(w io.Writer, suggestions []career.Suggestion) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\nOPTION\tOCCUPATION\tGROWTH\tSALARY\tSKILLS")
	for _, row := range career.Compare(suggestions) {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", row.Option, row.Occupation, row.Growth, row.Salary, row.Skills)
	}
	_ = tw.Flush()
}

func printCourses(s *session, suggestions []career.Suggestion) {
	client, err := newCoursera(s.ctx, s.config.Coursera, s.logger)
	if err != nil {
		s.logger.Warn("skipping course lookup", zap.Error(err))
		return
	}
	if client == nil {
		s.logger.Warn("skipping course lookup", zap.String("hint", "set coursera.credentials-file or COURSERA_CREDENTIALS_FILE"))
		return
	}

	limit := coursera.DefaultLimit
	if s.config.Coursera.Limit > 0 {
		limit = s.config.Coursera.Limit
	}

	for i, sg := range suggestions {
		lookups, err := client.CoursesForSkills(s.ctx, sg.SkillList(), limit)
		if err != nil {
			s.logger.Warn("course lookup interrupted", zap.Error(err))
			return
		}

		fmt.Printf("\nLearning resources for option %d: %s\n", i+1, sg.Occupation)
		for _, lookup := range lookups {
			fmt.Printf("  %s\n", lookup.Skill)
			if lookup.Err != nil {
				fmt.Println("    could not fetch courses for this skill")
				continue
			}
			if len(lookup.Courses) == 0 {
				fmt.Println("    no courses found")
				continue
			}
			for _, course := range lookup.Courses {
				fmt.Printf("    - %s %s\n", course.Title(), course.URL())
			}
		}
	}
}

func orNotSpecified(v string) string {
	if strings.TrimSpace(v) == "" {
		return career.NotSpecified
	}
	return v
}
