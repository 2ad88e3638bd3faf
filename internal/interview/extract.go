package interview

import (
	"regexp"
	"strings"
)

var (
	numberedQuestion = regexp.MustCompile(`^\s*\d+\.\s*(.+?)\s*$`)
	prefixedQuestion = regexp.MustCompile(`^\s*Q:\s*(.+?)\s*$`)
)

// ExtractQuestions parses generated text into questions. Numbered lines win,
// then "Q:" prefixed lines, then every non-empty line as is.
func ExtractQuestions(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	if questions := matchLines(lines, numberedQuestion); len(questions) > 0 {
		return questions
	}

	if questions := matchLines(lines, prefixedQuestion); len(questions) > 0 {
		return questions
	}

	questions := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			questions = append(questions, line)
		}
	}
	return questions
}

func matchLines(lines []string, re *regexp.Regexp) []string {
	var questions []string
	for _, line := range lines {
		match := re.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		if q := strings.TrimSpace(match[1]); q != "" {
			questions = append(questions, q)
		}
	}
	return questions
}
