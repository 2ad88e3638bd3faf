package career

import (
	"sort"
	"strings"
)

const (
	GrowthHigh   = "High"
	GrowthMedium = "Medium"
	GrowthLow    = "Low"

	// NotSpecified is shown in place of empty optional fields.
	NotSpecified = "Not specified"
)

// Suggestion is a single career pathway produced at the end of an interview.
// Reasoning, GrowthPotential and SalaryRange are optional and stay empty when
// the generator did not provide them.
type Suggestion struct {
	Occupation      string `json:"occupation" mapstructure:"occupation"`
	Skills          string `json:"skills" mapstructure:"skills"`
	Reasoning       string `json:"reasoning,omitempty" mapstructure:"reasoning"`
	GrowthPotential string `json:"growth_potential,omitempty" mapstructure:"growth_potential"`
	SalaryRange     string `json:"salary_range,omitempty" mapstructure:"salary_range"`
}

// Placeholder is returned when the generator output can not be parsed at all.
func Placeholder() Suggestion {
	return Suggestion{
		Occupation:      "Software Developer",
		Skills:          "Python, Problem Solving, Algorithms\nTeamwork\nDebugging",
		Reasoning:       "Your technical skills align well with software development roles.",
		GrowthPotential: GrowthHigh,
		SalaryRange:     "$80,000 - $120,000",
	}
}

// SkillList returns the suggestion skills as a list.
func (s Suggestion) SkillList() []string {
	return ParseSkills(s.Skills)
}

// ParseSkills splits a skills blob separated by newlines and/or commas.
func ParseSkills(skills string) []string {
	result := make([]string, 0)
	for _, line := range strings.Split(skills, "\n") {
		for _, skill := range strings.Split(line, ",") {
			skill = strings.TrimSpace(skill)
			if skill != "" {
				result = append(result, skill)
			}
		}
	}
	return result
}

// GrowthScore maps the free-form growth potential to a comparable score.
func GrowthScore(growth string) int {
	switch {
	case strings.Contains(growth, GrowthHigh):
		return 3
	case strings.Contains(growth, GrowthMedium):
		return 2
	default:
		return 1
	}
}

// Comparison is a flattened view of a suggestion for side-by-side display.
type Comparison struct {
	Option      int
	Occupation  string
	Skills      string
	Growth      string
	GrowthScore int
	Salary      string
	Reasoning   string
}

// Compare builds comparison rows ordered by growth score. Rows with the same
// score keep the generator order.
func Compare(suggestions []Suggestion) []Comparison {
	rows := make([]Comparison, 0, len(suggestions))
	for idx, s := range suggestions {
		rows = append(rows, Comparison{
			Option:      idx + 1,
			Occupation:  s.Occupation,
			Skills:      strings.Join(s.SkillList(), ", "),
			Growth:      orNotSpecified(s.GrowthPotential),
			GrowthScore: GrowthScore(s.GrowthPotential),
			Salary:      orNotSpecified(s.SalaryRange),
			Reasoning:   s.Reasoning,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].GrowthScore > rows[j].GrowthScore
	})

	return rows
}

func orNotSpecified(v string) string {
	if strings.TrimSpace(v) == "" {
		return NotSpecified
	}
	return v
}
