package filtering

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/career-interviewer/internal/career"
)

const DefaultMaxSuggestions = 3

type dropEmptyFilter struct{}

// NewDropEmpty creates a filter that removes suggestions without an occupation.
func NewDropEmpty() Filter {
	return &dropEmptyFilter{}
}

func (f *dropEmptyFilter) Name() string { return "drop_empty" }

func (f *dropEmptyFilter) Disable(string) {}

func (f *dropEmptyFilter) IsEnabled() bool { return true }

func (f *dropEmptyFilter) Validate(*Config) error { return nil }

func (f *dropEmptyFilter) Apply(_ context.Context, _ Deps, suggestions []career.Suggestion) ([]career.Suggestion, Step, error) {
	kept := make([]career.Suggestion, 0, len(suggestions))
	for _, s := range suggestions {
		if strings.TrimSpace(s.Occupation) == "" {
			continue
		}
		kept = append(kept, s)
	}
	return kept, step(len(suggestions), len(kept)), nil
}

type deduplicateFilter struct {
	disabled bool
	reason   string
}

// NewDeduplicate creates a filter that keeps the first suggestion per
// occupation, compared case-insensitively.
func NewDeduplicate() Filter {
	return &deduplicateFilter{}
}

func (f *deduplicateFilter) Name() string { return "deduplicate" }

func (f *deduplicateFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *deduplicateFilter) IsEnabled() bool { return !f.disabled }

func (f *deduplicateFilter) Validate(*Config) error { return nil }

func (f *deduplicateFilter) Apply(_ context.Context, deps Deps, suggestions []career.Suggestion) ([]career.Suggestion, Step, error) {
	seen := make(map[string]struct{}, len(suggestions))
	kept := make([]career.Suggestion, 0, len(suggestions))
	var duplicates []string

	for _, s := range suggestions {
		key := strings.ToLower(strings.TrimSpace(s.Occupation))
		if _, ok := seen[key]; ok {
			duplicates = append(duplicates, s.Occupation)
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, s)
	}

	if deps.Logger != nil && len(duplicates) > 0 {
		deps.Logger.Info("dropping duplicated career suggestions", zap.Strings("occupations", duplicates))
	}

	return kept, step(len(suggestions), len(kept)), nil
}

func (f *deduplicateFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}

type excludeOccupationsFilter struct {
	excluded map[string]struct{}
}

// NewExcludeOccupations creates a filter that removes occupations listed in the config.
func NewExcludeOccupations() Filter {
	return &excludeOccupationsFilter{}
}

func (f *excludeOccupationsFilter) Name() string { return "exclude_occupations" }

func (f *excludeOccupationsFilter) Disable(string) {}

func (f *excludeOccupationsFilter) IsEnabled() bool { return true }

func (f *excludeOccupationsFilter) Validate(cfg *Config) error {
	f.excluded = make(map[string]struct{})
	if cfg == nil {
		return nil
	}
	for _, occupation := range cfg.ExcludedOccupations {
		if key := strings.ToLower(strings.TrimSpace(occupation)); key != "" {
			f.excluded[key] = struct{}{}
		}
	}
	return nil
}

func (f *excludeOccupationsFilter) Apply(_ context.Context, deps Deps, suggestions []career.Suggestion) ([]career.Suggestion, Step, error) {
	if len(f.excluded) == 0 {
		return suggestions, step(len(suggestions), len(suggestions)), nil
	}

	kept := make([]career.Suggestion, 0, len(suggestions))
	var excluded []string
	for _, s := range suggestions {
		if _, ok := f.excluded[strings.ToLower(strings.TrimSpace(s.Occupation))]; ok {
			excluded = append(excluded, s.Occupation)
			continue
		}
		kept = append(kept, s)
	}

	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding occupations based on config", zap.Strings("occupations", excluded))
	}

	return kept, step(len(suggestions), len(kept)), nil
}

func (f *excludeOccupationsFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: true,
		Details: map[string]string{"occupations": strconv.Itoa(len(f.excluded))},
	}
}

type limitFilter struct {
	limit int
}

// NewLimit creates a filter that keeps at most Config.MaxSuggestions entries.
func NewLimit() Filter {
	return &limitFilter{limit: DefaultMaxSuggestions}
}

func (f *limitFilter) Name() string { return "limit" }

func (f *limitFilter) Disable(string) {}

func (f *limitFilter) IsEnabled() bool { return true }

func (f *limitFilter) Validate(cfg *Config) error {
	f.limit = DefaultMaxSuggestions
	if cfg == nil || cfg.MaxSuggestions == 0 {
		return nil
	}
	if cfg.MaxSuggestions < 0 {
		return fmt.Errorf("max suggestions must be positive, got %d", cfg.MaxSuggestions)
	}
	f.limit = cfg.MaxSuggestions
	return nil
}

func (f *limitFilter) Apply(_ context.Context, _ Deps, suggestions []career.Suggestion) ([]career.Suggestion, Step, error) {
	if len(suggestions) <= f.limit {
		return suggestions, step(len(suggestions), len(suggestions)), nil
	}
	kept := suggestions[:f.limit:f.limit]
	return kept, step(len(suggestions), len(kept)), nil
}

func (f *limitFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: true,
		Details: map[string]string{"limit": strconv.Itoa(f.limit)},
	}
}

func step(initial, left int) Step {
	return Step{Initial: initial, Dropped: initial - left, Left: left}
}
