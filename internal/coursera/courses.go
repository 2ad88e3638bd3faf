package coursera

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const coursesPath = "/api/courses.v1"

type Course struct {
	ID          string `json:"id" mapstructure:"id"`
	Name        string `json:"name" mapstructure:"name"`
	Description string `json:"description" mapstructure:"description"`
	Slug        string `json:"slug" mapstructure:"slug"`
}

// URL is the public course page.
func (c Course) URL() string {
	return courseURL + c.Slug
}

// Title falls back to a generic label for unnamed courses.
func (c Course) Title() string {
	if strings.TrimSpace(c.Name) == "" {
		return "Untitled Course"
	}
	return c.Name
}

// SkillCourses holds the lookup result for one skill. Err is set when the
// lookup failed; Courses is then empty.
type SkillCourses struct {
	Skill   string
	Courses []Course
	Err     error
}

type coursesResponse struct {
	Elements []any `json:"elements"`
}

// SearchCourses returns up to limit courses matching skill.
func (c *Client) SearchCourses(skill string, limit int) ([]Course, error) {
	return c.searchCourses(c.ctx, skill, limit)
}

func (c *Client) searchCourses(ctx context.Context, skill string, limit int) ([]Course, error) {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return nil, fmt.Errorf("skill must not be empty")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	q := url.Values{}
	q.Set("q", "search")
	q.Set("query", skill)
	q.Set("fields", "name,description,slug")
	q.Set("limit", strconv.Itoa(limit))

	var response coursesResponse
	if err := c.getJSON(ctx, c.APIURL+coursesPath, q, &response); err != nil {
		return nil, fmt.Errorf("search courses for %q: %w", skill, err)
	}

	courses := make([]Course, 0, len(response.Elements))
	if err := mapstructure.Decode(response.Elements, &courses); err != nil {
		return nil, fmt.Errorf("decode courses for %q: %w", skill, err)
	}

	if len(courses) > limit {
		courses = courses[:limit]
	}

	return courses, nil
}

// CoursesForSkills looks up every skill concurrently and returns results in
// input order. A failed lookup is logged and reported in SkillCourses.Err
// without failing the others; only a cancelled ctx aborts the whole call.
func (c *Client) CoursesForSkills(ctx context.Context, skills []string, limit int) ([]SkillCourses, error) {
	results := make([]SkillCourses, len(skills))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelLookups)

	for i, skill := range skills {
		results[i].Skill = skill
		g.Go(func() error {
			courses, err := c.searchCourses(gctx, skill, limit)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				c.logger.Warn("failed to fetch courses", zap.String("skill", skill), zap.Error(err))
				results[i].Err = err
				return nil
			}
			results[i].Courses = courses
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
