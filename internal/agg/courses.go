package agg

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// ListActiveCourses returns (id, name) pairs for enrollments whose term
// code starts with the configured current-term prefix. Courses with a
// missing or non-matching term code are dropped; duplicates by id keep
// the first occurrence. An empty prefix passes every enrollment through.
func (e *Engine) ListActiveCourses(ctx context.Context) ([]CourseRef, error) {
	courses, err := e.client.ActiveCourses(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool, len(courses))
	refs := make([]CourseRef, 0, len(courses))
	for _, c := range courses {
		if e.termPrefix != "" && !strings.HasPrefix(c.TermCode(), e.termPrefix) {
			continue
		}
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		refs = append(refs, CourseRef{ID: c.ID, Name: c.Name})
	}

	e.log.Debug("active courses resolved", zap.Int("total", len(courses)), zap.Int("active", len(refs)))
	return refs, nil
}

// GetDashboardCards returns the dashboard courses in the exact order the
// upstream endpoint supplied. That order is the user's own and is never
// re-sorted.
func (e *Engine) GetDashboardCards(ctx context.Context) ([]CourseRef, error) {
	cards, err := e.client.DashboardCards(ctx)
	if err != nil {
		return nil, err
	}

	refs := make([]CourseRef, 0, len(cards))
	for _, card := range cards {
		refs = append(refs, CourseRef{ID: card.ID, Name: card.ShortName})
	}
	return refs, nil
}
