package agg

import (
	"context"
	"sort"
	"time"

	"canvashelper/internal/canvas"
)

func gradedItem(p canvas.PlannerItem) GradedItem {
	return GradedItem{
		AssignmentID:   p.PlannableID,
		CourseID:       p.CourseID,
		CourseName:     p.ContextName,
		Title:          p.Plannable.Title,
		GradedAt:       *p.Submissions.PostedAt,
		PointsPossible: p.Plannable.Points,
	}
}

// GetRecentlyGraded returns grade notifications from the planner feed
// whose graded timestamp falls within (now-windowHours, now]. Regrades
// inside the window are collapsed to one entry per assignment id keeping
// the most recent graded timestamp. Result is sorted newest first.
func (e *Engine) GetRecentlyGraded(ctx context.Context, now time.Time, windowHours int) ([]GradedItem, error) {
	if windowHours <= 0 {
		return nil, &ValidationError{Param: "window_hours", Reason: "must be positive"}
	}

	lower := now.Add(-time.Duration(windowHours) * time.Hour)
	items, err := e.client.PlannerItems(ctx, lower, now)
	if err != nil {
		return nil, err
	}

	latest := make(map[int64]GradedItem)
	for _, p := range items {
		if p.Kind() != canvas.PlannerKindGradeNotice {
			continue
		}
		if !inWindow(p.Submissions.PostedAt, lower, now) {
			continue
		}
		item := gradedItem(p)
		if prev, ok := latest[item.AssignmentID]; ok && !item.GradedAt.After(prev.GradedAt) {
			continue
		}
		latest[item.AssignmentID] = item
	}

	graded := make([]GradedItem, 0, len(latest))
	for _, item := range latest {
		graded = append(graded, item)
	}
	sort.SliceStable(graded, func(i, j int) bool {
		if !graded[i].GradedAt.Equal(graded[j].GradedAt) {
			return graded[i].GradedAt.After(graded[j].GradedAt)
		}
		return graded[i].AssignmentID < graded[j].AssignmentID
	})
	return graded, nil
}
