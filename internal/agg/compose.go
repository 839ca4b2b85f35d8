package agg

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"canvashelper/internal/canvas"
)

const (
	// gradedWindowHours is the fixed recently-graded lookback used by
	// the summary compositions.
	gradedWindowHours = 48

	// overdueLookbackDays bounds how far back the summary reports
	// overdue assignments.
	overdueLookbackDays = 7

	weekAheadDays = 7
)

// courseFeed bundles one course's fetches for the composition views so a
// single fan-out covers both endpoints.
type courseFeed struct {
	assignments   []AssignmentView
	announcements []AnnouncementView
}

// fetchFeeds fans out assignment + announcement fetches across the
// active courses. Bodies are never included in compositions.
func (e *Engine) fetchFeeds(ctx context.Context, now time.Time) ([]courseFeed, []string, error) {
	courses, err := e.ListActiveCourses(ctx)
	if err != nil {
		return nil, nil, err
	}

	feeds, failed, err := fanOut(ctx, e, courses, func(ctx context.Context, course CourseRef) (courseFeed, error) {
		var feed courseFeed

		rawAssignments, err := e.client.CourseAssignments(ctx, course.ID)
		if err != nil {
			return feed, err
		}
		for _, a := range rawAssignments {
			feed.assignments = append(feed.assignments, assignmentView(a, course.Name, now))
		}

		rawAnnouncements, err := e.client.CourseAnnouncements(ctx, course.ID)
		if err != nil {
			return feed, err
		}
		for _, a := range rawAnnouncements {
			feed.announcements = append(feed.announcements, announcementView(a, course, false))
		}
		return feed, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return feeds, failed, nil
}

// recentlyGradedTolerant wraps GetRecentlyGraded for compositions: an
// auth failure still aborts, but any other planner failure degrades to
// an empty graded section and marks the view partial.
func (e *Engine) recentlyGradedTolerant(ctx context.Context, now time.Time, windowHours int) ([]GradedItem, bool, error) {
	graded, err := e.GetRecentlyGraded(ctx, now, windowHours)
	if err != nil {
		var authErr *canvas.AuthError
		if errors.As(err, &authErr) {
			return nil, false, err
		}
		e.log.Warn("planner fetch failed, omitting graded section", zap.Error(err))
		return []GradedItem{}, true, nil
	}
	return graded, false, nil
}

// GetTodaySummary composes the short-horizon view: deadlines due within
// the configured window, announcements posted within the same window,
// grades posted in the last 48 hours, and overdue assignments from the
// past 7 days. Each section is independently empty-safe.
func (e *Engine) GetTodaySummary(ctx context.Context, now time.Time) (*Summary, error) {
	window := time.Duration(e.windowHours) * time.Hour

	feeds, failed, err := e.fetchFeeds(ctx, now)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Deadlines:     []AssignmentView{},
		Announcements: []AnnouncementView{},
		Graded:        []GradedItem{},
		Overdue:       []AssignmentView{},
		FailedCourses: failed,
	}

	overdueLower := now.AddDate(0, 0, -overdueLookbackDays)
	for _, feed := range feeds {
		for _, a := range feed.assignments {
			switch {
			case inWindow(a.DueAt, now, now.Add(window)):
				summary.Deadlines = append(summary.Deadlines, a)
			case a.Overdue && inWindow(a.DueAt, overdueLower, now):
				summary.Overdue = append(summary.Overdue, a)
			}
		}
		for _, a := range feed.announcements {
			if inWindow(a.PostedAt, now.Add(-window), now) {
				summary.Announcements = append(summary.Announcements, a)
			}
		}
	}

	sort.SliceStable(summary.Deadlines, func(i, j int) bool {
		return urgencyLess(summary.Deadlines[i], summary.Deadlines[j])
	})
	sort.SliceStable(summary.Overdue, func(i, j int) bool {
		return urgencyLess(summary.Overdue[i], summary.Overdue[j])
	})
	sort.SliceStable(summary.Announcements, func(i, j int) bool {
		return dueBefore(summary.Announcements[j].PostedAt, summary.Announcements[i].PostedAt)
	})

	graded, gradedPartial, err := e.recentlyGradedTolerant(ctx, now, gradedWindowHours)
	if err != nil {
		return nil, err
	}
	summary.Graded = graded
	summary.Partial = len(failed) > 0 || gradedPartial

	return summary, nil
}

// GetWeekAhead composes the 7-day view: deadlines due in the coming
// week and announcements from the past week, grouped by UTC calendar
// day, plus calendar events from the planner feed and grades posted in
// the past week.
func (e *Engine) GetWeekAhead(ctx context.Context, now time.Time) (*WeekAhead, error) {
	upper := now.AddDate(0, 0, weekAheadDays)
	lower := now.AddDate(0, 0, -weekAheadDays)

	feeds, failed, err := e.fetchFeeds(ctx, now)
	if err != nil {
		return nil, err
	}

	days := make(map[string]*DayGroup)
	group := func(t time.Time) *DayGroup {
		key := t.UTC().Format("2006-01-02")
		g, ok := days[key]
		if !ok {
			g = &DayGroup{
				Date:          key,
				Deadlines:     []AssignmentView{},
				Announcements: []AnnouncementView{},
				Events:        []EventView{},
			}
			days[key] = g
		}
		return g
	}

	for _, feed := range feeds {
		for _, a := range feed.assignments {
			if inWindow(a.DueAt, now, upper) {
				g := group(*a.DueAt)
				g.Deadlines = append(g.Deadlines, a)
			}
		}
		for _, a := range feed.announcements {
			if inWindow(a.PostedAt, lower, now) {
				g := group(*a.PostedAt)
				g.Announcements = append(g.Announcements, a)
			}
		}
	}

	plannerPartial := false
	events, err := e.client.PlannerItems(ctx, now, upper)
	if err != nil {
		var authErr *canvas.AuthError
		if errors.As(err, &authErr) {
			return nil, err
		}
		e.log.Warn("planner fetch failed, omitting calendar events", zap.Error(err))
		plannerPartial = true
	}
	for _, p := range events {
		if p.Kind() != canvas.PlannerKindCalendarEvent {
			continue
		}
		ts := p.Timestamp()
		if !inWindow(ts, now, upper) {
			continue
		}
		g := group(*ts)
		g.Events = append(g.Events, EventView{
			ID:         p.PlannableID,
			CourseID:   p.CourseID,
			CourseName: p.ContextName,
			Title:      p.Plannable.Title,
			StartAt:    ts,
		})
	}

	graded, gradedPartial, err := e.recentlyGradedTolerant(ctx, now, weekAheadDays*24)
	if err != nil {
		return nil, err
	}

	week := &WeekAhead{
		Days:          make([]DayGroup, 0, len(days)),
		Graded:        graded,
		Partial:       len(failed) > 0 || plannerPartial || gradedPartial,
		FailedCourses: failed,
	}

	keys := make([]string, 0, len(days))
	for key := range days {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		g := days[key]
		sort.SliceStable(g.Deadlines, func(i, j int) bool {
			return urgencyLess(g.Deadlines[i], g.Deadlines[j])
		})
		sort.SliceStable(g.Announcements, func(i, j int) bool {
			return dueBefore(g.Announcements[j].PostedAt, g.Announcements[i].PostedAt)
		})
		sort.SliceStable(g.Events, func(i, j int) bool {
			return dueBefore(g.Events[i].StartAt, g.Events[j].StartAt)
		})
		week.Days = append(week.Days, *g)
	}

	return week, nil
}
