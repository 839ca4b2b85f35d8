package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"canvashelper/internal/agg"
)

// Binder builds the coursework tool catalog over an aggregation engine.
// Now is swappable so tests can pin the clock; it must return UTC.
type Binder struct {
	engine *agg.Engine
	log    *zap.Logger
	now    func() time.Time
}

// NewBinder creates a Binder with the wall clock.
func NewBinder(engine *agg.Engine, log *zap.Logger) *Binder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Binder{
		engine: engine,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the clock, for tests.
func (b *Binder) WithClock(now func() time.Time) *Binder {
	b.now = now
	return b
}

// RegisterAll registers the eight coursework tools.
func (b *Binder) RegisterAll(reg *Registry) error {
	for _, tool := range b.catalog() {
		if err := reg.Register(tool); err != nil {
			return err
		}
	}
	return nil
}

// run wraps a tool body with required-argument checking, a single "now"
// capture, per-invocation correlation logging, and JSON encoding.
func (b *Binder) run(name string, schema ToolSchema, body func(ctx context.Context, now time.Time, args map[string]any) (any, error)) ExecuteFunc {
	return func(ctx context.Context, args map[string]any) (string, error) {
		if err := checkRequired(schema, args); err != nil {
			return "", err
		}

		invocation := uuid.NewString()
		now := b.now()
		start := time.Now()

		result, err := body(ctx, now, args)
		if err != nil {
			b.log.Warn("tool failed",
				zap.String("tool", name),
				zap.String("invocation", invocation),
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(err))
			return "", err
		}

		encoded, err := json.Marshal(result)
		if err != nil {
			return "", fmt.Errorf("failed to encode %s result: %w", name, err)
		}

		b.log.Info("tool ok",
			zap.String("tool", name),
			zap.String("invocation", invocation),
			zap.Duration("elapsed", time.Since(start)))
		return string(encoded), nil
	}
}

func (b *Binder) catalog() []*Tool {
	listCoursesSchema := ToolSchema{Required: []string{}, Properties: map[string]Property{}}
	dashboardSchema := ToolSchema{Required: []string{}, Properties: map[string]Property{}}

	courseAssignmentsSchema := ToolSchema{
		Required: []string{"course_id"},
		Properties: map[string]Property{
			"course_id":       {Type: "integer", Description: "Canvas course id"},
			"include_overdue": {Type: "boolean", Description: "Include assignments already past due", Default: true},
		},
	}

	upcomingSchema := ToolSchema{Required: []string{}, Properties: map[string]Property{}}

	announcementsSchema := ToolSchema{
		Required: []string{},
		Properties: map[string]Property{
			"max_courses":    {Type: "integer", Description: "Max courses to query, 0 for all", Default: 0},
			"max_per_course": {Type: "integer", Description: "Max announcements per course", Default: 3},
			"include_body":   {Type: "boolean", Description: "Include the announcement message body", Default: false},
		},
	}

	gradedSchema := ToolSchema{
		Required: []string{},
		Properties: map[string]Property{
			"window_hours": {Type: "integer", Description: "Lookback window in hours", Default: 48},
		},
	}

	summarySchema := ToolSchema{Required: []string{}, Properties: map[string]Property{}}
	weekSchema := ToolSchema{Required: []string{}, Properties: map[string]Property{}}

	return []*Tool{
		{
			Name:        "list_active_courses",
			Description: "List the current-term courses as (id, name) pairs.",
			Category:    CategoryCourses,
			Schema:      listCoursesSchema,
			Execute: b.run("list_active_courses", listCoursesSchema, func(ctx context.Context, now time.Time, args map[string]any) (any, error) {
				return b.engine.ListActiveCourses(ctx)
			}),
		},
		{
			Name:        "get_dashboard_cards",
			Description: "List courses in the user's own dashboard order.",
			Category:    CategoryCourses,
			Schema:      dashboardSchema,
			Execute: b.run("get_dashboard_cards", dashboardSchema, func(ctx context.Context, now time.Time, args map[string]any) (any, error) {
				return b.engine.GetDashboardCards(ctx)
			}),
		},
		{
			Name:        "get_course_assignments",
			Description: "List one course's assignments sorted by due date, optionally excluding overdue items.",
			Category:    CategoryAssignments,
			Schema:      courseAssignmentsSchema,
			Execute: b.run("get_course_assignments", courseAssignmentsSchema, func(ctx context.Context, now time.Time, args map[string]any) (any, error) {
				courseID, err := intArg(args, "course_id", 0)
				if err != nil {
					return nil, err
				}
				includeOverdue, err := boolArg(args, "include_overdue", true)
				if err != nil {
					return nil, err
				}
				return b.engine.GetCourseAssignments(ctx, now, int64(courseID), includeOverdue)
			}),
		},
		{
			Name:        "get_upcoming_assignments",
			Description: "Merge all active courses' assignments into one urgency-sorted list, overdue first.",
			Category:    CategoryAssignments,
			Schema:      upcomingSchema,
			Execute: b.run("get_upcoming_assignments", upcomingSchema, func(ctx context.Context, now time.Time, args map[string]any) (any, error) {
				return b.engine.GetUpcomingAssignments(ctx, now)
			}),
		},
		{
			Name:        "get_recent_announcements",
			Description: "Fetch recent announcements grouped per course, newest first.",
			Category:    CategoryAnnouncements,
			Schema:      announcementsSchema,
			Execute: b.run("get_recent_announcements", announcementsSchema, func(ctx context.Context, now time.Time, args map[string]any) (any, error) {
				maxCourses, err := intArg(args, "max_courses", 0)
				if err != nil {
					return nil, err
				}
				maxPerCourse, err := intArg(args, "max_per_course", 3)
				if err != nil {
					return nil, err
				}
				includeBody, err := boolArg(args, "include_body", false)
				if err != nil {
					return nil, err
				}
				return b.engine.GetRecentAnnouncements(ctx, maxCourses, maxPerCourse, includeBody)
			}),
		},
		{
			Name:        "get_recently_graded",
			Description: "List assignments graded within the lookback window, newest first.",
			Category:    CategoryGrades,
			Schema:      gradedSchema,
			Execute: b.run("get_recently_graded", gradedSchema, func(ctx context.Context, now time.Time, args map[string]any) (any, error) {
				windowHours, err := intArg(args, "window_hours", 48)
				if err != nil {
					return nil, err
				}
				return b.engine.GetRecentlyGraded(ctx, now, windowHours)
			}),
		},
		{
			Name:        "get_today_summary",
			Description: "Compose imminent deadlines, fresh announcements, recent grades, and last week's overdue work.",
			Category:    CategorySummary,
			Schema:      summarySchema,
			Execute: b.run("get_today_summary", summarySchema, func(ctx context.Context, now time.Time, args map[string]any) (any, error) {
				return b.engine.GetTodaySummary(ctx, now)
			}),
		},
		{
			Name:        "get_week_ahead",
			Description: "Compose the coming week's deadlines and events by day, with last week's announcements and grades.",
			Category:    CategorySummary,
			Schema:      weekSchema,
			Execute: b.run("get_week_ahead", weekSchema, func(ctx context.Context, now time.Time, args map[string]any) (any, error) {
				return b.engine.GetWeekAhead(ctx, now)
			}),
		},
	}
}
