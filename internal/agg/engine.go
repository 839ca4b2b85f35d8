// Package agg is the aggregation engine: it merges the differently-shaped
// Canvas responses into consistent, time-normalized, de-duplicated views.
// Every operation takes an explicit "now" captured once per tool
// invocation, so a single invocation is internally time-consistent and
// testable with a fixed clock. No state survives between invocations.
package agg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"canvashelper/internal/canvas"
)

// Client is the slice of the Canvas client the engine consumes.
type Client interface {
	ActiveCourses(ctx context.Context) ([]canvas.Course, error)
	DashboardCards(ctx context.Context) ([]canvas.DashboardCard, error)
	CourseAssignments(ctx context.Context, courseID int64) ([]canvas.Assignment, error)
	CourseAnnouncements(ctx context.Context, courseID int64) ([]canvas.Announcement, error)
	PlannerItems(ctx context.Context, start, end time.Time) ([]canvas.PlannerItem, error)
}

// ValidationError rejects a caller-supplied parameter before any network
// call is made.
type ValidationError struct {
	Param  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Param, e.Reason)
}

// Options tunes the engine. Zero values fall back to defaults.
type Options struct {
	// TermPrefix is the case-sensitive current-term prefix. Empty
	// disables active-term filtering.
	TermPrefix string

	// SummaryWindowHours is the today-summary deadline/announcement
	// window (default 48).
	SummaryWindowHours int

	// MaxConcurrentFetches bounds per-course fan-out (0 = unlimited).
	MaxConcurrentFetches int
}

// Engine implements the eight read-only coursework operations.
type Engine struct {
	client      Client
	termPrefix  string
	windowHours int
	maxInFlight int
	log         *zap.Logger
}

// New creates an engine over the given client.
func New(client Client, opts Options, log *zap.Logger) *Engine {
	if opts.SummaryWindowHours <= 0 {
		opts.SummaryWindowHours = 48
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		client:      client,
		termPrefix:  opts.TermPrefix,
		windowHours: opts.SummaryWindowHours,
		maxInFlight: opts.MaxConcurrentFetches,
		log:         log,
	}
}

// inWindow reports lower < t <= upper. Nil timestamps never match.
func inWindow(t *time.Time, lower, upper time.Time) bool {
	return t != nil && t.After(lower) && !t.After(upper)
}

// fanOut runs fetch once per course concurrently and collects per-course
// results. An auth failure cancels the remaining fetches and is returned;
// any other failure only marks that course as failed. Results keep
// course-list order regardless of completion order.
func fanOut[T any](ctx context.Context, e *Engine, courses []CourseRef, fetch func(ctx context.Context, course CourseRef) (T, error)) ([]T, []string, error) {
	g, gctx := errgroup.WithContext(ctx)
	if e.maxInFlight > 0 {
		g.SetLimit(e.maxInFlight)
	}

	results := make([]T, len(courses))
	failures := make([]error, len(courses))

	for i, course := range courses {
		g.Go(func() error {
			out, err := fetch(gctx, course)
			if err != nil {
				var authErr *canvas.AuthError
				if errors.As(err, &authErr) {
					return err
				}
				failures[i] = err
				return nil
			}
			results[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var failed []string
	for i, err := range failures {
		if err != nil {
			e.log.Warn("course fetch failed, omitting from aggregate",
				zap.String("course", courses[i].Name),
				zap.Error(err))
			failed = append(failed, courses[i].Name)
		}
	}
	return results, failed, nil
}
