package agg

import (
	"context"
	"sort"
	"time"

	"canvashelper/internal/canvas"
)

// assignmentView converts a raw assignment into the normalized view,
// computing the overdue flag against the invocation's captured now.
func assignmentView(a canvas.Assignment, courseName string, now time.Time) AssignmentView {
	submitted := a.Submitted()
	graded := a.Graded()
	overdue := a.DueAt != nil && a.DueAt.Before(now) && !submitted && !graded

	view := AssignmentView{
		Type:           "assignment",
		ID:             a.ID,
		CourseID:       a.CourseID,
		CourseName:     courseName,
		Name:           a.Name,
		DueAt:          a.DueAt,
		PointsPossible: a.PointsPossible,
		Submitted:      submitted,
		Graded:         graded,
		Overdue:        overdue,
		HTMLURL:        a.HTMLURL,
	}
	if a.Submission != nil {
		view.Score = a.Submission.Score
		view.Missing = a.Submission.Missing
	}
	return view
}

// dueBefore orders by due timestamp ascending with nil due dates last.
func dueBefore(a, b *time.Time) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return a.Before(*b)
}

// urgencyLess is the merge order for cross-course assignment lists:
// overdue first, then due ascending (nils last), then course name so
// ties are deterministic.
func urgencyLess(a, b AssignmentView) bool {
	if a.Overdue != b.Overdue {
		return a.Overdue
	}
	switch {
	case a.DueAt == nil && b.DueAt == nil:
		return a.CourseName < b.CourseName
	case a.DueAt == nil || b.DueAt == nil:
		return b.DueAt == nil
	case !a.DueAt.Equal(*b.DueAt):
		return a.DueAt.Before(*b.DueAt)
	}
	return a.CourseName < b.CourseName
}

// GetCourseAssignments returns one course's assignments sorted by due
// date ascending, nil due dates last. When includeOverdue is false,
// overdue items are filtered out.
func (e *Engine) GetCourseAssignments(ctx context.Context, now time.Time, courseID int64, includeOverdue bool) ([]AssignmentView, error) {
	if courseID <= 0 {
		return nil, &ValidationError{Param: "course_id", Reason: "must be a positive id"}
	}

	raw, err := e.client.CourseAssignments(ctx, courseID)
	if err != nil {
		return nil, err
	}

	views := make([]AssignmentView, 0, len(raw))
	for _, a := range raw {
		view := assignmentView(a, "", now)
		if view.Overdue && !includeOverdue {
			continue
		}
		views = append(views, view)
	}

	sort.SliceStable(views, func(i, j int) bool {
		return dueBefore(views[i].DueAt, views[j].DueAt)
	})
	return views, nil
}

// GetUpcomingAssignments fans out per-course assignment fetches across
// all active courses and merges them into one urgency-sorted list:
// overdue first, then soonest due. A single course's failure omits that
// course and marks the result partial; an auth failure aborts the call.
func (e *Engine) GetUpcomingAssignments(ctx context.Context, now time.Time) (*AssignmentList, error) {
	courses, err := e.ListActiveCourses(ctx)
	if err != nil {
		return nil, err
	}

	perCourse, failed, err := fanOut(ctx, e, courses, func(ctx context.Context, course CourseRef) ([]AssignmentView, error) {
		raw, err := e.client.CourseAssignments(ctx, course.ID)
		if err != nil {
			return nil, err
		}
		views := make([]AssignmentView, 0, len(raw))
		for _, a := range raw {
			views = append(views, assignmentView(a, course.Name, now))
		}
		return views, nil
	})
	if err != nil {
		return nil, err
	}

	merged := make([]AssignmentView, 0)
	for _, views := range perCourse {
		merged = append(merged, views...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return urgencyLess(merged[i], merged[j])
	})

	return &AssignmentList{
		Assignments:   merged,
		Partial:       len(failed) > 0,
		FailedCourses: failed,
	}, nil
}
