package agg

import (
	"context"
	"sort"

	"canvashelper/internal/canvas"
)

func announcementView(a canvas.Announcement, course CourseRef, includeBody bool) AnnouncementView {
	view := AnnouncementView{
		ID:         a.ID,
		CourseID:   course.ID,
		CourseName: course.Name,
		Title:      a.Title,
		PostedAt:   a.PostedAt,
		Author:     a.Author.DisplayName,
	}
	if includeBody {
		view.Message = a.Message
	}
	return view
}

// GetRecentAnnouncements fetches announcements per active course and
// returns per-course groups in course-list order. maxCourses bounds how
// many courses are queried (0 = all), maxPerCourse truncates each group
// to its most recent entries, and bodies are stripped unless asked for.
func (e *Engine) GetRecentAnnouncements(ctx context.Context, maxCourses, maxPerCourse int, includeBody bool) (*AnnouncementDigest, error) {
	if maxCourses < 0 {
		return nil, &ValidationError{Param: "max_courses", Reason: "cannot be negative"}
	}
	if maxPerCourse <= 0 {
		return nil, &ValidationError{Param: "max_per_course", Reason: "must be positive"}
	}

	courses, err := e.ListActiveCourses(ctx)
	if err != nil {
		return nil, err
	}
	if maxCourses > 0 && len(courses) > maxCourses {
		courses = courses[:maxCourses]
	}

	perCourse, failed, err := fanOut(ctx, e, courses, func(ctx context.Context, course CourseRef) ([]canvas.Announcement, error) {
		return e.client.CourseAnnouncements(ctx, course.ID)
	})
	if err != nil {
		return nil, err
	}

	failedSet := make(map[string]bool, len(failed))
	for _, name := range failed {
		failedSet[name] = true
	}

	groups := make([]CourseAnnouncements, 0, len(courses))
	for i, course := range courses {
		if failedSet[course.Name] {
			continue
		}

		raw := perCourse[i]
		// Canvas returns announcements most recent first; re-sort for
		// the cases where it does not.
		sort.SliceStable(raw, func(a, b int) bool {
			return dueBefore(raw[b].PostedAt, raw[a].PostedAt)
		})
		if len(raw) > maxPerCourse {
			raw = raw[:maxPerCourse]
		}

		views := make([]AnnouncementView, 0, len(raw))
		for _, a := range raw {
			views = append(views, announcementView(a, course, includeBody))
		}
		groups = append(groups, CourseAnnouncements{Course: course, Announcements: views})
	}

	return &AnnouncementDigest{
		Courses:       groups,
		Partial:       len(failed) > 0,
		FailedCourses: failed,
	}, nil
}
