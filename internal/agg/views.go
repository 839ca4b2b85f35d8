package agg

import "time"

// CourseRef is the condensed (id, name) projection used everywhere a
// course is referenced. All other course metadata is dropped as noise.
type CourseRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// AssignmentView is the normalized assignment record returned to callers.
type AssignmentView struct {
	Type           string     `json:"type"`
	ID             int64      `json:"id"`
	CourseID       int64      `json:"course_id"`
	CourseName     string     `json:"course_name,omitempty"`
	Name           string     `json:"name"`
	DueAt          *time.Time `json:"due_at"`
	PointsPossible *float64   `json:"points_possible"`
	Score          *float64   `json:"score,omitempty"`
	Submitted      bool       `json:"submitted"`
	Graded         bool       `json:"graded"`
	Missing        bool       `json:"missing"`
	Overdue        bool       `json:"is_overdue"`
	HTMLURL        string     `json:"html_url,omitempty"`
}

// AssignmentList is the merged fan-out result across courses. Partial is
// set when at least one course's fetch failed and was omitted.
type AssignmentList struct {
	Assignments   []AssignmentView `json:"assignments"`
	Partial       bool             `json:"partial"`
	FailedCourses []string         `json:"failed_courses,omitempty"`
}

// AnnouncementView is the normalized announcement record. Message is
// omitted unless the caller asked for bodies.
type AnnouncementView struct {
	ID         int64      `json:"id"`
	CourseID   int64      `json:"course_id"`
	CourseName string     `json:"course_name,omitempty"`
	Title      string     `json:"title"`
	PostedAt   *time.Time `json:"posted_at"`
	Author     string     `json:"author,omitempty"`
	Message    string     `json:"message,omitempty"`
}

// CourseAnnouncements groups one course's announcements.
type CourseAnnouncements struct {
	Course        CourseRef          `json:"course"`
	Announcements []AnnouncementView `json:"announcements"`
}

// AnnouncementDigest preserves course-list order across groups.
type AnnouncementDigest struct {
	Courses       []CourseAnnouncements `json:"courses"`
	Partial       bool                  `json:"partial"`
	FailedCourses []string              `json:"failed_courses,omitempty"`
}

// GradedItem is one recently graded assignment from the planner feed.
type GradedItem struct {
	AssignmentID   int64     `json:"assignment_id"`
	CourseID       int64     `json:"course_id"`
	CourseName     string    `json:"course_name,omitempty"`
	Title          string    `json:"title"`
	GradedAt       time.Time `json:"graded_at"`
	PointsPossible *float64  `json:"points_possible,omitempty"`
}

// EventView is a calendar-type planner item in the week-ahead view.
type EventView struct {
	ID         int64      `json:"id"`
	CourseID   int64      `json:"course_id"`
	CourseName string     `json:"course_name,omitempty"`
	Title      string     `json:"title"`
	StartAt    *time.Time `json:"start_at"`
}

// Summary is the today-summary composition. Every section is always
// present; an empty category is an empty list, never a missing field.
type Summary struct {
	Deadlines     []AssignmentView   `json:"deadlines"`
	Announcements []AnnouncementView `json:"announcements"`
	Graded        []GradedItem       `json:"graded"`
	Overdue       []AssignmentView   `json:"overdue"`
	Partial       bool               `json:"partial"`
	FailedCourses []string           `json:"failed_courses,omitempty"`
}

// DayGroup holds one UTC calendar day of the week-ahead view.
type DayGroup struct {
	Date          string             `json:"date"`
	Deadlines     []AssignmentView   `json:"deadlines"`
	Announcements []AnnouncementView `json:"announcements"`
	Events        []EventView        `json:"events"`
}

// WeekAhead is the 7-day composition, grouped by UTC calendar day.
type WeekAhead struct {
	Days          []DayGroup   `json:"days"`
	Graded        []GradedItem `json:"graded"`
	Partial       bool         `json:"partial"`
	FailedCourses []string     `json:"failed_courses,omitempty"`
}
