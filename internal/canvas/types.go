// Package canvas is the typed client for the Canvas LMS REST API. It owns
// authentication, JSON decoding, and timestamp normalization: every
// timestamp crossing this package boundary is UTC, and raw untyped maps
// never leave it.
package canvas

import "time"

// Term is the enrollment term a course belongs to.
type Term struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Course is a Canvas course enrollment.
type Course struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	CourseCode string `json:"course_code"`
	Term       *Term  `json:"term,omitempty"`
}

// TermCode returns the code used for current-term matching: the term name
// when the term was included, else the course code.
func (c *Course) TermCode() string {
	if c.Term != nil && c.Term.Name != "" {
		return c.Term.Name
	}
	return c.CourseCode
}

// DashboardCard is one entry of the user-ordered course dashboard.
type DashboardCard struct {
	ID        int64  `json:"id"`
	ShortName string `json:"shortName"`
	// Position is the user-defined ordering slot. Canvas emits cards
	// already sorted by it; the order is authoritative.
	Position int `json:"position"`
}

// Submission is the caller's submission attached to an assignment when
// the assignments endpoint is queried with include[]=submission.
type Submission struct {
	SubmittedAt   *time.Time `json:"submitted_at"`
	GradedAt      *time.Time `json:"graded_at"`
	Score         *float64   `json:"score"`
	WorkflowState string     `json:"workflow_state"`
	Missing       bool       `json:"missing"`
}

// Assignment is a Canvas assignment with optional submission info.
type Assignment struct {
	ID             int64       `json:"id"`
	CourseID       int64       `json:"course_id"`
	Name           string      `json:"name"`
	DueAt          *time.Time  `json:"due_at"`
	PointsPossible *float64    `json:"points_possible"`
	HTMLURL        string      `json:"html_url"`
	Submission     *Submission `json:"submission"`
}

// Submitted reports whether the caller has turned the assignment in.
func (a *Assignment) Submitted() bool {
	return a.Submission != nil && a.Submission.SubmittedAt != nil
}

// Graded reports whether the submission has been graded.
func (a *Assignment) Graded() bool {
	return a.Submission != nil && a.Submission.GradedAt != nil
}

// Author identifies who posted a discussion topic.
type Author struct {
	DisplayName string `json:"display_name"`
}

// Announcement is a course discussion topic restricted to announcements.
type Announcement struct {
	ID       int64      `json:"id"`
	Title    string     `json:"title"`
	PostedAt *time.Time `json:"posted_at"`
	Message  string     `json:"message"`
	Author   Author     `json:"author"`
}

// Planner item kinds after classification.
const (
	PlannerKindAssignment    = "assignment"
	PlannerKindQuiz          = "quiz"
	PlannerKindCalendarEvent = "calendar_event"
	PlannerKindGradeNotice   = "grade_notice"
	PlannerKindOther         = "other"
)

// Plannable is the object a planner item points at.
type Plannable struct {
	ID     int64      `json:"id"`
	Title  string     `json:"title"`
	DueAt  *time.Time `json:"due_at"`
	Points *float64   `json:"points_possible"`
}

// PlannerOverrideStatus carries the feed's submission flags for an item.
// Canvas encodes this field as either an object or the literal false,
// handled in decode.go.
type PlannerOverrideStatus struct {
	Submitted   bool       `json:"submitted"`
	Graded      bool       `json:"graded"`
	PostedAt    *time.Time `json:"posted_at"`
	NewActivity bool       `json:"has_feedback"`
}

// PlannerItem is one entry of the cross-course planner feed: an
// assignment, quiz, or calendar event, optionally flagged as a fresh
// grade notification via its submission status.
type PlannerItem struct {
	CourseID      int64                  `json:"course_id"`
	ContextName   string                 `json:"context_name"`
	PlannableID   int64                  `json:"plannable_id"`
	PlannableType string                 `json:"plannable_type"`
	PlannableDate *time.Time             `json:"plannable_date"`
	Plannable     Plannable              `json:"plannable"`
	Submissions   *PlannerOverrideStatus `json:"submissions"`
}

// Kind classifies the item as one of the PlannerKind constants. A graded
// submission with a posted timestamp counts as a grade notice regardless
// of the underlying plannable type.
func (p *PlannerItem) Kind() string {
	if p.Submissions != nil && p.Submissions.Graded && p.Submissions.PostedAt != nil {
		return PlannerKindGradeNotice
	}
	switch p.PlannableType {
	case "assignment":
		return PlannerKindAssignment
	case "quiz":
		return PlannerKindQuiz
	case "calendar_event":
		return PlannerKindCalendarEvent
	default:
		return PlannerKindOther
	}
}

// Timestamp is the shared time accessor across planner item kinds: the
// grade-posted time for grade notices, else the plannable date.
func (p *PlannerItem) Timestamp() *time.Time {
	if p.Kind() == PlannerKindGradeNotice {
		return p.Submissions.PostedAt
	}
	return p.PlannableDate
}
