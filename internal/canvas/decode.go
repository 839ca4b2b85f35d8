package canvas

import (
	"bytes"
	"encoding/json"
	"time"
)

// UnmarshalJSON tolerates the planner feed's habit of encoding the
// submissions field as the literal false (or true) instead of an object.
// Booleans decode to the zero status.
func (s *PlannerOverrideStatus) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("false")) || bytes.Equal(trimmed, []byte("true")) || bytes.Equal(trimmed, []byte("null")) {
		*s = PlannerOverrideStatus{}
		return nil
	}
	type status PlannerOverrideStatus
	var v status
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = PlannerOverrideStatus(v)
	return nil
}

// toUTC rebases a nullable timestamp to UTC; nil stays nil.
func toUTC(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func (s *Submission) normalize() {
	if s == nil {
		return
	}
	s.SubmittedAt = toUTC(s.SubmittedAt)
	s.GradedAt = toUTC(s.GradedAt)
}

func (a *Assignment) normalize() {
	a.DueAt = toUTC(a.DueAt)
	a.Submission.normalize()
}

func (a *Announcement) normalize() {
	a.PostedAt = toUTC(a.PostedAt)
}

func (p *PlannerItem) normalize() {
	p.PlannableDate = toUTC(p.PlannableDate)
	p.Plannable.DueAt = toUTC(p.Plannable.DueAt)
	if p.Submissions != nil {
		p.Submissions.PostedAt = toUTC(p.Submissions.PostedAt)
	}
}
