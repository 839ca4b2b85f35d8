package canvas

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := New(server.URL, "test-token", 5*time.Second, nil)
	return client, server
}

func TestClient_SendsBearerToken(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := client.ActiveCourses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-token", gotAuth)
}

func TestClient_AuthErrorOnRejectedToken(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})

		_, err := client.DashboardCards(context.Background())
		var authErr *AuthError
		require.ErrorAs(t, err, &authErr, "status %d must map to AuthError", status)
		assert.Equal(t, status, authErr.Status)
	}
}

func TestClient_UpstreamErrorOnServerFailure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.CourseAssignments(context.Background(), 7)
	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, http.StatusBadGateway, upstreamErr.Status)
	assert.Contains(t, upstreamErr.Endpoint, "/courses/7/assignments")
}

func TestClient_UpstreamErrorOnMalformedJSON(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{not json`))
	})

	_, err := client.ActiveCourses(context.Background())
	var upstreamErr *UpstreamError
	if !errors.As(err, &upstreamErr) {
		t.Fatalf("expected UpstreamError for malformed body, got %v", err)
	}
}

func TestCourseAssignments_NormalizesTimestampsToUTC(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "submission", r.URL.Query().Get("include[]"))
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 1, "name": "offset due date", "due_at": "2026-03-10T17:30:00+05:30",
			 "submission": {"submitted_at": "2026-03-09T20:00:00-07:00"}},
			{"id": 2, "name": "no due date", "due_at": null}
		]`))
	})

	assignments, err := client.CourseAssignments(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, assignments, 2)

	// +05:30 normalizes back by 5h30m.
	want := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	require.NotNil(t, assignments[0].DueAt)
	assert.True(t, assignments[0].DueAt.Equal(want))
	assert.Equal(t, time.UTC, assignments[0].DueAt.Location())

	require.NotNil(t, assignments[0].Submission)
	assert.Equal(t, time.UTC, assignments[0].Submission.SubmittedAt.Location())

	// Null stays nil, never a crash.
	assert.Nil(t, assignments[1].DueAt)
	assert.Equal(t, int64(1), assignments[1].CourseID, "missing course_id backfilled from the path")
}

func TestCourseAnnouncements_QueriesAnnouncementsOnly(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("only_announcements"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 5, "title": "Exam moved", "posted_at": "2026-03-10T08:00:00Z",
			 "message": "<p>now friday</p>", "author": {"display_name": "Prof. Knuth"}}
		]`))
	})

	announcements, err := client.CourseAnnouncements(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, announcements, 1)
	assert.Equal(t, "Exam moved", announcements[0].Title)
	assert.Equal(t, "Prof. Knuth", announcements[0].Author.DisplayName)
}

func TestPlannerItems_WindowParamsAndBooleanSubmissions(t *testing.T) {
	start := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2026-03-08T12:00:00Z", r.URL.Query().Get("start_date"))
		assert.Equal(t, "2026-03-10T12:00:00Z", r.URL.Query().Get("end_date"))
		w.Header().Set("Content-Type", "application/json")
		// Canvas emits "submissions": false for items with no
		// submission state.
		_, _ = w.Write([]byte(`[
			{"plannable_id": 1, "plannable_type": "calendar_event",
			 "plannable_date": "2026-03-09T10:00:00Z", "submissions": false,
			 "plannable": {"id": 1, "title": "Lecture"}},
			{"plannable_id": 2, "plannable_type": "assignment", "course_id": 4,
			 "plannable_date": "2026-03-09T10:00:00Z",
			 "submissions": {"submitted": true, "graded": true, "posted_at": "2026-03-09T11:00:00+01:00"},
			 "plannable": {"id": 2, "title": "Problem Set"}}
		]`))
	})

	items, err := client.PlannerItems(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, PlannerKindCalendarEvent, items[0].Kind())
	assert.Equal(t, PlannerKindGradeNotice, items[1].Kind())

	require.NotNil(t, items[1].Submissions.PostedAt)
	assert.Equal(t, time.UTC, items[1].Submissions.PostedAt.Location())
	assert.True(t, items[1].Timestamp().Equal(time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)))
}
