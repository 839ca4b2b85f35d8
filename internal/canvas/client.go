package canvas

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// perPage is sent on every list endpoint. One page is enough for the
// bounded queries this client serves; pagination is out of scope.
const perPage = "100"

// Client issues authenticated requests against a Canvas instance. It is
// safe for concurrent use; the base URL and token are fixed at
// construction and never mutated.
type Client struct {
	http *resty.Client
	log  *zap.Logger
}

// New creates a Canvas client for the given base URL and bearer token.
func New(baseURL, token string, timeout time.Duration, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetAuthToken(token).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{http: rc, log: log}
}

// get performs one GET and decodes the JSON body into out. Status
// mapping: 401/403 become AuthError, any other failure UpstreamError.
func (c *Client) get(ctx context.Context, endpoint string, params map[string]string, out any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(out).
		Get(endpoint)
	if err != nil {
		return &UpstreamError{Endpoint: endpoint, Err: err}
	}

	status := resp.StatusCode()
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		c.log.Warn("canvas credential rejected", zap.String("endpoint", endpoint), zap.Int("status", status))
		return &AuthError{Endpoint: endpoint, Status: status}
	case status < 200 || status >= 300:
		c.log.Warn("canvas request failed", zap.String("endpoint", endpoint), zap.Int("status", status))
		return &UpstreamError{Endpoint: endpoint, Status: status}
	}

	c.log.Debug("canvas request ok", zap.String("endpoint", endpoint), zap.Int("status", status))
	return nil
}

// ActiveCourses lists the caller's active enrollments with term info.
func (c *Client) ActiveCourses(ctx context.Context) ([]Course, error) {
	var courses []Course
	err := c.get(ctx, "/api/v1/courses", map[string]string{
		"enrollment_state": "active",
		"include[]":        "term",
		"per_page":         perPage,
	}, &courses)
	if err != nil {
		return nil, err
	}
	return courses, nil
}

// DashboardCards lists the dashboard in the user's configured order.
func (c *Client) DashboardCards(ctx context.Context) ([]DashboardCard, error) {
	var cards []DashboardCard
	err := c.get(ctx, "/api/v1/dashboard/dashboard_cards", map[string]string{
		"per_page": perPage,
	}, &cards)
	if err != nil {
		return nil, err
	}
	return cards, nil
}

// CourseAssignments lists a course's assignments with the caller's
// submission attached. Timestamps are normalized to UTC.
func (c *Client) CourseAssignments(ctx context.Context, courseID int64) ([]Assignment, error) {
	endpoint := fmt.Sprintf("/api/v1/courses/%d/assignments", courseID)

	var assignments []Assignment
	err := c.get(ctx, endpoint, map[string]string{
		"include[]": "submission",
		"per_page":  perPage,
	}, &assignments)
	if err != nil {
		return nil, err
	}

	for i := range assignments {
		assignments[i].normalize()
		if assignments[i].CourseID == 0 {
			assignments[i].CourseID = courseID
		}
	}
	return assignments, nil
}

// CourseAnnouncements lists a course's announcements, most recent first
// as Canvas returns them.
func (c *Client) CourseAnnouncements(ctx context.Context, courseID int64) ([]Announcement, error) {
	endpoint := fmt.Sprintf("/api/v1/courses/%d/discussion_topics", courseID)

	var announcements []Announcement
	err := c.get(ctx, endpoint, map[string]string{
		"only_announcements": "true",
		"per_page":           perPage,
	}, &announcements)
	if err != nil {
		return nil, err
	}

	for i := range announcements {
		announcements[i].normalize()
	}
	return announcements, nil
}

// PlannerItems fetches the planner feed for the window [start, end].
// Bounds must be UTC instants.
func (c *Client) PlannerItems(ctx context.Context, start, end time.Time) ([]PlannerItem, error) {
	var items []PlannerItem
	err := c.get(ctx, "/api/v1/planner/items", map[string]string{
		"start_date": start.UTC().Format(time.RFC3339),
		"end_date":   end.UTC().Format(time.RFC3339),
		"per_page":   perPage,
	}, &items)
	if err != nil {
		return nil, err
	}

	for i := range items {
		items[i].normalize()
	}
	return items, nil
}
