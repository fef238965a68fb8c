package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spacearound404/planboard/internal/model"
)

// Health pings the backend. Public path; no token involved.
func (c *Client) Health(ctx context.Context) error {
	return c.request(ctx, http.MethodGet, "/health", nil, nil)
}

// MeResponse is the body of GET /users/me.
type MeResponse struct {
	User map[string]any `json:"user"`
}

// Me fetches the authenticated user.
func (c *Client) Me(ctx context.Context) (MeResponse, error) {
	var out MeResponse
	err := c.request(ctx, http.MethodGet, "/users/me", nil, &out)
	return out, err
}

// Projects lists all projects.
func (c *Client) Projects(ctx context.Context) ([]model.Project, error) {
	var out []model.Project
	err := c.request(ctx, http.MethodGet, "/projects/", nil, &out)
	return out, err
}

// CreateProject creates a project with the given name and color.
func (c *Client) CreateProject(ctx context.Context, name, color string) (model.Project, error) {
	var out model.Project
	err := c.request(ctx, http.MethodPost, "/projects/", map[string]string{"name": name, "color": color}, &out)
	return out, err
}

// DeleteProject removes a project. The server cascades deletion to its
// tasks; callers must refresh cached task lists afterwards.
func (c *Client) DeleteProject(ctx context.Context, id int) error {
	return c.request(ctx, http.MethodDelete, fmt.Sprintf("/projects/%d", id), nil, nil)
}

// TaskFilter narrows GET /tasks/.
type TaskFilter struct {
	ProjectID *int
	Day       string
}

func (f TaskFilter) query() string {
	q := url.Values{}
	if f.ProjectID != nil {
		q.Set("project_id", strconv.Itoa(*f.ProjectID))
	}
	if f.Day != "" {
		q.Set("day", f.Day)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// Tasks lists tasks matching the filter.
func (c *Client) Tasks(ctx context.Context, f TaskFilter) ([]model.Task, error) {
	var out []model.Task
	err := c.request(ctx, http.MethodGet, "/tasks/"+f.query(), nil, &out)
	return out, err
}

// CreateTask persists a new task.
func (c *Client) CreateTask(ctx context.Context, t model.Task) (model.Task, error) {
	var out model.Task
	err := c.request(ctx, http.MethodPost, "/tasks/", t, &out)
	return out, err
}

// UpdateTask overwrites an existing task.
func (c *Client) UpdateTask(ctx context.Context, id int, t model.Task) (model.Task, error) {
	var out model.Task
	err := c.request(ctx, http.MethodPut, fmt.Sprintf("/tasks/%d", id), t, &out)
	return out, err
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id int) error {
	return c.request(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d", id), nil, nil)
}

// EventFilter narrows GET /events/ to a date range (inclusive dates).
type EventFilter struct {
	Start string
	End   string
}

func (f EventFilter) query() string {
	q := url.Values{}
	if f.Start != "" {
		q.Set("start", f.Start)
	}
	if f.End != "" {
		q.Set("end", f.End)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// Events lists calendar events in the range.
func (c *Client) Events(ctx context.Context, f EventFilter) ([]model.Task, error) {
	var out []model.Task
	err := c.request(ctx, http.MethodGet, "/events/"+f.query(), nil, &out)
	return out, err
}

// CreateEvent persists a new event. Kind is forced to event regardless
// of what the caller set.
func (c *Client) CreateEvent(ctx context.Context, t model.Task) (model.Task, error) {
	t.Kind = model.KindEvent
	var out model.Task
	err := c.request(ctx, http.MethodPost, "/events/", t, &out)
	return out, err
}

// MySettings fetches the singleton per-user settings.
func (c *Client) MySettings(ctx context.Context) (model.UserSettings, error) {
	var out model.UserSettings
	err := c.request(ctx, http.MethodGet, "/settings/me", nil, &out)
	return out, err
}

// UpdateMySettings overwrites the per-user settings.
func (c *Client) UpdateMySettings(ctx context.Context, s model.UserSettings) (model.UserSettings, error) {
	var out model.UserSettings
	err := c.request(ctx, http.MethodPut, "/settings/me", s, &out)
	return out, err
}
