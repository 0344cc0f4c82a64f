// Package remote implements the gateway over the launchdeck REST API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/existflow/launchdeck/internal/gateway"
	"github.com/existflow/launchdeck/internal/logger"
	"github.com/existflow/launchdeck/internal/model"
)

// APIError is a non-2xx response that has no gateway sentinel
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Client talks to launchdeck-server
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        *logger.Logger
}

var _ gateway.Gateway = (*Client)(nil)

// New creates a client for serverURL. The token may be empty for auth calls.
func New(serverURL, token string, log *logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(serverURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
	}
}

// SetToken replaces the bearer token
func (c *Client) SetToken(token string) {
	c.token = token
}

// do sends in as JSON and decodes the response into out. Either may be nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api/v1"+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer resp.Body.Close()
	c.log.Debug("api call",
		logger.F("method", method),
		logger.F("path", path),
		logger.F("status", resp.StatusCode),
		logger.F("duration", time.Since(start).String()))

	if resp.StatusCode >= 300 {
		return responseError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func responseError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(resp.Body)
	if json.Unmarshal(raw, &body) != nil || body.Error == "" {
		body.Error = strings.TrimSpace(string(raw))
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", gateway.ErrNotFound, body.Error)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", gateway.ErrUnauthorized, body.Error)
	}
	return &APIError{Status: resp.StatusCode, Message: body.Error}
}

func escape(id string) string {
	return url.PathEscape(id)
}

// Gateway operations. The server derives the user from the token, so userID
// arguments only document intent here.

func (c *Client) ListProjects(ctx context.Context, userID string) ([]model.Project, error) {
	var out []model.Project
	err := c.do(ctx, http.MethodGet, "/projects", nil, &out)
	return out, err
}

func (c *Client) CreateProject(ctx context.Context, p model.Project) (model.Project, error) {
	var out model.Project
	err := c.do(ctx, http.MethodPost, "/projects", p, &out)
	return out, err
}

func (c *Client) UpdateProject(ctx context.Context, id, userID string, patch model.ProjectPatch) (model.Project, error) {
	var out model.Project
	err := c.do(ctx, http.MethodPatch, "/projects/"+escape(id), patch, &out)
	return out, err
}

func (c *Client) ListTasks(ctx context.Context, projectID, userID string) ([]model.Task, error) {
	var out []model.Task
	err := c.do(ctx, http.MethodGet, "/projects/"+escape(projectID)+"/tasks", nil, &out)
	return out, err
}

func (c *Client) CreateTask(ctx context.Context, t model.Task) (model.Task, error) {
	var out model.Task
	err := c.do(ctx, http.MethodPost, "/tasks", t, &out)
	return out, err
}

func (c *Client) UpdateTask(ctx context.Context, id, userID string, patch model.TaskPatch) (model.Task, error) {
	var out model.Task
	err := c.do(ctx, http.MethodPatch, "/tasks/"+escape(id), patch, &out)
	return out, err
}

func (c *Client) DeleteTask(ctx context.Context, id, userID string) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+escape(id), nil, nil)
}

func (c *Client) ListMilestones(ctx context.Context, projectID, userID string) ([]model.Milestone, error) {
	var out []model.Milestone
	err := c.do(ctx, http.MethodGet, "/projects/"+escape(projectID)+"/milestones", nil, &out)
	return out, err
}

func (c *Client) CreateMilestone(ctx context.Context, m model.Milestone) (model.Milestone, error) {
	var out model.Milestone
	err := c.do(ctx, http.MethodPost, "/milestones", m, &out)
	return out, err
}

func (c *Client) UpdateMilestone(ctx context.Context, id, userID string, patch model.MilestonePatch) (model.Milestone, error) {
	var out model.Milestone
	err := c.do(ctx, http.MethodPatch, "/milestones/"+escape(id), patch, &out)
	return out, err
}

func (c *Client) DeleteMilestone(ctx context.Context, id, userID string) error {
	return c.do(ctx, http.MethodDelete, "/milestones/"+escape(id), nil, nil)
}

func (c *Client) ResetAllUserData(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodPost, "/reset", nil, nil)
}
