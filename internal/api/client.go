// Package api provides the HTTP client for the Study Buddy task service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/studybuddy/studybuddy/internal/models"
)

// DefaultClientTimeout is the default timeout for API requests.
const DefaultClientTimeout = 10 * time.Second

// Client wraps HTTP calls to the Study Buddy API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client with the default timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultClientTimeout,
		},
	}
}

// SetTimeout overrides the request timeout.
func (c *Client) SetTimeout(d time.Duration) {
	c.httpClient.Timeout = d
}

// wireTask is the task record as the service serializes it.
type wireTask struct {
	ID          string `json:"_id"`
	Description string `json:"task"`
	Schedule    string `json:"task_schedule"`
	EndTime     string `json:"task_end_time"`
	Status      string `json:"status"`
}

func (w wireTask) toModel() (models.Task, error) {
	start, err := models.ParseWireTime(w.Schedule)
	if err != nil {
		return models.Task{}, err
	}
	end, err := models.ParseWireTime(w.EndTime)
	if err != nil {
		return models.Task{}, err
	}
	return models.Task{
		ID:          w.ID,
		Description: w.Description,
		StartsAt:    start,
		EndsAt:      end,
		Status:      models.TaskStatus(w.Status),
	}, nil
}

// Register creates a new account. A successful registration does not log the
// user in.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	body := map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}
	_, err := c.do(ctx, http.MethodPost, "/register", "", body)
	return err
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}
	resp, err := c.do(ctx, http.MethodPost, "/login", "", body)
	if err != nil {
		return "", err
	}

	var result struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		return "", fmt.Errorf("parse login response: %w", err)
	}
	if result.AccessToken == "" {
		return "", fmt.Errorf("login response missing access token")
	}
	return result.AccessToken, nil
}

// ListTasks fetches all tasks for the session, in service order.
func (c *Client) ListTasks(ctx context.Context, token string) ([]models.Task, error) {
	resp, err := c.do(ctx, http.MethodGet, "/tasks", token, nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Tasks []wireTask `json:"tasks"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		return nil, fmt.Errorf("parse task list: %w", err)
	}

	tasks := make([]models.Task, 0, len(result.Tasks))
	for _, w := range result.Tasks {
		task, err := w.toModel()
		if err != nil {
			return nil, fmt.Errorf("task %s: %w", w.ID, err)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// AddTask creates a task and returns the persisted record with its
// service-assigned id.
func (c *Client) AddTask(ctx context.Context, token, description string, start, end time.Time, status models.TaskStatus) (models.Task, error) {
	body := map[string]string{
		"task":          description,
		"task_schedule": models.FormatWireTime(start),
		"task_end_time": models.FormatWireTime(end),
		"status":        string(status),
	}
	resp, err := c.do(ctx, http.MethodPost, "/add-task", token, body)
	if err != nil {
		return models.Task{}, err
	}

	var result struct {
		Task wireTask `json:"task"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		return models.Task{}, fmt.Errorf("parse created task: %w", err)
	}
	if result.Task.ID == "" {
		return models.Task{}, fmt.Errorf("created task missing id")
	}
	return result.Task.toModel()
}

// UpdateTaskStatus changes a task's status.
func (c *Client) UpdateTaskStatus(ctx context.Context, token, id string, status models.TaskStatus) error {
	body := map[string]string{"status": string(status)}
	_, err := c.do(ctx, http.MethodPut, "/update-task/"+id, token, body)
	return err
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, token, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/delete-task/"+id, token, nil)
	return err
}

// do performs a JSON request and returns the response body. Responses with
// status >= 400 are decoded into an *Error.
func (c *Client) do(ctx context.Context, method, path, token string, body interface{}) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, newError(resp.StatusCode, respBody)
	}

	return respBody, nil
}
