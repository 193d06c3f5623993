// Package tracker keeps a local task cache in sync with the remote Study
// Buddy service. Every mutation is confirm-then-apply: the cache changes
// only after the service acknowledges, so it always reflects the last
// confirmed server state.
package tracker

import (
	"context"
	"sync"
	"time"

	"github.com/studybuddy/studybuddy/internal/api"
	"github.com/studybuddy/studybuddy/internal/models"
	"github.com/studybuddy/studybuddy/internal/session"
)

// State describes the task cache lifecycle.
type State int

const (
	// StateEmpty means no tasks have been fetched for this session.
	StateEmpty State = iota
	// StateLoading means a fetch is in flight.
	StateLoading
	// StateLoaded means the cache mirrors the last successful fetch.
	StateLoaded
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	}
	return "unknown"
}

// Controller orchestrates task operations: it checks authorization, runs
// validation, calls the API gateway, and applies confirmed results to the
// cache. Failed operations leave the cache untouched.
type Controller struct {
	session *session.Manager
	client  *api.Client

	mu    sync.Mutex
	tasks []models.Task
	state State
}

// NewController creates a controller bound to the session manager. Logout
// resets the cache so a logged-out client never shows stale tasks.
func NewController(sess *session.Manager, client *api.Client) *Controller {
	c := &Controller{
		session: sess,
		client:  client,
	}
	sess.OnLogout(c.Reset)
	return c
}

// Login authenticates and then runs the session's initial fetch. The session
// is kept even when that first fetch fails; the returned error reports the
// fetch failure so the caller can retry with FetchAll.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	if _, err := c.session.Login(ctx, email, password); err != nil {
		return err
	}
	_, err := c.FetchAll(ctx)
	return err
}

// Logout ends the session. The cache reset happens through the session
// manager's logout notification.
func (c *Controller) Logout() error {
	return c.session.Logout()
}

// FetchAll replaces the cache with the service's current task list, in
// service order. On failure the previous cache contents survive untouched.
func (c *Controller) FetchAll(ctx context.Context) ([]models.Task, error) {
	token := c.session.Token()
	if token == "" {
		return nil, ErrUnauthorized
	}

	c.mu.Lock()
	prev := c.state
	c.state = StateLoading
	c.mu.Unlock()

	tasks, err := c.client.ListTasks(ctx, token)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		if c.state == StateLoading {
			c.state = prev
		}
		return nil, err
	}
	c.tasks = tasks
	c.state = StateLoaded
	return snapshot(c.tasks), nil
}

// Add validates the draft's time window and submits it. An invalid window
// short-circuits before any network call. On success the service-assigned
// record is appended to the cache and returned.
func (c *Controller) Add(ctx context.Context, description string, start, end time.Time, status models.TaskStatus) (models.Task, error) {
	token := c.session.Token()
	if token == "" {
		return models.Task{}, ErrUnauthorized
	}
	if err := models.ValidateWindow(start, end); err != nil {
		return models.Task{}, err
	}
	if status == "" {
		status = models.TaskStatusPending
	}

	task, err := c.client.AddTask(ctx, token, description, start, end, status)
	if err != nil {
		return models.Task{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks = append(c.tasks, task)
	c.state = StateLoaded
	return task, nil
}

// UpdateStatus changes a task's status. On success the matching cached
// record is mutated in place; a missing local record is a cache no-op, not
// an error, since the remote change already happened.
func (c *Controller) UpdateStatus(ctx context.Context, id string, status models.TaskStatus) error {
	token := c.session.Token()
	if token == "" {
		return ErrUnauthorized
	}

	if err := c.client.UpdateTaskStatus(ctx, token, id, status); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			c.tasks[i].Status = status
			break
		}
	}
	return nil
}

// Remove deletes a task. On success the matching cached record is dropped;
// a missing local record is a no-op.
func (c *Controller) Remove(ctx context.Context, id string) error {
	token := c.session.Token()
	if token == "" {
		return ErrUnauthorized
	}

	if err := c.client.DeleteTask(ctx, token, id); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
			break
		}
	}
	return nil
}

// Tasks returns a snapshot of the cache.
func (c *Controller) Tasks() []models.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return snapshot(c.tasks)
}

// State returns the cache state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Reset discards all cached tasks and returns the cache to its initial
// state.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks = nil
	c.state = StateEmpty
}

func snapshot(tasks []models.Task) []models.Task {
	out := make([]models.Task, len(tasks))
	copy(out, tasks)
	return out
}
