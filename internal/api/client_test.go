package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/studybuddy/studybuddy/internal/models"
	"github.com/studybuddy/studybuddy/internal/testutil"
)

func newTestClient(t *testing.T) (*Client, *testutil.FakeService) {
	t.Helper()
	fake := testutil.NewFakeService()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL), fake
}

func TestRegister(t *testing.T) {
	client, _ := newTestClient(t)

	err := client.Register(context.Background(), "alice", "alice@example.com", "secret")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Duplicate email is rejected with the server detail
	err = client.Register(context.Background(), "alice", "alice@example.com", "secret")
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *Error, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", apiErr.StatusCode)
	}
	if apiErr.Detail != "Email already registered" {
		t.Errorf("Expected server detail, got %q", apiErr.Detail)
	}
}

func TestLogin(t *testing.T) {
	client, fake := newTestClient(t)
	fake.AddUser("alice@example.com", "secret")

	token, err := client.Login(context.Background(), "alice@example.com", "secret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if token == "" {
		t.Error("Expected non-empty token")
	}
}

func TestLoginBadCredentials(t *testing.T) {
	client, fake := newTestClient(t)
	fake.AddUser("alice@example.com", "secret")

	_, err := client.Login(context.Background(), "alice@example.com", "wrong")
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *Error, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", apiErr.StatusCode)
	}
	if apiErr.Detail != "Invalid credentials" {
		t.Errorf("Expected 'Invalid credentials', got %q", apiErr.Detail)
	}
}

func TestListTasks(t *testing.T) {
	client, fake := newTestClient(t)
	fake.AddUser("alice@example.com", "secret")
	token := fake.IssueToken("alice@example.com")
	fake.SeedTask("alice@example.com", "t1", "Study", "2025-01-01T09:00", "2025-01-01T10:00", "pending")
	fake.SeedTask("bob@example.com", "t2", "Other", "2025-01-01T09:00", "2025-01-01T10:00", "pending")

	tasks, err := client.ListTasks(context.Background(), token)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("Expected 1 task, got %d", len(tasks))
	}
	got := tasks[0]
	if got.ID != "t1" || got.Description != "Study" || got.Status != models.TaskStatusPending {
		t.Errorf("Unexpected task: %+v", got)
	}
	wantStart := time.Date(2025, 1, 1, 9, 0, 0, 0, time.Local)
	if !got.StartsAt.Equal(wantStart) {
		t.Errorf("Expected start %v, got %v", wantStart, got.StartsAt)
	}
}

func TestListTasksWithoutToken(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.ListTasks(context.Background(), "bogus")
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *Error, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", apiErr.StatusCode)
	}
}

func TestAddTask(t *testing.T) {
	client, fake := newTestClient(t)
	token := fake.IssueToken("alice@example.com")
	fake.NextIDs = []string{"t1"}

	start := time.Date(2025, 1, 1, 9, 0, 0, 0, time.Local)
	end := start.Add(time.Hour)
	task, err := client.AddTask(context.Background(), token, "Study", start, end, models.TaskStatusPending)
	if err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	if task.ID != "t1" {
		t.Errorf("Expected id t1, got %s", task.ID)
	}
	if task.Description != "Study" {
		t.Errorf("Expected description Study, got %s", task.Description)
	}
	if !task.EndsAt.Equal(end) {
		t.Errorf("Expected end %v, got %v", end, task.EndsAt)
	}
}

func TestUpdateAndDeleteTask(t *testing.T) {
	client, fake := newTestClient(t)
	token := fake.IssueToken("alice@example.com")
	fake.SeedTask("alice@example.com", "t1", "Study", "2025-01-01T09:00", "2025-01-01T10:00", "pending")

	if err := client.UpdateTaskStatus(context.Background(), token, "t1", models.TaskStatusCompleted); err != nil {
		t.Fatalf("UpdateTaskStatus failed: %v", err)
	}
	rec, ok := fake.TaskByID("t1")
	if !ok || rec.Status != "completed" {
		t.Errorf("Expected completed, got %+v", rec)
	}

	if err := client.DeleteTask(context.Background(), token, "t1"); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	if _, ok := fake.TaskByID("t1"); ok {
		t.Error("Expected t1 to be deleted")
	}

	// Deleting a missing task surfaces the server's 404
	err := client.DeleteTask(context.Background(), token, "t1")
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 *Error, got %v", err)
	}
}

func TestErrorFallbackDetail(t *testing.T) {
	// Server that fails without the {"detail"} envelope.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.ListTasks(context.Background(), "tok")
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *Error, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadGateway {
		t.Errorf("Expected status 502, got %d", apiErr.StatusCode)
	}
	if apiErr.Detail != "gateway exploded" {
		t.Errorf("Expected raw body detail, got %q", apiErr.Detail)
	}
}

func TestTransportError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	client.SetTimeout(500 * time.Millisecond)

	_, err := client.ListTasks(context.Background(), "tok")
	if err == nil {
		t.Fatal("Expected transport error")
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		t.Errorf("Transport failures should not be *Error, got %v", apiErr)
	}
}
