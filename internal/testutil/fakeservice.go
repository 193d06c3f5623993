// Package testutil provides an in-memory fake of the Study Buddy task
// service for testing.
package testutil

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Failure describes an injected error response for one endpoint.
type Failure struct {
	Status int
	Detail string
}

// WireTask is a task record in the service's wire shape.
type WireTask struct {
	ID          string `json:"_id"`
	Description string `json:"task"`
	Schedule    string `json:"task_schedule"`
	EndTime     string `json:"task_end_time"`
	Status      string `json:"status"`
}

// FakeService is an in-memory implementation of the task service API. It
// speaks the same wire protocol as the real backend: JSON bodies, bearer
// tokens, and {"detail": ...} error envelopes.
type FakeService struct {
	mu     sync.Mutex
	users  map[string]string // email -> password
	tokens map[string]string // token -> email
	tasks  []taskRecord

	// NextIDs are handed out as task ids before falling back to random
	// uuids, so tests can pin ids.
	NextIDs []string

	// Error injection per endpoint
	RegisterFailure *Failure
	LoginFailure    *Failure
	ListFailure     *Failure
	AddFailure      *Failure
	UpdateFailure   *Failure
	DeleteFailure   *Failure

	// Calls counts requests per endpoint path.
	Calls map[string]int
}

type taskRecord struct {
	WireTask
	ownerEmail string
}

// NewFakeService creates an empty fake service.
func NewFakeService() *FakeService {
	return &FakeService{
		users:  make(map[string]string),
		tokens: make(map[string]string),
		Calls:  make(map[string]int),
	}
}

// AddUser registers an account directly, bypassing the HTTP endpoint.
func (f *FakeService) AddUser(email, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[email] = password
}

// IssueToken mints a valid session token for email, bypassing login.
func (f *FakeService) IssueToken(email string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	token := "tok-" + uuid.NewString()
	f.tokens[token] = email
	return token
}

// SeedTask inserts a task owned by email and returns its id.
func (f *FakeService) SeedTask(email, id, description, schedule, endTime, status string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id == "" {
		id = uuid.NewString()
	}
	f.tasks = append(f.tasks, taskRecord{
		WireTask: WireTask{
			ID:          id,
			Description: description,
			Schedule:    schedule,
			EndTime:     endTime,
			Status:      status,
		},
		ownerEmail: email,
	})
	return id
}

// TaskByID returns the stored record and whether it exists.
func (f *FakeService) TaskByID(id string) (WireTask, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.tasks {
		if rec.ID == id {
			return rec.WireTask, true
		}
	}
	return WireTask{}, false
}

// TaskCount returns the number of stored tasks.
func (f *FakeService) TaskCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tasks)
}

// ServeHTTP implements http.Handler.
func (f *FakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.Calls[r.URL.Path]++
	f.mu.Unlock()

	switch {
	case r.URL.Path == "/register" && r.Method == http.MethodPost:
		f.handleRegister(w, r)
	case r.URL.Path == "/login" && r.Method == http.MethodPost:
		f.handleLogin(w, r)
	case r.URL.Path == "/tasks" && r.Method == http.MethodGet:
		f.handleListTasks(w, r)
	case r.URL.Path == "/add-task" && r.Method == http.MethodPost:
		f.handleAddTask(w, r)
	case strings.HasPrefix(r.URL.Path, "/update-task/") && r.Method == http.MethodPut:
		f.handleUpdateTask(w, r, strings.TrimPrefix(r.URL.Path, "/update-task/"))
	case strings.HasPrefix(r.URL.Path, "/delete-task/") && r.Method == http.MethodDelete:
		f.handleDeleteTask(w, r, strings.TrimPrefix(r.URL.Path, "/delete-task/"))
	default:
		writeDetail(w, http.StatusNotFound, "Not Found")
	}
}

func (f *FakeService) handleRegister(w http.ResponseWriter, r *http.Request) {
	if f.RegisterFailure != nil {
		writeDetail(w, f.RegisterFailure.Status, f.RegisterFailure.Detail)
		return
	}

	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[body.Email]; exists {
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}
	f.users[body.Email] = body.Password
	writeJSON(w, http.StatusOK, map[string]string{"message": "User registered successfully!"})
}

func (f *FakeService) handleLogin(w http.ResponseWriter, r *http.Request) {
	if f.LoginFailure != nil {
		writeDetail(w, f.LoginFailure.Status, f.LoginFailure.Detail)
		return
	}

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	password, ok := f.users[body.Email]
	if !ok || password != body.Password {
		writeDetail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token := "tok-" + uuid.NewString()
	f.tokens[token] = body.Email
	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

func (f *FakeService) handleListTasks(w http.ResponseWriter, r *http.Request) {
	email, ok := f.authorize(w, r)
	if !ok {
		return
	}
	if f.ListFailure != nil {
		writeDetail(w, f.ListFailure.Status, f.ListFailure.Detail)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	tasks := make([]WireTask, 0)
	for _, rec := range f.tasks {
		if rec.ownerEmail == email {
			tasks = append(tasks, rec.WireTask)
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tasks": tasks})
}

func (f *FakeService) handleAddTask(w http.ResponseWriter, r *http.Request) {
	email, ok := f.authorize(w, r)
	if !ok {
		return
	}
	if f.AddFailure != nil {
		writeDetail(w, f.AddFailure.Status, f.AddFailure.Detail)
		return
	}

	var body struct {
		Description string `json:"task"`
		Schedule    string `json:"task_schedule"`
		EndTime     string `json:"task_end_time"`
		Status      string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.Description == "" || body.Schedule == "" || body.EndTime == "" || body.Status == "" {
		writeDetail(w, http.StatusBadRequest, "Missing task fields")
		return
	}

	start, err := parseWire(body.Schedule)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid datetime")
		return
	}
	end, err := parseWire(body.EndTime)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid datetime")
		return
	}
	if !end.After(start) {
		writeDetail(w, http.StatusBadRequest, "End time must be after start time")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	id := ""
	if len(f.NextIDs) > 0 {
		id, f.NextIDs = f.NextIDs[0], f.NextIDs[1:]
	} else {
		id = uuid.NewString()
	}
	task := WireTask{
		ID:          id,
		Description: body.Description,
		Schedule:    body.Schedule,
		EndTime:     body.EndTime,
		Status:      body.Status,
	}
	f.tasks = append(f.tasks, taskRecord{WireTask: task, ownerEmail: email})
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Task added successfully",
		"task":    task,
	})
}

func (f *FakeService) handleUpdateTask(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := f.authorize(w, r); !ok {
		return
	}
	if f.UpdateFailure != nil {
		writeDetail(w, f.UpdateFailure.Status, f.UpdateFailure.Detail)
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Status == "" {
		writeDetail(w, http.StatusBadRequest, "Missing status field")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].Status = body.Status
			writeJSON(w, http.StatusOK, map[string]string{"message": "Task updated successfully"})
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "Task not found")
}

func (f *FakeService) handleDeleteTask(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := f.authorize(w, r); !ok {
		return
	}
	if f.DeleteFailure != nil {
		writeDetail(w, f.DeleteFailure.Status, f.DeleteFailure.Detail)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully"})
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "Task not found")
}

// authorize validates the bearer token and returns the owning email. It
// writes the 401 response itself when the token is missing or unknown.
func (f *FakeService) authorize(w http.ResponseWriter, r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		writeDetail(w, http.StatusUnauthorized, "Missing authentication token")
		return "", false
	}
	token := strings.TrimPrefix(header, "Bearer ")

	f.mu.Lock()
	defer f.mu.Unlock()
	email, ok := f.tokens[token]
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Invalid token")
		return "", false
	}
	return email, true
}

func parseWire(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02T15:04", s, time.Local)
	if err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05", s, time.Local)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
