// Package models defines the core domain types for the Study Buddy client.
package models

import (
	"errors"
	"fmt"
	"time"
)

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusIncomplete TaskStatus = "incomplete"
	TaskStatusCompleted  TaskStatus = "completed"
)

// ValidStatus reports whether s is one of the statuses the service accepts.
func ValidStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusPending, TaskStatusIncomplete, TaskStatusCompleted:
		return true
	}
	return false
}

// Task represents a scheduled unit of work owned by the current session.
// ID is assigned by the remote service; a draft has an empty ID and never
// enters the cache.
type Task struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      time.Time  `json:"ends_at"`
	Status      TaskStatus `json:"status"`
}

// ErrInvalidWindow is returned when a task's end instant does not strictly
// follow its start instant.
var ErrInvalidWindow = errors.New("end time must be after start time")

// ValidateWindow checks a candidate task's time window. Equal instants are
// rejected: the end must be strictly after the start.
func ValidateWindow(start, end time.Time) error {
	if !end.After(start) {
		return ErrInvalidWindow
	}
	return nil
}

// WireTimeLayout is the combined date-time format the service exchanges:
// local wall-clock values with a literal 'T' separator and no zone.
const WireTimeLayout = "2006-01-02T15:04"

// wireTimeLayoutSeconds covers records stored with a seconds component.
const wireTimeLayoutSeconds = "2006-01-02T15:04:05"

// ParseWireTime parses a service datetime string into a local wall-clock
// instant.
func ParseWireTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(WireTimeLayout, s, time.Local)
	if err == nil {
		return t, nil
	}
	t, err = time.ParseInLocation(wireTimeLayoutSeconds, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse datetime %q: %w", s, err)
	}
	return t, nil
}

// FormatWireTime renders an instant in the service's datetime format.
func FormatWireTime(t time.Time) string {
	return t.Format(WireTimeLayout)
}
