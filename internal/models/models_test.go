package models

import (
	"errors"
	"testing"
	"time"
)

func TestValidateWindow(t *testing.T) {
	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.Local)

	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr bool
	}{
		{"end after start", base, base.Add(time.Hour), false},
		{"end one minute after start", base, base.Add(time.Minute), false},
		{"end before start", base, base.Add(-time.Hour), true},
		{"equal instants", base, base, true},
		{"end next day", base, base.Add(24 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWindow(tt.start, tt.end)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidWindow) {
					t.Errorf("ValidateWindow(%v, %v) = %v, want ErrInvalidWindow", tt.start, tt.end, err)
				}
			} else if err != nil {
				t.Errorf("ValidateWindow(%v, %v) = %v, want nil", tt.start, tt.end, err)
			}
		})
	}
}

func TestParseWireTime(t *testing.T) {
	got, err := ParseWireTime("2025-01-01T09:00")
	if err != nil {
		t.Fatalf("ParseWireTime failed: %v", err)
	}
	want := time.Date(2025, 1, 1, 9, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	// Seconds variant the backend stores after round-tripping.
	got, err = ParseWireTime("2025-01-01T09:00:30")
	if err != nil {
		t.Fatalf("ParseWireTime with seconds failed: %v", err)
	}
	if got.Second() != 30 {
		t.Errorf("Expected 30 seconds, got %d", got.Second())
	}

	if _, err := ParseWireTime("not-a-datetime"); err == nil {
		t.Error("Expected error for malformed datetime")
	}
}

func TestFormatWireTime(t *testing.T) {
	in := time.Date(2025, 3, 15, 14, 30, 0, 0, time.Local)
	if got := FormatWireTime(in); got != "2025-03-15T14:30" {
		t.Errorf("Expected 2025-03-15T14:30, got %s", got)
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []TaskStatus{TaskStatusPending, TaskStatusIncomplete, TaskStatusCompleted} {
		if !ValidStatus(s) {
			t.Errorf("Expected %s to be valid", s)
		}
	}
	if ValidStatus("running") {
		t.Error("Expected 'running' to be invalid")
	}
	if ValidStatus("") {
		t.Error("Expected empty status to be invalid")
	}
}
