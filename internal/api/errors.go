package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Error is a rejection from the task service. Detail carries the
// server-supplied reason when the response body had one.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Detail)
}

// newError decodes the service's {"detail": ...} error envelope, falling back
// to the raw body or a generic message.
func newError(statusCode int, body []byte) *Error {
	var envelope struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Detail != "" {
		return &Error{StatusCode: statusCode, Detail: envelope.Detail}
	}
	detail := strings.TrimSpace(string(body))
	if detail == "" {
		detail = "request failed"
	}
	return &Error{StatusCode: statusCode, Detail: detail}
}
