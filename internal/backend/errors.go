package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

// APIError is a failed backend call. Status is 0 when no response arrived.
type APIError struct {
	Status int
	Detail string
	Path   string
	Err    error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("backend %s: network error: %v", e.Path, e.Err)
	}
	if e.Detail != "" {
		return fmt.Sprintf("backend %s: status %d: %s", e.Path, e.Status, e.Detail)
	}
	return fmt.Sprintf("backend %s: status %d", e.Path, e.Status)
}

func (e *APIError) Unwrap() error { return e.Err }

// StatusCode returns the backend HTTP status, or 0 on network failure.
func (e *APIError) StatusCode() int { return e.Status }

// DetailText returns the backend-provided detail, if any.
func (e *APIError) DetailText() string { return e.Detail }

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

// StatusOf returns the backend status carried by err, or -1 when err is not
// an *APIError.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return -1
}

// parseDetail extracts a message from FastAPI style error bodies:
// {"detail": "..."}, {"detail": [{"msg": "..."}]} or {"detail": {...}}.
func parseDetail(raw []byte) string {
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return ""
	}
	var body struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		if strings.HasPrefix(text, "<") {
			return ""
		}
		return truncate(text, 300)
	}
	if len(body.Detail) > 0 {
		var s string
		if err := json.Unmarshal(body.Detail, &s); err == nil {
			return s
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(body.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				if it.Msg != "" {
					msgs = append(msgs, it.Msg)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
		var obj map[string]any
		if err := json.Unmarshal(body.Detail, &obj); err == nil {
			if msg, ok := obj["message"].(string); ok && msg != "" {
				return msg
			}
		}
		return truncate(string(body.Detail), 300)
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}

// truncate caps s at n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
