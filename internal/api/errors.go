package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// StatusError is a non-success backend response. Detail carries the
// human-readable message extracted from the response body when one was
// present, else a generic fallback.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Detail)
}

// IsNotFound reports whether err is a 404 from the backend
func IsNotFound(err error) bool {
	se, ok := err.(*StatusError)
	return ok && se.StatusCode == http.StatusNotFound
}

func newStatusError(statusCode int, body []byte) *StatusError {
	detail := extractDetail(body)
	if detail == "" {
		detail = http.StatusText(statusCode)
		if detail == "" {
			detail = "request failed"
		}
	}
	return &StatusError{StatusCode: statusCode, Detail: detail}
}

// extractDetail pulls a message out of a JSON error body. The backend
// uses {"detail": ...} for HTTP errors and {"error": ...} in a few older
// endpoints.
func extractDetail(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var parsed struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	if s := strings.TrimSpace(parsed.Detail); s != "" {
		return s
	}
	return strings.TrimSpace(parsed.Error)
}
