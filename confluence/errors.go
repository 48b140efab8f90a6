package confluence

import (
	"fmt"
	"strings"
)

// APIError is returned for any non-success response from the REST API.
type APIError struct {
	Op         string
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s: %s %s returned status %d", e.Op, e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s %s returned status %d: %s", e.Op, e.Method, e.URL, e.StatusCode, body)
}
