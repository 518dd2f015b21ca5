package access

import "fmt"

// APIError is an unexpected response from the access API. It carries the raw
// response body because the platform puts its diagnostic message there.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("access api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("access api error: status %d: %s", e.StatusCode, e.Body)
}
