package comick

import (
	"errors"
	"fmt"
)

// ErrDuplicateChapter is returned by AddChapter when the remote already has
// the chapter. Callers treat it as success (skip), never as a failure.
var ErrDuplicateChapter = errors.New("chapter already exists")

// APIError is a non-2xx response from the comick API.
type APIError struct {
	StatusCode int
	Status     string
	Message    string // structured message from the response body, if any
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("%d %s", e.StatusCode, e.Status)
}

// retryableStatuses are the overload/timeout-class server errors worth
// retrying. 524 is the CDN's origin-timeout status.
var retryableStatuses = map[int]bool{
	500: true,
	502: true,
	503: true,
	504: true,
	524: true,
}

// IsTransient classifies an upload error. API errors are transient only for
// the retryable status set; anything that is not an APIError is assumed to
// be a transport-level failure and retried. Duplicate chapters are never
// retried: the chapter is already there.
func IsTransient(err error) bool {
	if errors.Is(err, ErrDuplicateChapter) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return retryableStatuses[apiErr.StatusCode]
	}
	return true
}
