package backend

import "fmt"

// FetchError covers transport failures, timeouts and non-2xx responses
// that have no more specific mapping. Conflict (409) responses land here
// too; the caller retries manually.
type FetchError struct {
	Op     string
	Status int // zero when the request never got a response
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: upstream returned status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// NotFoundError marks a 404 on a specific resource so the UI can drop the
// stale row instead of retrying.
type NotFoundError struct {
	Op       string
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s not found", e.Op, e.Resource)
}
