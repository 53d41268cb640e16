package connpass

import "fmt"

// UpstreamError means the search endpoint could not be reached or answered
// with a non-2xx status. StatusCode is 0 for transport failures.
type UpstreamError struct {
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("connpass search request failed: %v", e.Err)
	}
	return fmt.Sprintf("connpass search returned status %d: %v", e.StatusCode, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// MalformedResponseError means a 2xx body was not valid JSON or had an
// unexpected shape, such as events not being an array of objects.
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("connpass search returned a malformed response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }
