package canvas

import "fmt"

// AuthError means the Canvas credential was rejected (401/403). It is
// fatal for a whole tool invocation: fan-out aggregations must abort on
// it rather than treat it as a per-course failure.
type AuthError struct {
	Endpoint string
	Status   int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("canvas token rejected (HTTP %d) on %s: token invalid or expired", e.Status, e.Endpoint)
}

// UpstreamError means a specific Canvas call failed: non-2xx status,
// transport failure, or an undecodable body. Fan-out aggregations may
// tolerate it by omitting the affected course.
type UpstreamError struct {
	Endpoint string
	Status   int
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("canvas request %s failed with HTTP %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("canvas request %s failed: %v", e.Endpoint, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
