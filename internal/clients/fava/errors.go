package fava

import "fmt"

// StatusError reports that Fava answered with a non-200 status. Callers
// surface the same status code to their own caller.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Fava returned %d", e.Code)
}

// UnreachableError reports a transport-level failure (timeout, connection
// refused, DNS, bad body). Callers surface it as a 502.
type UnreachableError struct {
	Err error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("failed to reach Fava: %v", e.Err)
}

func (e *UnreachableError) Unwrap() error {
	return e.Err
}
