package fakturoid

import "fmt"

// AuthError means the token exchange was rejected. It is fatal to the run;
// nothing retries it.
type AuthError struct {
	Status int
	Body   string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fakturoid: authentication failed: %v", e.Err)
	}
	return fmt.Sprintf("fakturoid: authentication failed with status %d: %s", e.Status, e.Body)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// RequestError is any non-2xx response from the API. It carries enough to
// diagnose the failure and propagates unrecovered to the caller.
type RequestError struct {
	Status int
	Body   string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("fakturoid: request failed with status %d: %s", e.Status, e.Body)
}
