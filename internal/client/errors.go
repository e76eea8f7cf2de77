package client

import "fmt"

// APIError is a non-2xx answer from the auth API; Message is the server's {message}.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// NetworkError wraps a transport failure. It has no status code.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: unable to reach the server: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }
