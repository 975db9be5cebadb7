package api

import (
	"errors"
	"fmt"
)

// RemoteError is a non-2xx response carrying a server message.
type RemoteError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *RemoteError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Details)
	}
	return e.Message
}

// NetworkError means no response was received.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request failed: %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsUnauthorized reports whether err is a 401 or 403 from the server.
func IsUnauthorized(err error) bool {
	var remote *RemoteError
	if !errors.As(err, &remote) {
		return false
	}
	return remote.StatusCode == 401 || remote.StatusCode == 403
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var remote *RemoteError
	return errors.As(err, &remote) && remote.StatusCode == 404
}

// Message extracts the human-readable part of an API failure.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote.Message
	}
	var network *NetworkError
	if errors.As(err, &network) {
		return network.Err.Error()
	}
	return err.Error()
}
