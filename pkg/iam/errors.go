// pkg/iam/errors.go

package iam

import (
	"fmt"

	cerr "github.com/cockroachdb/errors"
)

var (
	// ErrFatal marks errors that must stop a run (authentication failures).
	ErrFatal = cerr.New("fatal IAM error")

	// ErrAlreadyExists is returned when the server reports a conflicting entity.
	ErrAlreadyExists = cerr.New("already exists")

	// ErrMissingUserID is returned by SetUserPassword when no user id was given.
	ErrMissingUserID = cerr.New("user id is required")
)

// Fatal marks err as fatal.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return cerr.Mark(err, ErrFatal)
}

// Fatalf creates a new fatal error.
func Fatalf(format string, args ...any) error {
	return cerr.Mark(cerr.Newf(format, args...), ErrFatal)
}

// IsFatal reports whether err carries the fatal mark.
func IsFatal(err error) bool {
	return cerr.Is(err, ErrFatal)
}

// StatusError is an unexpected HTTP status from the IAM server.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: HTTP %d", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.Code, e.Body)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if cerr.As(err, &se) {
		return se.Code
	}
	return 0
}
