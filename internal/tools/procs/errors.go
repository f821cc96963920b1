package procs

import "errors"

var (
	// ErrProcessNotFound indicates no process exists with the given PID.
	ErrProcessNotFound = errors.New("process not found")

	// ErrAccessDenied indicates the process exists but cannot be inspected.
	ErrAccessDenied = errors.New("access denied")
)
