// Package common provides shared constants, types, and utilities
// used across the TunnelDeck application.
package common

import "errors"

// Sentinel errors for command execution and tunnel operations.
// These can be checked with errors.Is() for proper error handling.
var (
	// Execution errors.
	ErrBusy       = errors.New("a command is already running")
	ErrNotRunning = errors.New("no command is running")
	ErrCancelled  = errors.New("operation cancelled")

	// Environment errors.
	ErrToolNotFound     = errors.New("tunnel tool not found")
	ErrPermissionDenied = errors.New("permission denied")

	// Configuration errors.
	ErrConfigLoad = errors.New("failed to load configuration")
	ErrConfigSave = errors.New("failed to save configuration")
)

// WrapError wraps an error with additional context.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg: message,
		err: err,
	}
}

type wrappedError struct {
	msg string
	err error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.err.Error()
}

func (e *wrappedError) Unwrap() error {
	return e.err
}
