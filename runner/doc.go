// Package runner provides the command execution and output-streaming engine
// for TunnelDeck.
//
// This package implements the core functionality:
//
//   - Framer: converts an incrementally-arriving byte stream into raw lines
//   - Sanitizer: strips ANSI/VT100 escape sequences from lines
//   - Classifier: tags lines as directive, error, or plain output
//   - Runner: owns one external process invocation end-to-end
//   - Controller: single-flight gate coordinating runs and observer fan-out
//
// # Execution Flow
//
// A typical run:
//
//  1. Caller invokes Controller.Start() with a shell command and a label
//  2. Controller rejects the call with ErrBusy if a run is in flight
//  3. Observer receives OnStarted synchronously, then the Runner launches
//     the command on a background goroutine with merged stdout/stderr
//  4. Each completed, sanitized, non-empty output line is classified and
//     forwarded to the observer in arrival order
//  5. Exactly one OnFinished carries the terminal Outcome, after which the
//     Controller returns to idle
//
// # Guarantees
//
// Every Start produces exactly one Outcome, and the Outcome is always the
// last event observed for that run. All failures inside the background
// execution (launch errors, non-zero exits, stream errors, cancellation)
// are contained and converted to a failure Outcome; nothing escapes as a
// panic or an unhandled error.
//
// # Thread Safety
//
// The Controller is safe for concurrent use. The only shared mutable state
// is the Idle/Running flag and the observer registration, both guarded by
// an internal mutex and mutated only by the Controller itself.
package runner
