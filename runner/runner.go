// Package runner provides the command execution and output-streaming engine.
// This file contains the Runner, which owns one external process invocation
// end-to-end: spawn, stream, classify, and report the terminal outcome.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"
)

// Request describes one command invocation. It is immutable once submitted.
type Request struct {
	// Command is an opaque shell command string, interpreted by "sh -c".
	Command string
	// Label is the human-readable name shown for this invocation.
	Label string
}

// LogLine is a single unit of observable output: trimmed text plus an
// advisory classification tag. It is never mutated after emission.
type LogLine struct {
	// RunID identifies the run this line belongs to, letting observers
	// discard stragglers from a previous run.
	RunID string
	// Kind is the advisory classification tag.
	Kind LineKind
	// Text is the sanitized, trimmed line content.
	Text string
	// Time is when the line was emitted.
	Time time.Time
}

// Outcome is the terminal result of a run. Exactly one Outcome is produced
// per invocation, and it is always the last event observed for that run.
type Outcome struct {
	// Success is true when the process exited with code 0.
	Success bool
	// Reason holds the failure cause when Success is false: "Exit code N",
	// a launch or stream error message, or "cancelled".
	Reason string
}

// Summary renders the human-readable finished message for this outcome.
func (o Outcome) Summary(label string) string {
	if o.Success {
		return fmt.Sprintf("%s completed successfully", label)
	}
	return fmt.Sprintf("%s failed: %s", label, o.Reason)
}

// cancelledReason is reported when the run's context is cancelled.
const cancelledReason = "cancelled"

// Runner executes shell commands with merged output streams.
// The zero value is ready to use.
type Runner struct {
	// Shell is the shell binary used to interpret commands.
	// Empty means "sh".
	Shell string
}

// Run launches the request's command via a shell, streams its combined
// stdout/stderr through the framer, sanitizer, and classifier, and invokes
// onLine for each resulting non-empty line in arrival order.
//
// Run blocks until the process has exited and the stream is drained, so it
// is intended to be called from a background goroutine. All failures are
// contained and converted into the returned Outcome; onLine is never called
// after Run returns.
func (r *Runner) Run(ctx context.Context, req Request, onLine func(LogLine)) Outcome {
	shell := r.Shell
	if shell == "" {
		shell = "sh"
	}
	if onLine == nil {
		onLine = func(LogLine) {}
	}

	cmd := exec.CommandContext(ctx, shell, "-c", req.Command)

	// The shell gets its own process group, and cancellation kills the
	// whole group. Killing only the shell would leave its children (sudo
	// and whatever it runs) holding the pipe's write end, stalling the
	// read loop until they exit on their own.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		if err == syscall.ESRCH {
			return os.ErrProcessDone
		}
		return err
	}

	// Merge stderr into stdout at the pipe level so line ordering reflects
	// emission order as the OS delivers it.
	pr, pw, err := os.Pipe()
	if err != nil {
		return Outcome{Reason: err.Error()}
	}
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pw.Close()
		pr.Close()
		return Outcome{Reason: err.Error()}
	}

	// The child holds its own copy of the write end. Closing ours means the
	// read loop sees EOF as soon as the process (and any children inheriting
	// the descriptor) exits, which keeps cancellation from blocking forever.
	pw.Close()

	framer := &Framer{}
	emit := func(raw string) {
		text := strings.TrimSpace(StripANSI(raw))
		if text == "" {
			return
		}
		onLine(LogLine{
			Kind: Classify(text),
			Text: text,
			Time: time.Now(),
		})
	}

	var streamErr error
	buf := make([]byte, 4096)
	for {
		n, rerr := pr.Read(buf)
		if n > 0 {
			framer.Feed(buf[:n], emit)
		}
		if rerr != nil {
			if rerr != io.EOF {
				streamErr = rerr
			}
			break
		}
	}
	framer.Flush(emit)
	pr.Close()

	waitErr := cmd.Wait()

	// Cancellation wins over whatever secondary failure the kill produced.
	if ctx.Err() != nil {
		return Outcome{Reason: cancelledReason}
	}

	if streamErr != nil {
		return Outcome{Reason: streamErr.Error()}
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return Outcome{Reason: fmt.Sprintf("Exit code %d", exitErr.ExitCode())}
		}
		return Outcome{Reason: waitErr.Error()}
	}

	return Outcome{Success: true}
}
