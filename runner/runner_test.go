package runner

import (
	"context"
	"strings"
	"testing"
	"time"
)

// collect runs the command and gathers all emitted lines plus the outcome.
func collect(t *testing.T, command string) ([]LogLine, Outcome) {
	t.Helper()

	var lines []LogLine
	r := &Runner{}
	outcome := r.Run(context.Background(), Request{Command: command, Label: "test"}, func(line LogLine) {
		lines = append(lines, line)
	})
	return lines, outcome
}

func TestRunner_SuccessWithLines(t *testing.T) {
	lines, outcome := collect(t, `printf 'a\nb\n'`)

	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %v", len(lines), lines)
	}
	if lines[0].Text != "a" || lines[1].Text != "b" {
		t.Errorf("lines = [%q %q], want [a b]", lines[0].Text, lines[1].Text)
	}
	if !outcome.Success {
		t.Errorf("outcome = %+v, want success", outcome)
	}
}

func TestRunner_NonZeroExit(t *testing.T) {
	lines, outcome := collect(t, "false")

	if len(lines) != 0 {
		t.Errorf("got %d lines, want 0: %v", len(lines), lines)
	}
	if outcome.Success {
		t.Error("outcome should be a failure")
	}
	if outcome.Reason != "Exit code 1" {
		t.Errorf("Reason = %q, want \"Exit code 1\"", outcome.Reason)
	}
}

func TestRunner_ExitCodePropagated(t *testing.T) {
	_, outcome := collect(t, "exit 3")

	if outcome.Reason != "Exit code 3" {
		t.Errorf("Reason = %q, want \"Exit code 3\"", outcome.Reason)
	}
}

func TestRunner_StderrMerged(t *testing.T) {
	lines, outcome := collect(t, `echo out; echo err 1>&2`)

	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %v", len(lines), lines)
	}
	texts := []string{lines[0].Text, lines[1].Text}
	if !(texts[0] == "out" && texts[1] == "err") && !(texts[0] == "err" && texts[1] == "out") {
		t.Errorf("lines = %v, want out and err in some order", texts)
	}
	if !outcome.Success {
		t.Errorf("outcome = %+v, want success", outcome)
	}
}

func TestRunner_MissingBinary(t *testing.T) {
	r := &Runner{Shell: "/nonexistent/shell-binary"}

	var lines []LogLine
	outcome := r.Run(context.Background(), Request{Command: "true", Label: "test"}, func(line LogLine) {
		lines = append(lines, line)
	})

	if len(lines) != 0 {
		t.Errorf("launch failure must emit zero lines, got %v", lines)
	}
	if outcome.Success {
		t.Error("outcome should be a failure")
	}
	if outcome.Reason == "" {
		t.Error("failure reason should carry the launch error message")
	}
}

func TestRunner_TrailingLineFlushed(t *testing.T) {
	lines, outcome := collect(t, `printf 'no newline at end'`)

	if len(lines) != 1 || lines[0].Text != "no newline at end" {
		t.Errorf("lines = %v, want the unterminated trailing line", lines)
	}
	if !outcome.Success {
		t.Errorf("outcome = %+v, want success", outcome)
	}
}

func TestRunner_SanitizesAndClassifies(t *testing.T) {
	lines, _ := collect(t, `printf '\033[32m[#] ip link add awg0\033[0m\nConnection failed: timeout\nHandshake complete\n'`)

	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %v", len(lines), lines)
	}

	if lines[0].Text != "[#] ip link add awg0" || lines[0].Kind != KindDirective {
		t.Errorf("line 0 = %+v, want sanitized directive", lines[0])
	}
	if lines[1].Kind != KindError {
		t.Errorf("line 1 kind = %v, want error", lines[1].Kind)
	}
	if lines[2].Kind != KindPlain {
		t.Errorf("line 2 kind = %v, want plain", lines[2].Kind)
	}
}

func TestRunner_BlankLinesDropped(t *testing.T) {
	lines, _ := collect(t, `printf 'a\n\n   \n\033[0m\nb\n'`)

	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %v", len(lines), lines)
	}
	if lines[0].Text != "a" || lines[1].Text != "b" {
		t.Errorf("lines = %v, want [a b]", lines)
	}
}

func TestRunner_OutcomeIsLast(t *testing.T) {
	var events []string
	r := &Runner{}

	outcome := r.Run(context.Background(), Request{Command: `printf '1\n2\n'`, Label: "test"}, func(line LogLine) {
		events = append(events, "line:"+line.Text)
	})
	events = append(events, "outcome")

	// No line callback may fire after Run returns; the outcome is the
	// final event by construction. Verify the recorded order.
	want := "line:1,line:2,outcome"
	if got := strings.Join(events, ","); got != want {
		t.Errorf("event order = %q, want %q", got, want)
	}
	if !outcome.Success {
		t.Errorf("outcome = %+v, want success", outcome)
	}
}

func TestRunner_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan Outcome, 1)
	r := &Runner{}
	go func() {
		done <- r.Run(ctx, Request{Command: "exec sleep 30", Label: "test"}, nil)
	}()

	// Give the process a moment to start, then cancel.
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case outcome := <-done:
		if outcome.Success {
			t.Error("cancelled run should fail")
		}
		if outcome.Reason != "cancelled" {
			t.Errorf("Reason = %q, want \"cancelled\"", outcome.Reason)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("cancelled run did not terminate; reader is likely blocked")
	}
}

func TestRunner_CancellationReachesShellChildren(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	// "sleep 30; true" forces the shell to fork sleep as a child instead
	// of exec-ing into it, mirroring sudo-prefixed commands. The child
	// inherits the pipe's write end, so the run only terminates promptly
	// if cancellation kills the whole process group.
	done := make(chan Outcome, 1)
	r := &Runner{}
	go func() {
		done <- r.Run(ctx, Request{Command: "sleep 30; true", Label: "test"}, nil)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case outcome := <-done:
		if outcome.Success {
			t.Error("cancelled run should fail")
		}
		if outcome.Reason != "cancelled" {
			t.Errorf("Reason = %q, want \"cancelled\"", outcome.Reason)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("cancelled run did not terminate; a shell child is likely holding the pipe open")
	}
}

func TestOutcome_Summary(t *testing.T) {
	tests := []struct {
		name    string
		outcome Outcome
		label   string
		want    string
	}{
		{"success", Outcome{Success: true}, "Tunnel UP", "Tunnel UP completed successfully"},
		{"exit code", Outcome{Reason: "Exit code 1"}, "Tunnel DOWN", "Tunnel DOWN failed: Exit code 1"},
		{"cancelled", Outcome{Reason: "cancelled"}, "Status", "Status failed: cancelled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.outcome.Summary(tt.label); got != tt.want {
				t.Errorf("Summary() = %q, want %q", got, tt.want)
			}
		})
	}
}
