// Package cli provides command-line interface functionality for TunnelDeck.
// This allows users to toggle the tunnel from the terminal without
// launching the interactive panel or the tray.
package cli

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mohsafer/tunneldeck/runner"
	"github.com/mohsafer/tunneldeck/tunnel"
)

// CLI represents the one-shot command-line interface. It runs a single
// tunnel action and streams its classified output to the writer.
type CLI struct {
	manager *tunnel.Manager
	out     io.Writer
}

// New creates a new CLI instance over the given manager.
func New(manager *tunnel.Manager) *CLI {
	return &CLI{manager: manager, out: os.Stdout}
}

// SetOutput redirects the streamed output, mainly for tests.
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// streamObserver prints lines as they arrive and resolves once the
// outcome lands.
type streamObserver struct {
	mu      sync.Mutex
	out     io.Writer
	outcome runner.Outcome
	done    chan struct{}
}

func (o *streamObserver) OnStarted(label string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.out, "%s...\n", label)
}

func (o *streamObserver) OnLine(line runner.LogLine) {
	o.mu.Lock()
	defer o.mu.Unlock()
	switch line.Kind {
	case runner.KindDirective:
		fmt.Fprintf(o.out, "  %s\n", line.Text)
	case runner.KindError:
		fmt.Fprintf(o.out, "! %s\n", line.Text)
	default:
		fmt.Fprintf(o.out, "  %s\n", line.Text)
	}
}

func (o *streamObserver) OnFinished(outcome runner.Outcome, label string) {
	o.mu.Lock()
	o.outcome = outcome
	if outcome.Success {
		fmt.Fprintf(o.out, "✓ %s\n", outcome.Summary(label))
	} else {
		fmt.Fprintf(o.out, "✗ %s\n", outcome.Summary(label))
	}
	o.mu.Unlock()
	close(o.done)
}

// Run executes one action to completion, streaming output. Returns an
// error when the action fails so main can exit non-zero.
func (c *CLI) Run(kind tunnel.ActionKind) error {
	obs := &streamObserver{out: c.out, done: make(chan struct{})}
	c.manager.SetObserver(obs)

	if err := c.manager.Run(kind); err != nil {
		return err
	}

	<-obs.done

	if !obs.outcome.Success {
		return fmt.Errorf("%s", obs.outcome.Reason)
	}
	return nil
}

// Up brings the tunnel up.
func (c *CLI) Up() error { return c.Run(tunnel.ActionUp) }

// Down brings the tunnel down.
func (c *CLI) Down() error { return c.Run(tunnel.ActionDown) }

// Status queries the tunnel status.
func (c *CLI) Status() error { return c.Run(tunnel.ActionStatus) }

// MyIP prints the public IP.
func (c *CLI) MyIP() error { return c.Run(tunnel.ActionMyIP) }

// Cancel terminates the in-flight action, if any. Wired to SIGINT so a
// ctrl-c during a one-shot run still produces a clean outcome line.
func (c *CLI) Cancel() {
	_ = c.manager.Cancel()
}
