// Package runner provides the command execution and output-streaming engine.
// This file contains the Controller, the single-flight gate that coordinates
// runs and fans events out to the registered observer.
package runner

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/mohsafer/tunneldeck/common"
)

// Common errors - re-exported from common package for convenience.
var (
	ErrBusy       = common.ErrBusy
	ErrNotRunning = common.ErrNotRunning
)

// State is the controller's execution state.
type State int

const (
	// StateIdle means no run is in flight.
	StateIdle State = iota
	// StateRunning means exactly one run is in flight.
	StateRunning
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateRunning:
		return "Running"
	default:
		return "Unknown"
	}
}

// Observer receives run events. OnStarted is delivered synchronously from
// Start; OnLine and OnFinished are delivered from the run's background
// goroutine, in order. Callbacks must be fast or hand off asynchronously.
type Observer interface {
	// OnStarted signals that a run has begun. UIs typically disable their
	// triggers here.
	OnStarted(label string)
	// OnLine delivers one classified output line.
	OnLine(line LogLine)
	// OnFinished delivers the terminal outcome, exactly once per Start.
	OnFinished(outcome Outcome, label string)
}

// Controller coordinates at most one concurrent run.
//
// State machine: Idle --Start()--> Running --(outcome delivered)--> Idle.
// A Start while Running fails with ErrBusy and performs no action.
type Controller struct {
	mu       sync.Mutex
	state    State
	observer Observer
	runner   *Runner
	cancel   context.CancelFunc
	runID    string
}

// NewController creates a controller driving the given runner.
// A nil runner means a default shell runner.
func NewController(r *Runner) *Controller {
	if r == nil {
		r = &Runner{}
	}
	return &Controller{runner: r}
}

// SetObserver registers the observer receiving run events. It should be set
// before the first Start; replacing it mid-run only affects later runs.
func (c *Controller) SetObserver(o Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observer = o
}

// State returns the current execution state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// RunID returns the identifier of the current or most recent run.
func (c *Controller) RunID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runID
}

// Start launches a new run for the given shell command.
//
// If a run is already in flight it returns ErrBusy and leaves the in-flight
// run unaffected. Otherwise it transitions to Running, synchronously
// signals OnStarted, and executes the command on a background goroutine.
func (c *Controller) Start(command, label string) error {
	c.mu.Lock()
	if c.state == StateRunning {
		c.mu.Unlock()
		return ErrBusy
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.state = StateRunning
	c.cancel = cancel
	c.runID = uuid.NewString()
	runID := c.runID
	obs := c.observer
	c.mu.Unlock()

	common.LogInfo("Run %s: %s (%q)", shortID(runID), label, command)

	if obs != nil {
		obs.OnStarted(label)
	}

	go c.run(ctx, cancel, runID, command, label, obs)

	return nil
}

// Cancel terminates the in-flight run, if any. The run still produces
// exactly one terminal outcome, with reason "cancelled". Returns
// ErrNotRunning when idle.
func (c *Controller) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateRunning || c.cancel == nil {
		return ErrNotRunning
	}
	common.LogInfo("Run %s: cancel requested", shortID(c.runID))
	c.cancel()
	return nil
}

// run executes one invocation on the background goroutine and delivers its
// events. Lines and the outcome are totally ordered because this goroutine
// is the only producer for the run.
func (c *Controller) run(ctx context.Context, cancel context.CancelFunc, runID, command, label string, obs Observer) {
	defer cancel()

	outcome := c.runner.Run(ctx, Request{Command: command, Label: label}, func(line LogLine) {
		line.RunID = runID
		if obs != nil {
			obs.OnLine(line)
		}
	})

	if outcome.Success {
		common.LogInfo("Run %s: %s", shortID(runID), outcome.Summary(label))
	} else {
		common.LogWarn("Run %s: %s", shortID(runID), outcome.Summary(label))
	}

	// Deliver the outcome before reopening the gate so the finished event
	// is the last event of this run seen by the observer.
	if obs != nil {
		obs.OnFinished(outcome, label)
	}

	c.mu.Lock()
	c.state = StateIdle
	c.cancel = nil
	c.mu.Unlock()
}

// shortID truncates a run ID for log readability.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
