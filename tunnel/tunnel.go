// Package tunnel provides tunnel lifecycle management.
// This file contains the action catalog and the Manager which dispatches
// actions through the runner and tracks the assumed tunnel state.
package tunnel

import (
	"fmt"
	"os"
	"os/exec"
	"sync"

	"github.com/mohsafer/tunneldeck/common"
	"github.com/mohsafer/tunneldeck/config"
	"github.com/mohsafer/tunneldeck/runner"
)

// Common errors - re-exported from common package for convenience.
var (
	ErrToolNotFound = common.ErrToolNotFound
)

// ActionKind identifies one of the tunnel actions.
type ActionKind int

const (
	// ActionUp brings the tunnel interface up.
	ActionUp ActionKind = iota
	// ActionDown brings the tunnel interface down.
	ActionDown
	// ActionStatus queries the tunnel status.
	ActionStatus
	// ActionMyIP shows the public IP as seen from outside.
	ActionMyIP
)

// String returns a human-readable representation of the action kind.
func (k ActionKind) String() string {
	switch k {
	case ActionUp:
		return "up"
	case ActionDown:
		return "down"
	case ActionStatus:
		return "status"
	case ActionMyIP:
		return "my-ip"
	default:
		return "unknown"
	}
}

// Action is one entry of the tunnel command catalog: a display label and
// the opaque shell command executed for it.
type Action struct {
	Kind    ActionKind
	Label   string
	Command string
}

// Actions builds the action catalog from the configuration. Command
// overrides in the config take precedence over the AmneziaWG defaults.
func Actions(cfg *config.Config) map[ActionKind]Action {
	up := cfg.UpCommand
	if up == "" {
		up = fmt.Sprintf("sudo %s up %s", common.DefaultQuickTool, cfg.Interface)
	}
	down := cfg.DownCommand
	if down == "" {
		down = fmt.Sprintf("sudo %s down %s", common.DefaultQuickTool, cfg.Interface)
	}
	status := cfg.StatusCommand
	if status == "" {
		status = fmt.Sprintf("sudo %s show", common.DefaultShowTool)
	}
	myIP := cfg.MyIPCommand
	if myIP == "" {
		myIP = common.DefaultMyIPCommand
	}

	return map[ActionKind]Action{
		ActionUp:     {Kind: ActionUp, Label: "Tunnel UP", Command: up},
		ActionDown:   {Kind: ActionDown, Label: "Tunnel DOWN", Command: down},
		ActionStatus: {Kind: ActionStatus, Label: "Status", Command: status},
		ActionMyIP:   {Kind: ActionMyIP, Label: "My IP", Command: myIP},
	}
}

// TunnelState is the assumed state of the tunnel interface. It is derived
// from the last successful up/down action, not from the kernel, so it can
// be Unknown at startup or after a failed toggle.
type TunnelState int

const (
	// TunnelUnknown means no up/down action has succeeded yet.
	TunnelUnknown TunnelState = iota
	// TunnelUp means the last successful toggle brought the tunnel up.
	TunnelUp
	// TunnelDown means the last successful toggle brought the tunnel down.
	TunnelDown
)

// String returns a human-readable representation of the tunnel state.
func (s TunnelState) String() string {
	switch s {
	case TunnelUp:
		return "Up"
	case TunnelDown:
		return "Down"
	default:
		return "Unknown"
	}
}

// Manager dispatches tunnel actions through the single-flight controller
// and tracks the assumed tunnel state. It registers itself as the
// controller's observer and relays events to its own observer, updating
// state between the outcome and the relay.
type Manager struct {
	mu         sync.RWMutex
	cfg        *config.Config
	controller *runner.Controller
	actions    map[ActionKind]Action
	state      TunnelState
	observer   runner.Observer

	// flightMu guards the in-flight action record. It is separate from mu
	// because it is held across controller.Start, which synchronously calls
	// OnStarted (an mu reader).
	flightMu  sync.Mutex
	inFlight  ActionKind
	hasFlight bool
}

// NewManager creates a manager for the given configuration. A nil
// controller means a fresh controller over the default shell runner.
func NewManager(cfg *config.Config, ctrl *runner.Controller) *Manager {
	if ctrl == nil {
		ctrl = runner.NewController(nil)
	}
	m := &Manager{
		cfg:        cfg,
		controller: ctrl,
		actions:    Actions(cfg),
	}
	ctrl.SetObserver(m)
	return m
}

// SetObserver registers the observer that receives relayed run events.
func (m *Manager) SetObserver(o runner.Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observer = o
}

// Controller returns the underlying run controller.
func (m *Manager) Controller() *runner.Controller {
	return m.controller
}

// Action returns the catalog entry for the given kind.
func (m *Manager) Action(kind ActionKind) (Action, bool) {
	a, ok := m.actions[kind]
	return a, ok
}

// State returns the assumed tunnel state.
func (m *Manager) State() TunnelState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Busy reports whether a run is currently in flight.
func (m *Manager) Busy() bool {
	return m.controller.State() == runner.StateRunning
}

// Run starts the given action on the controller. Returns ErrBusy when a
// run is already in flight; a rejected Run leaves the in-flight action's
// record untouched.
func (m *Manager) Run(kind ActionKind) error {
	action, ok := m.actions[kind]
	if !ok {
		return fmt.Errorf("unknown action %d", kind)
	}

	// Holding flightMu across Start makes the gate arbitration and the
	// flight record one atomic step: the record is written only for an
	// accepted start, and OnFinished cannot consume it in between.
	m.flightMu.Lock()
	defer m.flightMu.Unlock()

	if err := m.controller.Start(action.Command, action.Label); err != nil {
		return err
	}

	m.inFlight = kind
	m.hasFlight = true
	return nil
}

// Cancel terminates the in-flight run, if any.
func (m *Manager) Cancel() error {
	return m.controller.Cancel()
}

// OnStarted implements runner.Observer.
func (m *Manager) OnStarted(label string) {
	m.mu.RLock()
	obs := m.observer
	m.mu.RUnlock()
	if obs != nil {
		obs.OnStarted(label)
	}
}

// OnLine implements runner.Observer.
func (m *Manager) OnLine(line runner.LogLine) {
	m.mu.RLock()
	obs := m.observer
	m.mu.RUnlock()
	if obs != nil {
		obs.OnLine(line)
	}
}

// OnFinished implements runner.Observer. It consumes the flight record
// and, for a successful up or down action, updates the assumed tunnel
// state before the event is relayed, so observers always see state and
// outcome consistently.
func (m *Manager) OnFinished(outcome runner.Outcome, label string) {
	m.flightMu.Lock()
	kind := m.inFlight
	hadFlight := m.hasFlight
	m.hasFlight = false
	m.flightMu.Unlock()

	m.mu.Lock()
	if hadFlight && outcome.Success {
		switch kind {
		case ActionUp:
			m.state = TunnelUp
		case ActionDown:
			m.state = TunnelDown
		}
	}
	obs := m.observer
	m.mu.Unlock()

	if obs != nil {
		obs.OnFinished(outcome, label)
	}
}

// CheckToolInstalled verifies that the tunnel quick tool is available in
// PATH. A missing tool is reported before any action is attempted so the
// user gets one clear error instead of a shell "command not found" line.
func (m *Manager) CheckToolInstalled() error {
	tool := common.DefaultQuickTool
	if _, err := exec.LookPath(tool); err != nil {
		return fmt.Errorf("%w: %s", ErrToolNotFound, tool)
	}
	return nil
}

// configPath resolves the tunnel configuration file opened by OpenConfig.
func (m *Manager) configPath() string {
	if m.cfg.TunnelConfigPath != "" {
		return m.cfg.TunnelConfigPath
	}
	return fmt.Sprintf("/etc/amnezia/amneziawg/%s.conf", m.cfg.Interface)
}

// OpenPing spawns a terminal window running a live ping against the
// configured target. Fire-and-forget: the window does not go through the
// single-flight gate and its exit status is ignored.
func (m *Manager) OpenPing() error {
	target := m.cfg.PingTarget
	title := fmt.Sprintf("Ping – %s", target)
	return m.spawn(m.cfg.Terminal, "--title", title, "prettyping", "--nolegend", target)
}

// OpenConfig spawns a terminal window editing the tunnel configuration
// file with elevated privileges. Fire-and-forget like OpenPing.
func (m *Manager) OpenConfig() error {
	path := m.configPath()
	title := fmt.Sprintf("%s – Config", m.cfg.Interface)
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "nano"
	}
	return m.spawn(m.cfg.Terminal, "--title", title, "sudo", editor, path)
}

// spawn starts a detached process and reaps it in the background.
func (m *Manager) spawn(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		common.LogWarn("Failed to spawn %s: %v", name, err)
		return common.WrapError(err, "failed to open window")
	}
	common.LogInfo("Spawned %s (pid %d)", name, cmd.Process.Pid)
	go func() { _ = cmd.Wait() }()
	return nil
}
