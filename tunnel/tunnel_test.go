package tunnel

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mohsafer/tunneldeck/config"
	"github.com/mohsafer/tunneldeck/runner"
)

func TestActionKind_String(t *testing.T) {
	tests := []struct {
		kind     ActionKind
		expected string
	}{
		{ActionUp, "up"},
		{ActionDown, "down"},
		{ActionStatus, "status"},
		{ActionMyIP, "my-ip"},
		{ActionKind(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.expected {
				t.Errorf("ActionKind.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTunnelState_String(t *testing.T) {
	tests := []struct {
		state    TunnelState
		expected string
	}{
		{TunnelUp, "Up"},
		{TunnelDown, "Down"},
		{TunnelUnknown, "Unknown"},
		{TunnelState(99), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.state.String(); got != tt.expected {
				t.Errorf("TunnelState.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestActions_Defaults(t *testing.T) {
	cfg := config.DefaultConfig()
	actions := Actions(cfg)

	tests := []struct {
		kind    ActionKind
		label   string
		command string
	}{
		{ActionUp, "Tunnel UP", "sudo awg-quick up awg0"},
		{ActionDown, "Tunnel DOWN", "sudo awg-quick down awg0"},
		{ActionStatus, "Status", "sudo awg show"},
		{ActionMyIP, "My IP", "curl ip.network/more"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			a, ok := actions[tt.kind]
			if !ok {
				t.Fatalf("action %v missing from catalog", tt.kind)
			}
			if a.Label != tt.label {
				t.Errorf("Label = %q, want %q", a.Label, tt.label)
			}
			if a.Command != tt.command {
				t.Errorf("Command = %q, want %q", a.Command, tt.command)
			}
		})
	}
}

func TestActions_ConfigOverrides(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Interface = "wg0"
	cfg.UpCommand = "pkexec wg-quick up wg0"
	cfg.MyIPCommand = "curl ifconfig.me"

	actions := Actions(cfg)

	if got := actions[ActionUp].Command; got != "pkexec wg-quick up wg0" {
		t.Errorf("up command = %q, want the override", got)
	}
	if got := actions[ActionDown].Command; got != "sudo awg-quick down wg0" {
		t.Errorf("down command = %q, want interface-derived default", got)
	}
	if got := actions[ActionMyIP].Command; got != "curl ifconfig.me" {
		t.Errorf("my-ip command = %q, want the override", got)
	}
}

// stateObserver records relayed events and signals each finished outcome.
type stateObserver struct {
	mu       sync.Mutex
	events   []string
	finished chan struct{}
}

func newStateObserver() *stateObserver {
	return &stateObserver{finished: make(chan struct{}, 4)}
}

func (o *stateObserver) OnStarted(label string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, "started:"+label)
}

func (o *stateObserver) OnLine(line runner.LogLine) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, "line:"+line.Text)
}

func (o *stateObserver) OnFinished(outcome runner.Outcome, label string) {
	o.mu.Lock()
	o.events = append(o.events, "finished:"+outcome.Summary(label))
	o.mu.Unlock()
	o.finished <- struct{}{}
}

func (o *stateObserver) waitFinished(t *testing.T) {
	t.Helper()
	select {
	case <-o.finished:
	case <-time.After(10 * time.Second):
		t.Fatal("run did not finish in time")
	}
}

func (o *stateObserver) eventList() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.events...)
}

// testManager builds a manager whose actions run trivial shell commands.
func testManager(t *testing.T, upCmd, downCmd string) (*Manager, *stateObserver) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.UpCommand = upCmd
	cfg.DownCommand = downCmd
	m := NewManager(cfg, nil)
	obs := newStateObserver()
	m.SetObserver(obs)
	return m, obs
}

func TestManager_SuccessfulUpSetsState(t *testing.T) {
	m, obs := testManager(t, "true", "true")

	if got := m.State(); got != TunnelUnknown {
		t.Fatalf("initial State() = %v, want Unknown", got)
	}

	if err := m.Run(ActionUp); err != nil {
		t.Fatalf("Run(ActionUp) error = %v", err)
	}
	obs.waitFinished(t)

	if got := m.State(); got != TunnelUp {
		t.Errorf("State() after successful up = %v, want Up", got)
	}
}

func TestManager_FailedUpLeavesStateUnknown(t *testing.T) {
	m, obs := testManager(t, "false", "true")

	if err := m.Run(ActionUp); err != nil {
		t.Fatalf("Run(ActionUp) error = %v", err)
	}
	obs.waitFinished(t)

	if got := m.State(); got != TunnelUnknown {
		t.Errorf("State() after failed up = %v, want Unknown", got)
	}
}

func TestManager_DownAfterUp(t *testing.T) {
	m, obs := testManager(t, "true", "true")

	if err := m.Run(ActionUp); err != nil {
		t.Fatalf("Run(ActionUp) error = %v", err)
	}
	obs.waitFinished(t)
	waitIdleManager(t, m)

	if err := m.Run(ActionDown); err != nil {
		t.Fatalf("Run(ActionDown) error = %v", err)
	}
	obs.waitFinished(t)

	if got := m.State(); got != TunnelDown {
		t.Errorf("State() after successful down = %v, want Down", got)
	}
}

func TestManager_StatusDoesNotTouchState(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.UpCommand = "true"
	cfg.StatusCommand = "true"
	m := NewManager(cfg, nil)
	obs := newStateObserver()
	m.SetObserver(obs)

	if err := m.Run(ActionUp); err != nil {
		t.Fatalf("Run(ActionUp) error = %v", err)
	}
	obs.waitFinished(t)
	waitIdleManager(t, m)

	if err := m.Run(ActionStatus); err != nil {
		t.Fatalf("Run(ActionStatus) error = %v", err)
	}
	obs.waitFinished(t)

	if got := m.State(); got != TunnelUp {
		t.Errorf("State() after status = %v, want Up unchanged", got)
	}
}

func TestManager_BusyRejection(t *testing.T) {
	m, obs := testManager(t, "exec sleep 30", "true")

	if err := m.Run(ActionUp); err != nil {
		t.Fatalf("Run(ActionUp) error = %v", err)
	}

	if err := m.Run(ActionDown); err != runner.ErrBusy {
		t.Errorf("second Run() error = %v, want ErrBusy", err)
	}

	if err := m.Cancel(); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	obs.waitFinished(t)

	// A cancelled up must not flip the state.
	if got := m.State(); got != TunnelUnknown {
		t.Errorf("State() after cancelled up = %v, want Unknown", got)
	}
}

func TestManager_RejectedRunDoesNotDisturbInFlight(t *testing.T) {
	m, obs := testManager(t, "sleep 0.3", "true")

	if err := m.Run(ActionUp); err != nil {
		t.Fatalf("Run(ActionUp) error = %v", err)
	}

	// A rejected Run while the up is still in flight must not touch its
	// flight record: the up's success must still land as TunnelUp, not be
	// lost or recorded as the rejected action.
	if err := m.Run(ActionDown); err != runner.ErrBusy {
		t.Fatalf("Run(ActionDown) while busy = %v, want ErrBusy", err)
	}
	obs.waitFinished(t)

	if got := m.State(); got != TunnelUp {
		t.Errorf("State() after rejected down = %v, want Up", got)
	}
}

func TestManager_RelaysEvents(t *testing.T) {
	m, obs := testManager(t, `printf 'ok\n'`, "true")

	if err := m.Run(ActionUp); err != nil {
		t.Fatalf("Run(ActionUp) error = %v", err)
	}
	obs.waitFinished(t)

	events := obs.eventList()
	want := []string{
		"started:Tunnel UP",
		"line:ok",
		"finished:Tunnel UP completed successfully",
	}
	if strings.Join(events, "|") != strings.Join(want, "|") {
		t.Errorf("events = %v, want %v", events, want)
	}
}

// waitIdleManager polls for the controller gate to reopen after a run.
func waitIdleManager(t *testing.T, m *Manager) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if !m.Busy() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("manager did not return to idle")
}
