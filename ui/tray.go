// Package ui provides the user-facing surfaces for TunnelDeck.
// This file contains the system tray indicator.
package ui

import (
	"fyne.io/systray"

	"github.com/mohsafer/tunneldeck/common"
	"github.com/mohsafer/tunneldeck/notify"
	"github.com/mohsafer/tunneldeck/runner"
	"github.com/mohsafer/tunneldeck/tunnel"
)

// Pre-generated icons for performance.
var (
	iconUp      = GenerateIcon(UpIconConfig())
	iconDown    = GenerateIcon(DownIconConfig())
	iconUnknown = GenerateIcon(UnknownIconConfig())
)

// Tray manages the system tray icon and menu. It provides the tunnel
// actions without a terminal attached.
type Tray struct {
	manager  *tunnel.Manager
	notifier *notify.Notifier

	statusItem *systray.MenuItem
	upItem     *systray.MenuItem
	downItem   *systray.MenuItem
	showItem   *systray.MenuItem
	myIPItem   *systray.MenuItem
	pingItem   *systray.MenuItem
	configItem *systray.MenuItem
	cancelItem *systray.MenuItem
}

// NewTray creates a system tray indicator over the given manager.
func NewTray(manager *tunnel.Manager, notifier *notify.Notifier) *Tray {
	return &Tray{manager: manager, notifier: notifier}
}

// Run starts the tray loop. It blocks until Quit is selected.
func (t *Tray) Run() {
	t.manager.SetObserver(t)
	systray.Run(t.onReady, t.onExit)
}

// onReady builds the menu once the tray is available.
func (t *Tray) onReady() {
	systray.SetIcon(iconUnknown)
	systray.SetTitle(common.AppName)
	systray.SetTooltip(common.AppName + " - " + t.manager.State().String())

	t.statusItem = systray.AddMenuItem("○  "+t.manager.State().String(), "Assumed tunnel state")
	t.statusItem.Disable()

	systray.AddSeparator()

	t.upItem = systray.AddMenuItem("Tunnel UP", "Bring the tunnel up")
	t.clickRuns(t.upItem, tunnel.ActionUp)

	t.downItem = systray.AddMenuItem("Tunnel DOWN", "Bring the tunnel down")
	t.clickRuns(t.downItem, tunnel.ActionDown)

	t.showItem = systray.AddMenuItem("Status", "Query tunnel status")
	t.clickRuns(t.showItem, tunnel.ActionStatus)

	t.myIPItem = systray.AddMenuItem("My IP", "Show public IP")
	t.clickRuns(t.myIPItem, tunnel.ActionMyIP)

	systray.AddSeparator()

	t.pingItem = systray.AddMenuItem("Ping", "Open a live ping window")
	go func() {
		for range t.pingItem.ClickedCh {
			if err := t.manager.OpenPing(); err != nil {
				common.LogWarn("Ping window failed: %v", err)
			}
		}
	}()

	t.configItem = systray.AddMenuItem("Config", "Edit the tunnel configuration")
	go func() {
		for range t.configItem.ClickedCh {
			if err := t.manager.OpenConfig(); err != nil {
				common.LogWarn("Config window failed: %v", err)
			}
		}
	}()

	systray.AddSeparator()

	t.cancelItem = systray.AddMenuItem("Cancel", "Cancel the running command")
	t.cancelItem.Disable()
	go func() {
		for range t.cancelItem.ClickedCh {
			_ = t.manager.Cancel()
		}
	}()

	quitItem := systray.AddMenuItem("Quit", "Close "+common.AppName)
	go func() {
		for range quitItem.ClickedCh {
			systray.Quit()
		}
	}()
}

// clickRuns wires a menu item to a tunnel action.
func (t *Tray) clickRuns(item *systray.MenuItem, kind tunnel.ActionKind) {
	go func() {
		for range item.ClickedCh {
			if err := t.manager.Run(kind); err != nil {
				common.LogWarn("Tray action %s rejected: %v", kind, err)
			}
		}
	}()
}

// onExit is called when the tray loop ends.
func (t *Tray) onExit() {
	common.LogInfo("Tray exited")
}

// OnStarted implements runner.Observer.
func (t *Tray) OnStarted(label string) {
	if t.statusItem != nil {
		t.statusItem.SetTitle("◌  " + label + "...")
	}
	if t.cancelItem != nil {
		t.cancelItem.Enable()
	}
}

// OnLine implements runner.Observer. The tray has no log surface; lines
// already reach the application log through the controller.
func (t *Tray) OnLine(line runner.LogLine) {}

// OnFinished implements runner.Observer.
func (t *Tray) OnFinished(outcome runner.Outcome, label string) {
	if t.cancelItem != nil {
		t.cancelItem.Disable()
	}
	t.refreshState()
	if t.notifier != nil {
		t.notifier.NotifyOutcome(label, outcome.Success, outcome.Reason)
	}
}

// refreshState updates the icon, tooltip, and status item from the
// manager's assumed tunnel state.
func (t *Tray) refreshState() {
	state := t.manager.State()

	switch state {
	case tunnel.TunnelUp:
		systray.SetIcon(iconUp)
		if t.statusItem != nil {
			t.statusItem.SetTitle("●  Up")
		}
	case tunnel.TunnelDown:
		systray.SetIcon(iconDown)
		if t.statusItem != nil {
			t.statusItem.SetTitle("●  Down")
		}
	default:
		systray.SetIcon(iconUnknown)
		if t.statusItem != nil {
			t.statusItem.SetTitle("○  Unknown")
		}
	}

	systray.SetTooltip(common.AppName + " - " + state.String())
}

// SetHealth updates the tooltip with the connectivity state.
func (t *Tray) SetHealth(state tunnel.HealthState) {
	systray.SetTooltip(common.AppName + " - " + t.manager.State().String() + " (" + state.String() + ")")
}
