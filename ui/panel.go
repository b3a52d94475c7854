// Package ui provides the user-facing surfaces for TunnelDeck.
// This file contains the interactive terminal panel built on bubbletea.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mohsafer/tunneldeck/common"
	"github.com/mohsafer/tunneldeck/notify"
	"github.com/mohsafer/tunneldeck/runner"
	"github.com/mohsafer/tunneldeck/tunnel"
)

// Messages crossing from observer callbacks into the bubbletea loop.
type (
	startedMsg  struct{ label string }
	lineMsg     runner.LogLine
	finishedMsg struct {
		outcome runner.Outcome
		label   string
	}
	healthMsg struct{ state tunnel.HealthState }
)

// programObserver forwards run events into a running bubbletea program.
type programObserver struct {
	program *tea.Program
}

func (o *programObserver) OnStarted(label string) {
	o.program.Send(startedMsg{label: label})
}

func (o *programObserver) OnLine(line runner.LogLine) {
	o.program.Send(lineMsg(line))
}

func (o *programObserver) OnFinished(outcome runner.Outcome, label string) {
	o.program.Send(finishedMsg{outcome: outcome, label: label})
}

// keyMap defines the panel's key bindings.
type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Status key.Binding
	MyIP   key.Binding
	Ping   key.Binding
	Config key.Binding
	Cancel key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "tunnel up")),
		Down:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "tunnel down")),
		Status: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "status")),
		MyIP:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "my ip")),
		Ping:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "ping window")),
		Config: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "config window")),
		Cancel: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "cancel")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Status, k.MyIP, k.Ping, k.Config, k.Cancel, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Status, k.MyIP},
		{k.Ping, k.Config, k.Cancel, k.Quit},
	}
}

// panelModel is the bubbletea model for the terminal panel.
type panelModel struct {
	manager  *tunnel.Manager
	notifier *notify.Notifier
	keys     keyMap
	help     help.Model
	viewport viewport.Model
	spinner  spinner.Model

	lines   []string
	running bool
	label   string
	status  string
	health  tunnel.HealthState
	ready   bool
	width   int
	height  int
}

func newPanelModel(manager *tunnel.Manager, notifier *notify.Notifier) panelModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorDirective)

	return panelModel{
		manager:  manager,
		notifier: notifier,
		keys:     defaultKeyMap(),
		help:     help.New(),
		spinner:  sp,
		status:   "Ready",
	}
}

func (m panelModel) Init() tea.Cmd {
	return nil
}

func (m panelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := msg.Height - 7 // header, status bar, help, box chrome
		if vpHeight < 3 {
			vpHeight = 3
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = vpHeight
		}
		m.refreshViewport()
		return m, nil

	case startedMsg:
		m.running = true
		m.label = msg.label
		m.status = "Running: " + msg.label
		m.appendLine(timestampStyle.Render("── " + msg.label + " ──"))
		return m, m.spinner.Tick

	case lineMsg:
		line := runner.LogLine(msg)
		m.appendLine(renderLogLine(line))
		return m, nil

	case finishedMsg:
		m.running = false
		summary := msg.outcome.Summary(msg.label)
		if msg.outcome.Success {
			m.appendLine(successStyle.Render("✓ " + summary))
		} else {
			m.appendLine(failureStyle.Render("✗ " + summary))
		}
		m.status = summary
		if m.notifier != nil {
			m.notifier.NotifyOutcome(msg.label, msg.outcome.Success, msg.outcome.Reason)
		}
		return m, nil

	case healthMsg:
		m.health = msg.state
		return m, nil

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// handleKey dispatches one key press.
func (m panelModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.running {
			_ = m.manager.Cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		return m.runAction(tunnel.ActionUp)
	case key.Matches(msg, m.keys.Down):
		return m.runAction(tunnel.ActionDown)
	case key.Matches(msg, m.keys.Status):
		return m.runAction(tunnel.ActionStatus)
	case key.Matches(msg, m.keys.MyIP):
		return m.runAction(tunnel.ActionMyIP)

	case key.Matches(msg, m.keys.Ping):
		if err := m.manager.OpenPing(); err != nil {
			m.status = "Could not open ping window"
		}
		return m, nil
	case key.Matches(msg, m.keys.Config):
		if err := m.manager.OpenConfig(); err != nil {
			m.status = "Could not open config window"
		}
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		if err := m.manager.Cancel(); err != nil {
			m.status = "Nothing to cancel"
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// runAction starts an action, surfacing the busy rejection in the status
// line instead of interrupting the in-flight run.
func (m panelModel) runAction(kind tunnel.ActionKind) (tea.Model, tea.Cmd) {
	if err := m.manager.Run(kind); err != nil {
		if err == runner.ErrBusy {
			m.status = "A command is already running"
		} else {
			m.status = err.Error()
		}
	}
	return m, nil
}

func (m *panelModel) appendLine(rendered string) {
	m.lines = append(m.lines, rendered)
	m.refreshViewport()
}

func (m *panelModel) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	m.viewport.GotoBottom()
}

// renderLogLine styles one classified output line with its timestamp.
func renderLogLine(line runner.LogLine) string {
	ts := timestampStyle.Render(line.Time.Format("15:04:05"))

	var styled string
	switch line.Kind {
	case runner.KindDirective:
		styled = directiveStyle.Render(line.Text)
	case runner.KindError:
		styled = errorStyle.Render(line.Text)
	default:
		styled = plainStyle.Render(line.Text)
	}

	return ts + " " + styled
}

// stateBadge renders the tunnel state with its color.
func stateBadge(state tunnel.TunnelState) string {
	switch state {
	case tunnel.TunnelUp:
		return stateUpStyle.Render("● " + state.String())
	case tunnel.TunnelDown:
		return stateDownStyle.Render("● " + state.String())
	default:
		return stateUnknownStyle.Render("○ " + state.String())
	}
}

// healthBadge renders the connectivity state with its color.
func healthBadge(state tunnel.HealthState) string {
	switch state {
	case tunnel.HealthHealthy:
		return healthGoodStyle.Render(state.String())
	case tunnel.HealthDegraded:
		return healthWarnStyle.Render(state.String())
	case tunnel.HealthUnhealthy:
		return healthBadStyle.Render(state.String())
	default:
		return stateUnknownStyle.Render(state.String())
	}
}

func (m panelModel) View() string {
	if !m.ready {
		return "Loading panel..."
	}

	header := titleStyle.Render(common.AppName) +
		"  " + stateBadge(m.manager.State()) +
		"  " + statusBarStyle.Render("net:") + " " + healthBadge(m.health)

	logBox := logBoxStyle.Width(m.width - 2).Render(m.viewport.View())

	statusLine := m.status
	if m.running {
		statusLine = m.spinner.View() + statusLine
	}
	status := statusBarStyle.Render(statusLine)

	helpView := m.help.View(m.keys)

	return fmt.Sprintf("%s\n%s\n%s\n%s", header, logBox, status, helpView)
}

// RunPanel runs the interactive terminal panel until the user quits.
// It wires the manager's events and health changes into the program.
func RunPanel(manager *tunnel.Manager, prober *tunnel.Prober, notifier *notify.Notifier) error {
	model := newPanelModel(manager, notifier)
	program := tea.NewProgram(model, tea.WithAltScreen())

	manager.SetObserver(&programObserver{program: program})
	if prober != nil {
		prober.SetOnChange(func(oldState, newState tunnel.HealthState) {
			program.Send(healthMsg{state: newState})
		})
		prober.Start()
		defer prober.Stop()
	}

	common.LogInfo("Starting terminal panel")
	_, err := program.Run()
	return err
}
