// Package ui provides the user-facing surfaces for TunnelDeck.
// This file contains the lipgloss styles shared by the terminal panel.
package ui

import "github.com/charmbracelet/lipgloss"

// Log line palette. The colors follow the original panel's scheme:
// teal for directives, red for errors, light gray for plain output.
var (
	colorDirective = lipgloss.Color("#4ec9b0")
	colorError     = lipgloss.Color("#f44747")
	colorPlain     = lipgloss.Color("#d4d4d4")
	colorHeader    = lipgloss.Color("#569cd6")
	colorMuted     = lipgloss.Color("#808080")
	colorSuccess   = lipgloss.Color("#6a9955")
	colorWarn      = lipgloss.Color("#d7ba7d")
)

var (
	// titleStyle renders the panel header bar.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorHeader)

	// stateUpStyle and friends render the tunnel state badge.
	stateUpStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorSuccess)
	stateDownStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorError)
	stateUnknownStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorMuted)

	// Log line styles by classification.
	directiveStyle = lipgloss.NewStyle().Foreground(colorDirective)
	errorStyle     = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	plainStyle     = lipgloss.NewStyle().Foreground(colorPlain)

	// timestampStyle renders the per-line time prefix.
	timestampStyle = lipgloss.NewStyle().Foreground(colorMuted)

	// Outcome styles for the summary line appended after each run.
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	failureStyle = lipgloss.NewStyle().Foreground(colorError).Bold(true)

	// statusBarStyle renders the bottom status/help bar.
	statusBarStyle = lipgloss.NewStyle().Foreground(colorMuted)

	// healthStyle variants for the connectivity badge.
	healthGoodStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	healthWarnStyle = lipgloss.NewStyle().Foreground(colorWarn)
	healthBadStyle  = lipgloss.NewStyle().Foreground(colorError)

	// logBoxStyle frames the scrolling output viewport.
	logBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)
)
