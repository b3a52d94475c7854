// Package common provides shared constants, types, and utilities
// used across the TunnelDeck application.
package common

import "time"

// Application metadata.
const (
	// AppID is the unique identifier for the application.
	AppID = "com.tunneldeck.app"
	// AppName is the display name of the application.
	AppName = "TunnelDeck"
	// ConfigDirName is the name of the configuration directory.
	ConfigDirName = "tunneldeck"
)

// File names used by the application.
const (
	ConfigFileName = "config.yaml"
	LogFileName    = "tunneldeck.log"
)

// Default commands and targets for the tunnel actions.
// All of them can be overridden in the configuration file.
const (
	// DefaultInterface is the tunnel interface managed by default.
	DefaultInterface = "awg0"
	// DefaultQuickTool brings the tunnel up and down.
	DefaultQuickTool = "awg-quick"
	// DefaultShowTool queries tunnel status.
	DefaultShowTool = "awg"
	// DefaultMyIPCommand prints the public IP as seen from outside the tunnel.
	DefaultMyIPCommand = "curl ip.network/more"
	// DefaultPingTarget is the host probed by the ping window.
	DefaultPingTarget = "8.8.4.4"
	// DefaultTerminal is the terminal emulator used for fire-and-forget windows.
	DefaultTerminal = "kitty"
)

// Default timeouts and intervals.
const (
	// HealthCheckInterval is how often the connectivity prober runs.
	HealthCheckInterval = 30 * time.Second
	// HealthDialTimeout is the per-host timeout for a connectivity probe.
	HealthDialTimeout = 5 * time.Second
)

// Theme values.
const (
	ThemeAuto  = "auto"
	ThemeLight = "light"
	ThemeDark  = "dark"
)
