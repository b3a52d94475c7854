// Package ui provides the user-facing surfaces for TunnelDeck.
//
// This package implements two alternative front ends over the tunnel
// manager:
//
//   - Panel: An interactive terminal panel with key-driven actions and a
//     scrolling, color-coded log of command output
//   - Tray: A system tray indicator with the same actions in a menu
//
// Both surfaces receive run events through the runner observer interface
// and never talk to the process layer directly.
//
// # Event Flow
//
// A typical interaction:
//
//  1. User presses an action key (or clicks a tray item)
//  2. The surface calls Manager.Run() with the action kind
//  3. Observer events arrive on the surface's own event loop
//  4. Lines are rendered with per-kind styling as they stream in
//  5. The outcome updates the status line, tray icon, and notification
//
// # Thread Safety
//
// The bubbletea program and the systray loop each own their state; run
// events cross into them via tea.Program.Send and channel reads, so no
// additional locking is needed.
package ui
