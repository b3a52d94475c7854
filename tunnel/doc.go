// Package tunnel provides tunnel lifecycle management for TunnelDeck.
//
// This package sits between the UI layers and the runner engine:
//
//   - Actions: The catalog of tunnel commands (up, down, status, my-ip)
//     built from the configuration, with sensible AmneziaWG defaults
//   - Manager: Dispatches actions through the single-flight controller and
//     tracks the assumed tunnel state derived from up/down outcomes
//   - Prober: Passive connectivity probing with latency tracking
//
// # Action Flow
//
// A typical action flow:
//
//  1. User triggers an action through the panel, tray, or CLI
//  2. UI calls Manager.Run() with the action kind
//  3. Manager resolves the shell command and starts it on the controller
//  4. The controller streams classified lines back through the observer
//  5. Manager updates the assumed tunnel state from the outcome
//
// The ping and config windows are fire-and-forget terminal spawns and do
// not go through the controller; they never block or occupy the gate.
//
// # Thread Safety
//
// All types in this package are safe for concurrent use. The Manager and
// Prober use internal locking to protect shared state.
package tunnel
