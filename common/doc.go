// Package common provides shared constants, types, utilities, and interfaces
// used throughout the TunnelDeck application.
//
// This package serves as the foundation for cross-cutting concerns:
//
//   - Constants: Application-wide constants like timeouts, file names, and defaults
//   - Errors: Sentinel errors for consistent error handling across packages
//   - Interfaces: Abstractions for notifications and logging
//   - Logger: Structured logging with multiple output destinations
//   - Utils: Common utility functions for file operations and string manipulation
//
// # Usage
//
// Import the package to access shared functionality:
//
//	import "github.com/mohsafer/tunneldeck/common"
//
//	// Use constants
//	iface := common.DefaultInterface
//
//	// Use logger
//	common.LogInfo("Running %s", label)
//
//	// Check errors
//	if errors.Is(err, common.ErrBusy) {
//	    // A command is already in flight
//	}
package common
