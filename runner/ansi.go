// Package runner provides the command execution and output-streaming engine.
// This file contains the escape sanitizer for terminal control sequences.
package runner

import "regexp"

// Recognized escape sequence forms. Anything outside these grammars is left
// intact: a bare ESC in plain text is not stripped.
var (
	// CSI: ESC [ parameter-bytes intermediate-bytes final-byte
	ansiCSI = regexp.MustCompile(`\x1b\[[0-?]*[ -/]*[@-~]`)
	// OSC: ESC ] ... terminated by BEL or ST
	ansiOSC = regexp.MustCompile(`\x1b\][^\x07]*(\x07|\x1b\\)`)
	// Short ESC-prefixed forms (RIS, DECSC, charset selection, ...)
	ansiOther = regexp.MustCompile(`\x1b[@-Z\\-_]`)
)

// StripANSI removes recognized ANSI/VT100 escape sequences from a line,
// preserving all other characters in their original relative order.
// Sanitizing an already-sanitized line yields the identical line.
func StripANSI(s string) string {
	s = ansiOSC.ReplaceAllString(s, "")
	s = ansiCSI.ReplaceAllString(s, "")
	s = ansiOther.ReplaceAllString(s, "")
	return s
}
