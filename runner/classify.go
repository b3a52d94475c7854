// Package runner provides the command execution and output-streaming engine.
// This file contains the output line classifier.
package runner

import "strings"

// LineKind is the advisory classification tag attached to a log line.
// It only affects downstream rendering, never routing.
type LineKind int

const (
	// KindPlain is ordinary output.
	KindPlain LineKind = iota
	// KindDirective marks a "[#]" command-trace line, used by wg-quick
	// style tools to echo the underlying command they execute.
	KindDirective
	// KindError marks a line that looks like an error report.
	KindError
)

// String returns a human-readable representation of the line kind.
func (k LineKind) String() string {
	switch k {
	case KindDirective:
		return "directive"
	case KindError:
		return "error"
	case KindPlain:
		return "plain"
	default:
		return "unknown"
	}
}

// directiveMarker is the literal prefix tools use to echo commands.
const directiveMarker = "[#]"

// errorKeywords are matched case-insensitively anywhere in the line.
var errorKeywords = []string{"error", "failed", "fatal"}

// Classify tags a sanitized line. First match wins: the case-sensitive
// directive prefix check runs before the case-insensitive keyword scan.
func Classify(line string) LineKind {
	if strings.HasPrefix(line, directiveMarker) {
		return KindDirective
	}

	lower := strings.ToLower(line)
	for _, kw := range errorKeywords {
		if strings.Contains(lower, kw) {
			return KindError
		}
	}

	return KindPlain
}
