// Package runner provides the command execution and output-streaming engine.
// This file contains the Framer, which segments a byte stream into lines.
package runner

import "bytes"

// Framer accumulates bytes from an unbounded stream and emits completed raw
// lines. Both '\n' and '\r' terminate a line, so carriage-return-only output
// (progress updates from tools like awg-quick under a pty) still produces
// lines. Chunk boundaries carry no meaning: feeding one byte at a time and
// feeding the whole stream at once yield identical output.
//
// A terminator with nothing buffered emits nothing, so consecutive
// terminators (including the "\r\n" pair) collapse.
type Framer struct {
	buf bytes.Buffer
}

// Feed consumes a chunk of raw bytes, invoking emit once per completed
// non-empty line, in arrival order.
func (f *Framer) Feed(p []byte, emit func(line string)) {
	for _, b := range p {
		switch b {
		case '\n', '\r':
			if f.buf.Len() > 0 {
				emit(f.buf.String())
				f.buf.Reset()
			}
		default:
			f.buf.WriteByte(b)
		}
	}
}

// Flush emits any buffered partial line. It must be called exactly once,
// when the underlying stream has ended, so a trailing line without a
// terminator is not lost.
func (f *Framer) Flush(emit func(line string)) {
	if f.buf.Len() > 0 {
		emit(f.buf.String())
		f.buf.Reset()
	}
}
