package runner

import (
	"reflect"
	"strings"
	"testing"
)

// feedAll pushes the input through a framer in chunks of the given size and
// returns the emitted lines, flushing at end of stream.
func feedAll(t *testing.T, input string, chunkSize int) []string {
	t.Helper()

	var lines []string
	emit := func(line string) { lines = append(lines, line) }

	f := &Framer{}
	data := []byte(input)
	for len(data) > 0 {
		n := chunkSize
		if n > len(data) {
			n = len(data)
		}
		f.Feed(data[:n], emit)
		data = data[n:]
	}
	f.Flush(emit)

	return lines
}

func TestFramer_Segmentation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"simple newlines", "a\nb\n", []string{"a", "b"}},
		{"carriage returns", "a\rb\r", []string{"a", "b"}},
		{"crlf pairs", "X\r\nY\n", []string{"X", "Y"}},
		{"trailing unterminated line", "a\nb", []string{"a", "b"}},
		{"empty lines dropped", "a\n\n\nb\n", []string{"a", "b"}},
		{"terminators only", "\n\r\n\r", nil},
		{"empty stream", "", nil},
		{"single line no terminator", "only", []string{"only"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := feedAll(t, tt.input, len(tt.input)+1)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("lines = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFramer_ChunkingIsIrrelevant(t *testing.T) {
	// "X\r\nY\n" delivered one byte at a time must be identical to
	// delivering it as a single chunk.
	input := "X\r\nY\n"

	single := feedAll(t, input, len(input))
	byteAtATime := feedAll(t, input, 1)

	if !reflect.DeepEqual(single, []string{"X", "Y"}) {
		t.Errorf("single chunk = %v, want [X Y]", single)
	}
	if !reflect.DeepEqual(byteAtATime, single) {
		t.Errorf("byte-at-a-time = %v, single chunk = %v", byteAtATime, single)
	}
}

func TestFramer_Reassembly(t *testing.T) {
	// Concatenating the emitted lines with terminators re-inserted must
	// reproduce the stream content, modulo trailing-terminator
	// normalization and dropped empty lines.
	inputs := []string{
		"first\nsecond\nthird\n",
		"no trailing terminator",
		"mixed\rterminators\nhere\r\n",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			lines := feedAll(t, input, 3)

			rebuilt := strings.Join(lines, "\n")
			normalized := strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(input)
			normalized = strings.TrimRight(normalized, "\n")

			if rebuilt != normalized {
				t.Errorf("rebuilt %q, want %q", rebuilt, normalized)
			}
		})
	}
}

func TestFramer_FlushIsIdempotentOnEmptyBuffer(t *testing.T) {
	f := &Framer{}
	calls := 0
	emit := func(string) { calls++ }

	f.Feed([]byte("line\n"), emit)
	f.Flush(emit)
	f.Flush(emit)

	if calls != 1 {
		t.Errorf("emit called %d times, want 1", calls)
	}
}
