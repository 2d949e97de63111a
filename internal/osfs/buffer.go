package osfs

import (
	"strings"
	"sync"
)

// BufferConsole is a simulated Console that collects printed lines in memory.
// The interactive shell uses it to capture dispatcher output for the viewport;
// tests use it to assert on output.
type BufferConsole struct {
	mu    sync.Mutex
	lines []string
}

// NewBufferConsole returns an empty buffered console.
func NewBufferConsole() *BufferConsole { return &BufferConsole{} }

var _ Console = (*BufferConsole)(nil)

func (b *BufferConsole) PrintLine(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = append(b.lines, text)
}

// Lines returns a copy of everything printed so far.
func (b *BufferConsole) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// String joins all printed lines with newlines.
func (b *BufferConsole) String() string {
	return strings.Join(b.Lines(), "\n")
}

// Reset discards collected lines.
func (b *BufferConsole) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = nil
}
