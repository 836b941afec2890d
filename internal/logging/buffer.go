package logging

import (
	"strings"
	"sync"
)

const bufferLines = 200

// Buffer keeps the most recent log lines, newest first, for the dashboard's log overlay.
type Buffer struct {
	mu    sync.RWMutex
	lines []string
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if line == "" {
			continue
		}
		b.lines = append([]string{line}, b.lines...)
	}
	if len(b.lines) > bufferLines {
		b.lines = b.lines[:bufferLines]
	}
	return len(p), nil
}

func (b *Buffer) Lines() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	lines := make([]string, len(b.lines))
	copy(lines, b.lines)
	return lines
}
