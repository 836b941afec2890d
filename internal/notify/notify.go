// Package notify delivers blocking user notices: a queue the TUI drains one dialog at
// a time, or plain lines for the headless CLI.
package notify

import (
	"fmt"
	"io"
	"sync"
)

type Level int

const (
	Info Level = iota
	Success
	Error
)

func (l Level) String() string {
	switch l {
	case Success:
		return "ok"
	case Error:
		return "error"
	default:
		return "info"
	}
}

type Notice struct {
	Level   Level
	Message string
}

type Notifier interface {
	Notify(n Notice)
}

func Infof(n Notifier, format string, args ...any) {
	n.Notify(Notice{Level: Info, Message: fmt.Sprintf(format, args...)})
}

func Successf(n Notifier, format string, args ...any) {
	n.Notify(Notice{Level: Success, Message: fmt.Sprintf(format, args...)})
}

func Errorf(n Notifier, format string, args ...any) {
	n.Notify(Notice{Level: Error, Message: fmt.Sprintf(format, args...)})
}

// Queue holds notices until the presentation acknowledges them, oldest first.
type Queue struct {
	mu      sync.Mutex
	pending []Notice
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Notify(n Notice) {
	q.mu.Lock()
	q.pending = append(q.pending, n)
	q.mu.Unlock()
}

// Current returns the notice on screen, if any.
func (q *Queue) Current() (Notice, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return Notice{}, false
	}
	return q.pending[0], true
}

// Ack dismisses the current notice.
func (q *Queue) Ack() {
	q.mu.Lock()
	if len(q.pending) > 0 {
		q.pending = q.pending[1:]
	}
	q.mu.Unlock()
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// All returns a copy of the pending notices.
func (q *Queue) All() []Notice {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Notice, len(q.pending))
	copy(out, q.pending)
	return out
}

// Writer prints each notice as one line.
type Writer struct {
	mu  sync.Mutex
	out io.Writer
}

func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

func (w *Writer) Notify(n Notice) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.out, "[%s] %s\n", n.Level, n.Message)
}
