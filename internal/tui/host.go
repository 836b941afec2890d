package tui

import (
	"sync"

	"go-firewatch/internal/dashboard"
)

// ModalHost is the terminal side of the dashboard's modal dialogs. The controller
// shows and hides dialogs through it; the model reads which one is on screen.
type ModalHost struct {
	mu     sync.Mutex
	active *dashboard.Modal
	opts   dashboard.ShowOptions
}

func NewModalHost() *ModalHost {
	return &ModalHost{}
}

func (h *ModalHost) Show(m dashboard.Modal, opts dashboard.ShowOptions) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.active = &m
	h.opts = opts
}

func (h *ModalHost) Hide(m dashboard.Modal) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.active != nil && *h.active == m {
		h.active = nil
	}
}

func (h *ModalHost) Active() (dashboard.Modal, dashboard.ShowOptions, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.active == nil {
		return 0, dashboard.ShowOptions{}, false
	}
	return *h.active, h.opts, true
}

// dismiss closes the dialog from the terminal side and returns what was closed.
func (h *ModalHost) dismiss() (dashboard.Modal, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.active == nil {
		return 0, false
	}
	m := *h.active
	h.active = nil
	return m, true
}
