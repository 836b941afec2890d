package dashboard

import "sync"

type Modal int

const (
	ModalAddUser Modal = iota
	ModalEditUser
	ModalAddPoint
	ModalAddRecord
)

var AllModals = []Modal{ModalAddUser, ModalEditUser, ModalAddPoint, ModalAddRecord}

func (m Modal) String() string {
	switch m {
	case ModalAddUser:
		return "addUser"
	case ModalEditUser:
		return "editUser"
	case ModalAddPoint:
		return "addPoint"
	case ModalAddRecord:
		return "addRecord"
	default:
		return "unknown"
	}
}

type ShowOptions struct {
	StaticBackdrop bool
	Keyboard       bool
}

// Presenter is the dialog widget side. It reports its own closes back through
// ModalCoordinator.Dismissed.
type Presenter interface {
	Show(m Modal, opts ShowOptions)
	Hide(m Modal)
}

var dialogOptions = ShowOptions{StaticBackdrop: true, Keyboard: false}

// ModalCoordinator keeps the visible flags and the presenter's dialogs in step.
type ModalCoordinator struct {
	presenter Presenter

	mu      sync.Mutex
	visible map[Modal]bool
	queued  []Modal
}

func NewModalCoordinator(p Presenter) *ModalCoordinator {
	return &ModalCoordinator{presenter: p, visible: map[Modal]bool{}}
}

// Open marks m visible. The dialog is shown on the next Flush, after the
// presentation has rendered the flag.
func (mc *ModalCoordinator) Open(m Modal) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.visible[m] = true
	mc.queued = append(mc.queued, m)
}

func (mc *ModalCoordinator) Flush() {
	mc.mu.Lock()
	var show []Modal
	for _, m := range mc.queued {
		if mc.visible[m] {
			show = append(show, m)
		}
	}
	mc.queued = nil
	mc.mu.Unlock()

	if mc.presenter == nil {
		return
	}
	for _, m := range show {
		mc.presenter.Show(m, dialogOptions)
	}
}

func (mc *ModalCoordinator) Close(m Modal) {
	mc.mu.Lock()
	mc.visible[m] = false
	mc.mu.Unlock()
	if mc.presenter != nil {
		mc.presenter.Hide(m)
	}
}

// Dismissed records that the widget closed itself.
func (mc *ModalCoordinator) Dismissed(m Modal) {
	mc.mu.Lock()
	mc.visible[m] = false
	mc.mu.Unlock()
}

func (mc *ModalCoordinator) Visible(m Modal) bool {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.visible[m]
}

func (mc *ModalCoordinator) Pending() bool {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return len(mc.queued) > 0
}
