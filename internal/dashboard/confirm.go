package dashboard

import "context"

type ConfirmKind int

const (
	ConfirmDeleteUser ConfirmKind = iota
	ConfirmDeleteRecord
)

// Confirmation is a destructive action waiting for the user's yes or no.
type Confirmation struct {
	Kind   ConfirmKind
	ID     int
	Prompt string
}

func (c *Controller) RequestDeleteUser(id int) {
	c.mu.Lock()
	c.pending = &Confirmation{Kind: ConfirmDeleteUser, ID: id, Prompt: "Delete this user?"}
	c.mu.Unlock()
}

// RequestDeleteMonitorRecord refuses non-admins before asking for confirmation.
func (c *Controller) RequestDeleteMonitorRecord(id int) error {
	if !c.session.IsAdmin() {
		return c.reject("delete_monitor_record", &ValidationError{Field: "session", Message: "Only administrators can delete monitor records"})
	}
	c.mu.Lock()
	c.pending = &Confirmation{Kind: ConfirmDeleteRecord, ID: id, Prompt: "Delete this monitor record?"}
	c.mu.Unlock()
	return nil
}

func (c *Controller) CancelPending() {
	c.mu.Lock()
	c.pending = nil
	c.mu.Unlock()
}

// ConfirmPending runs the pending deletion, if any.
func (c *Controller) ConfirmPending(ctx context.Context) error {
	c.mu.Lock()
	p := c.pending
	c.pending = nil
	c.mu.Unlock()
	if p == nil {
		return nil
	}

	switch p.Kind {
	case ConfirmDeleteUser:
		return c.deleteUser(ctx, p.ID)
	case ConfirmDeleteRecord:
		return c.deleteMonitorRecord(ctx, p.ID)
	}
	return nil
}
