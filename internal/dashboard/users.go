package dashboard

import (
	"context"

	"go-firewatch/internal/forms"
	"go-firewatch/internal/models"
)

func (c *Controller) LoadUserData(ctx context.Context) error {
	return c.loadUsers(ctx, false)
}

// loadUsers is silent: a missing session clears the list without a request and a
// failed request leaves it empty.
func (c *Controller) loadUsers(ctx context.Context, _ bool) error {
	if !c.session.IsLoggedIn() {
		c.logger.Debug("user list skipped without a session")
		c.mu.Lock()
		c.cache.Users = nil
		c.mu.Unlock()
		return nil
	}

	users, err := c.client.Users(ctx)
	if err != nil {
		c.logger.Warn("user list unavailable", "op", "load_users", "error", err)
		users = nil
	}
	c.mu.Lock()
	c.cache.Users = users
	c.mu.Unlock()
	return nil
}

func (c *Controller) OpenAddUser() {
	c.modals.Open(ModalAddUser)
}

// OpenEditUser copies u into the edit form with a blank password.
func (c *Controller) OpenEditUser(u models.User) {
	c.mu.Lock()
	c.forms.EditUser = forms.EditUserFrom(u)
	c.mu.Unlock()
	c.modals.Open(ModalEditUser)
}

func (c *Controller) AddUser(ctx context.Context) error {
	c.mu.Lock()
	f := c.forms.NewUser
	c.mu.Unlock()

	req, err := f.Parse()
	if err != nil {
		return c.reject("add_user", err)
	}
	if err := c.client.CreateUser(ctx, req); err != nil {
		return c.fail(failedWithDetail("add_user", "Failed to add user", err), true)
	}

	c.succeed("User added")
	c.mu.Lock()
	c.forms.NewUser = forms.DefaultNewUser()
	c.mu.Unlock()
	c.modals.Close(ModalAddUser)
	_ = c.loadUsers(ctx, false)
	return nil
}

func (c *Controller) UpdateUser(ctx context.Context) error {
	c.mu.Lock()
	f := c.forms.EditUser
	c.mu.Unlock()

	if err := c.client.UpdateUser(ctx, f.ID, f.Request()); err != nil {
		return c.fail(failedWithDetail("update_user", "Failed to update user", err), true)
	}

	c.succeed("User updated")
	c.modals.Close(ModalEditUser)
	_ = c.loadUsers(ctx, false)
	return nil
}

func (c *Controller) SetAdmin(ctx context.Context, id int) error {
	if err := c.client.SetAdmin(ctx, id); err != nil {
		return c.fail(failed("set_admin", "Failed to grant admin role", err), true)
	}
	c.succeed("Admin role granted")
	_ = c.loadUsers(ctx, false)
	return nil
}

func (c *Controller) RemoveAdmin(ctx context.Context, id int) error {
	if err := c.client.RemoveAdmin(ctx, id); err != nil {
		return c.fail(failed("remove_admin", "Failed to remove admin role", err), true)
	}
	c.succeed("Admin role removed")
	_ = c.loadUsers(ctx, false)
	return nil
}

func (c *Controller) deleteUser(ctx context.Context, id int) error {
	if err := c.client.DeleteUser(ctx, id); err != nil {
		return c.fail(failed("delete_user", "Failed to delete user", err), true)
	}
	c.succeed("User deleted")
	_ = c.loadUsers(ctx, false)
	return nil
}
