// Package dashboard is the session and view synchronization controller. It owns the
// current view, the cached server collections, every form buffer and the modal
// flags, and keeps them consistent with the backend after each action.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go-firewatch/internal/api"
	"go-firewatch/internal/forms"
	"go-firewatch/internal/models"
	"go-firewatch/internal/notify"
	"go-firewatch/internal/session"
)

const registeredNotice = "Registration successful, please log in"

type Options struct {
	Session   *session.Store
	Notifier  notify.Notifier
	Presenter Presenter
	Logger    *slog.Logger

	// InitialView is the view shown before the user picks one.
	InitialView       View
	RegisterNoticeTTL time.Duration
	Now               func() time.Time
}

// AuthForm is the inline state of the login and register screens.
type AuthForm struct {
	ShowRegister    bool
	LoginError      string
	RegisterError   string
	RegisterSuccess string
}

// State is a copy of everything the presentation renders.
type State struct {
	View    View
	Session models.Session
	Cache   Cache
	Forms   forms.Set
	Auth    AuthForm
	Modals  map[Modal]bool
	Pending *Confirmation
}

type Controller struct {
	session  *session.Store
	client   *api.Client
	notifier notify.Notifier
	modals   *ModalCoordinator
	logger   *slog.Logger
	ttl      time.Duration
	now      func() time.Time

	mu            sync.Mutex
	view          View
	cache         Cache
	forms         forms.Set
	auth          AuthForm
	registerUntil time.Time
	pending       *Confirmation
}

func New(opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.NewQueue()
	}
	if opts.RegisterNoticeTTL <= 0 {
		opts.RegisterNoticeTTL = 3 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Controller{
		session:  opts.Session,
		client:   opts.Session.Client(),
		notifier: opts.Notifier,
		modals:   NewModalCoordinator(opts.Presenter),
		logger:   opts.Logger.With("component", "dashboard"),
		ttl:      opts.RegisterNoticeTTL,
		now:      opts.Now,
		view:     opts.InitialView,
		cache:    emptyCache(),
		forms:    forms.NewSet(),
	}
}

func (c *Controller) Modals() *ModalCoordinator {
	return c.modals
}

func (c *Controller) Session() models.Session {
	return c.session.Session()
}

func (c *Controller) State() State {
	c.expireRegisterNotice()

	open := make(map[Modal]bool, len(AllModals))
	for _, m := range AllModals {
		open[m] = c.modals.Visible(m)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	st := State{
		View:    c.view,
		Session: c.session.Session(),
		Cache:   c.cache.clone(),
		Forms:   c.forms,
		Auth:    c.auth,
		Modals:  open,
	}
	if c.pending != nil {
		p := *c.pending
		st.Pending = &p
	}
	return st
}

// EditForms applies fn to the form buffers under the controller lock.
func (c *Controller) EditForms(fn func(*forms.Set)) {
	c.mu.Lock()
	fn(&c.forms)
	c.mu.Unlock()
}

// fail logs a failed operation and raises its notice when alert is set.
func (c *Controller) fail(err *ServerError, alert bool) error {
	c.logger.Error("operation failed", "op", err.Op, "error", err.Err)
	if alert {
		notify.Errorf(c.notifier, "%s", err.Message)
	}
	return err
}

// reject reports a precondition or input problem. No request has been made.
func (c *Controller) reject(op string, err error) error {
	var fe *forms.FieldError
	if errors.As(err, &fe) {
		err = &ValidationError{Field: fe.Field, Message: fe.Message}
	}
	c.logger.Warn("operation rejected", "op", op, "error", err)
	notify.Errorf(c.notifier, "%s", err)
	return err
}

func (c *Controller) succeed(msg string) {
	notify.Successf(c.notifier, "%s", msg)
}

func (c *Controller) Login(ctx context.Context) error {
	c.mu.Lock()
	creds := session.Credentials{Username: c.forms.Login.Username, Password: c.forms.Login.Password}
	c.auth.LoginError = ""
	c.mu.Unlock()

	if _, err := c.session.Login(ctx, creds); err != nil {
		var authErr *AuthError
		msg := session.LoginFallback
		if errors.As(err, &authErr) {
			msg = authErr.Message
		}
		c.mu.Lock()
		c.auth.LoginError = msg
		c.mu.Unlock()
		return err
	}

	// Admin-only data and confirmations belong to whoever was logged in before.
	c.mu.Lock()
	c.forms.Login = forms.Login{}
	c.cache.Users = nil
	c.pending = nil
	c.mu.Unlock()
	c.LoadInitialData(ctx)
	return nil
}

func (c *Controller) Register(ctx context.Context) error {
	c.mu.Lock()
	f := c.forms.Register
	c.auth.RegisterError = ""
	c.auth.RegisterSuccess = ""
	c.mu.Unlock()

	err := c.session.Register(ctx, session.Registration{
		Username:        f.Username,
		Email:           f.Email,
		Password:        f.Password,
		ConfirmPassword: f.ConfirmPassword,
	})
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.auth.RegisterError = err.Error()
		return err
	}
	c.auth.RegisterSuccess = registeredNotice
	c.registerUntil = c.now().Add(c.ttl)
	c.forms.Register = forms.Register{}
	return nil
}

// RegisterNoticeTTL is how long the registration success notice stays up.
func (c *Controller) RegisterNoticeTTL() time.Duration {
	return c.ttl
}

// expireRegisterNotice clears a stale success notice and returns to the login form.
func (c *Controller) expireRegisterNotice() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.auth.RegisterSuccess == "" || c.now().Before(c.registerUntil) {
		return
	}
	c.auth.RegisterSuccess = ""
	c.auth.ShowRegister = false
}

func (c *Controller) ShowRegister(show bool) {
	c.mu.Lock()
	c.auth.ShowRegister = show
	c.mu.Unlock()
}

// Logout clears the session and admin-only data, then returns to the monitor view.
func (c *Controller) Logout(ctx context.Context) {
	c.session.Logout()

	c.mu.Lock()
	changed := c.view != ViewMonitor
	c.view = ViewMonitor
	c.cache.Users = nil
	c.pending = nil
	c.mu.Unlock()

	if changed {
		_ = c.loaderFor(ViewMonitor)(ctx, true)
	}
}
