package dashboard

import (
	"context"
	"sync"
	"testing"
	"time"

	"go-firewatch/internal/api"
	"go-firewatch/internal/apitest"
	"go-firewatch/internal/forms"
	"go-firewatch/internal/logging"
	"go-firewatch/internal/notify"
	"go-firewatch/internal/session"
	"go-firewatch/internal/store"
)

type shown struct {
	modal Modal
	opts  ShowOptions
}

type recordingPresenter struct {
	mu    sync.Mutex
	shows []shown
	hides []Modal
}

func (p *recordingPresenter) Show(m Modal, opts ShowOptions) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shows = append(p.shows, shown{modal: m, opts: opts})
}

func (p *recordingPresenter) Hide(m Modal) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hides = append(p.hides, m)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

type harness struct {
	c         *Controller
	backend   *apitest.Backend
	notices   *notify.Queue
	presenter *recordingPresenter
	clock     *fakeClock
	kv        *store.MemoryStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	backend := apitest.New(t)
	kv := store.NewMemoryStore()
	sess := session.New(kv, api.New(backend.URL(), 0), "default", logging.Discard())
	h := &harness{
		backend:   backend,
		notices:   notify.NewQueue(),
		presenter: &recordingPresenter{},
		clock:     &fakeClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		kv:        kv,
	}
	h.c = New(Options{
		Session:           sess,
		Notifier:          h.notices,
		Presenter:         h.presenter,
		Logger:            logging.Discard(),
		RegisterNoticeTTL: 3 * time.Second,
		Now:               h.clock.Now,
	})
	return h
}

// login signs in and forgets the requests it caused.
func (h *harness) login(t *testing.T, username, password string) {
	t.Helper()
	h.c.EditForms(func(f *forms.Set) {
		f.Login = forms.Login{Username: username, Password: password}
	})
	if err := h.c.Login(context.Background()); err != nil {
		t.Fatalf("Login(%s) error = %v", username, err)
	}
	h.backend.ResetRequests()
}

func (h *harness) lastNotice(t *testing.T) notify.Notice {
	t.Helper()
	all := h.notices.All()
	if len(all) == 0 {
		t.Fatalf("no notice raised")
	}
	return all[len(all)-1]
}
