package dashboard

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"go-firewatch/internal/forms"
)

func TestLogin_Success(t *testing.T) {
	h := newHarness(t)
	h.c.EditForms(func(f *forms.Set) { f.Login = forms.Login{Username: "admin", Password: "admin123"} })

	if err := h.c.Login(context.Background()); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	st := h.c.State()
	if !st.Session.LoggedIn() || !st.Session.IsAdmin() {
		t.Fatalf("session = %+v, want logged-in admin", st.Session)
	}
	if st.Forms.Login != (forms.Login{}) {
		t.Fatalf("login form not cleared: %+v", st.Forms.Login)
	}
	if token, ok, _ := h.kv.Get("default/token"); !ok || token != st.Session.Token {
		t.Fatalf("token not persisted")
	}
	if n := h.backend.Count(http.MethodGet, "/monitor/points"); n != 1 {
		t.Fatalf("initial monitor load ran %d times, want 1", n)
	}
	req, _ := h.backend.Last(http.MethodGet, "/monitor/points")
	if req.Auth != "Bearer "+st.Session.Token {
		t.Fatalf("Authorization = %q", req.Auth)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	h := newHarness(t)
	h.c.EditForms(func(f *forms.Set) { f.Login = forms.Login{Username: "admin", Password: "wrongpass"} })

	err := h.c.Login(context.Background())
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("Login() error = %v, want *AuthError", err)
	}

	st := h.c.State()
	if st.Auth.LoginError != "Invalid username or password" {
		t.Fatalf("LoginError = %q", st.Auth.LoginError)
	}
	if st.Session.LoggedIn() {
		t.Fatalf("logged in after wrong password")
	}
	if _, ok, _ := h.kv.Get("default/token"); ok {
		t.Fatalf("token persisted after wrong password")
	}
	if h.notices.Len() != 0 {
		t.Fatalf("auth errors are shown inline, got notices %+v", h.notices.All())
	}
}

func TestRegister_MismatchMakesNoRequest(t *testing.T) {
	h := newHarness(t)
	h.c.EditForms(func(f *forms.Set) {
		f.Register = forms.Register{Username: "bob", Email: "b@x.org", Password: "a", ConfirmPassword: "b"}
	})

	err := h.c.Register(context.Background())
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Register() error = %v, want *ValidationError", err)
	}
	if n := len(h.backend.Requests()); n != 0 {
		t.Fatalf("requests = %d, want 0", n)
	}
	if got := h.c.State().Auth.RegisterError; got != "Passwords do not match" {
		t.Fatalf("RegisterError = %q", got)
	}
}

func TestRegister_SuccessNoticeExpires(t *testing.T) {
	h := newHarness(t)
	h.c.ShowRegister(true)
	h.c.EditForms(func(f *forms.Set) {
		f.Register = forms.Register{Username: "bob", Email: "b@x.org", Password: "pw", ConfirmPassword: "pw"}
	})

	if err := h.c.Register(context.Background()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	st := h.c.State()
	if st.Auth.RegisterSuccess == "" || !st.Auth.ShowRegister {
		t.Fatalf("auth form = %+v, want success notice on the register screen", st.Auth)
	}
	if st.Forms.Register != (forms.Register{}) {
		t.Fatalf("register form not cleared")
	}
	if st.Session.LoggedIn() {
		t.Fatalf("registration logged the user in")
	}

	h.clock.Advance(2 * time.Second)
	if h.c.State().Auth.RegisterSuccess == "" {
		t.Fatalf("notice cleared before the delay")
	}

	h.clock.Advance(time.Second)
	st = h.c.State()
	if st.Auth.RegisterSuccess != "" || st.Auth.ShowRegister {
		t.Fatalf("auth form after delay = %+v, want cleared and back on login", st.Auth)
	}
}

func TestRegister_ServerError(t *testing.T) {
	h := newHarness(t)
	h.c.EditForms(func(f *forms.Set) {
		f.Register = forms.Register{Username: "alice", Email: "a@x.org", Password: "pw", ConfirmPassword: "pw"}
	})

	err := h.c.Register(context.Background())
	var sErr *ServerError
	if !errors.As(err, &sErr) {
		t.Fatalf("Register() error = %v, want *ServerError", err)
	}
	if got := h.c.State().Auth.RegisterError; got != "Username already exists" {
		t.Fatalf("RegisterError = %q", got)
	}
}

func TestSetView_RunsOneLoader(t *testing.T) {
	tests := []struct {
		view  View
		paths []string
	}{
		{view: ViewMonitor, paths: []string{"/monitor/points", "/monitor/latest"}},
		{view: ViewPrediction, paths: []string{"/fire/predict"}},
		{view: ViewFireSettings, paths: []string{"/fire/threshold"}},
		{view: ViewStats, paths: []string{"/stats/fire-count", "/stats/summary"}},
		{view: ViewUsers, paths: []string{"/users/"}},
	}

	for _, tt := range tests {
		t.Run(tt.view.String(), func(t *testing.T) {
			h := newHarness(t)
			h.login(t, "admin", "admin123")

			if err := h.c.SetView(context.Background(), tt.view); err != nil {
				t.Fatalf("SetView() error = %v", err)
			}
			reqs := h.backend.Requests()
			if len(reqs) != len(tt.paths) {
				t.Fatalf("requests = %+v, want %v", reqs, tt.paths)
			}
			for _, p := range tt.paths {
				if n := h.backend.Count(http.MethodGet, p); n != 1 {
					t.Errorf("GET %s count = %d, want 1", p, n)
				}
			}
			if h.c.View() != tt.view {
				t.Errorf("View() = %v", h.c.View())
			}
		})
	}
}

func TestSetView_UsersRequiresAdmin(t *testing.T) {
	h := newHarness(t)

	_ = h.c.SetView(context.Background(), ViewUsers)
	if n := h.backend.Count(http.MethodGet, "/users/"); n != 0 {
		t.Fatalf("logged out: /users/ requests = %d, want 0", n)
	}

	h.login(t, "alice", "alice123")
	_ = h.c.SetView(context.Background(), ViewUsers)
	if n := h.backend.Count(http.MethodGet, "/users/"); n != 0 {
		t.Fatalf("non-admin: /users/ requests = %d, want 0", n)
	}
	if users := h.c.State().Cache.Users; len(users) != 0 {
		t.Fatalf("users = %+v, want empty", users)
	}
}

func TestLogin_SwitchingUserDropsAdminData(t *testing.T) {
	h := newHarness(t)
	h.login(t, "admin", "admin123")
	_ = h.c.SetView(context.Background(), ViewUsers)
	if users := h.c.State().Cache.Users; len(users) != 2 {
		t.Fatalf("admin users = %d, want 2", len(users))
	}
	h.c.RequestDeleteUser(2)

	h.login(t, "alice", "alice123")
	st := h.c.State()
	if len(st.Cache.Users) != 0 {
		t.Fatalf("users after switching to alice = %+v, want empty", st.Cache.Users)
	}
	if st.Pending != nil {
		t.Fatalf("Pending after switching user = %+v, want nil", st.Pending)
	}

	_ = h.c.SetView(context.Background(), ViewUsers)
	if n := h.backend.Count(http.MethodGet, "/users/"); n != 0 {
		t.Fatalf("non-admin: /users/ requests = %d, want 0", n)
	}
	if users := h.c.State().Cache.Users; len(users) != 0 {
		t.Fatalf("users on the users view = %+v, want empty", users)
	}
}

func TestLoadMonitorData_FailureKeepsCache(t *testing.T) {
	h := newHarness(t)
	if err := h.c.LoadMonitorData(context.Background()); err != nil {
		t.Fatalf("LoadMonitorData() error = %v", err)
	}
	before := h.c.State().Cache

	h.backend.Fail(http.MethodGet, "/monitor/latest", http.StatusInternalServerError, "db down")
	h.backend.Points = append(h.backend.Points, h.backend.Points[0])

	err := h.c.LoadMonitorData(context.Background())
	var sErr *ServerError
	if !errors.As(err, &sErr) {
		t.Fatalf("LoadMonitorData() error = %v, want *ServerError", err)
	}
	after := h.c.State().Cache
	if len(after.MonitorPoints) != len(before.MonitorPoints) {
		t.Fatalf("points applied although records failed: %d -> %d", len(before.MonitorPoints), len(after.MonitorPoints))
	}
	if n := h.lastNotice(t); n.Message != "Failed to load monitor data" {
		t.Fatalf("notice = %+v", n)
	}
}

func TestLoadMonitorData_PointsFailureAborts(t *testing.T) {
	h := newHarness(t)
	h.backend.Break(http.MethodGet, "/monitor/points")

	if err := h.c.LoadMonitorData(context.Background()); err == nil {
		t.Fatalf("LoadMonitorData() error = nil")
	}
	if n := h.backend.Count(http.MethodGet, "/monitor/latest"); n != 0 {
		t.Fatalf("records fetched after points failed: %d", n)
	}
}

func TestLoadInitialData_IsSilent(t *testing.T) {
	h := newHarness(t)
	h.backend.Fail(http.MethodGet, "/monitor/points", http.StatusInternalServerError, "down")

	h.c.LoadInitialData(context.Background())
	if h.notices.Len() != 0 {
		t.Fatalf("initial load raised notices: %+v", h.notices.All())
	}
}

func TestLoadPredictionData_Failure(t *testing.T) {
	h := newHarness(t)
	h.backend.Fail(http.MethodGet, "/fire/predict", http.StatusInternalServerError, "down")

	if err := h.c.LoadPredictionData(context.Background()); err == nil {
		t.Fatalf("LoadPredictionData() error = nil")
	}
	if n := h.lastNotice(t); n.Message != "Failed to load prediction data" {
		t.Fatalf("notice = %+v", n)
	}
}

func TestLoadStatData(t *testing.T) {
	h := newHarness(t)
	_ = h.c.LoadStatData(context.Background())

	st := h.c.State().Cache
	if st.RiskStats["high"] != 2 || st.Summary.TotalFireRecords != 3 || len(st.RecentFires) != 1 {
		t.Fatalf("stats = %+v", st)
	}

	h.backend.Fail(http.MethodGet, "/stats/summary", http.StatusInternalServerError, "down")
	_ = h.c.LoadStatData(context.Background())

	st = h.c.State().Cache
	if len(st.RiskStats) != 0 || st.Summary.TotalFireRecords != 0 || len(st.RecentFires) != 0 {
		t.Fatalf("stats after failure = %+v, want empty defaults", st)
	}
	if st.RiskStats == nil || st.RecentFires == nil {
		t.Fatalf("defaults should be empty, not nil")
	}
	if h.notices.Len() != 0 {
		t.Fatalf("stats failure raised notices")
	}
}

func TestLoadUserData_FailureIsSilent(t *testing.T) {
	h := newHarness(t)
	h.login(t, "admin", "admin123")
	_ = h.c.LoadUserData(context.Background())
	if len(h.c.State().Cache.Users) == 0 {
		t.Fatalf("users not loaded")
	}

	h.backend.Fail(http.MethodGet, "/users/", http.StatusInternalServerError, "down")
	_ = h.c.LoadUserData(context.Background())
	if n := len(h.c.State().Cache.Users); n != 0 {
		t.Fatalf("users after failure = %d, want 0", n)
	}
	if h.notices.Len() != 0 {
		t.Fatalf("user load failure raised notices")
	}
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	h.login(t, "admin", "admin123")
	_ = h.c.SetView(context.Background(), ViewUsers)
	h.backend.ResetRequests()

	h.c.Logout(context.Background())

	st := h.c.State()
	if st.Session.LoggedIn() || st.View != ViewMonitor || len(st.Cache.Users) != 0 {
		t.Fatalf("state after logout = view %v, session %+v, users %d", st.View, st.Session, len(st.Cache.Users))
	}
	if _, ok, _ := h.kv.Get("default/token"); ok {
		t.Fatalf("token still persisted")
	}
	if n := h.backend.Count(http.MethodGet, "/monitor/points"); n != 1 {
		t.Fatalf("monitor reload count = %d, want 1", n)
	}
	req, _ := h.backend.Last(http.MethodGet, "/monitor/points")
	if req.Auth != "" {
		t.Fatalf("Authorization sent after logout: %q", req.Auth)
	}
}

func TestRefreshActive(t *testing.T) {
	h := newHarness(t)
	if !h.c.RefreshActive(context.Background()) {
		t.Fatalf("monitor view should refresh")
	}
	if n := h.backend.Count(http.MethodGet, "/monitor/latest"); n != 1 {
		t.Fatalf("latest count = %d", n)
	}

	_ = h.c.SetView(context.Background(), ViewStats)
	h.backend.ResetRequests()
	if h.c.RefreshActive(context.Background()) {
		t.Fatalf("stats view should not refresh on a feed signal")
	}
	if len(h.backend.Requests()) != 0 {
		t.Fatalf("unexpected requests")
	}
}

func TestNew_InitialView(t *testing.T) {
	h := newHarness(t)
	c := New(Options{Session: h.c.session, InitialView: ViewPrediction})
	if c.View() != ViewPrediction {
		t.Fatalf("View() = %v, want prediction", c.View())
	}

	c.LoadInitialData(context.Background())
	if n := h.backend.Count(http.MethodGet, "/fire/predict"); n != 1 {
		t.Fatalf("/fire/predict requests = %d, want 1", n)
	}
	if n := h.backend.Count(http.MethodGet, "/monitor/latest"); n != 0 {
		t.Fatalf("monitor loaded for a prediction start: %d", n)
	}
}

func TestParseView(t *testing.T) {
	for _, v := range Views {
		got, ok := ParseView(v.String())
		if !ok || got != v {
			t.Errorf("ParseView(%q) = %v, %v", v.String(), got, ok)
		}
	}
	if _, ok := ParseView("map"); ok {
		t.Errorf("ParseView(map) ok = true")
	}
}
