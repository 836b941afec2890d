package dashboard

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"go-firewatch/internal/forms"
	"go-firewatch/internal/models"
	"go-firewatch/internal/notify"
)

func TestAddMonitorPoint(t *testing.T) {
	h := newHarness(t)
	h.c.OpenAddPoint()
	h.c.Modals().Flush()
	h.c.EditForms(func(f *forms.Set) {
		f.Point = forms.Point{Name: "Ridge A", Latitude: "40.1", Longitude: "-120.3"}
	})

	if err := h.c.AddMonitorPoint(context.Background()); err != nil {
		t.Fatalf("AddMonitorPoint() error = %v", err)
	}

	st := h.c.State()
	if st.Modals[ModalAddPoint] {
		t.Fatalf("add point modal still open")
	}
	if n := h.backend.Count(http.MethodGet, "/monitor/points"); n != 1 {
		t.Fatalf("points reloaded %d times, want 1", n)
	}
	found := false
	for _, p := range st.Cache.MonitorPoints {
		if p.Name == "Ridge A" && p.Latitude == 40.1 && p.Longitude == -120.3 {
			found = true
		}
	}
	if !found {
		t.Fatalf("new point missing from %+v", st.Cache.MonitorPoints)
	}
	if st.Forms.Point != forms.DefaultPoint() {
		t.Fatalf("point form not reset: %+v", st.Forms.Point)
	}
	if n := h.lastNotice(t); n.Level != notify.Success {
		t.Fatalf("notice = %+v", n)
	}
	if len(h.presenter.hides) != 1 || h.presenter.hides[0] != ModalAddPoint {
		t.Fatalf("hides = %v", h.presenter.hides)
	}
}

func TestAddMonitorPoint_ServerRejects(t *testing.T) {
	h := newHarness(t)
	h.c.OpenAddPoint()
	h.c.EditForms(func(f *forms.Set) {
		f.Point = forms.Point{Name: "North Ridge", Latitude: "1", Longitude: "2"}
	})

	err := h.c.AddMonitorPoint(context.Background())
	var sErr *ServerError
	if !errors.As(err, &sErr) {
		t.Fatalf("AddMonitorPoint() error = %v, want *ServerError", err)
	}

	st := h.c.State()
	if !st.Modals[ModalAddPoint] {
		t.Fatalf("modal closed after failure")
	}
	if st.Forms.Point.Name != "North Ridge" {
		t.Fatalf("form reset after failure")
	}
	if n := h.backend.Count(http.MethodGet, "/monitor/points"); n != 0 {
		t.Fatalf("reloaded after failure")
	}
	if n := h.lastNotice(t); n.Message != "Failed to add monitor point: Monitor point name already exists" {
		t.Fatalf("notice = %q", n.Message)
	}
}

func TestAddMonitorPoint_InvalidInputMakesNoRequest(t *testing.T) {
	h := newHarness(t)
	h.c.EditForms(func(f *forms.Set) { f.Point = forms.Point{Name: "", Latitude: "1", Longitude: "2"} })

	err := h.c.AddMonitorPoint(context.Background())
	var vErr *ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "name" {
		t.Fatalf("AddMonitorPoint() error = %v, want name ValidationError", err)
	}
	if len(h.backend.Requests()) != 0 {
		t.Fatalf("request sent for invalid input")
	}
}

func TestAddMonitorRecord_RequiresLogin(t *testing.T) {
	h := newHarness(t)
	h.c.EditForms(func(f *forms.Set) { f.Record = forms.DefaultRecord("1") })

	if err := h.c.AddMonitorRecord(context.Background()); err == nil {
		t.Fatalf("AddMonitorRecord() error = nil")
	}
	if len(h.backend.Requests()) != 0 {
		t.Fatalf("request sent without a session")
	}
	if n := h.lastNotice(t); n.Message != "Please log in first" {
		t.Fatalf("notice = %q", n.Message)
	}
}

func TestAddMonitorRecord_KeepsPointAndRefreshesPrediction(t *testing.T) {
	h := newHarness(t)
	h.login(t, "alice", "alice123")
	_ = h.c.SetView(context.Background(), ViewPrediction)
	h.backend.ResetRequests()

	h.c.OpenAddRecord()
	h.c.EditForms(func(f *forms.Set) {
		f.Record = forms.Record{MonitorPointID: "1", WindSpeed: "22", Temperature: "35", Humidity: "12"}
	})
	if err := h.c.AddMonitorRecord(context.Background()); err != nil {
		t.Fatalf("AddMonitorRecord() error = %v", err)
	}

	st := h.c.State()
	if st.Forms.Record != forms.DefaultRecord("1") {
		t.Fatalf("record form = %+v, want defaults with point 1", st.Forms.Record)
	}
	if st.Modals[ModalAddRecord] {
		t.Fatalf("record modal still open")
	}
	if n := h.backend.Count(http.MethodGet, "/monitor/latest"); n != 1 {
		t.Fatalf("monitor reloaded %d times", n)
	}
	if n := h.backend.Count(http.MethodGet, "/fire/predict"); n != 1 {
		t.Fatalf("predictions reloaded %d times", n)
	}
	if len(st.Cache.MonitorRecords) != 2 {
		t.Fatalf("records = %+v", st.Cache.MonitorRecords)
	}
}

func TestAddMonitorRecord_MonitorViewSkipsPrediction(t *testing.T) {
	h := newHarness(t)
	h.login(t, "alice", "alice123")
	h.c.EditForms(func(f *forms.Set) { f.Record = forms.DefaultRecord("1") })

	if err := h.c.AddMonitorRecord(context.Background()); err != nil {
		t.Fatalf("AddMonitorRecord() error = %v", err)
	}
	if n := h.backend.Count(http.MethodGet, "/fire/predict"); n != 0 {
		t.Fatalf("predictions reloaded from the monitor view")
	}
}

func TestDeleteMonitorRecord_NonAdminRejected(t *testing.T) {
	h := newHarness(t)
	h.login(t, "alice", "alice123")

	if err := h.c.RequestDeleteMonitorRecord(1); err == nil {
		t.Fatalf("RequestDeleteMonitorRecord() error = nil")
	}
	if h.c.State().Pending != nil {
		t.Fatalf("confirmation pending for a non-admin")
	}
	_ = h.c.ConfirmPending(context.Background())
	if len(h.backend.Requests()) != 0 {
		t.Fatalf("requests = %+v, want none", h.backend.Requests())
	}
}

func TestDeleteMonitorRecord_Confirmation(t *testing.T) {
	h := newHarness(t)
	h.login(t, "admin", "admin123")

	if err := h.c.RequestDeleteMonitorRecord(1); err != nil {
		t.Fatalf("RequestDeleteMonitorRecord() error = %v", err)
	}
	h.c.CancelPending()
	if err := h.c.ConfirmPending(context.Background()); err != nil {
		t.Fatalf("ConfirmPending() after cancel error = %v", err)
	}
	if len(h.backend.Requests()) != 0 {
		t.Fatalf("cancelled deletion still sent a request")
	}

	_ = h.c.RequestDeleteMonitorRecord(1)
	if p := h.c.State().Pending; p == nil || p.Kind != ConfirmDeleteRecord || p.ID != 1 {
		t.Fatalf("Pending = %+v", p)
	}
	if err := h.c.ConfirmPending(context.Background()); err != nil {
		t.Fatalf("ConfirmPending() error = %v", err)
	}
	if n := h.backend.Count(http.MethodDelete, "/monitor/records/1"); n != 1 {
		t.Fatalf("delete sent %d times", n)
	}
	if n := h.backend.Count(http.MethodGet, "/monitor/latest"); n != 1 {
		t.Fatalf("monitor reloaded %d times", n)
	}
	if len(h.c.State().Cache.MonitorRecords) != 0 {
		t.Fatalf("deleted record still cached")
	}
}

func TestMonitorDetail(t *testing.T) {
	h := newHarness(t)
	h.c.MonitorDetail(models.MonitorRecord{MonitorPointName: "North Ridge", WindSpeed: 12, Humidity: 22, Latitude: 35.1})

	n := h.lastNotice(t)
	if n.Level != notify.Info || !strings.Contains(n.Message, "North Ridge") || !strings.Contains(n.Message, "Humidity: 22 %") {
		t.Fatalf("notice = %+v", n)
	}
}

func TestAddUser(t *testing.T) {
	h := newHarness(t)
	h.login(t, "admin", "admin123")
	h.c.OpenAddUser()
	h.c.EditForms(func(f *forms.Set) {
		f.NewUser = forms.NewUser{Username: "carol", Email: "c@x.org", Password: "pw", Role: models.RoleAdmin}
	})

	if err := h.c.AddUser(context.Background()); err != nil {
		t.Fatalf("AddUser() error = %v", err)
	}
	st := h.c.State()
	if n := h.backend.Count(http.MethodGet, "/users/"); n != 1 {
		t.Fatalf("users reloaded %d times", n)
	}
	if st.Forms.NewUser != forms.DefaultNewUser() || st.Modals[ModalAddUser] {
		t.Fatalf("form or modal not reset: %+v %v", st.Forms.NewUser, st.Modals)
	}
	var found bool
	for _, u := range st.Cache.Users {
		found = found || (u.Username == "carol" && u.Role == models.RoleAdmin)
	}
	if !found {
		t.Fatalf("carol missing from %+v", st.Cache.Users)
	}
}

func TestAddUser_Duplicate(t *testing.T) {
	h := newHarness(t)
	h.login(t, "admin", "admin123")
	h.c.EditForms(func(f *forms.Set) {
		f.NewUser = forms.NewUser{Username: "alice", Email: "a@x.org", Password: "pw", Role: models.RoleUser}
	})

	if err := h.c.AddUser(context.Background()); err == nil {
		t.Fatalf("AddUser() error = nil")
	}
	if n := h.lastNotice(t); n.Message != "Failed to add user: Username already exists" {
		t.Fatalf("notice = %q", n.Message)
	}
	if h.backend.Count(http.MethodGet, "/users/") != 0 {
		t.Fatalf("reloaded after failure")
	}
	if h.c.State().Forms.NewUser.Username != "alice" {
		t.Fatalf("form reset after failure")
	}
}

func TestEditUser(t *testing.T) {
	h := newHarness(t)
	h.login(t, "admin", "admin123")

	h.c.OpenEditUser(models.User{ID: 2, Username: "alice", Email: "alice@example.org", Role: models.RoleUser})
	st := h.c.State()
	if st.Forms.EditUser.ID != 2 || st.Forms.EditUser.Password != "" || !st.Modals[ModalEditUser] {
		t.Fatalf("edit form = %+v, modals %v", st.Forms.EditUser, st.Modals)
	}

	h.c.EditForms(func(f *forms.Set) { f.EditUser.Email = "alice@fire.org" })
	if err := h.c.UpdateUser(context.Background()); err != nil {
		t.Fatalf("UpdateUser() error = %v", err)
	}
	req, _ := h.backend.Last(http.MethodPut, "/users/2")
	if _, ok := req.Body["password"]; ok {
		t.Fatalf("blank password sent: %v", req.Body)
	}
	if req.Body["email"] != "alice@fire.org" {
		t.Fatalf("body = %v", req.Body)
	}
	if n := h.backend.Count(http.MethodGet, "/users/"); n != 1 {
		t.Fatalf("users reloaded %d times", n)
	}
	if h.c.State().Modals[ModalEditUser] {
		t.Fatalf("edit modal still open")
	}
}

func TestRoleChanges(t *testing.T) {
	h := newHarness(t)
	h.login(t, "admin", "admin123")

	if err := h.c.SetAdmin(context.Background(), 2); err != nil {
		t.Fatalf("SetAdmin() error = %v", err)
	}
	if err := h.c.RemoveAdmin(context.Background(), 2); err != nil {
		t.Fatalf("RemoveAdmin() error = %v", err)
	}
	if n := h.backend.Count(http.MethodGet, "/users/"); n != 2 {
		t.Fatalf("users reloaded %d times, want 2", n)
	}

	h.backend.ResetRequests()
	if err := h.c.RemoveAdmin(context.Background(), 2); err == nil {
		t.Fatalf("RemoveAdmin() on a plain user error = nil")
	}
	if n := h.lastNotice(t); n.Message != "Failed to remove admin role" {
		t.Fatalf("notice = %q", n.Message)
	}
	if h.backend.Count(http.MethodGet, "/users/") != 0 {
		t.Fatalf("reloaded after failure")
	}
}

func TestDeleteUser(t *testing.T) {
	h := newHarness(t)
	h.login(t, "admin", "admin123")

	h.c.RequestDeleteUser(2)
	if len(h.backend.Requests()) != 0 {
		t.Fatalf("request sent before confirmation")
	}
	if err := h.c.ConfirmPending(context.Background()); err != nil {
		t.Fatalf("ConfirmPending() error = %v", err)
	}
	if n := h.backend.Count(http.MethodDelete, "/users/2"); n != 1 {
		t.Fatalf("delete sent %d times", n)
	}
	for _, u := range h.c.State().Cache.Users {
		if u.ID == 2 {
			t.Fatalf("deleted user still cached")
		}
	}
}
