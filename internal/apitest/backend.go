// Package apitest runs an in-process fake of the monitoring backend for tests.
package apitest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	"go-firewatch/internal/models"
)

type Request struct {
	Method string
	Path   string
	Auth   string
	Body   map[string]any
}

type account struct {
	user     models.User
	password string
}

type failure struct {
	status  int
	message string
	abort   bool
}

type Backend struct {
	Server *httptest.Server

	mu       sync.Mutex
	requests []Request
	failures map[string]failure
	tokens   map[string]string
	accounts []account
	nextID   int

	Points      []models.MonitorPoint
	Records     []models.MonitorRecord
	Predictions []models.FirePrediction
	Threshold   models.ThresholdSettings
	FireCount   models.FireCount
	Summary     models.Summary
	Saved       []map[string]any

	// CustomResult, when set, replaces the computed custom prediction body.
	CustomResult map[string]any
}

// New starts a backend seeded with an admin (admin/admin123) and a user (alice/alice123).
func New(t testing.TB) *Backend {
	t.Helper()

	b := &Backend{
		failures: map[string]failure{},
		tokens:   map[string]string{},
		nextID:   1,
		Threshold: models.ThresholdSettings{
			WindSpeedThreshold:   10,
			TemperatureThreshold: 30,
			HumidityThreshold:    30,
		},
		FireCount: models.FireCount{Total: 3, ByRisk: map[string]int{"low": 1, "high": 2}},
		Summary: models.Summary{
			MonitorPointsCount:    1,
			TotalFireRecords:      3,
			HighRiskAreasLastWeek: 2,
			AvgFireArea:           1.25,
			RecentFires:           []models.FireRecord{{ID: 1, MonitorPointID: 1, RiskLevel: models.RiskHigh, PredictedArea: 2}},
		},
	}
	b.AddAccount("admin", "admin@example.org", "admin123", models.RoleAdmin)
	b.AddAccount("alice", "alice@example.org", "alice123", models.RoleUser)
	b.Points = []models.MonitorPoint{{ID: 1, Name: "North Ridge", Latitude: 35.1, Longitude: 116.2, Active: true}}
	b.Records = []models.MonitorRecord{{ID: 1, MonitorPointID: 1, MonitorPointName: "North Ridge", WindSpeed: 12, Temperature: 31, Humidity: 22, Timestamp: "2024-05-01 10:00:00"}}
	b.Predictions = []models.FirePrediction{{MonitorPointName: "North Ridge", WindSpeed: 12, Temperature: 31, Humidity: 22, RiskLevel: models.RiskHigh, PredictedArea: 2.4}}

	b.Server = httptest.NewServer(b.router())
	t.Cleanup(b.Server.Close)
	return b
}

// URL is the API base, including the /api prefix.
func (b *Backend) URL() string {
	return b.Server.URL + "/api"
}

func (b *Backend) AddAccount(username, email, password, role string) models.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := models.User{ID: b.nextID, Username: username, Email: email, Role: role}
	b.nextID++
	b.accounts = append(b.accounts, account{user: u, password: password})
	return u
}

// Fail makes METHOD path (without the /api prefix) answer status with message.
func (b *Backend) Fail(method, path string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+path] = failure{status: status, message: message}
}

// Break makes METHOD path drop the connection, as a network failure would.
func (b *Backend) Break(method, path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+path] = failure{abort: true}
}

func (b *Backend) Heal() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = map[string]failure{}
}

func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Request, len(b.requests))
	copy(out, b.requests)
	return out
}

// Count returns how many times METHOD path (without /api) was requested.
func (b *Backend) Count(method, path string) int {
	n := 0
	for _, r := range b.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (b *Backend) ResetRequests() {
	b.mu.Lock()
	b.requests = nil
	b.mu.Unlock()
}

// Last returns the most recent request to METHOD path.
func (b *Backend) Last(method, path string) (Request, bool) {
	reqs := b.Requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].Method == method && reqs[i].Path == path {
			return reqs[i], true
		}
	}
	return Request{}, false
}

func (b *Backend) Users() []models.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.User, 0, len(b.accounts))
	for _, a := range b.accounts {
		out = append(out, a.user)
	}
	return out
}

func (b *Backend) router() http.Handler {
	r := mux.NewRouter()
	r.Use(b.record)
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/login", b.login).Methods(http.MethodPost)
	api.HandleFunc("/auth/register", b.register).Methods(http.MethodPost)

	api.HandleFunc("/monitor/points", b.listPoints).Methods(http.MethodGet)
	api.HandleFunc("/monitor/points", b.createPoint).Methods(http.MethodPost)
	api.HandleFunc("/monitor/latest", b.latest).Methods(http.MethodGet)
	api.HandleFunc("/monitor/records", b.createRecord).Methods(http.MethodPost)
	api.HandleFunc("/monitor/records/{id:[0-9]+}", b.deleteRecord).Methods(http.MethodDelete)

	api.HandleFunc("/fire/predict", b.predictions).Methods(http.MethodGet)
	api.HandleFunc("/fire/predict/custom", b.custom).Methods(http.MethodPost)
	api.HandleFunc("/fire/save-prediction", b.savePrediction).Methods(http.MethodPost)
	api.HandleFunc("/fire/threshold", b.getThreshold).Methods(http.MethodGet)
	api.HandleFunc("/fire/threshold", b.setThreshold).Methods(http.MethodPost)

	api.HandleFunc("/stats/fire-count", b.fireCount).Methods(http.MethodGet)
	api.HandleFunc("/stats/summary", b.summary).Methods(http.MethodGet)

	api.HandleFunc("/users/", b.listUsers).Methods(http.MethodGet)
	api.HandleFunc("/users/", b.createUser).Methods(http.MethodPost)
	api.HandleFunc("/users/set-admin/{id:[0-9]+}", b.setRole(models.RoleAdmin)).Methods(http.MethodPut)
	api.HandleFunc("/users/remove-admin/{id:[0-9]+}", b.setRole(models.RoleUser)).Methods(http.MethodPut)
	api.HandleFunc("/users/{id:[0-9]+}", b.updateUser).Methods(http.MethodPut)
	api.HandleFunc("/users/{id:[0-9]+}", b.deleteUser).Methods(http.MethodDelete)
	return r
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/api")
		req := Request{Method: r.Method, Path: path, Auth: r.Header.Get("Authorization")}
		if r.Body != nil {
			blob, _ := io.ReadAll(r.Body)
			_ = r.Body.Close()
			if len(blob) > 0 {
				_ = json.Unmarshal(blob, &req.Body)
			}
			r.Body = io.NopCloser(strings.NewReader(string(blob)))
		}

		b.mu.Lock()
		b.requests = append(b.requests, req)
		f, failing := b.failures[r.Method+" "+path]
		b.mu.Unlock()

		if failing {
			if f.abort {
				panic(http.ErrAbortHandler)
			}
			writeJSON(w, f.status, map[string]string{"message": f.message})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func message(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func pathID(r *http.Request) int {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	return id
}

// caller resolves the bearer token; callers must hold b.mu.
func (b *Backend) caller(r *http.Request) (models.User, bool) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	name, ok := b.tokens[token]
	if !ok {
		return models.User{}, false
	}
	for _, a := range b.accounts {
		if a.user.Username == name {
			return a.user, true
		}
	}
	return models.User{}, false
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Username == "" || in.Password == "" {
		message(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, a := range b.accounts {
		if a.user.Username == in.Username && a.password == in.Password {
			token := "token-" + a.user.Username
			b.tokens[token] = a.user.Username
			writeJSON(w, http.StatusOK, map[string]any{
				"message":      "Login successful",
				"access_token": token,
				"user":         a.user,
			})
			return
		}
	}
	message(w, http.StatusUnauthorized, "Invalid username or password")
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Username == "" || in.Password == "" || in.Email == "" {
		message(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	for _, u := range b.Users() {
		if u.Username == in.Username {
			message(w, http.StatusBadRequest, "Username already exists")
			return
		}
	}
	b.AddAccount(in.Username, in.Email, in.Password, models.RoleUser)
	message(w, http.StatusCreated, "Registered")
}

func (b *Backend) listPoints(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.Points)
}

func (b *Backend) createPoint(w http.ResponseWriter, r *http.Request) {
	var in models.MonitorPoint
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Name == "" {
		message(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, p := range b.Points {
		if p.Name == in.Name {
			message(w, http.StatusBadRequest, "Monitor point name already exists")
			return
		}
	}
	in.ID = len(b.Points) + 1
	in.Active = true
	b.Points = append(b.Points, in)
	writeJSON(w, http.StatusCreated, map[string]any{"message": "created", "monitor_point": in})
}

func (b *Backend) latest(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.Records)
}

func (b *Backend) createRecord(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.caller(r); !ok {
		message(w, http.StatusUnauthorized, "Missing Authorization Header")
		return
	}
	var in models.MonitorRecord
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.MonitorPointID == 0 {
		message(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	found := false
	for _, p := range b.Points {
		if p.ID == in.MonitorPointID {
			in.MonitorPointName = p.Name
			in.Latitude, in.Longitude = p.Latitude, p.Longitude
			found = true
		}
	}
	if !found {
		message(w, http.StatusNotFound, "Monitor point not found")
		return
	}
	in.ID = len(b.Records) + 1
	in.Timestamp = "2024-05-02 09:00:00"
	b.Records = append(b.Records, in)
	writeJSON(w, http.StatusCreated, map[string]any{"message": "created", "record": in})
}

func (b *Backend) deleteRecord(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.caller(r)
	if !ok || u.Role != models.RoleAdmin {
		message(w, http.StatusForbidden, "Admin privileges required")
		return
	}
	id := pathID(r)
	for i, rec := range b.Records {
		if rec.ID == id {
			b.Records = append(b.Records[:i], b.Records[i+1:]...)
			message(w, http.StatusOK, "deleted")
			return
		}
	}
	message(w, http.StatusNotFound, "Monitor record not found")
}

func (b *Backend) predictions(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.Predictions)
}

func (b *Backend) custom(w http.ResponseWriter, r *http.Request) {
	var in struct {
		WindSpeed   float64 `json:"wind_speed"`
		Temperature float64 `json:"temperature"`
		Humidity    float64 `json:"humidity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		message(w, http.StatusBadRequest, "Invalid input")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.CustomResult != nil {
		writeJSON(w, http.StatusOK, b.CustomResult)
		return
	}
	score := 0
	if in.WindSpeed > b.Threshold.WindSpeedThreshold {
		score++
	}
	if in.Temperature > b.Threshold.TemperatureThreshold {
		score++
	}
	if in.Humidity < b.Threshold.HumidityThreshold {
		score++
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"wind_speed":     in.WindSpeed,
		"temperature":    in.Temperature,
		"humidity":       in.Humidity,
		"risk_level":     models.RiskLevels[score],
		"predicted_area": float64(score) * 1.5,
	})
}

func (b *Backend) savePrediction(w http.ResponseWriter, r *http.Request) {
	var in map[string]any
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		message(w, http.StatusBadRequest, "Invalid input")
		return
	}
	for _, k := range []string{"wind_speed", "temperature", "humidity", "risk_level", "predicted_area"} {
		if _, ok := in[k]; !ok {
			message(w, http.StatusBadRequest, fmt.Sprintf("Missing field %s", k))
			return
		}
	}
	b.mu.Lock()
	b.Saved = append(b.Saved, in)
	b.mu.Unlock()
	message(w, http.StatusCreated, "saved")
}

func (b *Backend) getThreshold(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.Threshold)
}

func (b *Backend) setThreshold(w http.ResponseWriter, r *http.Request) {
	var in models.ThresholdSettings
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		message(w, http.StatusBadRequest, "Invalid input")
		return
	}
	b.mu.Lock()
	b.Threshold = in
	b.mu.Unlock()
	message(w, http.StatusCreated, "updated")
}

func (b *Backend) fireCount(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.FireCount)
}

func (b *Backend) summary(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.Summary)
}

func (b *Backend) listUsers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, b.Users())
}

func (b *Backend) createUser(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Username == "" || in.Password == "" || in.Email == "" {
		message(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	for _, u := range b.Users() {
		if u.Username == in.Username {
			message(w, http.StatusBadRequest, "Username already exists")
			return
		}
	}
	if in.Role != models.RoleAdmin {
		in.Role = models.RoleUser
	}
	u := b.AddAccount(in.Username, in.Email, in.Password, in.Role)
	writeJSON(w, http.StatusCreated, map[string]any{"message": "created", "user": u})
}

func (b *Backend) updateUser(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string  `json:"username"`
		Email    string  `json:"email"`
		Password *string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		message(w, http.StatusBadRequest, "Invalid input")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.caller(r); !ok {
		message(w, http.StatusUnauthorized, "Missing Authorization Header")
		return
	}
	id := pathID(r)
	for i := range b.accounts {
		if b.accounts[i].user.ID == id {
			if in.Username != "" {
				b.accounts[i].user.Username = in.Username
			}
			if in.Email != "" {
				b.accounts[i].user.Email = in.Email
			}
			if in.Password != nil && *in.Password != "" {
				b.accounts[i].password = *in.Password
			}
			message(w, http.StatusOK, "updated")
			return
		}
	}
	message(w, http.StatusNotFound, "User not found")
}

func (b *Backend) setRole(role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		u, ok := b.caller(r)
		if !ok || u.Role != models.RoleAdmin {
			message(w, http.StatusForbidden, "Admin privileges required")
			return
		}
		id := pathID(r)
		for i := range b.accounts {
			if b.accounts[i].user.ID == id {
				if b.accounts[i].user.Role == role {
					message(w, http.StatusBadRequest, "Role unchanged")
					return
				}
				b.accounts[i].user.Role = role
				message(w, http.StatusOK, "updated")
				return
			}
		}
		message(w, http.StatusNotFound, "User not found")
	}
}

func (b *Backend) deleteUser(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.caller(r)
	if !ok {
		message(w, http.StatusUnauthorized, "Missing Authorization Header")
		return
	}
	id := pathID(r)
	if u.ID == id && u.Role == models.RoleAdmin {
		message(w, http.StatusBadRequest, "Cannot delete the logged-in admin account")
		return
	}
	for i := range b.accounts {
		if b.accounts[i].user.ID == id {
			b.accounts = append(b.accounts[:i], b.accounts[i+1:]...)
			message(w, http.StatusOK, "deleted")
			return
		}
	}
	message(w, http.StatusNotFound, "User not found")
}
