package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"go-firewatch/internal/api"
	"go-firewatch/internal/models"
	"go-firewatch/internal/store"
)

const (
	LoginFallback    = "Login failed, check your username and password"
	RegisterFallback = "Registration failed, please try again later"
	PasswordMismatch = "Passwords do not match"
)

type Credentials struct {
	Username string
	Password string
}

type Registration struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Store owns the auth token and user profile for one profile name. It is the only
// writer of the session and of the client's bearer token.
type Store struct {
	kv      store.Store
	client  *api.Client
	profile string
	logger  *slog.Logger

	mu      sync.RWMutex
	current models.Session
}

func New(kv store.Store, client *api.Client, profile string, logger *slog.Logger) *Store {
	return &Store{
		kv:      kv,
		client:  client,
		profile: profile,
		logger:  logger.With("profile", profile),
	}
}

func (s *Store) tokenKey() string { return s.profile + "/token" }
func (s *Store) userKey() string  { return s.profile + "/user" }

func (s *Store) Client() *api.Client {
	return s.client
}

// Restore loads a persisted session. Empty, unreadable or corrupted storage leaves
// the session logged out.
func (s *Store) Restore() {
	token, okToken, err := s.kv.Get(s.tokenKey())
	if err != nil {
		s.logger.Warn("read persisted token", "error", err)
		return
	}
	raw, okUser, err := s.kv.Get(s.userKey())
	if err != nil {
		s.logger.Warn("read persisted user", "error", err)
		return
	}
	if !okToken || !okUser || token == "" {
		return
	}

	var user models.SessionUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user.Username == "" {
		s.logger.Warn("discarding corrupted persisted session", "error", err)
		if err := s.kv.Delete(s.tokenKey(), s.userKey()); err != nil {
			s.logger.Warn("remove corrupted session", "error", err)
		}
		return
	}

	s.mu.Lock()
	s.current = models.Session{Token: token, User: &user}
	s.mu.Unlock()
	s.client.SetToken(token)
	s.logger.Info("session restored", "user", user.Username)
}

func (s *Store) Login(ctx context.Context, creds Credentials) (models.Session, error) {
	resp, err := s.client.Login(ctx, api.LoginRequest{Username: creds.Username, Password: creds.Password})
	if err != nil {
		rejected := api.IsAuth(err)
		if rejected {
			s.logger.Info("login rejected", "user", creds.Username, "error", err)
		} else {
			s.logger.Warn("login failed", "user", creds.Username, "error", err)
		}
		msg := api.Message(err)
		if msg == "" {
			msg = LoginFallback
		}
		return models.Session{}, &AuthError{Message: msg, Rejected: rejected, Err: err}
	}

	user := *resp.User
	s.mu.Lock()
	s.current = models.Session{Token: resp.AccessToken, User: &user}
	s.mu.Unlock()
	s.client.SetToken(resp.AccessToken)
	s.persist(resp.AccessToken, user)

	s.logger.Info("logged in", "user", user.Username, "role", user.Role)
	return s.Session(), nil
}

// persist failures keep the in-memory session; only restart survival is lost.
func (s *Store) persist(token string, user models.SessionUser) {
	blob, err := json.Marshal(user)
	if err != nil {
		s.logger.Warn("encode session user", "error", err)
		return
	}
	if err := s.kv.Set(s.tokenKey(), token); err != nil {
		s.logger.Warn("persist token", "error", err)
		return
	}
	if err := s.kv.Set(s.userKey(), string(blob)); err != nil {
		s.logger.Warn("persist user", "error", err)
	}
}

// Register creates an account. It never logs the user in.
func (s *Store) Register(ctx context.Context, r Registration) error {
	if r.Password != r.ConfirmPassword {
		return &ValidationError{Field: "confirm_password", Message: PasswordMismatch}
	}

	err := s.client.Register(ctx, api.RegisterRequest{Username: r.Username, Email: r.Email, Password: r.Password})
	if err != nil {
		s.logger.Warn("register failed", "user", r.Username, "error", err)
		msg := api.Message(err)
		if msg == "" {
			msg = RegisterFallback
		}
		return &ServerError{Op: "register", Message: msg, Err: err}
	}
	s.logger.Info("registered", "user", r.Username)
	return nil
}

func (s *Store) Logout() {
	s.mu.Lock()
	s.current = models.Session{}
	s.mu.Unlock()
	s.client.ClearToken()
	if err := s.kv.Delete(s.tokenKey(), s.userKey()); err != nil {
		s.logger.Warn("clear persisted session", "error", err)
	}
	s.logger.Info("logged out")
}

// Session returns a copy that callers may keep.
func (s *Store) Session() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := models.Session{Token: s.current.Token}
	if s.current.User != nil {
		u := *s.current.User
		out.User = &u
	}
	return out
}

func (s *Store) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.LoggedIn()
}

func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.IsAdmin()
}
