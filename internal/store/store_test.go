package store

import (
	"path/filepath"
	"testing"
)

// exercise runs the shared contract against any backend.
func exercise(t *testing.T, s Store) {
	t.Helper()

	if _, ok, err := s.Get("default/token"); err != nil || ok {
		t.Fatalf("Get(missing) = ok %v, err %v; want absent", ok, err)
	}

	if err := s.Set("default/token", "abc"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Set("default/token", "def"); err != nil {
		t.Fatalf("Set(overwrite) error = %v", err)
	}
	if err := s.Set("default/user", `{"id":1}`); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, ok, err := s.Get("default/token")
	if err != nil || !ok || got != "def" {
		t.Fatalf("Get() = %q, %v, %v; want def", got, ok, err)
	}

	if err := s.Delete("default/token", "default/user", "never/set"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	for _, k := range []string{"default/token", "default/user"} {
		if _, ok, _ := s.Get(k); ok {
			t.Errorf("%s still present after Delete", k)
		}
	}
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	exercise(t, NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	t.Parallel()

	s, err := Open("sqlite", filepath.Join(t.TempDir(), "session.db"), "")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	exercise(t, s)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.db")
	first, err := Open("sqlite", path, "")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := first.Set("ops/token", "persisted"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	_ = first.Close()

	second, err := Open("sqlite", path, "")
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	t.Cleanup(func() { _ = second.Close() })

	got, ok, err := second.Get("ops/token")
	if err != nil || !ok || got != "persisted" {
		t.Fatalf("Get() after reopen = %q, %v, %v", got, ok, err)
	}
}

func TestOpen_UnknownKind(t *testing.T) {
	t.Parallel()
	if _, err := Open("redis", "", ""); err == nil {
		t.Fatalf("Open(redis) error = nil, want error")
	}
}
