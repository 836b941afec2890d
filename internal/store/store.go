package store

import "fmt"

// Store persists small string entries across restarts. Keys are namespaced by the
// caller (e.g. "default/token").
type Store interface {
	Init() error

	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(keys ...string) error

	Close() error
}

// Open builds the backend named by kind (sqlite, postgres, memory) and initializes it.
func Open(kind, path, dsn string) (Store, error) {
	var s Store
	switch kind {
	case "sqlite":
		s = &SQLiteStore{DBPath: path}
	case "postgres":
		s = &PostgresStore{ConnStr: dsn}
	case "memory":
		s = NewMemoryStore()
	default:
		return nil, fmt.Errorf("unknown session store %q", kind)
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("init %s session store: %w", kind, err)
	}
	return s, nil
}
