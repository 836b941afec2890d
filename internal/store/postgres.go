package store

import (
	"database/sql"
	"errors"

	_ "github.com/lib/pq"
)

type PostgresStore struct {
	ConnStr string
	db      *sql.DB
}

func (p *PostgresStore) Init() error {
	var err error
	p.db, err = sql.Open("postgres", p.ConnStr)
	if err != nil {
		return err
	}

	queries := []string{
		`CREATE TABLE IF NOT EXISTS session_entries (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMPTZ DEFAULT NOW()
		);`,
	}
	for _, q := range queries {
		if _, err := p.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

func (p *PostgresStore) Get(key string) (string, bool, error) {
	var value string
	err := p.db.QueryRow("SELECT value FROM session_entries WHERE key=$1", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (p *PostgresStore) Set(key, value string) error {
	_, err := p.db.Exec(`INSERT INTO session_entries (key, value, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_at=NOW()`, key, value)
	return err
}

func (p *PostgresStore) Delete(keys ...string) error {
	tx, err := p.db.Begin()
	if err != nil {
		return err
	}
	for _, k := range keys {
		if _, err := tx.Exec("DELETE FROM session_entries WHERE key=$1", k); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (p *PostgresStore) Close() error {
	if p.db == nil {
		return nil
	}
	return p.db.Close()
}
