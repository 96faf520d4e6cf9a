// Package session persists the CLI's local state (the bound device and the
// owner token) in a small sqlite database, so commands after bind don't need
// the device id repeated.
package session

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kooo/evcam-companion/internal/dbx"

	_ "modernc.org/sqlite"
)

// Session is the locally cached state.
type Session struct {
	DeviceID    string
	DeviceName  string
	AccessToken string
}

type Store struct {
	db dbx.DBTX
}

func NewStore(db dbx.DBTX) *Store {
	return &Store{db: db}
}

// Open opens (and initializes) the session database at path.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS session (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init session db: %w", err)
	}
	return db, nil
}

const (
	keyDeviceID    = "device_id"
	keyDeviceName  = "device_name"
	keyAccessToken = "access_token"
)

func (s *Store) get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM session WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get session[%s]: %w", key, err)
	}
	return value, nil
}

func (s *Store) set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set session[%s]: %w", key, err)
	}
	return nil
}

// Load returns the cached session; zero fields when nothing was saved yet.
func (s *Store) Load(ctx context.Context) (*Session, error) {
	sess := &Session{}
	var err error
	if sess.DeviceID, err = s.get(ctx, keyDeviceID); err != nil {
		return nil, err
	}
	if sess.DeviceName, err = s.get(ctx, keyDeviceName); err != nil {
		return nil, err
	}
	if sess.AccessToken, err = s.get(ctx, keyAccessToken); err != nil {
		return nil, err
	}
	return sess, nil
}

// Save persists the session, overwriting previous values.
func (s *Store) Save(ctx context.Context, sess *Session) error {
	if err := s.set(ctx, keyDeviceID, sess.DeviceID); err != nil {
		return err
	}
	if err := s.set(ctx, keyDeviceName, sess.DeviceName); err != nil {
		return err
	}
	return s.set(ctx, keyAccessToken, sess.AccessToken)
}

// Clear wipes the cached session (used after unbind).
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM session`)
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
