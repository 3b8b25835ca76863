package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// KVStore is a single-table key/value store on SQLite. The board is kept
// under stateKey as a JSON document.
type KVStore struct {
	db   *sql.DB
	path string
}

func OpenKVStore(path string) (*KVStore, error) {
	if path == "" {
		path = defaultStoreName
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}
	return &KVStore{db: db, path: path}, nil
}

// Get returns the value for key; ok is false when the key is absent.
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select %s: %w", key, err)
	}
	return value, true, nil
}

func (s *KVStore) Put(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx, `INSERT INTO kv(key,value) VALUES(?,?) ON CONFLICT(key) DO UPDATE SET value=excluded.value`, key, value); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *KVStore) Close() error { return s.db.Close() }

// Path returns the database file path.
func (s *KVStore) Path() string { return s.path }

// restoreBoard reads the saved board. A missing or unreadable entry is
// logged and treated as an empty board.
func restoreBoard(ctx context.Context, s *KVStore) Board {
	data, ok, err := s.Get(ctx, stateKey)
	if err != nil {
		log.Printf("restore: %v", err)
		return Board{}
	}
	if !ok {
		return Board{}
	}
	b, err := DecodeBoard(data)
	if err != nil {
		log.Printf("restore: discarding saved state: %v", err)
		return Board{}
	}
	return b
}

// AutoSaver writes the board to the store whenever it differs from the last
// written one.
type AutoSaver struct {
	store   *KVStore
	last    Board
	written bool
	metrics *Metrics
}

func NewAutoSaver(store *KVStore, initial Board, m *Metrics) *AutoSaver {
	return &AutoSaver{store: store, last: initial.Clone(), written: true, metrics: m}
}

// Observe persists b if it changed. Errors are returned for the caller to
// report; the next change retries.
func (a *AutoSaver) Observe(ctx context.Context, b Board) error {
	if a == nil || a.store == nil {
		return nil
	}
	if a.written && a.last.Equal(b) {
		return nil
	}
	data, err := EncodeBoard(b)
	if err == nil {
		err = a.store.Put(ctx, stateKey, data)
	}
	a.metrics.persisted("store", err)
	if err != nil {
		a.written = false
		return err
	}
	a.last = b.Clone()
	a.written = true
	return nil
}

// Forget removes the saved board, used when the board is cleared.
func (a *AutoSaver) Forget(ctx context.Context) error {
	if a == nil || a.store == nil {
		return nil
	}
	a.last = Board{}
	a.written = true
	return a.store.Delete(ctx, stateKey)
}
