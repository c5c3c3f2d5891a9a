// Package persist stores application state as independently keyed JSON
// blobs in a local SQLite database. Every mutation overwrites the full
// blob for its key; reads happen once at startup.
package persist

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mjelle/snowwatch/internal/snow"
)

const (
	keySettings    = "settings"
	keyHistory     = "history"
	keyContractors = "contractors"
	keyWeather     = "weather"
	keyNotify      = "notify_state"
)

const schema = `
CREATE TABLE IF NOT EXISTS app_state (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);`

// DB wraps a SQLite handle used as a key/value store.
type DB struct {
	db *sql.DB
}

// Open creates the database file (and parent directory) if needed and
// ensures the schema exists.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Serialize writers; the store dispatches one mutation at a time anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) put(key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	_, err = d.db.Exec(`INSERT INTO app_state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(raw), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// get decodes the blob stored under key into v. It reports false when no
// blob exists yet.
func (d *DB) get(key string, v interface{}) (bool, error) {
	var raw string
	err := d.db.QueryRow(`SELECT value FROM app_state WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

func (d *DB) SaveSettings(s snow.Settings) error {
	return d.put(keySettings, s)
}

func (d *DB) LoadSettings() (snow.Settings, bool, error) {
	var s snow.Settings
	ok, err := d.get(keySettings, &s)
	return s, ok, err
}

func (d *DB) SaveHistory(entries []snow.SnowEntry) error {
	return d.put(keyHistory, entries)
}

func (d *DB) LoadHistory() ([]snow.SnowEntry, error) {
	var entries []snow.SnowEntry
	_, err := d.get(keyHistory, &entries)
	return entries, err
}

func (d *DB) SaveContractors(contractors []snow.Contractor) error {
	return d.put(keyContractors, contractors)
}

func (d *DB) LoadContractors() ([]snow.Contractor, error) {
	var contractors []snow.Contractor
	_, err := d.get(keyContractors, &contractors)
	return contractors, err
}

func (d *DB) SaveWeather(w *snow.WeatherData) error {
	return d.put(keyWeather, w)
}

// LoadWeather returns nil when no forecast has been stored yet.
func (d *DB) LoadWeather() (*snow.WeatherData, error) {
	var w *snow.WeatherData
	_, err := d.get(keyWeather, &w)
	return w, err
}

type notifyState struct {
	LastNotifiedSnow *time.Time `json:"lastNotifiedSnow"`
}

func (d *DB) SaveNotifyState(last *time.Time) error {
	return d.put(keyNotify, notifyState{LastNotifiedSnow: last})
}

func (d *DB) LoadNotifyState() (*time.Time, error) {
	var ns notifyState
	_, err := d.get(keyNotify, &ns)
	return ns.LastNotifiedSnow, err
}
