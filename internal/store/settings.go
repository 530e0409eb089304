package store

import (
	"database/sql"
	"errors"
	"strconv"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Setting keys recognized by the pipeline.
const (
	SettingSwipeThreshold    = "swipe_threshold"
	SettingGestureDebounceMs = "gesture_debounce_ms"
	SettingMotionThreshold   = "motion_threshold"
	SettingCameraID          = "camera_id"
)

// SettingsRepository provides access to the key-value settings table.
type SettingsRepository struct {
	db *sql.DB
}

// Settings returns the settings repository for this store.
func (s *Store) Settings() *SettingsRepository {
	return &SettingsRepository{db: s.db}
}

// Get retrieves a setting value by key. Returns ErrNotFound if the key is
// not set.
func (r *SettingsRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// GetFloat retrieves a setting as a float64, falling back to def when the
// key is unset or not numeric.
func (r *SettingsRepository) GetFloat(key string, def float64) float64 {
	value, err := r.Get(key)
	if err != nil {
		return def
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return f
}

// GetInt retrieves a setting as an int, falling back to def when the key is
// unset or not numeric.
func (r *SettingsRepository) GetInt(key string, def int) int {
	value, err := r.Get(key)
	if err != nil {
		return def
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return n
}

// Set stores a setting value, replacing any existing value for the key.
func (r *SettingsRepository) Set(key, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// All returns every stored setting as a key-value map.
func (r *SettingsRepository) All() (map[string]string, error) {
	rows, err := r.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		settings[key] = value
	}
	return settings, rows.Err()
}

// Delete removes a setting by key. Deleting a missing key is not an error.
func (r *SettingsRepository) Delete(key string) error {
	_, err := r.db.Exec(`DELETE FROM settings WHERE key = ?`, key)
	return err
}
