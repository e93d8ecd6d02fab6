// Package storage provides the persistence adapter keeping the durable
// key-value store synchronized with the in-memory entity store.
package storage

import (
	"database/sql"
	"encoding/json"
	"time"

	apperrors "github.com/mzhen/unisphere/backend/internal/errors"
	"github.com/mzhen/unisphere/backend/internal/models"
)

// Storage keys. Each entity collection is serialized independently so a
// note change never requires re-deriving a combined blob.
const (
	CoursesKey   = "uni_courses"
	NotesKey     = "uni_notes"
	MaterialsKey = "uni_materials"
)

// LocalStore reads and writes the three entity collections as independently
// keyed JSON blobs in a single SQLite table.
type LocalStore struct {
	db *sql.DB
}

// NewLocalStore creates a LocalStore and ensures its table exists.
func NewLocalStore(db *DB) (*LocalStore, error) {
	query := `
	CREATE TABLE IF NOT EXISTS local_store (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);`
	if _, err := db.Exec(query); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistence, "failed to initialize local store", err)
	}
	return &LocalStore{db: db.DB}, nil
}

// Load reads all three collections. A missing key yields an empty
// collection; a present-but-malformed blob is a hard failure.
func (s *LocalStore) Load() ([]models.Course, []models.Note, []models.Material, error) {
	var courses []models.Course
	if err := s.loadKey(CoursesKey, &courses); err != nil {
		return nil, nil, nil, err
	}

	var notes []models.Note
	if err := s.loadKey(NotesKey, &notes); err != nil {
		return nil, nil, nil, err
	}

	var materials []models.Material
	if err := s.loadKey(MaterialsKey, &materials); err != nil {
		return nil, nil, nil, err
	}

	if err := validateLoaded(courses, notes, materials); err != nil {
		return nil, nil, nil, err
	}

	return courses, notes, materials, nil
}

// Save serializes each collection and writes all three keys in one
// transaction. The write is a full rewrite, not a diff.
func (s *LocalStore) Save(courses []models.Course, notes []models.Note, materials []models.Material) error {
	tx, err := s.db.Begin()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrPersistence, "failed to begin save", err)
	}
	defer tx.Rollback()

	now := time.Now().UnixMilli()
	writes := []struct {
		key   string
		value interface{}
	}{
		{CoursesKey, courses},
		{NotesKey, notes},
		{MaterialsKey, materials},
	}

	for _, w := range writes {
		data, err := json.Marshal(w.value)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrPersistence, "failed to serialize "+w.key, err)
		}
		_, err = tx.Exec(`
			INSERT INTO local_store (key, value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
		`, w.key, string(data), now)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrPersistence, "failed to write "+w.key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Wrap(apperrors.ErrPersistence, "failed to commit save", err)
	}
	return nil
}

// loadKey reads one blob into dest. nil slices are left for missing keys.
func (s *LocalStore) loadKey(key string, dest interface{}) error {
	var value string
	err := s.db.QueryRow("SELECT value FROM local_store WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return apperrors.Wrap(apperrors.ErrPersistence, "failed to read "+key, err)
	}

	if err := json.Unmarshal([]byte(value), dest); err != nil {
		return apperrors.Wrap(apperrors.ErrPersistence, "malformed blob under "+key, err)
	}
	return nil
}

// validateLoaded runs schema validation over every decoded entity so a
// structurally valid but semantically broken blob fails at load time with a
// persistence error rather than corrupting the store.
func validateLoaded(courses []models.Course, notes []models.Note, materials []models.Material) error {
	for i := range courses {
		if err := courses[i].Validate(); err != nil {
			return apperrors.Wrap(apperrors.ErrPersistence, "invalid course in "+CoursesKey, err)
		}
	}
	for i := range notes {
		if err := notes[i].Validate(); err != nil {
			return apperrors.Wrap(apperrors.ErrPersistence, "invalid note in "+NotesKey, err)
		}
	}
	for i := range materials {
		if err := materials[i].Validate(); err != nil {
			return apperrors.Wrap(apperrors.ErrPersistence, "invalid material in "+MaterialsKey, err)
		}
	}
	return nil
}
