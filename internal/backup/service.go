// Package backup provides JSON backup export/import for the study data.
package backup

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	apperrors "github.com/mzhen/unisphere/backend/internal/errors"
	"github.com/mzhen/unisphere/backend/internal/models"
	"github.com/mzhen/unisphere/backend/internal/store"
)

// Document is the backup file layout: every course, note and material in
// insertion order, as a single JSON object.
type Document struct {
	Version    string            `json:"version"`
	ExportedAt time.Time         `json:"exportedAt"`
	Courses    []models.Course   `json:"courses"`
	Notes      []models.Note     `json:"notes"`
	Materials  []models.Material `json:"materials"`
}

// DocumentVersion is written into every backup file.
const DocumentVersion = "1.0"

// ExportResult represents the result of an export operation.
type ExportResult struct {
	FilePath      string        `json:"filePath"`
	SizeBytes     int64         `json:"sizeBytes"`
	CourseCount   int           `json:"courseCount"`
	NoteCount     int           `json:"noteCount"`
	MaterialCount int           `json:"materialCount"`
	Checksum      string        `json:"checksum"`
	Duration      time.Duration `json:"duration"`
}

// ImportResult represents the result of an import operation.
type ImportResult struct {
	ImportedCount int           `json:"importedCount"`
	SkippedCount  int           `json:"skippedCount"`
	Duration      time.Duration `json:"duration"`
}

// Service writes and restores backup documents for a store.
type Service struct {
	store     *store.Store
	exportDir string

	onCompleted func(result *ExportResult)
	onFailed    func(err error)
}

// NewService creates a backup Service writing into exportDir.
func NewService(st *store.Store, exportDir string) *Service {
	if exportDir == "" {
		exportDir = "exports"
	}
	return &Service{store: st, exportDir: exportDir}
}

// ExportDir returns the directory backups are written to.
func (s *Service) ExportDir() string {
	return s.exportDir
}

// SetEventCallbacks registers export lifecycle callbacks. Either may be
// nil. Manual exports and scheduled ones both fire them.
func (s *Service) SetEventCallbacks(completed func(result *ExportResult), failed func(err error)) {
	s.onCompleted = completed
	s.onFailed = failed
}

// Export writes the current data set to a dated JSON file and returns
// metadata about the written file.
func (s *Service) Export() (*ExportResult, error) {
	result, err := s.export()
	if err != nil {
		if s.onFailed != nil {
			s.onFailed(err)
		}
		return nil, err
	}
	if s.onCompleted != nil {
		s.onCompleted(result)
	}
	return result, nil
}

func (s *Service) export() (*ExportResult, error) {
	startTime := time.Now()

	doc := Document{
		Version:    DocumentVersion,
		ExportedAt: startTime,
		Courses:    s.store.Courses(),
		Notes:      s.store.Notes(),
		Materials:  s.store.Materials(),
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrBackupFailed, "failed to encode backup", err)
	}

	if err := os.MkdirAll(s.exportDir, 0755); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrBackupFailed, "failed to create export directory", err)
	}

	filePath := filepath.Join(s.exportDir,
		fmt.Sprintf("unisphere_backup_%s.json", startTime.Format("2006-01-02")))

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrBackupFailed, "failed to write backup file", err)
	}

	return &ExportResult{
		FilePath:      filePath,
		SizeBytes:     int64(len(data)),
		CourseCount:   len(doc.Courses),
		NoteCount:     len(doc.Notes),
		MaterialCount: len(doc.Materials),
		Checksum:      fmt.Sprintf("%x", sha256.Sum256(data)),
		Duration:      time.Since(startTime),
	}, nil
}

// Import merges a backup file into the store. Entities whose ID is already
// present are skipped; everything else is appended in document order and
// validated before the store is touched. Restored notes and materials must
// resolve their references against the merged collections, so a document
// can bring its own courses but can never plant a dangling reference.
func (s *Service) Import(path string) (*ImportResult, error) {
	startTime := time.Now()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrRestoreFailed, "failed to read backup file", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrRestoreFailed, "malformed backup file", err)
	}

	courses := s.store.Courses()
	notes := s.store.Notes()
	materials := s.store.Materials()

	existing := make(map[string]bool, len(courses)+len(notes)+len(materials))
	for _, c := range courses {
		existing[c.ID] = true
	}
	for _, n := range notes {
		existing[n.ID] = true
	}
	for _, m := range materials {
		existing[m.ID] = true
	}

	imported, skipped := 0, 0

	for _, c := range doc.Courses {
		if existing[c.ID] {
			skipped++
			continue
		}
		if err := c.Validate(); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrRestoreFailed,
				fmt.Sprintf("invalid course %s in backup", c.ID), err)
		}
		courses = append(courses, c)
		existing[c.ID] = true
		imported++
	}

	courseIDs := make(map[string]bool, len(courses))
	for _, c := range courses {
		courseIDs[c.ID] = true
	}

	for _, n := range doc.Notes {
		if existing[n.ID] {
			skipped++
			continue
		}
		if err := n.Validate(); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrRestoreFailed,
				fmt.Sprintf("invalid note %s in backup", n.ID), err)
		}
		if !courseIDs[n.CourseID] {
			return nil, apperrors.New(apperrors.ErrRestoreFailed,
				fmt.Sprintf("note %s references unknown course %s", n.ID, n.CourseID))
		}
		notes = append(notes, n)
		existing[n.ID] = true
		imported++
	}

	noteIDs := make(map[string]bool, len(notes))
	for _, n := range notes {
		noteIDs[n.ID] = true
	}

	for _, m := range doc.Materials {
		if existing[m.ID] {
			skipped++
			continue
		}
		if err := m.Validate(); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrRestoreFailed,
				fmt.Sprintf("invalid material %s in backup", m.ID), err)
		}
		if !courseIDs[m.CourseID] {
			return nil, apperrors.New(apperrors.ErrRestoreFailed,
				fmt.Sprintf("material %s references unknown course %s", m.ID, m.CourseID))
		}
		if m.NoteID != "" && !noteIDs[m.NoteID] {
			return nil, apperrors.New(apperrors.ErrRestoreFailed,
				fmt.Sprintf("material %s references unknown note %s", m.ID, m.NoteID))
		}
		materials = append(materials, m)
		existing[m.ID] = true
		imported++
	}

	if imported > 0 {
		if err := s.store.Replace(courses, notes, materials); err != nil {
			return nil, err
		}
	}

	return &ImportResult{
		ImportedCount: imported,
		SkippedCount:  skipped,
		Duration:      time.Since(startTime),
	}, nil
}
