// Package scheduler provides automatic backup scheduling functionality.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mzhen/unisphere/backend/internal/backup"
)

// BackupInterval defines the scheduling frequency.
type BackupInterval string

const (
	IntervalManual  BackupInterval = "manual"
	IntervalDaily   BackupInterval = "daily"
	IntervalWeekly  BackupInterval = "weekly"
	IntervalMonthly BackupInterval = "monthly"
)

// Config holds the scheduler configuration.
type Config struct {
	Interval       BackupInterval // How often to export
	RetentionCount int            // Number of backup files to keep (0 = unlimited)
}

// Scheduler runs backup exports on a fixed interval.
type Scheduler struct {
	service *backup.Service
	config  *Config
	ticker  *time.Ticker
	stopCh  chan struct{}
	logger  *slog.Logger
}

// NewScheduler creates a new backup scheduler.
func NewScheduler(service *backup.Service, config *Config) *Scheduler {
	if config.RetentionCount < 0 {
		config.RetentionCount = 0
	}

	return &Scheduler{
		service: service,
		config:  config,
		stopCh:  make(chan struct{}),
		logger:  slog.Default(),
	}
}

// Start begins the automatic backup scheduler.
// It performs an initial export unless the interval is manual.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.config.Interval == IntervalManual {
		s.logger.Info("scheduler in manual mode, automatic backups disabled")
		return nil
	}

	dur, err := s.intervalDuration()
	if err != nil {
		return fmt.Errorf("invalid interval: %w", err)
	}

	s.ticker = time.NewTicker(dur)
	s.logger.Info("scheduler started",
		"interval", s.config.Interval,
		"retention_count", s.config.RetentionCount)

	// Perform initial export
	go func() {
		if err := s.runExport(); err != nil {
			s.logger.Error("initial backup failed", "error", err)
		}
	}()

	// Start periodic exports
	go func() {
		for {
			select {
			case <-s.ticker.C:
				if err := s.runExport(); err != nil {
					s.logger.Error("scheduled backup failed", "error", err)
				}
			case <-s.stopCh:
				s.logger.Info("scheduler stopped")
				return
			case <-ctx.Done():
				s.logger.Info("scheduler context cancelled")
				return
			}
		}
	}()

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	close(s.stopCh)
	if s.ticker != nil {
		s.ticker.Stop()
	}
}

// runExport performs a single export with retention management.
func (s *Scheduler) runExport() error {
	s.logger.Info("starting scheduled backup")

	result, err := s.service.Export()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	s.logger.Info("backup completed",
		"file", result.FilePath,
		"size_bytes", result.SizeBytes,
		"courses", result.CourseCount,
		"notes", result.NoteCount,
		"materials", result.MaterialCount,
		"duration", result.Duration)

	if s.config.RetentionCount > 0 {
		if err := s.applyRetentionPolicy(); err != nil {
			// A failed cleanup does not undo the backup itself.
			s.logger.Error("retention policy failed", "error", err)
		}
	}

	return nil
}

// intervalDuration converts the interval to a time.Duration.
func (s *Scheduler) intervalDuration() (time.Duration, error) {
	switch s.config.Interval {
	case IntervalDaily:
		return 24 * time.Hour, nil
	case IntervalWeekly:
		return 7 * 24 * time.Hour, nil
	case IntervalMonthly:
		// Approximate as 30 days
		return 30 * 24 * time.Hour, nil
	case IntervalManual:
		return 0, fmt.Errorf("manual interval has no duration")
	default:
		return 0, fmt.Errorf("unknown interval: %s", s.config.Interval)
	}
}

// BackupInfo represents metadata about a backup file on disk.
type BackupInfo struct {
	Path      string
	SizeBytes int64
	CreatedAt time.Time
}

// applyRetentionPolicy removes old backups beyond the retention count.
func (s *Scheduler) applyRetentionPolicy() error {
	backups, err := listBackups(s.service.ExportDir())
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.Before(backups[j].CreatedAt)
	})

	if len(backups) > s.config.RetentionCount {
		toDelete := backups[:len(backups)-s.config.RetentionCount]
		for _, b := range toDelete {
			if err := os.Remove(b.Path); err != nil {
				s.logger.Error("failed to delete old backup",
					"path", b.Path,
					"error", err)
				continue
			}
			s.logger.Info("deleted old backup", "path", b.Path)
		}
	}

	return nil
}

// listBackups returns all backup files in the export directory.
func listBackups(exportDir string) ([]*BackupInfo, error) {
	var backups []*BackupInfo

	if _, err := os.Stat(exportDir); os.IsNotExist(err) {
		return backups, nil
	}

	entries, err := os.ReadDir(exportDir)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, "unisphere_backup_") || filepath.Ext(name) != ".json" {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			return nil, err
		}
		backups = append(backups, &BackupInfo{
			Path:      filepath.Join(exportDir, name),
			SizeBytes: fi.Size(),
			CreatedAt: fi.ModTime(),
		})
	}

	return backups, nil
}

// GetConfig returns the current scheduler configuration.
func (s *Scheduler) GetConfig() *Config {
	return s.config
}
