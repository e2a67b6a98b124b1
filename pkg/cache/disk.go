package cache

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"schedulectl/pkg/schedule"
)

// Disk keeps one JSON file per subject under ~/.schedulectl_cache
type Disk struct {
	TTL time.Duration
	Log *zap.Logger

	now func() time.Time
}

// NewDisk creates a disk cache with the given lifetime.
func NewDisk(ttl time.Duration, log *zap.Logger) *Disk {
	if log == nil {
		log = zap.NewNop()
	}
	return &Disk{TTL: ttl, Log: log, now: time.Now}
}

func getCachePath(subjectID string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find user home directory: %w", err)
	}

	cacheDir := filepath.Join(homeDir, ".schedulectl_cache")
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return "", fmt.Errorf("could not create cache directory: %w", err)
	}

	// Subject ids contain spaces, dots and cyrillic, so escape them into a safe file name
	return filepath.Join(cacheDir, url.PathEscape(subjectID)+".json"), nil
}

// Get checks if a valid, unexpired cache exists for this subject
func (d *Disk) Get(_ context.Context, subjectID string) (schedule.Schedule, bool) {
	path, err := getCachePath(subjectID)
	if err != nil {
		d.Log.Warn("cache path unavailable", zap.Error(err))
		return schedule.Schedule{}, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return schedule.Schedule{}, false // File doesn't exist or can't be read
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		d.Log.Warn("corrupt cache entry ignored", zap.String("path", path), zap.Error(err))
		return schedule.Schedule{}, false
	}

	if d.now().Sub(entry.Timestamp) > d.TTL {
		return schedule.Schedule{}, false // Expired
	}

	return entry.Schedule, true
}

// Put saves the schedule to disk
func (d *Disk) Put(_ context.Context, s schedule.Schedule) error {
	path, err := getCachePath(s.SubjectID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(Entry{Timestamp: d.now(), Schedule: s}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize cache entry: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}
