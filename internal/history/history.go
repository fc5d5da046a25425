// Package history journals completed popup launches to a local SQLite file.
// The journal is write-mostly observability data; nothing in the launch path
// reads it back.
package history

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Record is one journaled launch cycle.
type Record struct {
	ID         string    `gorm:"primaryKey"`
	Binary     string    `gorm:"not null"`
	FocusApp   string
	StartedAt  time.Time `gorm:"index"`
	FinishedAt time.Time
	ExitCode   int
	Restored   bool
}

func (Record) TableName() string {
	return "launches"
}

// Store wraps the journal database handle.
type Store struct {
	db *gorm.DB
}

// DefaultPath returns the journal location under the user state directory.
func DefaultPath() (string, error) {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "osttpop", "history.db"), nil
}

// Open opens or creates the journal database and migrates its schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("ensure journal dir: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}

	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("migrate journal schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Record appends one launch to the journal. An empty ID is assigned.
func (s *Store) Record(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("journal launch %s: %w", rec.ID, err)
	}
	return nil
}

// Recent returns up to limit launches, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	var records []Record
	err := s.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	return records, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("resolve journal connection: %w", err)
	}
	return sqlDB.Close()
}
