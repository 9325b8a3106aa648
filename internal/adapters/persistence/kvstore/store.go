package kvstore

import (
	"context"
	"fmt"
	"time"

	"forza-loanapp/internal/core/domain"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Entry is the single persisted row type: one key, one serialized value.
// The whole store is a string -> blob mapping that survives restarts.
type Entry struct {
	Key       string `gorm:"primaryKey;size:191"`
	Value     []byte
	UpdatedAt time.Time
}

// TableName overrides the GORM table name
func (Entry) TableName() string {
	return "kv_entries"
}

// Store is a persistent key-value store backed by an embedded SQLite file
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the store at path and migrates its schema
func Open(path string, verbose bool) (*Store, error) {
	logMode := logger.Error
	if verbose {
		logMode = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:                 logger.Default.LogMode(logMode),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open storage at %s: %w", path, err)
	}

	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate storage schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Get returns the value stored under key. The second result reports
// whether the key exists; a missing key is not an error.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry Entry
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: read %q: %v", domain.ErrStorage, key, err)
	}
	return entry.Value, true, nil
}

// Set stores value under key, overwriting any previous value
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	entry := Entry{Key: key, Value: value, UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).Save(&entry).Error
	if err != nil {
		return fmt.Errorf("%w: write %q: %v", domain.ErrStorage, key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).Where("key = ?", key).Delete(&Entry{}).Error
	if err != nil {
		return fmt.Errorf("%w: delete %q: %v", domain.ErrStorage, key, err)
	}
	return nil
}

// MultiDelete removes several keys in one call
func (s *Store) MultiDelete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Where("key IN ?", keys).Delete(&Entry{}).Error
	if err != nil {
		return fmt.Errorf("%w: delete %d keys: %v", domain.ErrStorage, len(keys), err)
	}
	return nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// HealthCheck pings the underlying database
func (s *Store) HealthCheck() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
