// Package pgstore persists savings records through GORM, on PostgreSQL in production.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/theirongolddev/wishjar/internal/model"
	"github.com/theirongolddev/wishjar/internal/store"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var _ store.Store = (*Store)(nil)

// Store is a GORM-backed record store.
type Store struct {
	db *gorm.DB
}

// Open connects to PostgreSQL at dsn and migrates the schema.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return New(db)
}

// New wraps an open GORM handle and runs auto-migration.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&SavingsRecordModel{}); err != nil {
		return nil, fmt.Errorf("failed to run auto-migration: %w", err)
	}
	slog.Debug("savings_records migrated")
	return &Store{db: db}, nil
}

// Fetch implements store.Store.
func (s *Store) Fetch(ctx context.Context, userKey string) (*model.SavingsRecord, error) {
	var row SavingsRecordModel
	result := s.db.WithContext(ctx).Where("user_key = ?", userKey).First(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return row.ToRecord()
}

// Upsert implements store.Store.
func (s *Store) Upsert(ctx context.Context, rec model.SavingsRecord) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}
	row, err := FromRecord(rec)
	if err != nil {
		return err
	}
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_key"}},
			UpdateAll: true,
		}).
		Create(row)
	return result.Error
}

// Close implements store.Store.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB for closing: %w", err)
	}
	return sqlDB.Close()
}
