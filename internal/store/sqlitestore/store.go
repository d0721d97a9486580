// Package sqlitestore provides a local SQLite-backed savings record store.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/wishjar/internal/model"
	"github.com/theirongolddev/wishjar/internal/store"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite" // register sqlite driver
)

var (
	_ store.Store   = (*Store)(nil)
	_ store.Counter = (*Store)(nil)
)

// Store keeps one row per user key; the wish list is a JSON column.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at dbPath.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Fetch returns the record for userKey, or nil when no row exists.
func (s *Store) Fetch(ctx context.Context, userKey string) (*model.SavingsRecord, error) {
	var (
		wishesJSON string
		updatedAt  string
		rec        = model.SavingsRecord{UserKey: userKey}
	)

	err := s.db.QueryRowContext(ctx, `SELECT wishes, current_balance, daily_saving, updated_at
		FROM savings_records WHERE user_key = ?`, userKey).
		Scan(&wishesJSON, &rec.CurrentBalance, &rec.DailySaving, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading record: %w", err)
	}

	if err := json.Unmarshal([]byte(wishesJSON), &rec.Wishes); err != nil {
		return nil, fmt.Errorf("decoding wishes: %w", err)
	}
	if rec.Wishes == nil {
		rec.Wishes = []model.Wish{}
	}
	if updatedAt != "" {
		rec.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	}

	return &rec, nil
}

// Upsert replaces the row for rec.UserKey.
func (s *Store) Upsert(ctx context.Context, rec model.SavingsRecord) error {
	wishes := rec.Wishes
	if wishes == nil {
		wishes = []model.Wish{}
	}
	wishesJSON, err := json.Marshal(wishes)
	if err != nil {
		return fmt.Errorf("encoding wishes: %w", err)
	}

	updatedAt := rec.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `INSERT INTO savings_records
		(user_key, wishes, current_balance, daily_saving, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_key) DO UPDATE SET
			wishes = excluded.wishes,
			current_balance = excluded.current_balance,
			daily_saving = excluded.daily_saving,
			updated_at = excluded.updated_at`,
		rec.UserKey, string(wishesJSON), rec.CurrentBalance, rec.DailySaving,
		updatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("writing record: %w", err)
	}

	return tx.Commit()
}

// Count implements store.Counter.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM savings_records").Scan(&count)
	return count, err
}
