// Package store defines the persistence collaborator for savings records.
package store

import (
	"context"

	"github.com/theirongolddev/wishjar/internal/model"
)

// Backend names accepted by config and flags.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendRemote   = "remote"
)

// Backends lists every supported backend name.
var Backends = []string{BackendSQLite, BackendMemory, BackendRedis, BackendPostgres, BackendRemote}

// Store loads and saves whole savings records keyed by user key.
type Store interface {
	// Fetch returns the most recent record for userKey, or nil, nil when absent.
	Fetch(ctx context.Context, userKey string) (*model.SavingsRecord, error)

	// Upsert overwrites the record for rec.UserKey.
	Upsert(ctx context.Context, rec model.SavingsRecord) error

	// Close releases the backend's resources.
	Close() error
}

// Counter is implemented by backends that can count their records cheaply.
type Counter interface {
	Count(ctx context.Context) (int, error)
}
