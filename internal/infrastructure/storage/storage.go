// Package storage picks the store implementation named by DB_DRIVER.
package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/farm-directory-api/internal/domain/repository"
	"github.com/jhoicas/farm-directory-api/internal/infrastructure/postgres"
	"github.com/jhoicas/farm-directory-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/farm-directory-api/pkg/config"
)

// Store the repositories plus the handle that owns their connections.
type Store struct {
	Users repository.UserRepository
	Farms repository.FarmRepository

	close func() error
}

// Close releases the underlying pool.
func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Open connects to the configured driver and makes sure the schema exists.
func Open(ctx context.Context, cfg config.DBConfig, log zerolog.Logger) (*Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite, "":
		pool, err := sqlite.Open(sqlite.Config{Path: cfg.SQLitePath, PoolSize: cfg.SQLitePoolSize, Logger: log})
		if err != nil {
			return nil, err
		}
		return &Store{
			Users: sqlite.NewUserRepository(pool),
			Farms: sqlite.NewFarmRepository(pool),
			close: pool.Close,
		}, nil

	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Str("host", cfg.Host).Str("db", cfg.DBName).Msg("postgres pool opened")
		return &Store{
			Users: postgres.NewUserRepository(pool),
			Farms: postgres.NewFarmRepository(pool),
			close: func() error { pool.Close(); return nil },
		}, nil

	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
	}
}
