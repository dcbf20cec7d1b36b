package progress

import (
	"context"
	"fmt"
	"strings"
)

const (
	EngineMemory   = "memory"
	EngineSQLite   = "sqlite"
	EngineRedis    = "redis"
	EnginePostgres = "postgres"
)

// Config selects and configures a progress backend.
type Config struct {
	Engine     string
	SQLitePath string
	Redis      RedisConfig
	Postgres   PostgresConfig
}

// Open builds the Store named by cfg.Engine (default sqlite).
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		st  Store
		err error
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Engine)) {
	case "", EngineSQLite:
		st, err = wrap(NewSQLiteStore(cfg.SQLitePath))
	case EngineMemory:
		st = NewMemoryStore()
	case EngineRedis:
		st, err = wrap(NewRedisStore(ctx, cfg.Redis))
	case EnginePostgres:
		st, err = wrap(NewPostgresStore(ctx, cfg.Postgres))
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownEngine, cfg.Engine)
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}

// wrap keeps a failed constructor from yielding a non-nil Store holding a nil pointer.
func wrap[T Store](s T, err error) (Store, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}
