// internal/progress/postgres.go
//
// PostgreSQL-backed progress Store for shared deployments.

package progress

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/robalobadob/rightsquest/internal/game"
)

//go:embed sql/postgres/*.sql
var postgresSchema embed.FS

// PostgresConfig holds PostgreSQL connection configuration.
type PostgresConfig struct {
	DSN         string
	MaxConns    int32
	MaxLifetime time.Duration
}

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects, pings and ensures the schema exists.
func NewPostgresStore(ctx context.Context, cfg PostgresConfig) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	} else {
		poolConfig.MaxConns = 10
	}
	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxLifetime
	} else {
		poolConfig.MaxConnLifetime = 30 * time.Minute
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	schema, err := postgresSchema.ReadFile("sql/postgres/0001_progress.sql")
	if err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, string(schema)); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) GetProgress(ctx context.Context) (map[int]game.LevelProgress, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT level_id, completed, stars, best_score, unlocked FROM level_progress`)
	if err != nil {
		return nil, err
	}
	out := make(map[int]game.LevelProgress)
	for rows.Next() {
		var p game.LevelProgress
		if err := rows.Scan(&p.LevelID, &p.Completed, &p.Stars, &p.BestScore, &p.Unlocked); err != nil {
			rows.Close()
			return nil, err
		}
		out[p.LevelID] = p
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) > 0 {
		return out, nil
	}

	first := FirstLevel()
	if _, err := s.pool.Exec(ctx,
		`INSERT INTO level_progress (level_id, unlocked) VALUES ($1, TRUE)
		 ON CONFLICT (level_id) DO NOTHING`, first.LevelID); err != nil {
		return nil, fmt.Errorf("seed level 1: %w", err)
	}
	return map[int]game.LevelProgress{first.LevelID: first}, nil
}

func (s *PostgresStore) RecordLevelOutcome(ctx context.Context, levelID int, o Outcome) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		unlocked := newRecord(levelID).Unlocked || o.Completed
		if _, err := tx.Exec(ctx, `
			INSERT INTO level_progress (level_id, completed, stars, best_score, unlocked)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (level_id) DO UPDATE SET
				completed  = EXCLUDED.completed,
				stars      = EXCLUDED.stars,
				best_score = EXCLUDED.best_score,
				unlocked   = level_progress.unlocked OR EXCLUDED.unlocked`,
			levelID, o.Completed, o.Stars, o.BestScore, unlocked,
		); err != nil {
			return fmt.Errorf("upsert level %d: %w", levelID, err)
		}
		if !o.Completed {
			return nil
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO level_progress (level_id, unlocked) VALUES ($1, TRUE)
			ON CONFLICT (level_id) DO UPDATE SET unlocked = TRUE`,
			levelID+1,
		); err != nil {
			return fmt.Errorf("unlock level %d: %w", levelID+1, err)
		}
		return nil
	})
}

func (s *PostgresStore) GetSettings(ctx context.Context) (game.GameSettings, error) {
	var gs game.GameSettings
	err := s.pool.QueryRow(ctx,
		`SELECT sound_enabled, difficulty, text_size, language FROM settings WHERE id = 1`,
	).Scan(&gs.SoundEnabled, &gs.Difficulty, &gs.TextSize, &gs.Language)
	if errors.Is(err, pgx.ErrNoRows) {
		return game.DefaultSettings(), nil
	}
	if err != nil {
		return game.GameSettings{}, err
	}
	return gs, nil
}

func (s *PostgresStore) SaveSettings(ctx context.Context, gs game.GameSettings) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO settings (id, sound_enabled, difficulty, text_size, language)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			sound_enabled = EXCLUDED.sound_enabled,
			difficulty    = EXCLUDED.difficulty,
			text_size     = EXCLUDED.text_size,
			language      = EXCLUDED.language`,
		gs.SoundEnabled, string(gs.Difficulty), string(gs.TextSize), gs.Language,
	)
	return err
}

func (s *PostgresStore) ResetProgress(ctx context.Context) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM level_progress`); err != nil {
			return fmt.Errorf("clear levels: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM scores`); err != nil {
			return fmt.Errorf("clear scores: %w", err)
		}
		return nil
	})
}

func (s *PostgresStore) AddScore(ctx context.Context, e ScoreEntry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO scores (level_id, player, score, stars, elapsed_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		e.LevelID, e.Player, e.Score, e.Stars, e.ElapsedMs, e.CreatedAt,
	)
	return err
}

func (s *PostgresStore) TopScores(ctx context.Context, levelID, limit int) ([]ScoreEntry, error) {
	limit = topLimit(limit)
	rows, err := s.pool.Query(ctx, `
		SELECT level_id, player, score, stars, elapsed_ms, created_at
		FROM scores
		WHERE level_id = $1
		ORDER BY score DESC, elapsed_ms ASC, created_at ASC, id ASC
		LIMIT $2`, levelID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ScoreEntry, 0, limit)
	for rows.Next() {
		var e ScoreEntry
		if err := rows.Scan(&e.LevelID, &e.Player, &e.Score, &e.Stars, &e.ElapsedMs, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close closes the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
