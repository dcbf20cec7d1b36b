// internal/progress/sqlite.go
//
// SQLite-backed progress Store (default engine).
// Responsibilities:
//   - Opening the database file with safe defaults (WAL, busy timeout, foreign keys).
//   - Applying embedded migrations (idempotent, recorded in _migrations).
//   - Level records, settings row and leaderboard rows.

package progress

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/rightsquest/internal/game"
)

//go:embed sql/sqlite/*.sql
var sqliteMigrations embed.FS

// sqliteTime is fixed-width so created_at sorts lexically. The column default
// in 0002_scores.sql produces the same shape.
const sqliteTime = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore keeps progress in a single SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and creates if missing) the database at path and
// migrates it.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	if err := migrate(db, sqliteMigrations, "sql/sqlite"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// openDB opens a SQLite database file.
//
// - Ensures parent directory exists for relative paths (e.g. ./data/progress.db).
// - Configures busy timeout and WAL journaling mode.
// - Enforces foreign keys.
func openDB(dsn string) (*sql.DB, error) {
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return db, nil
}

// migrate applies the *.sql files under root in lexical order.
//
// - Uses a _migrations table to track applied files.
// - Skips files already applied.
// - Scripts that manage their own transaction (BEGIN TRANSACTION or
//   PRAGMA FOREIGN_KEYS=OFF) run outside of an outer transaction.
func migrate(db *sql.DB, fsys fs.FS, root string) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	var files []string
	if err := fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".sql") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("walk migrations: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		var done int
		err := db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", f).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		sqlBytes, err := fs.ReadFile(fsys, f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}
		sqlText := string(sqlBytes)

		upper := strings.ToUpper(sqlText)
		selfManaged := strings.Contains(upper, "BEGIN TRANSACTION") ||
			strings.Contains(upper, "PRAGMA FOREIGN_KEYS=OFF") ||
			strings.Contains(upper, "PRAGMA FOREIGN_KEYS = OFF")

		if selfManaged {
			if _, err := db.Exec(sqlText); err != nil {
				return fmt.Errorf("apply %s: %w", f, err)
			}
			if _, err := db.Exec(`INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
				return fmt.Errorf("record %s: %w", f, err)
			}
			log.Info().Str("migration", f).Msg("applied (self-managed)")
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(sqlText); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		log.Info().Str("migration", f).Msg("applied")
	}
	return nil
}

func (s *SQLiteStore) GetProgress(ctx context.Context) (map[int]game.LevelProgress, error) {
	out, err := s.readProgress(ctx)
	if err != nil {
		return nil, err
	}
	if len(out) > 0 {
		return out, nil
	}
	first := FirstLevel()
	if _, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO level_progress (level_id, completed, stars, best_score, unlocked)
		 VALUES (?, 0, 0, 0, 1)`, first.LevelID); err != nil {
		return nil, fmt.Errorf("seed level 1: %w", err)
	}
	return map[int]game.LevelProgress{first.LevelID: first}, nil
}

func (s *SQLiteStore) readProgress(ctx context.Context) (map[int]game.LevelProgress, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT level_id, completed, stars, best_score, unlocked FROM level_progress`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int]game.LevelProgress)
	for rows.Next() {
		var p game.LevelProgress
		var completed, unlocked int
		if err := rows.Scan(&p.LevelID, &completed, &p.Stars, &p.BestScore, &unlocked); err != nil {
			return nil, err
		}
		p.Completed, p.Unlocked = completed != 0, unlocked != 0
		out[p.LevelID] = p
	}
	return out, rows.Err()
}

func (s *SQLiteStore) RecordLevelOutcome(ctx context.Context, levelID int, o Outcome) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	unlocked := newRecord(levelID).Unlocked || o.Completed
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO level_progress (level_id, completed, stars, best_score, unlocked)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(level_id) DO UPDATE SET
			completed  = excluded.completed,
			stars      = excluded.stars,
			best_score = excluded.best_score,
			unlocked   = MAX(level_progress.unlocked, excluded.unlocked)`,
		levelID, boolToInt(o.Completed), o.Stars, o.BestScore, boolToInt(unlocked),
	); err != nil {
		return fmt.Errorf("upsert level %d: %w", levelID, err)
	}

	if o.Completed {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO level_progress (level_id, unlocked) VALUES (?, 1)
			ON CONFLICT(level_id) DO UPDATE SET unlocked = 1`,
			levelID+1,
		); err != nil {
			return fmt.Errorf("unlock level %d: %w", levelID+1, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) GetSettings(ctx context.Context) (game.GameSettings, error) {
	var gs game.GameSettings
	var sound int
	err := s.db.QueryRowContext(ctx,
		`SELECT sound_enabled, difficulty, text_size, language FROM settings WHERE id = 1`,
	).Scan(&sound, &gs.Difficulty, &gs.TextSize, &gs.Language)
	if errors.Is(err, sql.ErrNoRows) {
		return game.DefaultSettings(), nil
	}
	if err != nil {
		return game.GameSettings{}, err
	}
	gs.SoundEnabled = sound != 0
	return gs, nil
}

func (s *SQLiteStore) SaveSettings(ctx context.Context, gs game.GameSettings) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO settings (id, sound_enabled, difficulty, text_size, language)
		VALUES (1, ?, ?, ?, ?)`,
		boolToInt(gs.SoundEnabled), string(gs.Difficulty), string(gs.TextSize), gs.Language,
	)
	return err
}

func (s *SQLiteStore) ResetProgress(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `DELETE FROM level_progress`); err != nil {
		return fmt.Errorf("clear levels: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM scores`); err != nil {
		return fmt.Errorf("clear scores: %w", err)
	}
	return tx.Commit()
}

func (s *SQLiteStore) AddScore(ctx context.Context, e ScoreEntry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scores (level_id, player, score, stars, elapsed_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.LevelID, e.Player, e.Score, e.Stars, e.ElapsedMs, e.CreatedAt.UTC().Format(sqliteTime),
	)
	return err
}

func (s *SQLiteStore) TopScores(ctx context.Context, levelID, limit int) ([]ScoreEntry, error) {
	limit = topLimit(limit)
	rows, err := s.db.QueryContext(ctx, `
		SELECT level_id, player, score, stars, elapsed_ms, created_at
		FROM scores
		WHERE level_id = ?
		ORDER BY score DESC, elapsed_ms ASC, created_at ASC, id ASC
		LIMIT ?`, levelID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ScoreEntry, 0, limit)
	for rows.Next() {
		var e ScoreEntry
		var created string
		if err := rows.Scan(&e.LevelID, &e.Player, &e.Score, &e.Stars, &e.ElapsedMs, &created); err != nil {
			return nil, err
		}
		if e.CreatedAt, err = time.Parse(sqliteTime, created); err != nil {
			return nil, fmt.Errorf("score created_at %q: %w", created, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
