// internal/progress/redis.go
//
// Redis-backed progress Store. Everything lives under one key prefix:
//
//	<prefix>progress        JSON map { "<levelId>": LevelProgress }
//	<prefix>settings        JSON GameSettings
//	<prefix>scores:<level>  list of JSON ScoreEntry
//
// Read-modify-write of the progress map uses WATCH so two writers never lose
// an unlock.

package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/rightsquest/internal/game"
)

const (
	defaultRedisPrefix = "rightsquest:"
	maxWatchRetries    = 5
)

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Address  string
	Password string
	DB       int
	Prefix   string
}

// RedisStore keeps progress as JSON values under namespaced keys.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects and pings the server.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	log.Info().Str("addr", cfg.Address).Str("prefix", prefix).Msg("redis progress store ready")
	return &RedisStore{client: client, prefix: prefix}, nil
}

func (s *RedisStore) progressKey() string { return s.prefix + "progress" }
func (s *RedisStore) settingsKey() string { return s.prefix + "settings" }
func (s *RedisStore) scoresKey(levelID int) string {
	return s.prefix + "scores:" + strconv.Itoa(levelID)
}

func (s *RedisStore) GetProgress(ctx context.Context) (map[int]game.LevelProgress, error) {
	var out map[int]game.LevelProgress
	err := s.updateProgress(ctx, func(m map[int]game.LevelProgress) bool {
		out = m
		if len(m) > 0 {
			return false
		}
		m[1] = FirstLevel()
		return true
	})
	return out, err
}

func (s *RedisStore) RecordLevelOutcome(ctx context.Context, levelID int, o Outcome) error {
	return s.updateProgress(ctx, func(m map[int]game.LevelProgress) bool {
		applyOutcome(m, levelID, o)
		return true
	})
}

// updateProgress loads the progress map under WATCH, lets fn mutate it and
// writes it back when fn returns true.
func (s *RedisStore) updateProgress(ctx context.Context, fn func(map[int]game.LevelProgress) bool) error {
	key := s.progressKey()
	txf := func(tx *redis.Tx) error {
		m := make(map[int]game.LevelProgress)
		raw, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return err
		default:
			if err := json.Unmarshal(raw, &m); err != nil {
				return fmt.Errorf("decode progress: %w", err)
			}
		}
		if !fn(m) {
			return nil
		}
		data, err := json.Marshal(m)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxWatchRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("update progress: %w", redis.TxFailedErr)
}

func (s *RedisStore) GetSettings(ctx context.Context) (game.GameSettings, error) {
	raw, err := s.client.Get(ctx, s.settingsKey()).Bytes()
	if errors.Is(err, redis.Nil) {
		return game.DefaultSettings(), nil
	}
	if err != nil {
		return game.GameSettings{}, err
	}
	var gs game.GameSettings
	if err := json.Unmarshal(raw, &gs); err != nil {
		return game.GameSettings{}, fmt.Errorf("decode settings: %w", err)
	}
	return gs, nil
}

func (s *RedisStore) SaveSettings(ctx context.Context, gs game.GameSettings) error {
	data, err := json.Marshal(gs)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.settingsKey(), data, 0).Err()
}

// ResetProgress deletes the progress map and every scores list. The settings
// key is never matched.
func (s *RedisStore) ResetProgress(ctx context.Context) error {
	keys := []string{s.progressKey()}
	iter := s.client.Scan(ctx, 0, s.prefix+"scores:*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan scores: %w", err)
	}
	return s.client.Del(ctx, keys...).Err()
}

func (s *RedisStore) AddScore(ctx context.Context, e ScoreEntry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.client.RPush(ctx, s.scoresKey(e.LevelID), data).Err()
}

func (s *RedisStore) TopScores(ctx context.Context, levelID, limit int) ([]ScoreEntry, error) {
	raw, err := s.client.LRange(ctx, s.scoresKey(levelID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]ScoreEntry, 0, len(raw))
	for _, r := range raw {
		var e ScoreEntry
		if err := json.Unmarshal([]byte(r), &e); err != nil {
			log.Warn().Err(err).Int("level", levelID).Msg("skip corrupt score entry")
			continue
		}
		out = append(out, e)
	}
	sortScores(out)
	if n := topLimit(limit); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// Close closes the client.
func (s *RedisStore) Close() error { return s.client.Close() }
