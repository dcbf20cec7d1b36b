package main

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/rightsquest/internal/httpserver"
	"github.com/robalobadob/rightsquest/internal/progress"
)

// config is everything main reads from the environment.
type config struct {
	Port      string
	LogLevel  string
	LogPretty bool
	Server    httpserver.Options
	Progress  progress.Config
}

func loadConfig() config {
	return config{
		Port:      getEnv("PORT", "5175"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnvBool("LOG_PRETTY", false),
		Server: httpserver.Options{
			ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
			DailySalt:    getEnv("DAILY_SALT", "local_dev_salt"),
			PlayerName:   getEnv("PLAYER_NAME", "player"),
			SessionTTL:   getEnvDuration("SESSION_TTL", time.Hour),
		},
		Progress: progress.Config{
			Engine:     getEnv("PROGRESS_ENGINE", progress.EngineSQLite),
			SQLitePath: getEnv("SQLITE_PATH", "rightsquest.db"),
			Redis: progress.RedisConfig{
				Address:  getEnv("REDIS_ADDRESS", "localhost:6379"),
				Password: os.Getenv("REDIS_PASSWORD"),
				DB:       getEnvInt("REDIS_DB", 0),
				Prefix:   getEnv("REDIS_PREFIX", "rightsquest:"),
			},
			Postgres: progress.PostgresConfig{
				DSN: os.Getenv("DATABASE_DSN"),
			},
		},
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", k).Str("value", v).Msg("not an integer; using default")
		return def
	}
	return n
}

func getEnvBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Warn().Str("key", k).Str("value", v).Msg("not a duration; using default")
		return def
	}
	return d
}
