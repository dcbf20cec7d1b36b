// main.go
//
// Entrypoint for the Rights & Duties backend.
// Responsibilities:
//   - Load .env and configure the global zerolog logger.
//   - Load the level pack, open the configured progress backend.
//   - Serve HTTP until SIGINT/SIGTERM, then shut down gracefully.

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/rightsquest/internal/httpserver"
	"github.com/robalobadob/rightsquest/internal/levels"
	"github.com/robalobadob/rightsquest/internal/progress"
	"github.com/robalobadob/rightsquest/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := loadConfig()
	setupLogging(cfg)

	if err := levels.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to load level pack")
	}
	log.Info().Int("levels", levels.Count()).Msg("level pack loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	prog, err := progress.Open(ctx, cfg.Progress)
	if err != nil {
		log.Fatal().Err(err).Str("engine", cfg.Progress.Engine).Msg("failed to open progress store")
	}
	defer prog.Close()

	srv := httpserver.New(ctx, store.NewMemoryStore(), prog, cfg.Server)
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("engine", cfg.Progress.Engine).Msg("starting rightsquest server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server exited")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	// stops countdowns and the session sweeper
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

func setupLogging(cfg config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
