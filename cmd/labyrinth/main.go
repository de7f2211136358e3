// Package main is the entry point for Labyrinth.
package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/samdwyer/labyrinth/internal/game"
	"github.com/samdwyer/labyrinth/internal/gamedata"
	"github.com/samdwyer/labyrinth/internal/store"
	"github.com/samdwyer/labyrinth/internal/telemetry"
	"github.com/samdwyer/labyrinth/internal/world"
)

func main() {
	// Load .env file for local development
	// This makes HONEYCOMB_LABYRINTH_API_KEY available
	envErr := godotenv.Load()

	// The terminal belongs to tcell, so logs go to a file or nowhere.
	closeLog := setupLogging()
	defer closeLog()

	if envErr != nil {
		// Not fatal - env vars might be set directly
		log.Debug().Err(envErr).Msg(".env file not loaded")
	}

	if err := run(); err != nil {
		closeLog()
		fmt.Fprintln(os.Stderr, "labyrinth:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := game.ConfigFromEnv()
	if err != nil {
		return err
	}

	// Set up OTEL environment variables from our .env variables
	setupOTelEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	shutdown, err := telemetry.Setup(ctx)
	if err != nil {
		// Continue without telemetry - game still works
		log.Warn().Err(err).Msg("telemetry setup failed, running without observability")
	} else {
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Error().Err(err).Msg("shutting down telemetry")
			}
		}()
	}

	tuning, err := gamedata.LoadOverride[gamedata.Tuning](cfg.DataDir, "tuning.json")
	if err != nil {
		return fmt.Errorf("load tuning: %w", err)
	}
	achievements, err := gamedata.LoadAchievementRegistry()
	if err != nil {
		return fmt.Errorf("load achievements: %w", err)
	}
	skills, err := gamedata.LoadSkillRegistry()
	if err != nil {
		return fmt.Errorf("load skills: %w", err)
	}
	palette, err := gamedata.LoadOverride[gamedata.Palette](cfg.DataDir, "palette.json")
	if err != nil {
		return fmt.Errorf("load palette: %w", err)
	}

	backend, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	profile, err := game.OpenProfile(backend, achievements, skills)
	if err != nil {
		return err
	}
	saves, err := store.Open(backend, game.NamespaceSaveGame)
	if err != nil {
		return err
	}
	settings, err := store.Open(backend, game.NamespaceSettings)
	if err != nil {
		return err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	log.Info().Int64("seed", seed).Str("store", cfg.Store).Bool("endless", cfg.Endless).Msg("starting")

	gen := world.NewGenerator(rng, cfg.LevelDir)
	gen.WallProbability = tuning.Level.WallProbability

	session := game.NewSession(game.Options{
		Tuning:    tuning,
		Generator: gen,
		Profile:   profile,
		Rand:      rng,
		Width:     cfg.Width,
		Height:    cfg.Height,
		Endless:   cfg.Endless,
	})

	g, err := game.New(session, saves, settings, palette, skills)
	if err != nil {
		return fmt.Errorf("initialize game: %w", err)
	}
	return g.Run(ctx)
}

func openBackend(cfg game.Config) (store.Backend, error) {
	switch cfg.Store {
	case game.StoreJSON:
		return store.NewJSONBackend(cfg.StorePath)
	case game.StoreSQLite:
		return store.NewSQLiteBackend(cfg.StorePath)
	default:
		return store.NewMemoryBackend(), nil
	}
}

// setupLogging configures the global zerolog logger from LOG_LEVEL and
// LOG_FILE and returns a function closing the log file.
func setupLogging() func() {
	lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	path := os.Getenv("LOG_FILE")
	if path == "" {
		log.Logger = zerolog.New(io.Discard)
		return func() {}
	}

	if dir := filepath.Dir(path); dir != "." {
		_ = os.MkdirAll(dir, 0o755)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Logger = zerolog.New(io.Discard)
		return func() {}
	}
	log.Logger = zerolog.New(f).With().Timestamp().Str("service", "labyrinth").Logger()
	return func() { _ = f.Close() }
}

// setupOTelEnv configures OTEL environment variables from our custom env vars.
func setupOTelEnv() {
	// Always set endpoint to Honeycomb
	os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")

	// Always set headers from our API key - the .env file may have an unexpanded
	// variable reference that doesn't work, so we construct it properly here
	apiKey := os.Getenv("HONEYCOMB_LABYRINTH_API_KEY")
	dataset := getEnv("HONEYCOMB_LABYRINTH_DATASET", "labyrinth")
	if apiKey != "" {
		os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
			fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
