package game

import (
	"fmt"
	"os"
	"strconv"
)

// Store backends selectable through LABYRINTH_STORE.
const (
	StoreMemory = "memory"
	StoreJSON   = "json"
	StoreSQLite = "sqlite"
)

// Config holds game configuration options.
type Config struct {
	// Seed for random number generation. Used for reproducible level generation.
	// A seed of 0 means a random seed will be generated.
	Seed int64

	// Width and Height override the tuning level size when non-zero.
	Width, Height int

	// Endless chains levels together instead of stopping at the first exit.
	Endless bool

	// LevelDir receives generated level files. Empty disables them.
	LevelDir string

	// Store selects the persistence backend; StorePath is its file or directory.
	Store     string
	StorePath string

	// DataDir may hold JSON files overriding the embedded game data.
	DataDir string
}

// ConfigFromEnv reads the LABYRINTH_* environment variables.
func ConfigFromEnv() (Config, error) {
	cfg := Config{
		LevelDir:  os.Getenv("LABYRINTH_LEVEL_DIR"),
		Store:     os.Getenv("LABYRINTH_STORE"),
		StorePath: os.Getenv("LABYRINTH_STORE_PATH"),
		DataDir:   os.Getenv("LABYRINTH_DATA_DIR"),
	}

	var err error
	if cfg.Seed, err = envInt64("LABYRINTH_SEED"); err != nil {
		return cfg, err
	}
	if cfg.Width, err = envInt("LABYRINTH_WIDTH"); err != nil {
		return cfg, err
	}
	if cfg.Height, err = envInt("LABYRINTH_HEIGHT"); err != nil {
		return cfg, err
	}
	if v := os.Getenv("LABYRINTH_ENDLESS"); v != "" {
		if cfg.Endless, err = strconv.ParseBool(v); err != nil {
			return cfg, fmt.Errorf("LABYRINTH_ENDLESS: %w", err)
		}
	}

	if cfg.Store == "" {
		cfg.Store = StoreMemory
	}
	switch cfg.Store {
	case StoreMemory:
	case StoreJSON:
		if cfg.StorePath == "" {
			cfg.StorePath = "save"
		}
	case StoreSQLite:
		if cfg.StorePath == "" {
			cfg.StorePath = "save/labyrinth.db"
		}
	default:
		return cfg, fmt.Errorf("LABYRINTH_STORE: unknown backend %q", cfg.Store)
	}

	if (cfg.Width != 0 && cfg.Width < 3) || (cfg.Height != 0 && cfg.Height < 3) {
		return cfg, fmt.Errorf("level size %dx%d is below 3x3", cfg.Width, cfg.Height)
	}
	return cfg, nil
}

func envInt(key string) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envInt64(key string) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
