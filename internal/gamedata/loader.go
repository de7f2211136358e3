// Package gamedata loads the tuning, achievement, skill and palette tables
// shipped with the game, optionally overridden from a directory.
package gamedata

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed *.json
var dataFS embed.FS

// Load reads and unmarshals a JSON file from the embedded filesystem.
func Load[T any](filename string) (T, error) {
	return LoadFrom[T](dataFS, filename)
}

// LoadFrom reads and unmarshals a JSON file from fsys.
func LoadFrom[T any](fsys fs.FS, filename string) (T, error) {
	var result T

	content, err := fs.ReadFile(fsys, filename)
	if err != nil {
		return result, fmt.Errorf("failed to read data file %s: %w", filename, err)
	}

	if err := json.Unmarshal(content, &result); err != nil {
		return result, fmt.Errorf("failed to parse JSON from %s: %w", filename, err)
	}

	return result, nil
}

// LoadOverride prefers dir/filename when it exists and falls back to the
// embedded copy. An empty dir always uses the embedded data.
func LoadOverride[T any](dir, filename string) (T, error) {
	if dir != "" {
		if _, err := os.Stat(filepath.Join(dir, filename)); err == nil {
			return LoadFrom[T](os.DirFS(dir), filename)
		}
	}
	return Load[T](filename)
}

// MustLoad reads and unmarshals a JSON file, panicking on error.
// Use this for data that must be present for the game to function.
func MustLoad[T any](filename string) T {
	result, err := Load[T](filename)
	if err != nil {
		panic(err)
	}
	return result
}
