package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// JSONBackend stores each namespace as "<namespace>.json" inside a directory.
type JSONBackend struct {
	dir string
	mu  sync.Mutex
}

// NewJSONBackend creates the directory if needed.
func NewJSONBackend(dir string) (*JSONBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir %s: %w", dir, err)
	}
	return &JSONBackend{dir: dir}, nil
}

func (j *JSONBackend) path(namespace string) string {
	return filepath.Join(j.dir, namespace+".json")
}

func (j *JSONBackend) Load(namespace string) (map[string]string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	data, err := os.ReadFile(j.path(namespace))
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}

	values := make(map[string]string)
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode %s: %w", j.path(namespace), err)
	}
	return values, nil
}

// Save writes to a temporary file and renames it over the namespace file.
func (j *JSONBackend) Save(namespace string, values map[string]string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}

	path := j.path(namespace)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (j *JSONBackend) Close() error { return nil }
