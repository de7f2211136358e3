// Package store provides namespaced key-value preferences over pluggable
// persistence backends.
package store

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"sync"
)

// ErrNotFound is returned when a key is absent from a namespace.
var ErrNotFound = errors.New("store: key not found")

// Backend loads and saves whole namespaces.
type Backend interface {
	// Load returns every key of the namespace. A missing namespace is empty,
	// not an error.
	Load(namespace string) (map[string]string, error)
	// Save replaces the namespace with values.
	Save(namespace string, values map[string]string) error
	Close() error
}

// Prefs is an in-memory view of one namespace. Writes are buffered until
// Flush.
type Prefs struct {
	backend   Backend
	namespace string

	mu     sync.RWMutex
	values map[string]string
	dirty  bool
}

// Open loads a namespace from the backend.
func Open(b Backend, namespace string) (*Prefs, error) {
	values, err := b.Load(namespace)
	if err != nil {
		return nil, fmt.Errorf("load namespace %s: %w", namespace, err)
	}
	if values == nil {
		values = make(map[string]string)
	}
	return &Prefs{backend: b, namespace: namespace, values: values}, nil
}

// Namespace returns the name this view was opened with.
func (p *Prefs) Namespace() string { return p.namespace }

// Get returns the raw value stored under key.
func (p *Prefs) Get(key string) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	v, ok := p.values[key]
	if !ok {
		return "", fmt.Errorf("%s/%s: %w", p.namespace, key, ErrNotFound)
	}
	return v, nil
}

// GetString returns the value under key, or def when absent.
func (p *Prefs) GetString(key, def string) string {
	v, err := p.Get(key)
	if err != nil {
		return def
	}
	return v
}

// GetInt returns the integer under key, or def when absent or unparsable.
func (p *Prefs) GetInt(key string, def int) int {
	v, err := p.Get(key)
	if err != nil {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// GetFloat returns the float under key, or def when absent or unparsable.
func (p *Prefs) GetFloat(key string, def float64) float64 {
	v, err := p.Get(key)
	if err != nil {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// GetBool returns the boolean under key, or def when absent or unparsable.
func (p *Prefs) GetBool(key string, def bool) bool {
	v, err := p.Get(key)
	if err != nil {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// PutString stores a raw value.
func (p *Prefs) PutString(key, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if old, ok := p.values[key]; ok && old == value {
		return
	}
	p.values[key] = value
	p.dirty = true
}

func (p *Prefs) PutInt(key string, value int) {
	p.PutString(key, strconv.Itoa(value))
}

func (p *Prefs) PutFloat(key string, value float64) {
	p.PutString(key, strconv.FormatFloat(value, 'g', -1, 64))
}

func (p *Prefs) PutBool(key string, value bool) {
	p.PutString(key, strconv.FormatBool(value))
}

// Contains reports whether key is present.
func (p *Prefs) Contains(key string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.values[key]
	return ok
}

// Remove deletes key.
func (p *Prefs) Remove(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.values[key]; ok {
		delete(p.values, key)
		p.dirty = true
	}
}

// Clear deletes every key in the namespace.
func (p *Prefs) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.values) > 0 {
		clear(p.values)
		p.dirty = true
	}
}

// Keys returns the stored keys in sorted order.
func (p *Prefs) Keys() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Sorted(maps.Keys(p.values))
}

// Flush writes pending changes to the backend. A clean view is a no-op.
func (p *Prefs) Flush() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.dirty {
		return nil
	}
	if err := p.backend.Save(p.namespace, maps.Clone(p.values)); err != nil {
		return fmt.Errorf("flush namespace %s: %w", p.namespace, err)
	}
	p.dirty = false
	return nil
}
