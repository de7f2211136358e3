package store

import (
	"errors"
	"path/filepath"
	"testing"
)

func backends(t *testing.T) map[string]func(*testing.T) Backend {
	t.Helper()
	dir := t.TempDir()
	mem := NewMemoryBackend()
	return map[string]func(*testing.T) Backend{
		"memory": func(*testing.T) Backend { return mem },
		"json": func(t *testing.T) Backend {
			b, err := NewJSONBackend(filepath.Join(dir, "json"))
			if err != nil {
				t.Fatalf("NewJSONBackend: %v", err)
			}
			return b
		},
		"sqlite": func(t *testing.T) Backend {
			b, err := NewSQLiteBackend(filepath.Join(dir, "sqlite", "prefs.db"))
			if err != nil {
				t.Fatalf("NewSQLiteBackend: %v", err)
			}
			return b
		},
	}
}

func TestPrefsRoundTrip(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			b := open(t)
			p, err := Open(b, "scores")
			if err != nil {
				t.Fatalf("Open: %v", err)
			}

			p.PutInt("best", 420)
			p.PutFloat("time", 12.5)
			p.PutBool("endless", true)
			p.PutString("name", "runner")
			if err := p.Flush(); err != nil {
				t.Fatalf("Flush: %v", err)
			}
			if err := b.Close(); err != nil {
				t.Fatalf("Close: %v", err)
			}

			b = open(t)
			defer b.Close()
			p, err = Open(b, "scores")
			if err != nil {
				t.Fatalf("reopen: %v", err)
			}

			if got := p.GetInt("best", 0); got != 420 {
				t.Errorf("best = %d, want 420", got)
			}
			if got := p.GetFloat("time", 0); got != 12.5 {
				t.Errorf("time = %v, want 12.5", got)
			}
			if !p.GetBool("endless", false) {
				t.Error("endless = false, want true")
			}
			if got := p.GetString("name", ""); got != "runner" {
				t.Errorf("name = %q, want runner", got)
			}
		})
	}
}

func TestNamespacesAreIsolated(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			b := open(t)
			defer b.Close()

			a, _ := Open(b, "achievements")
			a.PutBool("first_exit", true)
			if err := a.Flush(); err != nil {
				t.Fatalf("Flush: %v", err)
			}

			s, err := Open(b, "skills")
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			if s.Contains("first_exit") {
				t.Error("key leaked across namespaces")
			}
		})
	}
}

func TestDefaultsAndNotFound(t *testing.T) {
	p, err := Open(NewMemoryBackend(), "settings")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if _, err := p.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
	if got := p.GetInt("missing", 7); got != 7 {
		t.Errorf("GetInt default = %d, want 7", got)
	}

	p.PutString("bad", "not-a-number")
	if got := p.GetInt("bad", 3); got != 3 {
		t.Errorf("GetInt(bad) = %d, want default 3", got)
	}
	if got := p.GetFloat("bad", 1.5); got != 1.5 {
		t.Errorf("GetFloat(bad) = %v, want default 1.5", got)
	}
}

func TestRemoveAndClear(t *testing.T) {
	b := NewMemoryBackend()
	p, _ := Open(b, "savegame")
	p.PutString("a", "1")
	p.PutString("b", "2")
	p.PutString("c", "3")

	p.Remove("b")
	if got := p.Keys(); len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("Keys() = %v, want [a c]", got)
	}

	p.Clear()
	if err := p.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	reopened, _ := Open(b, "savegame")
	if len(reopened.Keys()) != 0 {
		t.Errorf("cleared namespace still has %v", reopened.Keys())
	}
}

type failingBackend struct{ saves int }

func (f *failingBackend) Load(string) (map[string]string, error) { return nil, nil }
func (f *failingBackend) Save(string, map[string]string) error {
	f.saves++
	return errors.New("disk full")
}
func (f *failingBackend) Close() error { return nil }

func TestFlushOnlyWhenDirty(t *testing.T) {
	fb := &failingBackend{}
	p, err := Open(fb, "scores")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := p.Flush(); err != nil {
		t.Errorf("clean Flush error = %v, want nil", err)
	}
	if fb.saves != 0 {
		t.Errorf("clean Flush wrote %d times", fb.saves)
	}

	p.PutInt("best", 1)
	if err := p.Flush(); err == nil {
		t.Error("expected backend error to surface")
	}
	// The write stays pending after a failure.
	if v := p.GetInt("best", 0); v != 1 {
		t.Errorf("best = %d after failed flush, want 1", v)
	}
}
