package game

import (
	"context"
	"errors"
	"testing"

	"github.com/samdwyer/labyrinth/internal/interaction"
	"github.com/samdwyer/labyrinth/internal/snapshot"
	"github.com/samdwyer/labyrinth/internal/store"
	"github.com/samdwyer/labyrinth/internal/world"
)

func TestSaveAndRestore(t *testing.T) {
	ctx := context.Background()
	prefs, err := store.Open(store.NewMemoryBackend(), NamespaceSaveGame)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	g := roomGrid()
	g.Set(3, 2, world.TileTrap)
	g.Set(4, 1, world.TileEnemy)

	s, _ := newTestSession(t, false)
	s.LoadGrid(g)
	s.Tick(ctx, 0.25, interaction.Input{DX: 1}) // leave the entrance
	s.Registry().Traps[0].Active = false
	s.Player().Hearts = 2
	s.TotalKills = 3
	s.RunScore = 120

	if err := s.SaveTo(ctx, prefs); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	wantX, wantY := s.Player().X, s.Player().Y
	enemyX := s.Registry().Enemies[0].X

	restored, events := newTestSession(t, false)
	if err := restored.LoadFrom(ctx, prefs); err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	reg := restored.Registry()
	if restored.State() != StatePlaying {
		t.Errorf("state = %v, want playing", restored.State())
	}
	if reg.Player.X != wantX || reg.Player.Y != wantY || reg.Player.Hearts != 2 {
		t.Errorf("player = (%v,%v) hearts %d", reg.Player.X, reg.Player.Y, reg.Player.Hearts)
	}
	if reg.Traps[0].Active {
		t.Error("trap should stay consumed")
	}
	if reg.Enemies[0].X != enemyX {
		t.Errorf("enemy x = %v, want %v", reg.Enemies[0].X, enemyX)
	}
	if !reg.Entrance.Locked {
		t.Error("entrance should stay locked")
	}
	if restored.TimePlayed != 0.25 || restored.TotalKills != 3 || restored.RunScore != 120 {
		t.Errorf("run counters = time %v kills %d score %d", restored.TimePlayed, restored.TotalKills, restored.RunScore)
	}
	if count(*events, EventLevelLoaded) != 1 {
		t.Error("restore should announce the new level")
	}
}

func TestSaveRequiresPlaying(t *testing.T) {
	prefs, _ := store.Open(store.NewMemoryBackend(), NamespaceSaveGame)
	s, _ := newTestSession(t, false)

	if err := s.SaveTo(context.Background(), prefs); !errors.Is(err, ErrNotPlaying) {
		t.Errorf("SaveTo before start = %v, want ErrNotPlaying", err)
	}

	s.LoadGrid(roomGrid())
	s.Player().Hearts = 0
	s.Tick(context.Background(), frame, interaction.Input{})
	if err := s.SaveTo(context.Background(), prefs); !errors.Is(err, ErrNotPlaying) {
		t.Errorf("SaveTo after losing = %v, want ErrNotPlaying", err)
	}
}

func TestLoadWithoutSave(t *testing.T) {
	prefs, _ := store.Open(store.NewMemoryBackend(), NamespaceSaveGame)
	s, _ := newTestSession(t, false)
	s.LoadGrid(roomGrid())
	before := s.Registry()

	if err := s.LoadFrom(context.Background(), prefs); !errors.Is(err, snapshot.ErrNoSave) {
		t.Errorf("LoadFrom = %v, want ErrNoSave", err)
	}
	if s.Registry() != before {
		t.Error("failed load replaced the registry")
	}
}
