package snapshot

import (
	"context"
	"errors"
	"testing"

	"github.com/samdwyer/labyrinth/internal/entity"
	"github.com/samdwyer/labyrinth/internal/store"
	"github.com/samdwyer/labyrinth/internal/world"
)

func testRegistry() *entity.Registry {
	g := world.NewGrid(8, 6)
	g.Set(1, 1, world.TileStart)
	g.Set(6, 4, world.TileExit)
	g.Set(3, 2, world.TileTrap)
	g.Set(4, 3, world.TileEnemy)
	g.Set(2, 4, world.TileMorphTrap)
	g.Set(5, 1, world.TileWall)
	return entity.NewRegistry(g, entity.Params{Keys: 1, Hearts: 2, Boosts: 1, StartHearts: 3, MaxHearts: 5})
}

func TestSaveRoundTrip(t *testing.T) {
	ctx := context.Background()
	reg := testRegistry()

	reg.Traps[0].Active = false
	reg.Enemies[0].X, reg.Enemies[0].Y = 3.5, 3
	reg.Keys[0].Collected = true
	reg.Entrance.Locked = true
	reg.Player.Teleport(2.5, 1)
	reg.Player.Hearts = 2
	reg.Player.Keys = 1

	run := Run{TimePlayed: 12.5, HeartsCollected: 1, TotalHearts: 4, TotalKills: 2, LevelsCleared: 3, RunScore: 900}

	prefs, err := store.Open(store.NewMemoryBackend(), "savegame")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := Capture(reg, run).Write(ctx, prefs); err != nil {
		t.Fatalf("Write: %v", err)
	}

	loaded, err := Read(prefs)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if loaded.Run != run {
		t.Errorf("Run = %+v, want %+v", loaded.Run, run)
	}

	grid, err := loaded.Grid()
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	fresh := entity.NewRegistry(grid, entity.Params{Keys: 1, Hearts: 2, Boosts: 1, StartHearts: 3, MaxHearts: 5})
	if err := loaded.Apply(ctx, fresh); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if fresh.Traps[0].Active {
		t.Error("trap should be inactive")
	}
	if fresh.Enemies[0].X != 3.5 {
		t.Errorf("enemy x = %v, want 3.5", fresh.Enemies[0].X)
	}
	if !fresh.Keys[0].Collected || fresh.Keys[0].Origin != reg.Keys[0].Origin {
		t.Error("key state or placement differs after restore")
	}
	if !fresh.Entrance.Locked {
		t.Error("entrance should be locked")
	}
	if fresh.Player.X != 2.5 || fresh.Player.Hearts != 2 || fresh.Player.Keys != 1 {
		t.Errorf("player = %+v", fresh.Player)
	}
}

func TestApplyRejectsOtherGrid(t *testing.T) {
	reg := testRegistry()
	save := Capture(reg, Run{})

	other := world.NewGrid(8, 6)
	other.Set(1, 1, world.TileStart)
	otherReg := entity.NewRegistry(other, entity.Params{StartHearts: 3, MaxHearts: 5})
	otherReg.Player.Teleport(1, 1)

	err := save.Apply(context.Background(), otherReg)
	if !errors.Is(err, ErrFingerprintMismatch) {
		t.Fatalf("Apply error = %v, want ErrFingerprintMismatch", err)
	}
	if otherReg.Player.X != 1 {
		t.Error("a rejected save must not touch the registry")
	}
}

func TestReadWithoutSave(t *testing.T) {
	prefs, _ := store.Open(store.NewMemoryBackend(), "savegame")
	if _, err := Read(prefs); !errors.Is(err, ErrNoSave) {
		t.Errorf("Read error = %v, want ErrNoSave", err)
	}
}

func TestApplyCorruptCollection(t *testing.T) {
	reg := testRegistry()
	save := Capture(reg, Run{})
	save.Collections[entity.KindTrap.String()] = "3:2=garbage;"

	fresh := testRegistry()
	err := save.Apply(context.Background(), fresh)
	if err == nil {
		t.Fatal("expected a decode error")
	}
	if errors.Is(err, ErrFingerprintMismatch) {
		t.Fatal("corrupt collection is not a fingerprint mismatch")
	}
	if !fresh.Traps[0].Active {
		t.Error("corrupt trap record should leave the default state")
	}
	if !fresh.Enemies[0].Active {
		t.Error("other collections should still restore")
	}
}
