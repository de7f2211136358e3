package gamedata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestLoadTuning(t *testing.T) {
	tuning, err := LoadTuning()
	if err != nil {
		t.Fatalf("Failed to load tuning: %v", err)
	}

	if tuning.Level.Width != 20 || tuning.Level.Height != 15 {
		t.Errorf("level size = %dx%d, want 20x15", tuning.Level.Width, tuning.Level.Height)
	}
	if tuning.Level.WallProbability != 0.28 {
		t.Errorf("wall probability = %v, want 0.28", tuning.Level.WallProbability)
	}
	if tuning.Proximity != 0.5 {
		t.Errorf("proximity = %v, want 0.5", tuning.Proximity)
	}
	if tuning.Player.StartHearts > tuning.Player.MaxHearts {
		t.Errorf("start hearts %d exceed max %d", tuning.Player.StartHearts, tuning.Player.MaxHearts)
	}
	if tuning.Score.HeartValue != 25 || tuning.Score.ParTime != 60 ||
		tuning.Score.TimeValue != 5 || tuning.Score.RemainingHeartValue != 50 {
		t.Errorf("unexpected score weights: %+v", tuning.Score)
	}
}

func TestAchievementRegistry(t *testing.T) {
	registry, err := LoadAchievementRegistry()
	if err != nil {
		t.Fatalf("Failed to load registry: %v", err)
	}

	if registry.Count() == 0 {
		t.Fatal("Expected achievements, got none")
	}

	first := registry.GetByID("first_exit")
	if first == nil {
		t.Fatal("first_exit not found by ID")
	}
	if first.Name != "Way Out" {
		t.Errorf("Expected name 'Way Out', got %q", first.Name)
	}
	if registry.GetByID("missing") != nil {
		t.Error("GetByID(missing) should return nil")
	}

	for _, a := range registry.All() {
		if a.Comparison != CompareAtLeast && a.Comparison != CompareAtMost {
			t.Errorf("achievement %q has invalid comparison %q", a.ID, a.Comparison)
		}
	}
}

func TestAchievementMet(t *testing.T) {
	fast := AchievementDef{ID: "fast", Metric: MetricTimePlayed, Comparison: CompareAtMost, Threshold: 20}
	rich := AchievementDef{ID: "rich", Metric: MetricLevelScore, Comparison: CompareAtLeast, Threshold: 400}
	broken := AchievementDef{ID: "broken", Metric: MetricLevelScore, Comparison: "eq", Threshold: 1}

	tests := []struct {
		def     AchievementDef
		metrics map[string]float64
		want    bool
	}{
		{fast, map[string]float64{MetricTimePlayed: 12}, true},
		{fast, map[string]float64{MetricTimePlayed: 20}, true},
		{fast, map[string]float64{MetricTimePlayed: 21}, false},
		{fast, map[string]float64{}, false},
		{rich, map[string]float64{MetricLevelScore: 400}, true},
		{rich, map[string]float64{MetricLevelScore: 399.9}, false},
		{broken, map[string]float64{MetricLevelScore: 1}, false},
	}

	for _, tt := range tests {
		if got := tt.def.Met(tt.metrics); got != tt.want {
			t.Errorf("%s.Met(%v) = %v, want %v", tt.def.ID, tt.metrics, got, tt.want)
		}
	}
}

func TestSkillRegistry(t *testing.T) {
	registry := MustLoadSkillRegistry()

	if registry.Count() != 3 {
		t.Errorf("Expected 3 skills, got %d", registry.Count())
	}

	swift := registry.GetByID("swift_feet")
	if swift == nil {
		t.Fatal("swift_feet not found")
	}
	if swift.Effect != EffectSpeed || swift.Multiplier <= 1 {
		t.Errorf("swift_feet = %+v, want a speed multiplier above 1", swift)
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"#FF0000", true},
		{"FF0000", true},
		{"#00FF00", true},
		{"#FFF", true},
		{"#000000", true},
		{"invalid", false},
		{"#GGGGGG", false},
		{"#FFFF", false},
	}

	for _, tt := range tests {
		_, err := ParseHexColor(tt.input)
		if tt.valid && err != nil {
			t.Errorf("ParseHexColor(%q) should be valid, got error: %v", tt.input, err)
		}
		if !tt.valid && err == nil {
			t.Errorf("ParseHexColor(%q) should be invalid, got no error", tt.input)
		}
	}

	short, _ := ParseHexColor("#F80")
	long, _ := ParseHexColor("#FF8800")
	if short != long {
		t.Errorf("shorthand #F80 = %v, want %v", short, long)
	}
}

func TestPaletteFallback(t *testing.T) {
	palette, err := LoadPalette()
	if err != nil {
		t.Fatalf("Failed to load palette: %v", err)
	}

	if c := palette.Color("wall", tcell.ColorPurple); c == tcell.ColorPurple {
		t.Error("wall colour should come from the palette")
	}
	if c := palette.Color("nope", tcell.ColorPurple); c != tcell.ColorPurple {
		t.Errorf("missing role = %v, want fallback", c)
	}
}

func TestLoadOverride(t *testing.T) {
	dir := t.TempDir()
	override := `{"level": {"width": 31, "height": 17}}`
	if err := os.WriteFile(filepath.Join(dir, "tuning.json"), []byte(override), 0o644); err != nil {
		t.Fatal(err)
	}

	tuning, err := LoadOverride[Tuning](dir, "tuning.json")
	if err != nil {
		t.Fatalf("LoadOverride error: %v", err)
	}
	if tuning.Level.Width != 31 || tuning.Level.Height != 17 {
		t.Errorf("override size = %dx%d, want 31x17", tuning.Level.Width, tuning.Level.Height)
	}

	fallback, err := LoadOverride[Palette](dir, "palette.json")
	if err != nil {
		t.Fatalf("fallback error: %v", err)
	}
	if len(fallback.Colors) == 0 {
		t.Error("missing override should fall back to embedded palette")
	}
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry([]SkillDef{
		{ID: "a", Name: "first"},
		{ID: "b", Name: "second"},
		{ID: "a", Name: "shadow"},
	})

	if r.Count() != 3 || len(r.All()) != 3 {
		t.Errorf("Count() = %d, want 3", r.Count())
	}
	if got := r.GetByID("a"); got == nil || got.Name != "shadow" {
		t.Errorf("GetByID(a) = %+v, want the later definition", got)
	}
	if r.All()[0].Name != "first" {
		t.Error("All() should keep file order")
	}

	empty := NewAchievementRegistry(nil)
	if empty.Count() != 0 || empty.GetByID("first_exit") != nil {
		t.Error("empty registry should have no entries")
	}
}
