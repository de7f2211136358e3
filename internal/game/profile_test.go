package game

import (
	"errors"
	"math"
	"testing"

	"github.com/samdwyer/labyrinth/internal/gamedata"
	"github.com/samdwyer/labyrinth/internal/store"
)

func TestLevelScore(t *testing.T) {
	st := gamedata.MustLoadTuning().Score

	tests := []struct {
		name       string
		collected  int
		time       float64
		hearts     int
		multiplier float64
		want       int
	}{
		{"under par", 2, 30, 3, 1, 2*25 + 30*5 + 3*50},
		{"over par", 0, 90, 1, 1, 50},
		{"exactly par", 1, 60, 0, 1, 25},
		{"multiplied", 2, 30, 3, 1.25, 438},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LevelScore(st, tt.collected, tt.time, tt.hearts, tt.multiplier); got != tt.want {
				t.Errorf("LevelScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestProfilePersists(t *testing.T) {
	b := store.NewMemoryBackend()
	ach := gamedata.MustLoadAchievementRegistry()
	sk := gamedata.MustLoadSkillRegistry()

	p, err := OpenProfile(b, ach, sk)
	if err != nil {
		t.Fatalf("OpenProfile: %v", err)
	}
	p.RecordWin(300, 2, 1)
	p.RecordWin(200, 0, 0)
	p.EvaluateAchievements(map[string]float64{gamedata.MetricLevelsCleared: 1})

	reopened, err := OpenProfile(b, ach, sk)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got := reopened.CumulativeScore(); got != 500 {
		t.Errorf("cumulative = %d, want 500", got)
	}
	if got := reopened.BestScore(); got != 300 {
		t.Errorf("best = %d, want 300", got)
	}
	if !reopened.Unlocked("first_exit") {
		t.Error("achievement not persisted")
	}
	if fresh := reopened.EvaluateAchievements(map[string]float64{gamedata.MetricLevelsCleared: 1}); len(fresh) != 0 {
		t.Errorf("re-evaluating unlocked %d achievements again", len(fresh))
	}
}

func TestRecordRunEnd(t *testing.T) {
	p := testProfile(t)
	if !p.RecordRunEnd(100) {
		t.Error("first run should be a best")
	}
	if p.RecordRunEnd(50) {
		t.Error("lower run must not replace the best")
	}
	if p.BestEndlessScore() != 100 {
		t.Errorf("best endless = %d, want 100", p.BestEndlessScore())
	}
}

func TestUnlockSkill(t *testing.T) {
	p := testProfile(t)

	if _, err := p.UnlockSkill("swift_feet"); !errors.Is(err, ErrInsufficientScore) {
		t.Errorf("error = %v, want ErrInsufficientScore", err)
	}
	if _, err := p.UnlockSkill("teleport"); !errors.Is(err, ErrUnknownSkill) {
		t.Errorf("error = %v, want ErrUnknownSkill", err)
	}

	p.RecordWin(1600, 0, 0)
	if _, err := p.UnlockSkill("swift_feet"); err != nil {
		t.Fatalf("UnlockSkill: %v", err)
	}
	if _, err := p.UnlockSkill("swift_feet"); !errors.Is(err, ErrSkillOwned) {
		t.Errorf("error = %v, want ErrSkillOwned", err)
	}
	if _, err := p.UnlockSkill("treasure_sense"); err != nil {
		t.Fatalf("UnlockSkill: %v", err)
	}

	if p.Balance() != 100 {
		t.Errorf("balance = %d, want 100", p.Balance())
	}
	if p.CumulativeScore() != 1600 {
		t.Error("spending must not reduce the cumulative score")
	}
	if math.Abs(p.SpeedMultiplier()-1.2) > 1e-9 || math.Abs(p.ScoreMultiplier()-1.25) > 1e-9 {
		t.Errorf("multipliers = %v, %v", p.SpeedMultiplier(), p.ScoreMultiplier())
	}
}

func TestSessionSkillAppliesToPlayer(t *testing.T) {
	s, events := newTestSession(t, false)
	s.LoadGrid(roomGrid())
	s.Profile().RecordWin(500, 0, 0)

	if err := s.UnlockSkill("swift_feet"); err != nil {
		t.Fatalf("UnlockSkill: %v", err)
	}
	if s.Player().SkillMultiplier != 1.2 {
		t.Errorf("SkillMultiplier = %v, want 1.2", s.Player().SkillMultiplier)
	}
	if count(*events, EventSkillUnlocked) != 1 {
		t.Error("expected a skill event")
	}

	s.LoadGrid(roomGrid())
	if s.Player().SkillMultiplier != 1.2 {
		t.Error("skill should apply to new players")
	}
}
