package game

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/zyedidia/generic/mapset"

	"github.com/samdwyer/labyrinth/internal/gamedata"
	"github.com/samdwyer/labyrinth/internal/store"
)

// Store namespaces used across runs.
const (
	NamespaceScores       = "scores"
	NamespaceAchievements = "achievements"
	NamespaceSkills       = "skills"
	NamespaceSaveGame     = "savegame"
	NamespaceSettings     = "settings"
)

// Keys inside the scores namespace.
const (
	scoreCumulative    = "cumulative"
	scoreSpent         = "spent"
	scoreBest          = "best"
	scoreBestEndless   = "best_endless"
	scoreTotalHearts   = "total_hearts"
	scoreTotalKills    = "total_kills"
	scoreLevelsCleared = "levels_cleared"
)

var (
	ErrUnknownSkill      = errors.New("game: unknown skill")
	ErrSkillOwned        = errors.New("game: skill already unlocked")
	ErrInsufficientScore = errors.New("game: not enough score")
)

// Profile is the cross-run progress of the player: score totals,
// achievements and permanent skills.
type Profile struct {
	scores       *store.Prefs
	achievements *store.Prefs
	skills       *store.Prefs

	achievementDefs *gamedata.AchievementRegistry
	skillDefs       *gamedata.SkillRegistry

	unlocked mapset.Set[string]
	owned    mapset.Set[string]
}

// OpenProfile loads the progress namespaces from the backend.
func OpenProfile(b store.Backend, achievements *gamedata.AchievementRegistry, skills *gamedata.SkillRegistry) (*Profile, error) {
	p := &Profile{
		achievementDefs: achievements,
		skillDefs:       skills,
		unlocked:        mapset.New[string](),
		owned:           mapset.New[string](),
	}

	var err error
	if p.scores, err = store.Open(b, NamespaceScores); err != nil {
		return nil, err
	}
	if p.achievements, err = store.Open(b, NamespaceAchievements); err != nil {
		return nil, err
	}
	if p.skills, err = store.Open(b, NamespaceSkills); err != nil {
		return nil, err
	}

	for _, id := range p.achievements.Keys() {
		if p.achievements.GetBool(id, false) {
			p.unlocked.Put(id)
		}
	}
	for _, id := range p.skills.Keys() {
		if p.skills.GetBool(id, false) && skills.GetByID(id) != nil {
			p.owned.Put(id)
		}
	}
	return p, nil
}

// CumulativeScore is every level score ever earned.
func (p *Profile) CumulativeScore() int { return p.scores.GetInt(scoreCumulative, 0) }

// Balance is the cumulative score not yet spent on skills.
func (p *Profile) Balance() int { return p.CumulativeScore() - p.scores.GetInt(scoreSpent, 0) }

// BestScore is the highest single-level score.
func (p *Profile) BestScore() int { return p.scores.GetInt(scoreBest, 0) }

// BestEndlessScore is the highest endless run score.
func (p *Profile) BestEndlessScore() int { return p.scores.GetInt(scoreBestEndless, 0) }

// RecordWin adds a cleared level to the totals and persists them.
func (p *Profile) RecordWin(levelScore, heartsCollected, kills int) {
	p.scores.PutInt(scoreCumulative, p.CumulativeScore()+levelScore)
	p.scores.PutInt(scoreTotalHearts, p.scores.GetInt(scoreTotalHearts, 0)+heartsCollected)
	p.scores.PutInt(scoreTotalKills, p.scores.GetInt(scoreTotalKills, 0)+kills)
	p.scores.PutInt(scoreLevelsCleared, p.scores.GetInt(scoreLevelsCleared, 0)+1)
	if levelScore > p.BestScore() {
		p.scores.PutInt(scoreBest, levelScore)
	}
	flush(p.scores)
}

// RecordRunEnd keeps the best endless run score. Returns true when it improved.
func (p *Profile) RecordRunEnd(runScore int) bool {
	if runScore <= p.BestEndlessScore() {
		return false
	}
	p.scores.PutInt(scoreBestEndless, runScore)
	flush(p.scores)
	return true
}

// Unlocked reports whether the achievement has been earned.
func (p *Profile) Unlocked(id string) bool { return p.unlocked.Has(id) }

// UnlockedCount returns how many achievements have been earned.
func (p *Profile) UnlockedCount() int { return p.unlocked.Size() }

// EvaluateAchievements unlocks every not-yet-earned achievement whose
// predicate holds and returns the new ones. Each achievement fires once.
func (p *Profile) EvaluateAchievements(metrics map[string]float64) []*gamedata.AchievementDef {
	if _, ok := metrics[gamedata.MetricCumulativeScore]; !ok {
		metrics[gamedata.MetricCumulativeScore] = float64(p.CumulativeScore())
	}

	var fresh []*gamedata.AchievementDef
	all := p.achievementDefs.All()
	for i := range all {
		def := &all[i]
		if p.unlocked.Has(def.ID) || !def.Met(metrics) {
			continue
		}
		p.unlocked.Put(def.ID)
		p.achievements.PutBool(def.ID, true)
		fresh = append(fresh, def)
	}
	if len(fresh) > 0 {
		flush(p.achievements)
	}
	return fresh
}

// OwnsSkill reports whether the skill has been bought.
func (p *Profile) OwnsSkill(id string) bool { return p.owned.Has(id) }

// UnlockSkill spends score on a permanent skill.
func (p *Profile) UnlockSkill(id string) (*gamedata.SkillDef, error) {
	def := p.skillDefs.GetByID(id)
	if def == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSkill, id)
	}
	if p.owned.Has(id) {
		return nil, fmt.Errorf("%w: %s", ErrSkillOwned, id)
	}
	cost := int(def.Cost)
	if p.Balance() < cost {
		return nil, fmt.Errorf("%w: %s costs %d, have %d", ErrInsufficientScore, id, cost, p.Balance())
	}

	p.owned.Put(id)
	p.skills.PutBool(id, true)
	p.scores.PutInt(scoreSpent, p.scores.GetInt(scoreSpent, 0)+cost)
	flush(p.skills, p.scores)
	return def, nil
}

// SpeedMultiplier is the product of every owned speed skill.
func (p *Profile) SpeedMultiplier() float64 { return p.multiplier(gamedata.EffectSpeed) }

// ScoreMultiplier is the product of every owned score skill.
func (p *Profile) ScoreMultiplier() float64 { return p.multiplier(gamedata.EffectScore) }

func (p *Profile) multiplier(effect gamedata.SkillEffect) float64 {
	m := 1.0
	p.owned.Each(func(id string) {
		if def := p.skillDefs.GetByID(id); def != nil && def.Effect == effect {
			m *= def.Multiplier
		}
	})
	return m
}

// flush writes pending changes; failures are logged and not retried.
func flush(prefs ...*store.Prefs) {
	for _, p := range prefs {
		if err := p.Flush(); err != nil {
			log.Error().Err(err).Str("namespace", p.Namespace()).Msg("persist progress")
		}
	}
}
