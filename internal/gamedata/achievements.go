package gamedata

// Comparison selects how an achievement metric is tested against its threshold.
type Comparison string

const (
	CompareAtLeast Comparison = "gte"
	CompareAtMost  Comparison = "lte"
)

// Metric names understood by achievement predicates.
const (
	MetricLevelScore      = "level_score"
	MetricTimePlayed      = "time_played"
	MetricHeartsRemaining = "hearts_remaining"
	MetricHeartsCollected = "hearts_collected"
	MetricEnemiesKilled   = "enemies_killed"
	MetricLevelsCleared   = "levels_cleared"
	MetricCumulativeScore = "cumulative_score"
)

// AchievementDef defines an unlockable achievement loaded from JSON.
type AchievementDef struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Metric      string     `json:"metric"`
	Comparison  Comparison `json:"comparison"`
	Threshold   float64    `json:"threshold"`
}

// Met reports whether the metrics satisfy the achievement predicate.
// A metric missing from the map never satisfies it.
func (a *AchievementDef) Met(metrics map[string]float64) bool {
	v, ok := metrics[a.Metric]
	if !ok {
		return false
	}
	switch a.Comparison {
	case CompareAtLeast:
		return v >= a.Threshold
	case CompareAtMost:
		return v <= a.Threshold
	default:
		return false
	}
}

// AchievementsFile represents the structure of achievements.json.
type AchievementsFile struct {
	Achievements []AchievementDef `json:"achievements"`
}

// LoadAchievements loads achievement definitions from the embedded achievements.json.
func LoadAchievements() ([]AchievementDef, error) {
	file, err := Load[AchievementsFile]("achievements.json")
	if err != nil {
		return nil, err
	}
	return file.Achievements, nil
}
