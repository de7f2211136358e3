package game

import (
	"math"

	"github.com/samdwyer/labyrinth/internal/gamedata"
)

// LevelScore computes the score for a cleared level:
//
//	(collected×HeartValue + max(0, (ParTime−time)×TimeValue) + hearts×RemainingHeartValue) × multiplier
//
// The result is rounded to the nearest integer.
func LevelScore(t gamedata.ScoreTuning, heartsCollected int, timePlayed float64, hearts int, multiplier float64) int {
	base := float64(heartsCollected)*t.HeartValue +
		math.Max(0, (t.ParTime-timePlayed)*t.TimeValue) +
		float64(hearts)*t.RemainingHeartValue
	return int(math.Round(base * multiplier))
}
