package gamedata

// PlayerTuning holds movement and health parameters for the player.
type PlayerTuning struct {
	BaseSpeed        float64 `json:"baseSpeed"`        // tiles per second
	SprintMultiplier float64 `json:"sprintMultiplier"` // applied while sprinting
	BoostMultiplier  float64 `json:"boostMultiplier"`  // applied while a boost is running
	BoostDuration    float64 `json:"boostDuration"`    // seconds
	StartHearts      int     `json:"startHearts"`
	MaxHearts        int     `json:"maxHearts"`
	PainDuration     float64 `json:"painDuration"` // seconds of hurt feedback
	GainDuration     float64 `json:"gainDuration"` // seconds of heal feedback
}

// EnemyTuning holds enemy steering parameters.
type EnemyTuning struct {
	Speed      float64 `json:"speed"`      // tiles per second
	SightRange float64 `json:"sightRange"` // Chebyshev distance in tiles
}

// LevelTuning holds generation and population parameters.
type LevelTuning struct {
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	WallProbability float64 `json:"wallProbability"`
	ExtraTraps      int     `json:"extraTraps"`
	Enemies         int     `json:"enemies"`
	MorphTraps      int     `json:"morphTraps"`
	Keys            int     `json:"keys"`
	Hearts          int     `json:"hearts"`
	Boosts          int     `json:"boosts"`

	// Endless-mode ramp: extra spawns per cleared level (fractions accumulate).
	EnemiesPerLevel float64 `json:"enemiesPerLevel"`
	TrapsPerLevel   float64 `json:"trapsPerLevel"`
}

// ScoreTuning holds the level score formula weights.
type ScoreTuning struct {
	HeartValue          float64 `json:"heartValue"`          // per heart collected this level
	ParTime             float64 `json:"parTime"`             // seconds before the time bonus runs out
	TimeValue           float64 `json:"timeValue"`           // per second under par
	RemainingHeartValue float64 `json:"remainingHeartValue"` // per heart left at the exit
}

// Tuning is the full gameplay configuration loaded from tuning.json.
type Tuning struct {
	Player         PlayerTuning `json:"player"`
	Enemy          EnemyTuning  `json:"enemy"`
	Level          LevelTuning  `json:"level"`
	Proximity      float64      `json:"proximity"`      // pickup/contact box half-size
	MorphSlowdown  float64      `json:"morphSlowdown"`  // speed factor inside a morph trap
	TrapAnimPeriod float64      `json:"trapAnimPeriod"` // seconds per trap animation frame
	Score          ScoreTuning  `json:"score"`
}

// LoadTuning loads the embedded tuning.json.
func LoadTuning() (Tuning, error) {
	return Load[Tuning]("tuning.json")
}

// MustLoadTuning loads the tuning data, panicking on error.
func MustLoadTuning() Tuning {
	return MustLoad[Tuning]("tuning.json")
}
