package gamedata

// SkillEffect names what a permanent skill improves.
type SkillEffect string

const (
	EffectSpeed SkillEffect = "speed"
	EffectScore SkillEffect = "score"
)

// SkillDef defines a permanent upgrade bought with cumulative score.
type SkillDef struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Cost        float64     `json:"cost"`
	Effect      SkillEffect `json:"effect"`
	Multiplier  float64     `json:"multiplier"`
}

// SkillsFile represents the structure of skills.json.
type SkillsFile struct {
	Skills []SkillDef `json:"skills"`
}

// LoadSkills loads skill definitions from the embedded skills.json.
func LoadSkills() ([]SkillDef, error) {
	file, err := Load[SkillsFile]("skills.json")
	if err != nil {
		return nil, err
	}
	return file.Skills, nil
}
