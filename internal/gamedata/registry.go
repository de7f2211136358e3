package gamedata

import "fmt"

// Definition is a data-file entry addressed by a unique ID.
type Definition interface {
	AchievementDef | SkillDef
	DefID() string
}

// DefID returns the achievement ID.
func (d AchievementDef) DefID() string { return d.ID }

// DefID returns the skill ID.
func (d SkillDef) DefID() string { return d.ID }

// Registry holds loaded definitions in file order with lookup by ID.
type Registry[T Definition] struct {
	byID map[string]*T
	all  []T
}

// AchievementRegistry holds loaded achievement definitions.
type AchievementRegistry = Registry[AchievementDef]

// SkillRegistry holds loaded permanent skill definitions.
type SkillRegistry = Registry[SkillDef]

// NewRegistry creates a registry from loaded definitions. A later
// definition with a duplicate ID shadows the earlier one in GetByID.
func NewRegistry[T Definition](defs []T) *Registry[T] {
	r := &Registry[T]{
		byID: make(map[string]*T, len(defs)),
		all:  defs,
	}
	for i := range defs {
		r.byID[defs[i].DefID()] = &defs[i]
	}
	return r
}

// NewAchievementRegistry creates an achievement registry.
func NewAchievementRegistry(defs []AchievementDef) *AchievementRegistry {
	return NewRegistry(defs)
}

// NewSkillRegistry creates a skill registry.
func NewSkillRegistry(defs []SkillDef) *SkillRegistry {
	return NewRegistry(defs)
}

func loadRegistry[T Definition](file string, load func() ([]T, error)) (*Registry[T], error) {
	defs, err := load()
	if err != nil {
		return nil, err
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("no definitions loaded from %s", file)
	}
	return NewRegistry(defs), nil
}

func mustLoad[T Definition](r *Registry[T], err error) *Registry[T] {
	if err != nil {
		panic(err)
	}
	return r
}

// LoadAchievementRegistry loads a registry from the embedded achievements.json.
func LoadAchievementRegistry() (*AchievementRegistry, error) {
	return loadRegistry("achievements.json", LoadAchievements)
}

// MustLoadAchievementRegistry loads a registry, panicking on error.
func MustLoadAchievementRegistry() *AchievementRegistry {
	return mustLoad(LoadAchievementRegistry())
}

// LoadSkillRegistry loads a registry from the embedded skills.json.
func LoadSkillRegistry() (*SkillRegistry, error) {
	return loadRegistry("skills.json", LoadSkills)
}

// MustLoadSkillRegistry loads a registry, panicking on error.
func MustLoadSkillRegistry() *SkillRegistry {
	return mustLoad(LoadSkillRegistry())
}

// GetByID returns the definition with the given ID, or nil if not found.
func (r *Registry[T]) GetByID(id string) *T {
	return r.byID[id]
}

// All returns every definition in file order.
func (r *Registry[T]) All() []T {
	return r.all
}

// Count returns the number of definitions.
func (r *Registry[T]) Count() int {
	return len(r.all)
}
